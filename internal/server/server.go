package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tomlord1122/listsync/internal/database"
)

type Server struct {
	port   int
	db     database.Service
	logger *slog.Logger
}

// NewServer builds the HTTP server for the stub collection API.
func NewServer(dbService database.Service, port int) *http.Server {
	appServer := &Server{
		port:   port,
		db:     dbService,
		logger: slog.Default(),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

// NewHandler returns the routed handler without a listener, for embedding
// in httptest servers.
func NewHandler(dbService database.Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{db: dbService, logger: logger}
	return s.RegisterRoutes()
}
