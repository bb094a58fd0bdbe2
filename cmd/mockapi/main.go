package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/database"
	"github.com/Tomlord1122/listsync/internal/server"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}

	if err := dbService.Close(); err != nil {
		slog.Error("closing store", "err", err)
	}

	slog.Info("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))

	cfg := config.LoadServer()
	dbService := database.New(cfg.Resources)
	apiServer := server.NewServer(dbService, cfg.Port)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	slog.Info("starting stub collection server", "addr", apiServer.Addr, "resources", cfg.Resources)
	err := apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server ListenAndServe error", "err", err)
		os.Exit(1)
	}

	// Wait for the graceful shutdown to complete
	<-done
	slog.Info("graceful shutdown complete")
}
