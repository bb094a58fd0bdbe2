package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/listsync/internal/database"
)

type ctxKey struct{}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.indexHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/{resource}", func(r chi.Router) {
		r.Use(s.collectionCtx)
		r.Post("/", s.createHandler)
		r.Get("/", s.listHandler)
		r.Get("/{id}", s.getByIDHandler)
		r.Put("/{id}", s.updateHandler)
		r.Delete("/{id}", s.deleteHandler)
	})

	return r
}

// accessLog writes one line per request with the captured status and latency.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"duration", m.Duration,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// collectionCtx resolves the {resource} segment to a collection or 404s.
func (s *Server) collectionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "resource")
		c, ok := s.db.Collection(name)
		if !ok {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown resource %q", name))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c)))
	})
}

func collectionFrom(r *http.Request) *database.Collection {
	return r.Context().Value(ctxKey{}).(*database.Collection)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":   "listsync stub collection server",
		"resources": s.db.Names(),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusCreated, collectionFrom(r).Create(doc))
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, collectionFrom(r).GetAll())
}

func (s *Server) getByIDHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := collectionFrom(r).FindByID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	patch, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	doc, err := collectionFrom(r).Update(chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := collectionFrom(r).Delete(chi.URLParam(r, "id")); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeDocument reads a JSON object body, answering 400 itself when the
// body is unusable.
func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (database.Document, bool) {
	var doc database.Document
	err := json.NewDecoder(r.Body).Decode(&doc)
	if err == nil && doc == nil {
		respondWithError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		case errors.Is(err, io.ErrUnexpectedEOF):
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			respondWithError(w, http.StatusBadRequest, "Request body must be a JSON object")
		case errors.Is(err, io.EOF):
			respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
		default:
			s.logger.Error("decoding request body", "err", err)
			respondWithError(w, http.StatusInternalServerError, "Error processing request")
		}
		return nil, false
	}
	return doc, true
}

func (s *Server) respondWithStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrRecordNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("store operation failed", "err", err)
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshaling JSON response", "err", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
