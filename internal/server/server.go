// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes documents and uploads over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/drivenote/internal/auth"
	"github.com/pdiddy/drivenote/internal/docsync"
	"github.com/pdiddy/drivenote/internal/store"
	"github.com/pdiddy/drivenote/pkg/types"
)

// DocumentStore is the record store behind the document routes.
type DocumentStore interface {
	Create(ctx context.Context, userID, title, content string, isDraft bool) (types.Document, error)
	GetForUser(ctx context.Context, id, userID string) (types.Document, error)
	List(ctx context.Context, userID string) ([]types.Document, error)
	Update(ctx context.Context, id, userID string, p store.Patch) (types.Document, error)
}

// Syncer uploads and deletes documents.
type Syncer interface {
	Upload(ctx context.Context, docID, cred string) (docsync.Result, error)
	Delete(ctx context.Context, docID, userID, cred string) error
}

// Server holds the HTTP handlers.
type Server struct {
	docs   DocumentStore
	sync   Syncer
	secret []byte
	log    *slog.Logger
}

// New returns a Server. secret verifies bearer tokens.
func New(docs DocumentStore, syncer Syncer, secret []byte, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{docs: docs, sync: syncer, secret: secret, log: log}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(auth.Middleware(s.secret))
		r.Post("/create", s.handleCreate)
		r.Post("/upload/{id}", s.handleUpload)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg types.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// userID is only called behind auth.Middleware.
func userID(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}

// syncStatus maps an upload failure to an HTTP status.
func syncStatus(err error) int {
	switch docsync.KindOf(err) {
	case docsync.KindAuthentication:
		return http.StatusUnauthorized
	case docsync.KindNotFound:
		return http.StatusNotFound
	case docsync.KindRemoteAPI:
		return http.StatusBadGateway
	case docsync.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
