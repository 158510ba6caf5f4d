// Package server implements the knaptrace HTTP API.
//
// The server exposes the solve pipeline and the report store over REST:
//
//	GET    /healthz                      liveness probe
//	POST   /api/v1/solve                 solve a submitted problem
//	GET    /api/v1/reports               list stored report summaries
//	GET    /api/v1/reports/{id}          fetch one report
//	DELETE /api/v1/reports/{id}          delete one report
//	GET    /api/v1/reports/{id}/render   render a stored report (?format=svg)
//
// Solved reports are persisted to the configured store, so any report
// can later be fetched or re-rendered without solving again. Errors are
// returned as JSON bodies carrying the machine-readable codes from
// [github.com/knaptrace/knaptrace/pkg/errors].
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/knaptrace/knaptrace/pkg/pipeline"
	"github.com/knaptrace/knaptrace/pkg/store"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultMaxItems caps submitted problem sizes. The search visits up
	// to 2^(n+1) nodes, so 20 items already means around two million.
	DefaultMaxItems = 20

	// maxBodyBytes limits request bodies. Problem documents are tiny;
	// anything near this size is not a problem file.
	maxBodyBytes = 1 << 20

	// shutdownTimeout bounds graceful shutdown on context cancellation.
	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address. Defaults to [DefaultAddr].
	Addr string

	// Store persists solved reports. Defaults to an in-memory store.
	Store store.Store

	// Runner executes solves and renders. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request and lifecycle logs. Defaults to log.Default.
	Logger *log.Logger

	// MaxItems caps submitted problem sizes. Zero means [DefaultMaxItems];
	// a negative value disables the cap.
	MaxItems int
}

// Server is the knaptrace HTTP API server.
type Server struct {
	addr     string
	store    store.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	maxItems int
}

// New creates a server from cfg, applying defaults for unset fields.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	maxItems := cfg.MaxItems
	switch {
	case maxItems == 0:
		maxItems = DefaultMaxItems
	case maxItems < 0:
		maxItems = 0
	}
	return &Server{
		addr:     cfg.Addr,
		store:    cfg.Store,
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		maxItems: maxItems,
	}
}

// Router builds the HTTP handler with all middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Get("/{id}", s.handleGetReport)
			r.Delete("/{id}", s.handleDeleteReport)
			r.Get("/{id}/render", s.handleRenderReport)
		})
	})
	return r
}

// Start runs the server until ctx is canceled, then shuts down
// gracefully. The listen error is returned for anything other than a
// clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
