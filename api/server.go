package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/CreativeUnicorns/configstore"
	"github.com/go-chi/chi/v5"
)

// Form binds a schema key to an admin form. The form is served under the
// lower-cased key, e.g. /api/v1/forms/siteconfig.
type Form struct {
	Key   configstore.Key
	Label string
}

// Server holds the dependencies for the admin HTTP server.
type Server struct {
	store      *configstore.Store
	logger     configstore.Logger
	forms      map[string]Form
	order      []string
	router     *chi.Mux
	httpServer *http.Server
}

// Config holds configuration for the API server.
type Config struct {
	ListenAddress string
	Store         *configstore.Store
	Logger        configstore.Logger
	Forms         []Form
}

// NewServer creates and configures a new API server instance.
// Every form must use a schema key and form paths must be unique.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = configstore.NewDefaultLogger()
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}

	s := &Server{
		store:  cfg.Store,
		logger: cfg.Logger,
		forms:  make(map[string]Form, len(cfg.Forms)),
		router: chi.NewRouter(),
	}

	for _, f := range cfg.Forms {
		if !f.Key.IsSchema() {
			return nil, fmt.Errorf("form %q: %w: forms need a schema key", f.Key, configstore.ErrInvalidKey)
		}
		path := f.Key.Path()
		if _, dup := s.forms[path]; dup {
			return nil, fmt.Errorf("form %q registered twice", path)
		}
		if f.Label == "" {
			f.Label = f.Key.String()
		}
		s.forms[path] = f
		s.order = append(s.order, path)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Router exposes the router so callers can mount extra routes before Start.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server and blocks until it is shut down.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("API server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped gracefully")
	return nil
}
