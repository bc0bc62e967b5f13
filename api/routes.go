package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		// Raw rows of the configuration table.
		r.Route("/configs", func(r chi.Router) {
			r.Get("/", s.handleListConfigs)
			r.Get("/{key}", s.handleGetConfig)
			r.Put("/{key}", s.handlePutConfig)
			r.Patch("/{key}", s.handleDescribeConfig)
		})

		// Typed forms bound to schema keys.
		r.Route("/forms", func(r chi.Router) {
			r.Get("/", s.handleListForms)
			r.Get("/{path}", s.handleGetForm)
			r.Post("/{path}", s.handleSubmitForm)
		})
	})
}
