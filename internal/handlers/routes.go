package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes returns the router serving the todo API.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/healthz", h.Health)

	// Todo API routes
	r.Post("/create", h.Create)
	r.Post("/read", h.Read)
	r.Get("/read", h.Read)
	r.Post("/update", h.Update)
	r.Post("/delete", h.Delete)

	// Function names used by older clients
	r.Post("/public_create_endpoint", h.Create)
	r.Post("/public_read_endpoint", h.Read)
	r.Post("/public_update_endpoint", h.Update)
	r.Post("/public_delete_endpoint", h.Delete)

	return r
}
