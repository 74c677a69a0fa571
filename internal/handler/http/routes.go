package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// sync surface, JWT required
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/sync/batch", h.syncBatch)
		r.Get("/api/sync/delta/{since}", h.syncDelta)
		r.Get("/api/sync/status", h.syncStatus)
		r.Post("/api/sync/resolve-conflict/{id}", h.resolveConflict)

		r.Get("/api/version", h.getServerVersion)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
