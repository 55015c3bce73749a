package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
	})

	// vault and ledger routes require a bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/vault/profile", h.getProfile)
		r.Put("/api/vault/profile", h.putProfile)

		r.Get("/api/ledger/records", h.listRecords)
		r.With(h.recordsHashing).Post("/api/ledger/records", h.uploadRecords)
		r.Delete("/api/ledger/records/{recordUID}", h.deleteRecord)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
