// Package stubserver is a self-contained local implementation of the
// event platform's REST boundary, used for development and integration
// tests. It speaks the exact wire contract the client expects, including
// the {message} failure envelope.
package stubserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventxplore/internal/stubserver/handlers"
	"eventxplore/internal/stubserver/middleware/bearer"
	"eventxplore/internal/stubserver/middleware/mwlogger"
	"eventxplore/internal/stubserver/middleware/ratelimit"
	"eventxplore/internal/stubserver/storage/sqlite"
	"eventxplore/internal/stubserver/token"
)

type Options struct {
	Issuer    token.Issuer
	AuthRPS   float64
	AuthBurst int
}

func NewRouter(log *slog.Logger, storage *sqlite.Storage, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// credential endpoints get a per-IP limiter
	router.Group(func(r chi.Router) {
		r.Use(ratelimit.New(ratelimit.NewLimiter(opts.AuthRPS, opts.AuthBurst)))

		r.Post("/auth/login", handlers.Login(log, storage, opts.Issuer))
		r.Post("/auth/register", handlers.Register(log, storage, opts.Issuer))
	})

	router.Get("/events", handlers.ListEvents(log, storage))
	router.Get("/events/{id}", handlers.GetEvent(log, storage))

	router.Group(func(r chi.Router) {
		r.Use(bearer.New(log, opts.Issuer))

		r.Get("/auth/profile", handlers.Profile(log, storage))

		r.Get("/events/organizer", handlers.OrganizerEvents(log, storage))
		r.Post("/events", handlers.CreateEvent(log, storage))
		r.Patch("/events/{id}", handlers.UpdateEvent(log, storage))
		r.Patch("/events/{id}/publish", handlers.PublishEvent(log, storage))
		r.Patch("/events/{id}/registrations", handlers.ToggleRegistrations(log, storage))

		r.Post("/events/{id}/register", handlers.RegisterForEvent(log, storage))
		r.Get("/registrations", handlers.MyRegistrations(log, storage))
		r.Patch("/registrations/{id}/cancel", handlers.CancelRegistration(log, storage))
	})

	return router
}
