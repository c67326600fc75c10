package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"eventxplore/internal/lib/api/response"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/middleware/bearer"
	"eventxplore/internal/stubserver/storage/sqlite"
)

type Registrar interface {
	RegisterForEvent(eventID, userID, regID, now string) (models.Registration, error)
}

type RegistrationLister interface {
	RegistrationsByUser(userID string) ([]models.Registration, error)
}

type RegistrationCanceller interface {
	CancelRegistration(regID, userID string) (models.Registration, error)
}

func RegisterForEvent(log *slog.Logger, regs Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterForEvent"

		log := log.With(slog.String("op", op))

		claims, ok := bearer.Claims(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing bearer token"))

			return
		}

		eventID := chi.URLParam(r, "id")
		now := time.Now().UTC().Format(time.RFC3339)

		reg, err := regs.RegisterForEvent(eventID, claims.UserID, uuid.NewString(), now)
		if err != nil {
			switch {
			case errors.Is(err, sqlite.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, sqlite.ErrRegistrationsClosed):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("registrations are closed for this event"))
			case errors.Is(err, sqlite.ErrSoldOut):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is sold out"))
			case errors.Is(err, sqlite.ErrAlreadyRegistered):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("you are already registered for this event"))
			default:
				log.Error("failed to register", sl.Err(err), slog.String("event_id", eventID))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to register"))
			}

			return
		}

		log.Info("registration created",
			slog.String("registration_id", reg.ID),
			slog.String("event_id", eventID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, reg)
	}
}

func MyRegistrations(log *slog.Logger, regs RegistrationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyRegistrations"

		log := log.With(slog.String("op", op))

		claims, ok := bearer.Claims(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing bearer token"))

			return
		}

		list, err := regs.RegistrationsByUser(claims.UserID)
		if err != nil {
			log.Error("failed to list registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list registrations"))

			return
		}

		if list == nil {
			list = []models.Registration{}
		}

		render.JSON(w, r, list)
	}
}

func CancelRegistration(log *slog.Logger, regs RegistrationCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelRegistration"

		log := log.With(slog.String("op", op))

		claims, ok := bearer.Claims(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing bearer token"))

			return
		}

		regID := chi.URLParam(r, "id")

		reg, err := regs.CancelRegistration(regID, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, sqlite.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("registration not found"))
			case errors.Is(err, sqlite.ErrNotOwner):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("not your registration"))
			case errors.Is(err, sqlite.ErrNotConfirmed):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("registration cannot be cancelled"))
			default:
				log.Error("failed to cancel registration", sl.Err(err), slog.String("registration_id", regID))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel registration"))
			}

			return
		}

		log.Info("registration cancelled", slog.String("registration_id", reg.ID))

		render.JSON(w, r, reg)
	}
}
