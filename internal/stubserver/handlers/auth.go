package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventxplore/internal/lib/api/response"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/middleware/bearer"
	"eventxplore/internal/stubserver/storage/sqlite"
	"eventxplore/internal/stubserver/token"
)

type UserGetter interface {
	UserByEmail(email string) (models.User, string, error)
}

type UserCreator interface {
	CreateUser(u models.User, passwordHash string) error
}

type UserByIDGetter interface {
	UserByID(id string) (models.User, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(log *slog.Logger, users UserGetter, issuer token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.Login"

		log := log.With(slog.String("op", op))

		var req loginRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		user, hash, err := users.UserByEmail(req.Email)
		if err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid email or password"))

				return
			}

			log.Error("failed to get user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to log in"))

			return
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))

			return
		}

		tok, err := issuer.Issue(user)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to log in"))

			return
		}

		log.Info("user logged in", slog.String("user_id", user.ID))

		render.JSON(w, r, models.AuthResponse{User: user, Token: tok})
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	City     string `json:"city"`
	Role     string `json:"role" validate:"required,oneof=user organizer"`
}

func Register(log *slog.Logger, users UserCreator, issuer token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.Register"

		log := log.With(slog.String("op", op))

		var req registerRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to hash password", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register"))

			return
		}

		user := models.User{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Email:     req.Email,
			City:      req.City,
			Role:      models.UserRole(req.Role),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}

		if err := users.CreateUser(user, string(hash)); err != nil {
			if errors.Is(err, sqlite.ErrEmailTaken) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("email already registered"))

				return
			}

			log.Error("failed to create user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register"))

			return
		}

		tok, err := issuer.Issue(user)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register"))

			return
		}

		log.Info("user registered", slog.String("user_id", user.ID), slog.String("role", req.Role))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, models.AuthResponse{User: user, Token: tok})
	}
}

func Profile(log *slog.Logger, users UserByIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.Profile"

		log := log.With(slog.String("op", op))

		claims, ok := bearer.Claims(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing bearer token"))

			return
		}

		user, err := users.UserByID(claims.UserID)
		if err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))

				return
			}

			log.Error("failed to get user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load profile"))

			return
		}

		render.JSON(w, r, user)
	}
}
