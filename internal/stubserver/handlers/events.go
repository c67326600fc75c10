package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"eventxplore/internal/eventfilter"
	"eventxplore/internal/lib/api/response"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/middleware/bearer"
	"eventxplore/internal/stubserver/storage/sqlite"
	"eventxplore/internal/stubserver/token"
)

type PublishedLister interface {
	ListPublished() ([]models.Event, error)
}

type EventGetter interface {
	EventByID(id string) (models.Event, error)
}

type OrganizerLister interface {
	ListByOrganizer(organizerID string) ([]models.Event, error)
}

type EventSaver interface {
	SaveEvent(e models.Event) error
	UserByID(id string) (models.User, error)
}

type EventUpdater interface {
	EventByID(id string) (models.Event, error)
	UpdateEvent(e models.Event) error
}

type EventPublisher interface {
	EventByID(id string) (models.Event, error)
	PublishEvent(id, now string) (models.Event, error)
}

type RegistrationsToggler interface {
	EventByID(id string) (models.Event, error)
	ToggleRegistrations(id, now string) (models.Event, error)
}

// ListEvents serves the browse query. It applies the exact same
// predicates the client re-applies locally, so double-filtering is a
// no-op by construction; the date range is evaluated only here.
func ListEvents(log *slog.Logger, events PublishedLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListEvents"

		log := log.With(slog.String("op", op))

		filters := filtersFromQuery(r)

		all, err := events.ListPublished()
		if err != nil {
			log.Error("failed to list events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list events"))

			return
		}

		matched := make([]models.Event, 0, len(all))
		for _, e := range all {
			if eventfilter.Matches(e, filters) && inDateRange(e, filters) {
				matched = append(matched, e)
			}
		}

		log.Info("events listed", slog.Int("count", len(matched)))

		render.JSON(w, r, matched)
	}
}

func filtersFromQuery(r *http.Request) models.EventFilters {
	q := r.URL.Query()

	isFree, _ := strconv.ParseBool(q.Get("isFree"))

	return models.EventFilters{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		City:      q.Get("city"),
		State:     q.Get("state"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		IsFree:    isFree,
	}
}

// inDateRange compares YYYY-MM-DD strings, which order lexically.
func inDateRange(e models.Event, f models.EventFilters) bool {
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}

	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}

	return true
}

func GetEvent(log *slog.Logger, events EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetEvent"

		log := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")

		event, err := events.EventByID(id)
		if err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))

				return
			}

			log.Error("failed to get event", sl.Err(err), slog.String("event_id", id))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get event"))

			return
		}

		render.JSON(w, r, event)
	}
}

func OrganizerEvents(log *slog.Logger, events OrganizerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrganizerEvents"

		log := log.With(slog.String("op", op))

		claims, ok := organizerClaims(w, r)
		if !ok {
			return
		}

		list, err := events.ListByOrganizer(claims.UserID)
		if err != nil {
			log.Error("failed to list organizer events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list events"))

			return
		}

		if list == nil {
			list = []models.Event{}
		}

		render.JSON(w, r, list)
	}
}

type createEventRequest struct {
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description" validate:"required"`
	ShortDescription     string   `json:"shortDescription"`
	Category             string   `json:"category" validate:"required"`
	Date                 string   `json:"date" validate:"required"`
	Time                 string   `json:"time" validate:"required"`
	EndDate              string   `json:"endDate"`
	EndTime              string   `json:"endTime"`
	Location             string   `json:"location" validate:"required"`
	City                 string   `json:"city" validate:"required"`
	State                string   `json:"state" validate:"required"`
	Address              string   `json:"address"`
	ImageURL             string   `json:"imageUrl"`
	Capacity             int      `json:"capacity" validate:"gt=0"`
	Price                float64  `json:"price"`
	IsFree               bool     `json:"isFree"`
	Status               string   `json:"status" validate:"omitempty,oneof=draft published"`
	RegistrationDeadline string   `json:"registrationDeadline"`
	Tags                 []string `json:"tags"`
}

func CreateEvent(log *slog.Logger, events EventSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateEvent"

		log := log.With(slog.String("op", op))

		claims, ok := organizerClaims(w, r)
		if !ok {
			return
		}

		var req createEventRequest

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

		organizer, err := events.UserByID(claims.UserID)
		if err != nil {
			log.Error("failed to get organizer", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create event"))

			return
		}

		status := models.EventStatus(req.Status)
		if status == "" {
			status = models.EventDraft
		}

		now := time.Now().UTC().Format(time.RFC3339)

		event := models.Event{
			ID:                   uuid.NewString(),
			Title:                req.Title,
			Description:          req.Description,
			ShortDescription:     req.ShortDescription,
			Category:             req.Category,
			Date:                 req.Date,
			Time:                 req.Time,
			EndDate:              req.EndDate,
			EndTime:              req.EndTime,
			Location:             req.Location,
			City:                 req.City,
			State:                req.State,
			Address:              req.Address,
			ImageURL:             req.ImageURL,
			Capacity:             req.Capacity,
			Price:                req.Price,
			IsFree:               req.IsFree,
			Status:               status,
			RegistrationsOpen:    status == models.EventPublished,
			RegistrationDeadline: req.RegistrationDeadline,
			OrganizerID:          organizer.ID,
			OrganizerName:        organizer.Name,
			Tags:                 req.Tags,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		if err := events.SaveEvent(event); err != nil {
			log.Error("failed to save event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create event"))

			return
		}

		log.Info("event created", slog.String("event_id", event.ID), slog.String("status", string(status)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, event)
	}
}

type updateEventRequest struct {
	Title                *string   `json:"title"`
	Description          *string   `json:"description"`
	ShortDescription     *string   `json:"shortDescription"`
	Category             *string   `json:"category"`
	Date                 *string   `json:"date"`
	Time                 *string   `json:"time"`
	EndDate              *string   `json:"endDate"`
	EndTime              *string   `json:"endTime"`
	Location             *string   `json:"location"`
	City                 *string   `json:"city"`
	State                *string   `json:"state"`
	Address              *string   `json:"address"`
	ImageURL             *string   `json:"imageUrl"`
	Capacity             *int      `json:"capacity"`
	Price                *float64  `json:"price"`
	IsFree               *bool     `json:"isFree"`
	Status               *string   `json:"status" validate:"omitempty,oneof=draft published closed finished"`
	RegistrationDeadline *string   `json:"registrationDeadline"`
	Tags                 *[]string `json:"tags"`
}

func UpdateEvent(log *slog.Logger, events EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateEvent"

		log := log.With(slog.String("op", op))

		claims, ok := organizerClaims(w, r)
		if !ok {
			return
		}

		event, ok := ownedEvent(w, r, log, events.EventByID, claims)
		if !ok {
			return
		}

		var req updateEventRequest

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

		applyPatch(&event, req)

		if event.Capacity < event.RegisteredCount {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("capacity cannot drop below registered count"))

			return
		}

		event.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

		if err := events.UpdateEvent(event); err != nil {
			log.Error("failed to update event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))

			return
		}

		log.Info("event updated", slog.String("event_id", event.ID))

		render.JSON(w, r, event)
	}
}

func applyPatch(e *models.Event, req updateEventRequest) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&e.Title, req.Title)
	setStr(&e.Description, req.Description)
	setStr(&e.ShortDescription, req.ShortDescription)
	setStr(&e.Category, req.Category)
	setStr(&e.Date, req.Date)
	setStr(&e.Time, req.Time)
	setStr(&e.EndDate, req.EndDate)
	setStr(&e.EndTime, req.EndTime)
	setStr(&e.Location, req.Location)
	setStr(&e.City, req.City)
	setStr(&e.State, req.State)
	setStr(&e.Address, req.Address)
	setStr(&e.ImageURL, req.ImageURL)
	setStr(&e.RegistrationDeadline, req.RegistrationDeadline)

	if req.Capacity != nil {
		e.Capacity = *req.Capacity
	}
	if req.Price != nil {
		e.Price = *req.Price
	}
	if req.IsFree != nil {
		e.IsFree = *req.IsFree
	}
	if req.Status != nil {
		e.Status = models.EventStatus(*req.Status)
	}
	if req.Tags != nil {
		e.Tags = *req.Tags
	}
}

func PublishEvent(log *slog.Logger, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PublishEvent"

		log := log.With(slog.String("op", op))

		claims, ok := organizerClaims(w, r)
		if !ok {
			return
		}

		event, ok := ownedEvent(w, r, log, events.EventByID, claims)
		if !ok {
			return
		}

		now := time.Now().UTC().Format(time.RFC3339)

		published, err := events.PublishEvent(event.ID, now)
		if err != nil {
			// the event exists, so a miss means it is not a draft
			if errors.Is(err, sqlite.ErrNotFound) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("only draft events can be published"))

				return
			}

			log.Error("failed to publish event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to publish event"))

			return
		}

		log.Info("event published", slog.String("event_id", event.ID))

		render.JSON(w, r, published)
	}
}

func ToggleRegistrations(log *slog.Logger, events RegistrationsToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ToggleRegistrations"

		log := log.With(slog.String("op", op))

		claims, ok := organizerClaims(w, r)
		if !ok {
			return
		}

		event, ok := ownedEvent(w, r, log, events.EventByID, claims)
		if !ok {
			return
		}

		now := time.Now().UTC().Format(time.RFC3339)

		toggled, err := events.ToggleRegistrations(event.ID, now)
		if err != nil {
			log.Error("failed to toggle registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to toggle registrations"))

			return
		}

		log.Info("registrations toggled",
			slog.String("event_id", event.ID),
			slog.Bool("open", toggled.RegistrationsOpen),
		)

		render.JSON(w, r, toggled)
	}
}

func organizerClaims(w http.ResponseWriter, r *http.Request) (*token.Claims, bool) {
	claims, ok := bearer.Claims(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing bearer token"))

		return nil, false
	}

	if claims.Role != string(models.RoleOrganizer) {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("organizer role required"))

		return nil, false
	}

	return claims, true
}

func ownedEvent(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	byID func(id string) (models.Event, error),
	claims *token.Claims,
) (models.Event, bool) {
	id := chi.URLParam(r, "id")

	event, err := byID(id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))

			return models.Event{}, false
		}

		log.Error("failed to get event", sl.Err(err), slog.String("event_id", id))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get event"))

		return models.Event{}, false
	}

	if event.OrganizerID != claims.UserID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("not your event"))

		return models.Event{}, false
	}

	return event, true
}
