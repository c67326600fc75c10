// Package api is the client for the event platform's REST boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/models"
)

// TokenSource yields the current bearer token, or "" when there is none.
// It is consulted immediately before every request, never cached, so a
// login or logout between two calls always takes effect.
type TokenSource interface {
	Token() (string, error)
}

// Error is a non-2xx reply from the boundary. Message is the body's
// "message" field when one was parseable, otherwise a generic text
// carrying the HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	log     *slog.Logger
}

func New(log *slog.Logger, baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", body, &out)

	return out, err
}

// RegisterRequest is the sign-up payload. City is optional.
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	City     string          `json:"city,omitempty"`
	Role     models.UserRole `json:"role" validate:"required,oneof=user organizer"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &out)

	return out, err
}

func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out)

	return out, err
}

// Events fetches published events. Active filters go on the query string;
// callers re-apply them locally via eventfilter after the response lands.
func (c *Client) Events(ctx context.Context, filters models.EventFilters) ([]models.Event, error) {
	path := "/events"
	if q := filterQuery(filters); q != "" {
		path += "?" + q
	}

	var out []models.Event
	err := c.do(ctx, http.MethodGet, path, nil, &out)

	return out, err
}

func (c *Client) Event(ctx context.Context, id string) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, &out)

	return out, err
}

func (c *Client) OrganizerEvents(ctx context.Context) ([]models.Event, error) {
	var out []models.Event
	err := c.do(ctx, http.MethodGet, "/events/organizer", nil, &out)

	return out, err
}

// EventInput is the organizer-side create/update payload.
type EventInput struct {
	Title                string             `json:"title" validate:"required"`
	Description          string             `json:"description" validate:"required"`
	ShortDescription     string             `json:"shortDescription,omitempty"`
	Category             string             `json:"category" validate:"required"`
	Date                 string             `json:"date" validate:"required"`
	Time                 string             `json:"time" validate:"required"`
	EndDate              string             `json:"endDate,omitempty"`
	EndTime              string             `json:"endTime,omitempty"`
	Location             string             `json:"location" validate:"required"`
	City                 string             `json:"city" validate:"required"`
	State                string             `json:"state" validate:"required"`
	Address              string             `json:"address,omitempty"`
	ImageURL             string             `json:"imageUrl,omitempty"`
	Capacity             int                `json:"capacity" validate:"gt=0"`
	Price                float64            `json:"price,omitempty"`
	IsFree               bool               `json:"isFree"`
	Status               models.EventStatus `json:"status" validate:"required,oneof=draft published"`
	RegistrationDeadline string             `json:"registrationDeadline,omitempty"`
	Tags                 []string           `json:"tags,omitempty"`
}

func (c *Client) CreateEvent(ctx context.Context, input EventInput) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodPost, "/events", input, &out)

	return out, err
}

// EventPatch is a partial update: nil fields are left untouched by the
// boundary.
type EventPatch struct {
	Title                *string   `json:"title,omitempty"`
	Description          *string   `json:"description,omitempty"`
	ShortDescription     *string   `json:"shortDescription,omitempty"`
	Category             *string   `json:"category,omitempty"`
	Date                 *string   `json:"date,omitempty"`
	Time                 *string   `json:"time,omitempty"`
	EndDate              *string   `json:"endDate,omitempty"`
	EndTime              *string   `json:"endTime,omitempty"`
	Location             *string   `json:"location,omitempty"`
	City                 *string   `json:"city,omitempty"`
	State                *string   `json:"state,omitempty"`
	Address              *string   `json:"address,omitempty"`
	ImageURL             *string   `json:"imageUrl,omitempty"`
	Capacity             *int      `json:"capacity,omitempty"`
	Price                *float64  `json:"price,omitempty"`
	IsFree               *bool     `json:"isFree,omitempty"`
	Status               *string   `json:"status,omitempty"`
	RegistrationDeadline *string   `json:"registrationDeadline,omitempty"`
	Tags                 *[]string `json:"tags,omitempty"`
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch EventPatch) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodPatch, "/events/"+url.PathEscape(id), patch, &out)

	return out, err
}

func (c *Client) PublishEvent(ctx context.Context, id string) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodPatch, "/events/"+url.PathEscape(id)+"/publish", nil, &out)

	return out, err
}

// ToggleRegistrations flips the event between accepting and refusing new
// registrations.
func (c *Client) ToggleRegistrations(ctx context.Context, id string) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodPatch, "/events/"+url.PathEscape(id)+"/registrations", nil, &out)

	return out, err
}

func (c *Client) RegisterForEvent(ctx context.Context, eventID string) (models.Registration, error) {
	var out models.Registration
	err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/register", nil, &out)

	return out, err
}

func (c *Client) MyRegistrations(ctx context.Context) ([]models.Registration, error) {
	var out []models.Registration
	err := c.do(ctx, http.MethodGet, "/registrations", nil, &out)

	return out, err
}

func (c *Client) CancelRegistration(ctx context.Context, registrationID string) (models.Registration, error) {
	var out models.Registration
	err := c.do(ctx, http.MethodPatch, "/registrations/"+url.PathEscape(registrationID)+"/cancel", nil, &out)

	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "api.Client.do"

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		c.log.Warn("token unavailable, sending unauthenticated", sl.Err(err))
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}

	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		msg = body.Message
	}

	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	return &Error{Status: resp.StatusCode, Message: msg}
}

func filterQuery(f models.EventFilters) string {
	params := url.Values{}

	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}

	set("search", f.Search)
	set("category", f.Category)
	set("city", f.City)
	set("state", f.State)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)

	if f.IsFree {
		params.Set("isFree", strconv.FormatBool(f.IsFree))
	}

	return params.Encode()
}
