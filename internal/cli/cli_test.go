package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventxplore/internal/api"
	"eventxplore/internal/lib/logger/handlers/slogdiscard"
	"eventxplore/internal/models"
	"eventxplore/internal/session"
)

type memTokens struct {
	token string
}

func (m *memTokens) Token() (string, error) { return m.token, nil }
func (m *memTokens) Save(tok string) error  { m.token = tok; return nil }
func (m *memTokens) Clear() error           { m.token = ""; return nil }

func newTestApp(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slogdiscard.NewDiscardLogger()
	tokens := &memTokens{}
	client := api.New(log, srv.URL, 5*time.Second, tokens)
	sess := session.New(log, client, tokens)

	var buf bytes.Buffer
	app := New(log, client, sess)
	app.out = &buf

	return app, &buf
}

func TestRunDispatch(t *testing.T) {
	t.Parallel()

	t.Run("No arguments print usage", func(t *testing.T) {
		t.Parallel()

		app, buf := newTestApp(t, http.NotFoundHandler())

		require.NoError(t, app.Run(context.Background(), nil))
		assert.Contains(t, buf.String(), "Usage:")
	})

	t.Run("Unknown command points at help", func(t *testing.T) {
		t.Parallel()

		app, _ := newTestApp(t, http.NotFoundHandler())

		err := app.Run(context.Background(), []string{"frobnicate"})
		require.Error(t, err)
		assert.ErrorContains(t, err, `unknown command "frobnicate"`)
	})

	t.Run("Whoami while anonymous", func(t *testing.T) {
		t.Parallel()

		app, buf := newTestApp(t, http.NotFoundHandler())

		require.NoError(t, app.Run(context.Background(), []string{"whoami"}))
		assert.Contains(t, buf.String(), "Not logged in.")
	})
}

func TestEventsCommand(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, []models.Event{
			{
				ID:       "e-1",
				Title:    "Tech Summit",
				Category: "Tecnologia",
				City:     "São Paulo",
				State:    "SP",
				Date:     "2099-06-15",
				Capacity: 100,
				IsFree:   true,
				Status:   models.EventPublished,
			},
		})
	})

	app, buf := newTestApp(t, handler)

	require.NoError(t, app.Run(context.Background(), []string{"events", "--search", "tech"}))

	out := buf.String()
	assert.Contains(t, out, "Tech Summit")
	assert.Contains(t, out, "FREE")
}

func TestEventsCommandRefiltersLocally(t *testing.T) {
	t.Parallel()

	// a sloppy boundary that ignores the query string entirely
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, []models.Event{
			{ID: "e-1", Title: "Tech Summit", Status: models.EventPublished, Capacity: 10},
			{ID: "e-2", Title: "Music Fest", Status: models.EventPublished, Capacity: 10},
		})
	})

	app, buf := newTestApp(t, handler)

	require.NoError(t, app.Run(context.Background(), []string{"events", "--search", "tech"}))

	out := buf.String()
	assert.Contains(t, out, "Tech Summit")
	assert.NotContains(t, out, "Music Fest")
}

func TestJoinRequiresLogin(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, http.NotFoundHandler())

	err := app.Run(context.Background(), []string{"join", "e-1"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "not logged in")
}

func TestOrganizerRequiresRole(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, models.AuthResponse{
			User:  models.User{ID: "u-1", Name: "Alice", Role: models.RoleUser},
			Token: "tok",
		})
	})

	app, _ := newTestApp(t, handler)

	require.NoError(t, app.Run(context.Background(), []string{"login", "--email", "a@b.c", "--password", "pw"}))

	err := app.Run(context.Background(), []string{"organizer", "events"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "organizer account")
}

func TestRegisterValidatesBeforeSending(t *testing.T) {
	t.Parallel()

	var hits int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	})

	app, _ := newTestApp(t, handler)

	err := app.Run(context.Background(), []string{
		"register", "--name", "Alice", "--email", "not-an-email", "--password", "secret1",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "email")
	assert.Zero(t, hits, "invalid input must never reach the wire")
}

func TestGuardErr(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, guardErr(session.ErrLoginRequired), `you are not logged in, run "xe login" first`)
	assert.EqualError(t, guardErr(session.ErrForbidden), "this command requires an organizer account")

	plain := errors.New("boom")
	assert.Same(t, plain, guardErr(plain))
}

func TestValidationErr(t *testing.T) {
	t.Parallel()

	err := validator.New().Struct(api.RegisterRequest{})
	require.Error(t, err)

	translated := validationErr(err)
	assert.ErrorContains(t, translated, "required")
}
