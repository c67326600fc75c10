package sqlite_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/storage/sqlite"
)

func newStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newUser(role models.UserRole) models.User {
	return models.User{
		ID:        uuid.NewString(),
		Name:      "Test User",
		Email:     uuid.NewString() + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func newEvent(organizer models.User, capacity int) models.Event {
	now := time.Now().UTC().Format(time.RFC3339)

	return models.Event{
		ID:                uuid.NewString(),
		Title:             "Tech Summit",
		Description:       "A technology conference.",
		Category:          "Tecnologia",
		Date:              "2099-06-15",
		Time:              "09:00",
		Location:          "Convention Center",
		City:              "São Paulo",
		State:             "SP",
		Capacity:          capacity,
		Status:            models.EventPublished,
		RegistrationsOpen: true,
		OrganizerID:       organizer.ID,
		OrganizerName:     organizer.Name,
		Tags:              []string{"tech", "conference"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func seedEvent(t *testing.T, s *sqlite.Storage, capacity int) (models.Event, models.User) {
	t.Helper()

	organizer := newUser(models.RoleOrganizer)
	require.NoError(t, s.CreateUser(organizer, "hash"))

	e := newEvent(organizer, capacity)
	require.NoError(t, s.SaveEvent(e))

	return e, organizer
}

func TestUsers(t *testing.T) {
	t.Parallel()

	s := newStorage(t)

	u := newUser(models.RoleUser)
	require.NoError(t, s.CreateUser(u, "bcrypt-hash"))

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		dup := newUser(models.RoleUser)
		dup.Email = u.Email

		err := s.CreateUser(dup, "other-hash")
		assert.ErrorIs(t, err, sqlite.ErrEmailTaken)
	})

	t.Run("Lookup by email returns the hash", func(t *testing.T) {
		got, hash, err := s.UserByEmail(u.Email)
		require.NoError(t, err)

		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "bcrypt-hash", hash)
	})

	t.Run("Lookup by id omits the hash", func(t *testing.T) {
		got, err := s.UserByID(u.ID)
		require.NoError(t, err)

		assert.Equal(t, u.Email, got.Email)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, _, err := s.UserByEmail("nobody@example.com")
		assert.ErrorIs(t, err, sqlite.ErrNotFound)

		_, err = s.UserByID("missing")
		assert.ErrorIs(t, err, sqlite.ErrNotFound)
	})
}

func TestEvents(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	e, organizer := seedEvent(t, s, 50)

	t.Run("Round trip keeps tags", func(t *testing.T) {
		got, err := s.EventByID(e.ID)
		require.NoError(t, err)

		assert.Equal(t, e.Title, got.Title)
		assert.Equal(t, []string{"tech", "conference"}, got.Tags)
	})

	t.Run("Published listing includes it", func(t *testing.T) {
		events, err := s.ListPublished()
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, e.ID, events[0].ID)
	})

	t.Run("Organizer listing filters by owner", func(t *testing.T) {
		events, err := s.ListByOrganizer(organizer.ID)
		require.NoError(t, err)
		assert.Len(t, events, 1)

		events, err = s.ListByOrganizer("someone-else")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Update rewrites fields", func(t *testing.T) {
		e.Title = "Renamed Summit"
		e.Capacity = 80
		require.NoError(t, s.UpdateEvent(e))

		got, err := s.EventByID(e.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Summit", got.Title)
		assert.Equal(t, 80, got.Capacity)
	})

	t.Run("Update of a missing event", func(t *testing.T) {
		missing := e
		missing.ID = "missing"

		assert.ErrorIs(t, s.UpdateEvent(missing), sqlite.ErrNotFound)
	})
}

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	s := newStorage(t)

	organizer := newUser(models.RoleOrganizer)
	require.NoError(t, s.CreateUser(organizer, "hash"))

	draft := newEvent(organizer, 30)
	draft.Status = models.EventDraft
	draft.RegistrationsOpen = false
	require.NoError(t, s.SaveEvent(draft))

	now := time.Now().UTC().Format(time.RFC3339)

	got, err := s.PublishEvent(draft.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, got.Status)
	assert.True(t, got.RegistrationsOpen)

	// already published, so the draft-only update matches nothing
	_, err = s.PublishEvent(draft.ID, now)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestToggleRegistrations(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	e, _ := seedEvent(t, s, 50)

	now := time.Now().UTC().Format(time.RFC3339)

	got, err := s.ToggleRegistrations(e.ID, now)
	require.NoError(t, err)
	assert.False(t, got.RegistrationsOpen)

	got, err = s.ToggleRegistrations(e.ID, now)
	require.NoError(t, err)
	assert.True(t, got.RegistrationsOpen)

	_, err = s.ToggleRegistrations("missing", now)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestFinishPastEvents(t *testing.T) {
	t.Parallel()

	s := newStorage(t)

	organizer := newUser(models.RoleOrganizer)
	require.NoError(t, s.CreateUser(organizer, "hash"))

	past := newEvent(organizer, 30)
	past.Date = "2020-01-01"
	require.NoError(t, s.SaveEvent(past))

	future := newEvent(organizer, 30)
	require.NoError(t, s.SaveEvent(future))

	n, err := s.FinishPastEvents("2026-01-01")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.EventByID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventFinished, got.Status)
	assert.False(t, got.RegistrationsOpen)

	got, err = s.EventByID(future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, got.Status)
}

func TestRegisterForEvent(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Format(time.RFC3339)

	t.Run("Happy path reserves a spot", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 2)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		reg, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationConfirmed, reg.Status)

		got, err := s.EventByID(e.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RegisteredCount)
	})

	t.Run("Double registration is rejected", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 2)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		_, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)

		_, err = s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		assert.ErrorIs(t, err, sqlite.ErrAlreadyRegistered)
	})

	t.Run("Full event is sold out", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 1)

		first := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(first, "hash"))
		_, err := s.RegisterForEvent(e.ID, first.ID, uuid.NewString(), now)
		require.NoError(t, err)

		second := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(second, "hash"))
		_, err = s.RegisterForEvent(e.ID, second.ID, uuid.NewString(), now)
		assert.ErrorIs(t, err, sqlite.ErrSoldOut)
	})

	t.Run("Closed registrations are refused", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		organizer := newUser(models.RoleOrganizer)
		require.NoError(t, s.CreateUser(organizer, "hash"))

		e := newEvent(organizer, 10)
		e.RegistrationsOpen = false
		require.NoError(t, s.SaveEvent(e))

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		_, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		assert.ErrorIs(t, err, sqlite.ErrRegistrationsClosed)
	})

	t.Run("Unknown event", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		_, err := s.RegisterForEvent("missing", u.ID, uuid.NewString(), now)
		assert.ErrorIs(t, err, sqlite.ErrNotFound)
	})

	t.Run("Cancelled registration is revived, not duplicated", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 5)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		reg, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)

		_, err = s.CancelRegistration(reg.ID, u.ID)
		require.NoError(t, err)

		revived, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)
		assert.Equal(t, reg.ID, revived.ID, "same row must be reused")

		regs, err := s.RegistrationsByUser(u.ID)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
	})
}

func TestCancelRegistration(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Format(time.RFC3339)

	t.Run("Cancel frees the spot", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 3)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		reg, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)

		cancelled, err := s.CancelRegistration(reg.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationCancelled, cancelled.Status)

		got, err := s.EventByID(e.ID)
		require.NoError(t, err)
		assert.Zero(t, got.RegisteredCount)
	})

	t.Run("Only the owner may cancel", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 3)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		reg, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)

		_, err = s.CancelRegistration(reg.ID, "someone-else")
		assert.ErrorIs(t, err, sqlite.ErrNotOwner)
	})

	t.Run("Cancelling twice fails", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)
		e, _ := seedEvent(t, s, 3)

		u := newUser(models.RoleUser)
		require.NoError(t, s.CreateUser(u, "hash"))

		reg, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
		require.NoError(t, err)

		_, err = s.CancelRegistration(reg.ID, u.ID)
		require.NoError(t, err)

		_, err = s.CancelRegistration(reg.ID, u.ID)
		assert.ErrorIs(t, err, sqlite.ErrNotConfirmed)
	})

	t.Run("Unknown registration", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		_, err := s.CancelRegistration("missing", "u-1")
		assert.ErrorIs(t, err, sqlite.ErrNotFound)
	})
}

func TestRegistrationsByUserEmbedsEvent(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	e, _ := seedEvent(t, s, 10)

	u := newUser(models.RoleUser)
	require.NoError(t, s.CreateUser(u, "hash"))

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.RegisterForEvent(e.ID, u.ID, uuid.NewString(), now)
	require.NoError(t, err)

	regs, err := s.RegistrationsByUser(u.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)

	require.NotNil(t, regs[0].Event)
	assert.Equal(t, e.Title, regs[0].Event.Title)
	assert.Equal(t, 1, regs[0].Event.RegisteredCount)
	assert.Equal(t, []string{"tech", "conference"}, regs[0].Event.Tags)
}
