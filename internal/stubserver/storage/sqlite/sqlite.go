// Package sqlite backs the stub boundary with an embedded database so it
// runs as a self-contained fixture, no external services required.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"eventxplore/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrSoldOut             = errors.New("event is sold out")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrRegistrationsClosed = errors.New("registrations are closed")
	ErrNotConfirmed        = errors.New("registration is not confirmed")
	ErrNotOwner            = errors.New("not the owner")
)

type Storage struct {
	db *sql.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	// single writer avoids "database is locked" under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("%s: init schema: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		city          TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('user', 'organizer')),
		avatar        TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id                    TEXT PRIMARY KEY,
		title                 TEXT NOT NULL,
		description           TEXT NOT NULL DEFAULT '',
		short_description     TEXT NOT NULL DEFAULT '',
		category              TEXT NOT NULL DEFAULT '',
		date                  TEXT NOT NULL,
		time                  TEXT NOT NULL DEFAULT '',
		end_date              TEXT NOT NULL DEFAULT '',
		end_time              TEXT NOT NULL DEFAULT '',
		location              TEXT NOT NULL DEFAULT '',
		city                  TEXT NOT NULL DEFAULT '',
		state                 TEXT NOT NULL DEFAULT '',
		address               TEXT NOT NULL DEFAULT '',
		image_url             TEXT NOT NULL DEFAULT '',
		capacity              INTEGER NOT NULL,
		registered_count      INTEGER NOT NULL DEFAULT 0,
		price                 REAL NOT NULL DEFAULT 0,
		is_free               INTEGER NOT NULL DEFAULT 0,
		status                TEXT NOT NULL CHECK (status IN ('draft', 'published', 'closed', 'finished')),
		registrations_open    INTEGER NOT NULL DEFAULT 0,
		registration_deadline TEXT NOT NULL DEFAULT '',
		organizer_id          TEXT NOT NULL,
		organizer_name        TEXT NOT NULL DEFAULT '',
		tags                  TEXT NOT NULL DEFAULT '',
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		CHECK (registered_count >= 0),
		CHECK (registered_count <= capacity)
	);

	CREATE TABLE IF NOT EXISTS registrations (
		id            TEXT PRIMARY KEY,
		event_id      TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		status        TEXT NOT NULL CHECK (status IN ('confirmed', 'cancelled', 'pending')),
		checked_in    INTEGER NOT NULL DEFAULT 0,
		checked_in_at TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		UNIQUE(event_id, user_id)
	);`

	_, err := s.db.Exec(schema)

	return err
}

func (s *Storage) CreateUser(u models.User, passwordHash string) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, city, role, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(query, u.ID, u.Name, u.Email, passwordHash, u.City, u.Role, u.Avatar, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return ErrEmailTaken
		}

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Storage) UserByEmail(email string) (models.User, string, error) {
	query := `
		SELECT id, name, email, password_hash, city, role, avatar, created_at
		FROM users
		WHERE email = $1`

	var u models.User
	var hash string

	err := s.db.QueryRow(query, email).Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.City, &u.Role, &u.Avatar, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", ErrNotFound
		}

		return models.User{}, "", fmt.Errorf("failed to get user: %w", err)
	}

	return u, hash, nil
}

func (s *Storage) UserByID(id string) (models.User, error) {
	query := `
		SELECT id, name, email, city, role, avatar, created_at
		FROM users
		WHERE id = $1`

	var u models.User

	err := s.db.QueryRow(query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.City, &u.Role, &u.Avatar, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

const eventColumns = `id, title, description, short_description, category, date, time,
	end_date, end_time, location, city, state, address, image_url,
	capacity, registered_count, price, is_free, status, registrations_open,
	registration_deadline, organizer_id, organizer_name, tags, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var e models.Event
	var tags string

	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.ShortDescription, &e.Category, &e.Date, &e.Time,
		&e.EndDate, &e.EndTime, &e.Location, &e.City, &e.State, &e.Address, &e.ImageURL,
		&e.Capacity, &e.RegisteredCount, &e.Price, &e.IsFree, &e.Status, &e.RegistrationsOpen,
		&e.RegistrationDeadline, &e.OrganizerID, &e.OrganizerName, &tags, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return models.Event{}, err
	}

	if tags != "" {
		e.Tags = strings.Split(tags, ",")
	}

	return e, nil
}

func (s *Storage) SaveEvent(e models.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	_, err := s.db.Exec(query,
		e.ID, e.Title, e.Description, e.ShortDescription, e.Category, e.Date, e.Time,
		e.EndDate, e.EndTime, e.Location, e.City, e.State, e.Address, e.ImageURL,
		e.Capacity, e.RegisteredCount, e.Price, e.IsFree, e.Status, e.RegistrationsOpen,
		e.RegistrationDeadline, e.OrganizerID, e.OrganizerName, strings.Join(e.Tags, ","),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

func (s *Storage) UpdateEvent(e models.Event) error {
	query := `
		UPDATE events SET
			title = $1, description = $2, short_description = $3, category = $4,
			date = $5, time = $6, end_date = $7, end_time = $8, location = $9,
			city = $10, state = $11, address = $12, image_url = $13, capacity = $14,
			price = $15, is_free = $16, status = $17, registrations_open = $18,
			registration_deadline = $19, tags = $20, updated_at = $21
		WHERE id = $22`

	res, err := s.db.Exec(query,
		e.Title, e.Description, e.ShortDescription, e.Category,
		e.Date, e.Time, e.EndDate, e.EndTime, e.Location,
		e.City, e.State, e.Address, e.ImageURL, e.Capacity,
		e.Price, e.IsFree, e.Status, e.RegistrationsOpen,
		e.RegistrationDeadline, strings.Join(e.Tags, ","), e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) EventByID(id string) (models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(s.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, ErrNotFound
		}

		return models.Event{}, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

func (s *Storage) ListPublished() ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'published' ORDER BY date ASC`

	return s.listEvents(query)
}

func (s *Storage) ListByOrganizer(organizerID string) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY date ASC`

	return s.listEvents(query, organizerID)
}

func (s *Storage) listEvents(query string, args ...any) ([]models.Event, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func (s *Storage) CountEvents() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return n, nil
}

// PublishEvent moves a draft to published and opens registrations, the
// same side effect the platform applies on publish.
func (s *Storage) PublishEvent(id, now string) (models.Event, error) {
	query := `
		UPDATE events
		SET status = 'published', registrations_open = 1, updated_at = $1
		WHERE id = $2 AND status = 'draft'`

	res, err := s.db.Exec(query, now, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to publish event: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.Event{}, ErrNotFound
	}

	return s.EventByID(id)
}

func (s *Storage) ToggleRegistrations(id, now string) (models.Event, error) {
	query := `
		UPDATE events
		SET registrations_open = NOT registrations_open, updated_at = $1
		WHERE id = $2`

	res, err := s.db.Exec(query, now, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to toggle registrations: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.Event{}, ErrNotFound
	}

	return s.EventByID(id)
}

// FinishPastEvents closes out events whose date has passed. Runs from a
// background ticker in the stub's main.
func (s *Storage) FinishPastEvents(today string) (int64, error) {
	query := `
		UPDATE events
		SET status = 'finished', registrations_open = 0
		WHERE status IN ('published', 'closed') AND date < $1`

	res, err := s.db.Exec(query, today)
	if err != nil {
		return 0, fmt.Errorf("failed to finish past events: %w", err)
	}

	n, _ := res.RowsAffected()

	return n, nil
}

// RegisterForEvent reserves a spot inside one transaction: the capacity
// check is an atomic conditional update so concurrent registrations can
// never overbook. A previously cancelled registration is revived instead
// of inserting a duplicate.
func (s *Storage) RegisterForEvent(eventID, userID, regID, now string) (models.Registration, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Registration{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.EventStatus
	var open bool

	err = tx.QueryRow(`SELECT status, registrations_open FROM events WHERE id = $1`, eventID).
		Scan(&status, &open)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Registration{}, ErrNotFound
		}

		return models.Registration{}, fmt.Errorf("failed to get event: %w", err)
	}

	if status != models.EventPublished || !open {
		return models.Registration{}, ErrRegistrationsClosed
	}

	var existingID string
	var existingStatus models.RegistrationStatus

	err = tx.QueryRow(
		`SELECT id, status FROM registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&existingID, &existingStatus)

	switch {
	case err == nil && existingStatus != models.RegistrationCancelled:
		return models.Registration{}, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return models.Registration{}, fmt.Errorf("failed to check existing registration: %w", err)
	}

	res, err := tx.Exec(
		`UPDATE events SET registered_count = registered_count + 1
		 WHERE id = $1 AND registered_count < capacity`,
		eventID,
	)
	if err != nil {
		return models.Registration{}, fmt.Errorf("failed to update capacity: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.Registration{}, ErrSoldOut
	}

	reg := models.Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    models.RegistrationConfirmed,
		CreatedAt: now,
	}

	if existingID != "" {
		reg.ID = existingID
		_, err = tx.Exec(
			`UPDATE registrations SET status = 'confirmed', created_at = $1 WHERE id = $2`,
			now, existingID,
		)
	} else {
		reg.ID = regID
		_, err = tx.Exec(
			`INSERT INTO registrations (id, event_id, user_id, status, created_at)
			 VALUES ($1, $2, $3, 'confirmed', $4)`,
			regID, eventID, userID, now,
		)
	}
	if err != nil {
		return models.Registration{}, fmt.Errorf("failed to save registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Registration{}, fmt.Errorf("failed to commit: %w", err)
	}

	return reg, nil
}

func (s *Storage) RegistrationsByUser(userID string) ([]models.Registration, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.status, r.checked_in, r.checked_in_at, r.created_at,
			` + prefixedEventColumns("e") + `
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var r models.Registration
		var e models.Event
		var tags string

		err := rows.Scan(
			&r.ID, &r.EventID, &r.UserID, &r.Status, &r.CheckedIn, &r.CheckedInAt, &r.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.ShortDescription, &e.Category, &e.Date, &e.Time,
			&e.EndDate, &e.EndTime, &e.Location, &e.City, &e.State, &e.Address, &e.ImageURL,
			&e.Capacity, &e.RegisteredCount, &e.Price, &e.IsFree, &e.Status, &e.RegistrationsOpen,
			&e.RegistrationDeadline, &e.OrganizerID, &e.OrganizerName, &tags, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}

		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		r.Event = &e

		regs = append(regs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

// CancelRegistration flips a confirmed registration to cancelled and
// frees its spot in the same transaction.
func (s *Storage) CancelRegistration(regID, userID string) (models.Registration, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Registration{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var r models.Registration

	err = tx.QueryRow(
		`SELECT id, event_id, user_id, status, checked_in, checked_in_at, created_at
		 FROM registrations WHERE id = $1`,
		regID,
	).Scan(&r.ID, &r.EventID, &r.UserID, &r.Status, &r.CheckedIn, &r.CheckedInAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Registration{}, ErrNotFound
		}

		return models.Registration{}, fmt.Errorf("failed to get registration: %w", err)
	}

	if r.UserID != userID {
		return models.Registration{}, ErrNotOwner
	}

	if r.Status != models.RegistrationConfirmed {
		return models.Registration{}, ErrNotConfirmed
	}

	if _, err := tx.Exec(`UPDATE registrations SET status = 'cancelled' WHERE id = $1`, regID); err != nil {
		return models.Registration{}, fmt.Errorf("failed to cancel registration: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE events SET registered_count = MAX(registered_count - 1, 0) WHERE id = $1`,
		r.EventID,
	)
	if err != nil {
		return models.Registration{}, fmt.Errorf("failed to free spot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Registration{}, fmt.Errorf("failed to commit: %w", err)
	}

	r.Status = models.RegistrationCancelled

	return r, nil
}

func prefixedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}

	return strings.Join(cols, ", ")
}
