package models

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleOrganizer UserRole = "organizer"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventClosed    EventStatus = "closed"
	EventFinished  EventStatus = "finished"
)

type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationPending   RegistrationStatus = "pending"
)

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	City      string   `json:"city,omitempty"`
	Role      UserRole `json:"role"`
	Avatar    string   `json:"avatar,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Event dates travel as plain strings: "date" and "endDate" are
// YYYY-MM-DD, "time" and "endTime" are HH:MM, the timestamps RFC3339.
type Event struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	ShortDescription     string      `json:"shortDescription,omitempty"`
	Category             string      `json:"category"`
	Date                 string      `json:"date"`
	Time                 string      `json:"time"`
	EndDate              string      `json:"endDate,omitempty"`
	EndTime              string      `json:"endTime,omitempty"`
	Location             string      `json:"location"`
	City                 string      `json:"city"`
	State                string      `json:"state"`
	Address              string      `json:"address,omitempty"`
	ImageURL             string      `json:"imageUrl,omitempty"`
	Capacity             int         `json:"capacity"`
	RegisteredCount      int         `json:"registeredCount"`
	Price                float64     `json:"price,omitempty"`
	IsFree               bool        `json:"isFree"`
	Status               EventStatus `json:"status"`
	RegistrationsOpen    bool        `json:"registrationsOpen"`
	RegistrationDeadline string      `json:"registrationDeadline,omitempty"`
	OrganizerID          string      `json:"organizerId"`
	OrganizerName        string      `json:"organizerName"`
	Tags                 []string    `json:"tags,omitempty"`
	CreatedAt            string      `json:"createdAt"`
	UpdatedAt            string      `json:"updatedAt"`
}

type Registration struct {
	ID          string             `json:"id"`
	EventID     string             `json:"eventId"`
	UserID      string             `json:"userId"`
	Status      RegistrationStatus `json:"status"`
	CheckedIn   bool               `json:"checkedIn"`
	CheckedInAt string             `json:"checkedInAt,omitempty"`
	CreatedAt   string             `json:"createdAt"`
	Event       *Event             `json:"event,omitempty"`
}

// EventFilters carries the browse criteria. A zero value on any field
// means "no constraint"; the UI normalizes empty strings to absent before
// they get here, and the query-string builder skips zero fields.
type EventFilters struct {
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	IsFree    bool   `json:"isFree,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f EventFilters) IsZero() bool {
	return f == EventFilters{}
}
