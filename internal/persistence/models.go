package persistence

import "time"

// User represents an employee account in the time-tracking domain. PayRate is
// the current hourly rate used for payroll snapshots; nil means unset.
type User struct {
	ID             string
	Email          string
	DisplayName    string
	JobTitle       string
	PasswordHash   string
	PayRate        *float64
	Role           string
	OrganizationID *string
	Disabled       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Organization is a tenant owning users, projects, locations, and entries.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project is a billable unit of work scoped to one organization.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Location is a physical place where work can be performed.
type Location struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	City           string
	State          string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Invitation grants an email address the right to join an organization until
// the token expires.
type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Token          string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// TimeEntry is one clock-in/clock-out record. A nil ClockOut marks the entry
// as open; Duration is the ISO-8601 serialization of ClockOut minus ClockIn
// and is present exactly when ClockOut is.
type TimeEntry struct {
	ID             string
	UserID         string
	OrganizationID string
	ProjectID      *string
	LocationID     *string
	ClockIn        time.Time
	ClockOut       *time.Time
	Duration       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}
