package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

var (
	organizationCounter uint64
	userCounter         uint64
	projectCounter      uint64
	locationCounter     uint64
	entryCounter        uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ------------------------- Organization fixtures -------------------------

// OrganizationOption configures a generated organization fixture.
type OrganizationOption func(*persistence.Organization)

// NewOrganization returns a deterministic organization record with optional
// overrides.
func NewOrganization(opts ...OrganizationOption) persistence.Organization {
	idx := atomic.AddUint64(&organizationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	org := persistence.Organization{
		ID:        fmt.Sprintf("org-%03d", idx),
		Name:      fmt.Sprintf("Organization %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&org)
	}
	return org
}

// WithOrganizationID overrides the generated organization ID.
func WithOrganizationID(id string) OrganizationOption {
	return func(org *persistence.Organization) {
		org.ID = id
	}
}

// WithOrganizationName overrides the generated organization name.
func WithOrganizationName(name string) OrganizationOption {
	return func(org *persistence.Organization) {
		org.Name = name
	}
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides. Users
// default to enabled employees without an organization.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		JobTitle:     "Technician",
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         "employee",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(user *persistence.User) {
		user.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(user *persistence.User) {
		user.Email = email
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(user *persistence.User) {
		user.DisplayName = name
	}
}

// WithUserRole sets the role on the generated fixture.
func WithUserRole(role string) UserOption {
	return func(user *persistence.User) {
		user.Role = role
	}
}

// WithUserOrganization attaches the user to an organization.
func WithUserOrganization(organizationID string) UserOption {
	return func(user *persistence.User) {
		user.OrganizationID = &organizationID
	}
}

// WithUserPayRate sets the hourly pay rate on the generated fixture.
func WithUserPayRate(rate float64) UserOption {
	return func(user *persistence.User) {
		user.PayRate = &rate
	}
}

// WithUserDisabled marks the generated account as disabled.
func WithUserDisabled() UserOption {
	return func(user *persistence.User) {
		user.Disabled = true
	}
}

// --------------------------- Project fixtures ----------------------------

// ProjectOption configures a generated project fixture.
type ProjectOption func(*persistence.Project)

// NewProject returns a deterministic enabled project scoped to the supplied
// organization.
func NewProject(organizationID string, opts ...ProjectOption) persistence.Project {
	idx := atomic.AddUint64(&projectCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	project := persistence.Project{
		ID:             fmt.Sprintf("proj-%03d", idx),
		OrganizationID: organizationID,
		Name:           fmt.Sprintf("Project %03d", idx),
		Enabled:        true,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&project)
	}
	return project
}

// WithProjectID overrides the generated project ID.
func WithProjectID(id string) ProjectOption {
	return func(project *persistence.Project) {
		project.ID = id
	}
}

// WithProjectDisabled marks the generated project as disabled.
func WithProjectDisabled() ProjectOption {
	return func(project *persistence.Project) {
		project.Enabled = false
	}
}

// --------------------------- Location fixtures ---------------------------

// LocationOption configures a generated location fixture.
type LocationOption func(*persistence.Location)

// NewLocation returns a deterministic location scoped to the supplied
// organization.
func NewLocation(organizationID string, opts ...LocationOption) persistence.Location {
	idx := atomic.AddUint64(&locationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	location := persistence.Location{
		ID:             fmt.Sprintf("loc-%03d", idx),
		OrganizationID: organizationID,
		Name:           fmt.Sprintf("Location %03d", idx),
		City:           "Springfield",
		State:          "IL",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&location)
	}
	return location
}

// WithLocationID overrides the generated location ID.
func WithLocationID(id string) LocationOption {
	return func(location *persistence.Location) {
		location.ID = id
	}
}

// -------------------------- Time entry fixtures --------------------------

// TimeEntryOption configures a generated time entry fixture.
type TimeEntryOption func(*persistence.TimeEntry)

// NewTimeEntry returns a deterministic open entry for the supplied user and
// organization, clocked in at an offset from ReferenceTime.
func NewTimeEntry(userID, organizationID string, opts ...TimeEntryOption) persistence.TimeEntry {
	idx := atomic.AddUint64(&entryCounter, 1)
	clockIn := referenceTime.Add(time.Duration(idx) * time.Hour)
	entry := persistence.TimeEntry{
		ID:             fmt.Sprintf("entry-%03d", idx),
		UserID:         userID,
		OrganizationID: organizationID,
		ClockIn:        clockIn,
		CreatedAt:      clockIn,
		UpdatedAt:      clockIn,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// WithEntryID overrides the generated entry ID.
func WithEntryID(id string) TimeEntryOption {
	return func(entry *persistence.TimeEntry) {
		entry.ID = id
	}
}

// WithEntryClockIn sets the clock-in instant.
func WithEntryClockIn(t time.Time) TimeEntryOption {
	return func(entry *persistence.TimeEntry) {
		entry.ClockIn = t
	}
}

// WithEntryClosed closes the entry at the supplied instant with the supplied
// ISO-8601 duration text.
func WithEntryClosed(clockOut time.Time, duration string) TimeEntryOption {
	return func(entry *persistence.TimeEntry) {
		entry.ClockOut = &clockOut
		entry.Duration = &duration
	}
}

// WithEntryProject attaches the entry to a project.
func WithEntryProject(projectID string) TimeEntryOption {
	return func(entry *persistence.TimeEntry) {
		entry.ProjectID = &projectID
	}
}

// WithEntryLocation attaches the entry to a location.
func WithEntryLocation(locationID string) TimeEntryOption {
	return func(entry *persistence.TimeEntry) {
		entry.LocationID = &locationID
	}
}
