package persistence

import "context"
import "time"

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsersByOrganization(ctx context.Context, organizationID string) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// OrganizationRepository exposes CRUD operations for tenant organizations.
type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org Organization) error
	UpdateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

// ProjectRepository exposes CRUD operations for projects plus membership.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) error
	UpdateProject(ctx context.Context, project Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, organizationID string) ([]Project, error)
	ListProjectsForUser(ctx context.Context, organizationID, userID string) ([]Project, error)
	AssignUser(ctx context.Context, projectID, userID string) error
	UnassignUser(ctx context.Context, projectID, userID string) error
	DeleteProject(ctx context.Context, id string) error
}

// LocationRepository exposes CRUD operations for work locations.
type LocationRepository interface {
	CreateLocation(ctx context.Context, location Location) error
	UpdateLocation(ctx context.Context, location Location) error
	GetLocation(ctx context.Context, id string) (Location, error)
	ListLocations(ctx context.Context, organizationID string) ([]Location, error)
	DeleteLocation(ctx context.Context, id string) error
}

// InvitationRepository stores pending organization invitations.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	ListInvitations(ctx context.Context, organizationID string) ([]Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
	DeleteExpiredInvitations(ctx context.Context, reference time.Time) error
}

// TimeEntryFilter narrows time entry queries. Start and End bound ClockIn
// inclusively; ClosedOnly restricts results to entries with a clock-out.
type TimeEntryFilter struct {
	UserID         string
	OrganizationID string
	ProjectID      *string
	Start          *time.Time
	End            *time.Time
	ClosedOnly     bool
}

// TimeEntryRepository stores clock-in/clock-out records.
type TimeEntryRepository interface {
	CreateTimeEntry(ctx context.Context, entry TimeEntry) error
	UpdateTimeEntry(ctx context.Context, entry TimeEntry) error
	GetTimeEntry(ctx context.Context, id string) (TimeEntry, error)
	GetOpenTimeEntry(ctx context.Context, userID string) (TimeEntry, error)
	GetMostRecentTimeEntry(ctx context.Context, userID string) (TimeEntry, error)
	ListTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, error)
	ListClosedEntriesInWindow(ctx context.Context, organizationID string, projectID *string, start, end time.Time) ([]TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
