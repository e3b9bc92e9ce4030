package application

import "time"

// Role identifies the permission tier of a user within an organization.
type Role string

const (
	// RoleEmployee may track own time and read own entries.
	RoleEmployee Role = "employee"
	// RoleManager may additionally correct entries and run reports.
	RoleManager Role = "manager"
	// RoleAdmin may additionally manage the organization itself.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanManage reports whether the role carries manager-level permissions.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID         string
	OrganizationID string
	Role           Role
}

// CanManage reports whether the principal holds manager or admin rights.
func (p Principal) CanManage() bool {
	return p.Role.CanManage()
}

// User represents an employee account exposed by the application services.
type User struct {
	ID             string
	Email          string
	DisplayName    string
	JobTitle       string
	PayRate        *float64
	Role           Role
	OrganizationID string
	Disabled       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
	Disabled     bool
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

// Invitation grants an email address the right to join an organization.
type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Token          string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// TimeEntry is one clock-in/clock-out record. A nil ClockOut marks the entry
// as open; Duration carries the ISO-8601 text set when the entry closes.
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

// Open reports whether the entry has not been clocked out yet.
func (e TimeEntry) Open() bool {
	return e.ClockOut == nil
}

// Session represents an authenticated session issued to a user.
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

// ClockInParams wraps the data required to open a time entry.
type ClockInParams struct {
	Principal  Principal
	UserID     string
	ProjectID  *string
	LocationID *string
}

// ClockOutParams wraps the data required to close an open time entry.
type ClockOutParams struct {
	Principal Principal
	EntryID   string
}

// TimeEntryInput captures caller provided fields for an entry correction.
// Nil fields keep their stored value; ClearProject/ClearLocation drop the
// reference entirely.
type TimeEntryInput struct {
	ProjectID     *string
	LocationID    *string
	ClearProject  bool
	ClearLocation bool
	ClockIn       *time.Time
	ClockOut      *time.Time
}

// UpdateEntryParams wraps the data required to correct an existing entry.
type UpdateEntryParams struct {
	Principal Principal
	EntryID   string
	Input     TimeEntryInput
}

// DeleteEntryParams wraps the data required to delete an entry.
type DeleteEntryParams struct {
	Principal Principal
	EntryID   string
}

// GetEntryParams wraps the data required to fetch one entry.
type GetEntryParams struct {
	Principal Principal
	EntryID   string
}

// ListEntriesParams wraps the data required to list a user's entries. Start
// and End bound ClockIn inclusively when set.
type ListEntriesParams struct {
	Principal Principal
	UserID    string
	Start     *time.Time
	End       *time.Time
}

// MostRecentEntryParams wraps the data required to fetch a user's latest entry.
type MostRecentEntryParams struct {
	Principal Principal
	UserID    string
}

// PayrollReportParams wraps the data required to run a payroll report.
type PayrollReportParams struct {
	Principal      Principal
	OrganizationID string
	Start          time.Time
	End            time.Time
}

// ProjectReportParams wraps the data required to run a per-project report.
type ProjectReportParams struct {
	Principal      Principal
	OrganizationID string
	ProjectID      string
	Start          time.Time
	End            time.Time
}

// PayrollReportRow is one user's aggregated line in a reporting window.
type PayrollReportRow struct {
	UserID     string
	UserName   string
	TotalHours float64
	PayRate    float64
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	Password    string
	DisplayName string
	JobTitle    string
}

// RegisterUserParams wraps the data required to register a new account.
type RegisterUserParams struct {
	Input UserInput
}

// UpdateProfileParams wraps the data required to update a user's own profile.
type UpdateProfileParams struct {
	Principal   Principal
	UserID      string
	DisplayName string
	JobTitle    string
}

// ManageUserParams wraps manager-initiated changes to pay rate and role.
type ManageUserParams struct {
	Principal Principal
	UserID    string
	PayRate   *float64
	Role      *Role
	Disabled  *bool
}

// ListUsersParams wraps the data required to list an organization's users.
type ListUsersParams struct {
	Principal      Principal
	OrganizationID string
}

// OrganizationInput captures caller provided organization fields.
type OrganizationInput struct {
	Name string
}

// CreateOrganizationParams wraps the data required to create a tenant. The
// creating user becomes its admin.
type CreateOrganizationParams struct {
	Principal Principal
	Input     OrganizationInput
}

// UpdateOrganizationParams wraps the data required to rename a tenant.
type UpdateOrganizationParams struct {
	Principal      Principal
	OrganizationID string
	Input          OrganizationInput
}

// ProjectInput captures caller provided project fields.
type ProjectInput struct {
	Name        string
	Description string
	Enabled     bool
}

// CreateProjectParams wraps the data required to create a project.
type CreateProjectParams struct {
	Principal Principal
	Input     ProjectInput
}

// UpdateProjectParams wraps the data required to update a project.
type UpdateProjectParams struct {
	Principal Principal
	ProjectID string
	Input     ProjectInput
}

// AssignProjectParams wraps the data required to change project membership.
type AssignProjectParams struct {
	Principal Principal
	ProjectID string
	UserID    string
}

// LocationInput captures caller provided location fields.
type LocationInput struct {
	Name        string
	Address     string
	City        string
	State       string
	Description string
}

// CreateLocationParams wraps the data required to create a location.
type CreateLocationParams struct {
	Principal Principal
	Input     LocationInput
}

// UpdateLocationParams wraps the data required to update a location.
type UpdateLocationParams struct {
	Principal  Principal
	LocationID string
	Input      LocationInput
}

// InviteParams wraps the data required to invite an email to an organization.
type InviteParams struct {
	Principal Principal
	Email     string
}

// AcceptInvitationParams wraps the data required to redeem an invitation.
type AcceptInvitationParams struct {
	Principal Principal
	Token     string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams captures the data required to refresh an existing session.
type RefreshSessionParams struct {
	Token       string
	Fingerprint string
}

// RefreshSessionResult captures the outcome of rotating a session token.
type RefreshSessionResult struct {
	Session Session
}
