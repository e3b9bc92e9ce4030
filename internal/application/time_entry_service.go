package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ryan-edwad/capstone/internal/duration"
	"github.com/ryan-edwad/capstone/internal/payroll"
)

// TimeEntryQuery narrows entry listings. Start and End bound ClockIn
// inclusively when set.
type TimeEntryQuery struct {
	UserID string
	Start  *time.Time
	End    *time.Time
}

// TimeEntryRepository captures the persistence operations needed by the service.
type TimeEntryRepository interface {
	CreateTimeEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetTimeEntry(ctx context.Context, id string) (TimeEntry, error)
	GetOpenTimeEntry(ctx context.Context, userID string) (TimeEntry, error)
	GetMostRecentTimeEntry(ctx context.Context, userID string) (TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) error
	ListTimeEntries(ctx context.Context, query TimeEntryQuery) ([]TimeEntry, error)
	ListClosedEntriesInWindow(ctx context.Context, organizationID string, projectID *string, start, end time.Time) ([]TimeEntry, error)
}

// ProjectCatalog resolves project references during entry validation.
type ProjectCatalog interface {
	GetProject(ctx context.Context, id string) (Project, error)
}

// LocationCatalog resolves location references during entry validation.
type LocationCatalog interface {
	GetLocation(ctx context.Context, id string) (Location, error)
}

// UserDirectory resolves users for authorization checks and report rows.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
	ListUsersByOrganization(ctx context.Context, organizationID string) ([]User, error)
}

// TimeEntryService orchestrates the clock-in/clock-out lifecycle, entry
// corrections, queries, and payroll reporting.
type TimeEntryService struct {
	entries     TimeEntryRepository
	projects    ProjectCatalog
	locations   LocationCatalog
	users       UserDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTimeEntryService constructs a time entry service with the provided dependencies.
func NewTimeEntryService(entries TimeEntryRepository, projects ProjectCatalog, locations LocationCatalog, users UserDirectory, idGenerator func() string, now func() time.Time) *TimeEntryService {
	return NewTimeEntryServiceWithLogger(entries, projects, locations, users, idGenerator, now, nil)
}

// NewTimeEntryServiceWithLogger constructs a time entry service with a specified logger.
func NewTimeEntryServiceWithLogger(entries TimeEntryRepository, projects ProjectCatalog, locations LocationCatalog, users UserDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TimeEntryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimeEntryService{
		entries:     entries,
		projects:    projects,
		locations:   locations,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TimeEntryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimeEntryService", operation, attrs...)
}

// ClockIn opens a new time entry for the target user stamped with the current
// UTC time. A user can hold at most one open entry; a second clock-in fails
// with ErrInvalidState.
func (s *TimeEntryService) ClockIn(ctx context.Context, params ClockInParams) (entry TimeEntry, err error) {
	if s == nil {
		err = fmt.Errorf("TimeEntryService is nil")
		return
	}
	if s.entries == nil {
		err = fmt.Errorf("time entry repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ClockIn",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to clock in", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("entry_id", entry.ID).InfoContext(ctx, "clocked in")
	}()

	if err = s.authorizeForUser(ctx, params.Principal, params.UserID); err != nil {
		return
	}

	vErr := &ValidationError{}
	if params.UserID == "" {
		vErr.add("user_id", "user is required")
	}
	vErr.merge(s.validateEntryReferences(ctx, params.Principal.OrganizationID, params.ProjectID, params.LocationID))
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, openErr := s.entries.GetOpenTimeEntry(ctx, params.UserID); openErr == nil {
		err = ErrInvalidState
		return
	} else if !errors.Is(openErr, ErrNotFound) {
		err = openErr
		return
	}

	entry = TimeEntry{
		ID:             s.idGenerator(),
		UserID:         params.UserID,
		OrganizationID: params.Principal.OrganizationID,
		ProjectID:      cloneString(params.ProjectID),
		LocationID:     cloneString(params.LocationID),
		ClockIn:        s.now().UTC(),
	}
	entry.CreatedAt = entry.ClockIn
	entry.UpdatedAt = entry.ClockIn

	entry, err = s.entries.CreateTimeEntry(ctx, entry)
	return
}

// ClockOut closes an open entry at the current UTC time and persists the
// ISO-8601 duration. Closing an already closed entry fails with ErrInvalidState.
func (s *TimeEntryService) ClockOut(ctx context.Context, params ClockOutParams) (entry TimeEntry, err error) {
	if s == nil {
		err = fmt.Errorf("TimeEntryService is nil")
		return
	}
	if s.entries == nil {
		err = fmt.Errorf("time entry repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ClockOut",
		"principal_id", params.Principal.UserID,
		"entry_id", params.EntryID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to clock out", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("duration", stringOrEmpty(entry.Duration)).InfoContext(ctx, "clocked out")
	}()

	entry, err = s.entries.GetTimeEntry(ctx, params.EntryID)
	if err != nil {
		entry = TimeEntry{}
		return
	}

	if err = s.authorizeForUser(ctx, params.Principal, entry.UserID); err != nil {
		entry = TimeEntry{}
		return
	}

	if !entry.Open() {
		entry = TimeEntry{}
		err = ErrInvalidState
		return
	}

	out := s.now().UTC()
	encoded := duration.Encode(duration.Between(entry.ClockIn, out))
	entry.ClockOut = &out
	entry.Duration = &encoded
	entry.UpdatedAt = out

	entry, err = s.entries.UpdateTimeEntry(ctx, entry)
	return
}

// UpdateEntry corrects an existing entry. Timestamps are normalized to UTC and
// the stored duration is recomputed whenever either timestamp changes. Only
// managers may correct entries.
func (s *TimeEntryService) UpdateEntry(ctx context.Context, params UpdateEntryParams) (entry TimeEntry, err error) {
	if s == nil {
		err = fmt.Errorf("TimeEntryService is nil")
		return
	}
	if s.entries == nil {
		err = fmt.Errorf("time entry repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEntry",
		"principal_id", params.Principal.UserID,
		"entry_id", params.EntryID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "entry updated")
	}()

	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	entry, err = s.entries.GetTimeEntry(ctx, params.EntryID)
	if err != nil {
		entry = TimeEntry{}
		return
	}
	if entry.OrganizationID != params.Principal.OrganizationID {
		entry = TimeEntry{}
		err = ErrNotFound
		return
	}

	input := params.Input
	if input.ClearProject {
		entry.ProjectID = nil
	} else if input.ProjectID != nil {
		entry.ProjectID = cloneString(input.ProjectID)
	}
	if input.ClearLocation {
		entry.LocationID = nil
	} else if input.LocationID != nil {
		entry.LocationID = cloneString(input.LocationID)
	}

	timestampsChanged := false
	if input.ClockIn != nil {
		entry.ClockIn = input.ClockIn.UTC()
		timestampsChanged = true
	}
	if input.ClockOut != nil {
		out := input.ClockOut.UTC()
		entry.ClockOut = &out
		timestampsChanged = true
	}

	vErr := &ValidationError{}
	if entry.ClockOut != nil && entry.ClockOut.Before(entry.ClockIn) {
		vErr.add("clock_out", "clock-out must not precede clock-in")
	}
	vErr.merge(s.validateEntryReferences(ctx, entry.OrganizationID, entry.ProjectID, entry.LocationID))
	if vErr.HasErrors() {
		entry = TimeEntry{}
		err = vErr
		return
	}

	if entry.ClockOut == nil {
		entry.Duration = nil
	} else if timestampsChanged || entry.Duration == nil {
		encoded := duration.Encode(duration.Between(entry.ClockIn, *entry.ClockOut))
		entry.Duration = &encoded
	}
	entry.UpdatedAt = s.now().UTC()

	entry, err = s.entries.UpdateTimeEntry(ctx, entry)
	return
}

// DeleteEntry permanently removes an entry. Only managers may delete entries.
func (s *TimeEntryService) DeleteEntry(ctx context.Context, params DeleteEntryParams) error {
	if s == nil {
		return fmt.Errorf("TimeEntryService is nil")
	}
	if s.entries == nil {
		return fmt.Errorf("time entry repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEntry",
		"principal_id", params.Principal.UserID,
		"entry_id", params.EntryID,
	)

	if !params.Principal.CanManage() {
		logger.ErrorContext(ctx, "failed to delete entry", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	entry, err := s.entries.GetTimeEntry(ctx, params.EntryID)
	if err == nil && entry.OrganizationID != params.Principal.OrganizationID {
		err = ErrNotFound
	}
	if err == nil {
		err = s.entries.DeleteTimeEntry(ctx, params.EntryID)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete entry", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "entry deleted")
	return nil
}

// GetEntry returns one entry. Employees may read their own entries; managers
// may read any entry in their organization.
func (s *TimeEntryService) GetEntry(ctx context.Context, params GetEntryParams) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimeEntryService is nil")
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("time entry repository not configured")
	}

	entry, err := s.entries.GetTimeEntry(ctx, params.EntryID)
	if err != nil {
		return TimeEntry{}, err
	}
	if err := s.authorizeForUser(ctx, params.Principal, entry.UserID); err != nil {
		return TimeEntry{}, err
	}
	return entry, nil
}

// ListEntries returns a user's entries, optionally bounded by an inclusive
// clock-in window. An empty result is not an error.
func (s *TimeEntryService) ListEntries(ctx context.Context, params ListEntriesParams) ([]TimeEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("TimeEntryService is nil")
	}
	if s.entries == nil {
		return nil, fmt.Errorf("time entry repository not configured")
	}

	if err := s.authorizeForUser(ctx, params.Principal, params.UserID); err != nil {
		return nil, err
	}

	if params.Start != nil && params.End != nil && params.Start.After(*params.End) {
		vErr := &ValidationError{}
		vErr.add("range", "start must not be after end")
		return nil, vErr
	}

	return s.entries.ListTimeEntries(ctx, TimeEntryQuery{
		UserID: params.UserID,
		Start:  normalizeOptionalTime(params.Start),
		End:    normalizeOptionalTime(params.End),
	})
}

// ListEntriesBetween returns a user's entries with clock-in inside the
// mandatory inclusive window.
func (s *TimeEntryService) ListEntriesBetween(ctx context.Context, principal Principal, userID string, start, end time.Time) ([]TimeEntry, error) {
	if start.IsZero() || end.IsZero() {
		vErr := &ValidationError{}
		vErr.add("range", "start and end are required")
		return nil, vErr
	}
	return s.ListEntries(ctx, ListEntriesParams{
		Principal: principal,
		UserID:    userID,
		Start:     &start,
		End:       &end,
	})
}

// MostRecentEntry returns the user's latest entry by clock-in time, or
// ErrNotFound when the user has none.
func (s *TimeEntryService) MostRecentEntry(ctx context.Context, params MostRecentEntryParams) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimeEntryService is nil")
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("time entry repository not configured")
	}

	if err := s.authorizeForUser(ctx, params.Principal, params.UserID); err != nil {
		return TimeEntry{}, err
	}

	return s.entries.GetMostRecentTimeEntry(ctx, params.UserID)
}

// PayrollReport aggregates closed entries inside the window into one row per
// user with total decimal hours and the user's current pay rate. Rows are
// ordered by user name. Managers only.
func (s *TimeEntryService) PayrollReport(ctx context.Context, params PayrollReportParams) (rows []PayrollReportRow, err error) {
	if s == nil {
		err = fmt.Errorf("TimeEntryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "PayrollReport",
		"principal_id", params.Principal.UserID,
		"organization_id", params.OrganizationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build payroll report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rows", len(rows)).InfoContext(ctx, "payroll report built")
	}()

	rows, err = s.buildReport(ctx, params.Principal, params.OrganizationID, nil, params.Start, params.End)
	return
}

// ProjectReport aggregates closed entries for one project inside the window.
// Returns ErrNotFound when no entries match. Managers only.
func (s *TimeEntryService) ProjectReport(ctx context.Context, params ProjectReportParams) (rows []PayrollReportRow, err error) {
	if s == nil {
		err = fmt.Errorf("TimeEntryService is nil")
		return
	}
	if s.projects == nil {
		err = fmt.Errorf("project catalog not configured")
		return
	}

	logger := s.loggerWith(ctx, "ProjectReport",
		"principal_id", params.Principal.UserID,
		"project_id", params.ProjectID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build project report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rows", len(rows)).InfoContext(ctx, "project report built")
	}()

	var project Project
	project, err = s.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		return
	}
	if project.OrganizationID != params.OrganizationID {
		err = ErrNotFound
		return
	}

	rows, err = s.buildReport(ctx, params.Principal, params.OrganizationID, &params.ProjectID, params.Start, params.End)
	if err != nil {
		return
	}
	if len(rows) == 0 {
		rows = nil
		err = ErrNotFound
	}
	return
}

func (s *TimeEntryService) buildReport(ctx context.Context, principal Principal, organizationID string, projectID *string, start, end time.Time) ([]PayrollReportRow, error) {
	if s.entries == nil {
		return nil, fmt.Errorf("time entry repository not configured")
	}
	if s.users == nil {
		return nil, fmt.Errorf("user directory not configured")
	}

	if !principal.CanManage() || principal.OrganizationID != organizationID {
		return nil, ErrUnauthorized
	}

	if start.After(end) {
		vErr := &ValidationError{}
		vErr.add("range", "start must not be after end")
		return nil, vErr
	}

	entries, err := s.entries.ListClosedEntriesInWindow(ctx, organizationID, projectID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}

	members, err := s.users.ListUsersByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	infos := make(map[string]payroll.UserInfo, len(members))
	for _, member := range members {
		rate := 0.0
		if member.PayRate != nil {
			rate = *member.PayRate
		}
		infos[member.ID] = payroll.UserInfo{DisplayName: member.DisplayName, PayRate: rate}
	}

	aggregated := make([]payroll.Entry, 0, len(entries))
	for _, entry := range entries {
		aggregated = append(aggregated, payroll.Entry{
			UserID:   entry.UserID,
			ClockIn:  entry.ClockIn,
			ClockOut: entry.ClockOut,
		})
	}

	report := payroll.Aggregate(aggregated, infos)
	rows := make([]PayrollReportRow, 0, len(report))
	for _, row := range report {
		rows = append(rows, PayrollReportRow{
			UserID:     row.UserID,
			UserName:   row.UserName,
			TotalHours: row.TotalHours,
			PayRate:    row.PayRate,
		})
	}
	return rows, nil
}

// authorizeForUser permits a principal acting on its own records, or a manager
// acting on a fellow member of its organization.
func (s *TimeEntryService) authorizeForUser(ctx context.Context, principal Principal, userID string) error {
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if principal.UserID == userID {
		return nil
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}
	if s.users == nil {
		return ErrUnauthorized
	}
	target, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if target.OrganizationID != principal.OrganizationID {
		return ErrUnauthorized
	}
	return nil
}

// validateEntryReferences checks that referenced projects and locations exist,
// belong to the organization, and (for projects) are enabled.
func (s *TimeEntryService) validateEntryReferences(ctx context.Context, organizationID string, projectID, locationID *string) *ValidationError {
	vErr := &ValidationError{}

	if projectID != nil {
		if s.projects == nil {
			vErr.add("project_id", "project lookups unavailable")
		} else if project, err := s.projects.GetProject(ctx, *projectID); err != nil || project.OrganizationID != organizationID {
			vErr.add("project_id", "unknown project")
		} else if !project.Enabled {
			vErr.add("project_id", "project is disabled")
		}
	}

	if locationID != nil {
		if s.locations == nil {
			vErr.add("location_id", "location lookups unavailable")
		} else if location, err := s.locations.GetLocation(ctx, *locationID); err != nil || location.OrganizationID != organizationID {
			vErr.add("location_id", "unknown location")
		}
	}

	if !vErr.HasErrors() {
		return nil
	}
	return vErr
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	normalized := value.UTC()
	return &normalized
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
