package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// TimeEntryRepository implements persistence.TimeEntryRepository using SQLite.
type TimeEntryRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTimeEntryRepository creates a new SQLite time entry repository.
func NewTimeEntryRepository(pool *ConnectionPool) *TimeEntryRepository {
	return &TimeEntryRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const timeEntryColumns = "id, user_id, organization_id, project_id, location_id, clock_in, clock_out, duration, created_at, updated_at"

// timestampLayout stores timestamps with a fixed-width fractional second.
// Values are always UTC, so lexicographic order of the stored text matches
// chronological order for SQL range filters, ORDER BY, and the clock_out
// check constraint. Reads stay on RFC3339Nano, which accepts any fraction.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CreateTimeEntry inserts a new time entry. The partial unique index on open
// entries surfaces a second concurrent clock-in as ErrDuplicate.
func (r *TimeEntryRepository) CreateTimeEntry(ctx context.Context, entry persistence.TimeEntry) error {
	if entry.ID == "" || entry.UserID == "" || entry.OrganizationID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO time_entries (` + timeEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.OrganizationID,
		nullString(entry.ProjectID),
		nullString(entry.LocationID),
		entry.ClockIn.UTC().Format(timestampLayout),
		nullTime(entry.ClockOut),
		nullString(entry.Duration),
		entry.CreatedAt.Format(time.RFC3339),
		entry.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateTimeEntry rewrites all mutable columns of an existing entry.
func (r *TimeEntryRepository) UpdateTimeEntry(ctx context.Context, entry persistence.TimeEntry) error {
	if entry.ID == "" {
		return persistence.ErrConstraintViolation
	}

	entry.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE time_entries
		SET project_id = ?, location_id = ?, clock_in = ?, clock_out = ?, duration = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		nullString(entry.ProjectID),
		nullString(entry.LocationID),
		entry.ClockIn.UTC().Format(timestampLayout),
		nullTime(entry.ClockOut),
		nullString(entry.Duration),
		entry.UpdatedAt.Format(time.RFC3339),
		entry.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// GetTimeEntry retrieves a single entry by ID.
func (r *TimeEntryRepository) GetTimeEntry(ctx context.Context, id string) (persistence.TimeEntry, error) {
	if id == "" {
		return persistence.TimeEntry{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+timeEntryColumns+" FROM time_entries WHERE id = ?", id)
	return scanTimeEntry(row)
}

// GetOpenTimeEntry returns the user's entry with no clock-out, if any.
func (r *TimeEntryRepository) GetOpenTimeEntry(ctx context.Context, userID string) (persistence.TimeEntry, error) {
	if userID == "" {
		return persistence.TimeEntry{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE user_id = ? AND clock_out IS NULL", userID)
	return scanTimeEntry(row)
}

// GetMostRecentTimeEntry returns the user's latest entry by clock-in time.
func (r *TimeEntryRepository) GetMostRecentTimeEntry(ctx context.Context, userID string) (persistence.TimeEntry, error) {
	if userID == "" {
		return persistence.TimeEntry{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE user_id = ? ORDER BY clock_in DESC, id DESC LIMIT 1",
		userID)
	return scanTimeEntry(row)
}

// ListTimeEntries returns entries matching the filter ordered by clock-in.
func (r *TimeEntryRepository) ListTimeEntries(ctx context.Context, filter persistence.TimeEntryFilter) ([]persistence.TimeEntry, error) {
	query, args := buildTimeEntryQuery(filter)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

// ListClosedEntriesInWindow returns closed entries for a reporting window:
// clock-in at or after start and clock-out at or before end.
func (r *TimeEntryRepository) ListClosedEntriesInWindow(ctx context.Context, organizationID string, projectID *string, start, end time.Time) ([]persistence.TimeEntry, error) {
	filter := persistence.TimeEntryFilter{
		OrganizationID: organizationID,
		ProjectID:      projectID,
		Start:          &start,
		End:            &end,
		ClosedOnly:     true,
	}
	return r.ListTimeEntries(ctx, filter)
}

// DeleteTimeEntry removes an entry permanently.
func (r *TimeEntryRepository) DeleteTimeEntry(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func buildTimeEntryQuery(filter persistence.TimeEntryFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.OrganizationID != "" {
		conditions = append(conditions, "organization_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Start != nil {
		conditions = append(conditions, "clock_in >= ?")
		args = append(args, filter.Start.UTC().Format(timestampLayout))
	}
	if filter.ClosedOnly {
		conditions = append(conditions, "clock_out IS NOT NULL")
		if filter.End != nil {
			conditions = append(conditions, "clock_out <= ?")
			args = append(args, filter.End.UTC().Format(timestampLayout))
		}
	} else if filter.End != nil {
		conditions = append(conditions, "clock_in <= ?")
		args = append(args, filter.End.UTC().Format(timestampLayout))
	}

	query := "SELECT " + timeEntryColumns + " FROM time_entries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY clock_in ASC, id ASC"

	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimeEntry(row rowScanner) (persistence.TimeEntry, error) {
	var entry persistence.TimeEntry
	var projectID, locationID, clockOut, durationValue sql.NullString
	var clockInStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.OrganizationID,
		&projectID,
		&locationID,
		&clockInStr,
		&clockOut,
		&durationValue,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.TimeEntry{}, persistence.ErrNotFound
		}
		return persistence.TimeEntry{}, NewErrorMapper().MapError(err)
	}

	if projectID.Valid {
		entry.ProjectID = &projectID.String
	}
	if locationID.Valid {
		entry.LocationID = &locationID.String
	}
	if durationValue.Valid {
		entry.Duration = &durationValue.String
	}

	if entry.ClockIn, err = time.Parse(time.RFC3339Nano, clockInStr); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse clock_in: %w", err)
	}
	if clockOut.Valid {
		out, err := time.Parse(time.RFC3339Nano, clockOut.String)
		if err != nil {
			return persistence.TimeEntry{}, fmt.Errorf("failed to parse clock_out: %w", err)
		}
		entry.ClockOut = &out
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return entry, nil
}

func collectTimeEntries(rows *sql.Rows) ([]persistence.TimeEntry, error) {
	var entries []persistence.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, NewErrorMapper().MapError(err)
	}
	return entries, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.UTC().Format(timestampLayout), Valid: true}
}
