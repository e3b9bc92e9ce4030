package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// LocationRepository implements persistence.LocationRepository using SQLite.
type LocationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewLocationRepository creates a new SQLite location repository.
func NewLocationRepository(pool *ConnectionPool) *LocationRepository {
	return &LocationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const locationColumns = "id, organization_id, name, address, city, state, description, created_at, updated_at"

// CreateLocation inserts a new location.
func (r *LocationRepository) CreateLocation(ctx context.Context, location persistence.Location) error {
	if location.ID == "" || location.OrganizationID == "" || location.Name == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		location.ID,
		location.OrganizationID,
		location.Name,
		location.Address,
		location.City,
		location.State,
		location.Description,
		location.CreatedAt.Format(time.RFC3339),
		location.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateLocation rewrites all mutable columns of an existing location.
func (r *LocationRepository) UpdateLocation(ctx context.Context, location persistence.Location) error {
	if location.ID == "" {
		return persistence.ErrConstraintViolation
	}

	location.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE locations
		SET name = ?, address = ?, city = ?, state = ?, description = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		location.Name,
		location.Address,
		location.City,
		location.State,
		location.Description,
		location.UpdatedAt.Format(time.RFC3339),
		location.ID,
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

// GetLocation retrieves a location by ID.
func (r *LocationRepository) GetLocation(ctx context.Context, id string) (persistence.Location, error) {
	if id == "" {
		return persistence.Location{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+locationColumns+" FROM locations WHERE id = ?", id)
	return scanLocation(row)
}

// ListLocations returns an organization's locations ordered by name.
func (r *LocationRepository) ListLocations(ctx context.Context, organizationID string) ([]persistence.Location, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE organization_id = ? ORDER BY name ASC, id ASC",
		organizationID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var locations []persistence.Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return locations, nil
}

// DeleteLocation removes a location. Time entries referencing it surface as
// ErrForeignKeyViolation.
func (r *LocationRepository) DeleteLocation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM locations WHERE id = ?", id)
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

func scanLocation(row rowScanner) (persistence.Location, error) {
	var location persistence.Location
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&location.ID,
		&location.OrganizationID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.State,
		&location.Description,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Location{}, persistence.ErrNotFound
		}
		return persistence.Location{}, NewErrorMapper().MapError(err)
	}

	if location.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Location{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if location.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Location{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return location, nil
}
