package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// OrganizationRepository implements persistence.OrganizationRepository using SQLite.
type OrganizationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOrganizationRepository creates a new SQLite organization repository.
func NewOrganizationRepository(pool *ConnectionPool) *OrganizationRepository {
	return &OrganizationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateOrganization inserts a new organization.
func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org persistence.Organization) error {
	if org.ID == "" || org.Name == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	_, err := r.helper.Exec(ctx,
		"INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		org.ID,
		org.Name,
		org.CreatedAt.Format(time.RFC3339),
		org.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateOrganization renames an existing organization.
func (r *OrganizationRepository) UpdateOrganization(ctx context.Context, org persistence.Organization) error {
	if org.ID == "" {
		return persistence.ErrConstraintViolation
	}

	org.UpdatedAt = time.Now().UTC()

	result, err := r.helper.Exec(ctx,
		"UPDATE organizations SET name = ?, updated_at = ? WHERE id = ?",
		org.Name,
		org.UpdatedAt.Format(time.RFC3339),
		org.ID,
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

// GetOrganization retrieves an organization by ID.
func (r *OrganizationRepository) GetOrganization(ctx context.Context, id string) (persistence.Organization, error) {
	if id == "" {
		return persistence.Organization{}, persistence.ErrNotFound
	}

	var org persistence.Organization
	var createdAtStr, updatedAtStr string

	row := r.helper.QueryRow(ctx,
		"SELECT id, name, created_at, updated_at FROM organizations WHERE id = ?", id)
	err := row.Scan(&org.ID, &org.Name, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Organization{}, persistence.ErrNotFound
		}
		return persistence.Organization{}, r.mapper.MapError(err)
	}

	if org.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Organization{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if org.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Organization{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return org, nil
}

// DeleteOrganization removes an organization. Referencing users, projects, or
// entries surface as ErrForeignKeyViolation.
func (r *OrganizationRepository) DeleteOrganization(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM organizations WHERE id = ?", id)
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
