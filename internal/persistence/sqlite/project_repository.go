package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// ProjectRepository implements persistence.ProjectRepository using SQLite.
type ProjectRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewProjectRepository creates a new SQLite project repository.
func NewProjectRepository(pool *ConnectionPool) *ProjectRepository {
	return &ProjectRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const projectColumns = "id, organization_id, name, description, enabled, created_at, updated_at"

// CreateProject inserts a new project.
func (r *ProjectRepository) CreateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" || project.OrganizationID == "" || project.Name == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		project.ID,
		project.OrganizationID,
		project.Name,
		project.Description,
		boolToInt(project.Enabled),
		project.CreatedAt.Format(time.RFC3339),
		project.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateProject rewrites all mutable columns of an existing project.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	project.UpdatedAt = time.Now().UTC()

	result, err := r.helper.Exec(ctx,
		"UPDATE projects SET name = ?, description = ?, enabled = ?, updated_at = ? WHERE id = ?",
		project.Name,
		project.Description,
		boolToInt(project.Enabled),
		project.UpdatedAt.Format(time.RFC3339),
		project.ID,
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

// GetProject retrieves a project by ID.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (persistence.Project, error) {
	if id == "" {
		return persistence.Project{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	return scanProject(row)
}

// ListProjects returns an organization's projects ordered by name.
func (r *ProjectRepository) ListProjects(ctx context.Context, organizationID string) ([]persistence.Project, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE organization_id = ? ORDER BY name ASC, id ASC",
		organizationID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// ListProjectsForUser returns the organization's projects the user is
// assigned to, ordered by name.
func (r *ProjectRepository) ListProjectsForUser(ctx context.Context, organizationID, userID string) ([]persistence.Project, error) {
	query := `
		SELECT p.id, p.organization_id, p.name, p.description, p.enabled, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN user_projects up ON up.project_id = p.id
		WHERE p.organization_id = ? AND up.user_id = ?
		ORDER BY p.name ASC, p.id ASC
	`

	rows, err := r.helper.Query(ctx, query, organizationID, userID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// AssignUser adds a user to a project. Assigning twice is a no-op.
func (r *ProjectRepository) AssignUser(ctx context.Context, projectID, userID string) error {
	if projectID == "" || userID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		"INSERT OR IGNORE INTO user_projects (project_id, user_id) VALUES (?, ?)",
		projectID, userID)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UnassignUser removes a user from a project.
func (r *ProjectRepository) UnassignUser(ctx context.Context, projectID, userID string) error {
	result, err := r.helper.Exec(ctx,
		"DELETE FROM user_projects WHERE project_id = ? AND user_id = ?",
		projectID, userID)
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

// DeleteProject removes a project. Membership rows cascade; time entries
// referencing the project surface as ErrForeignKeyViolation.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM projects WHERE id = ?", id)
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

func scanProject(row rowScanner) (persistence.Project, error) {
	var project persistence.Project
	var enabled int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&project.ID,
		&project.OrganizationID,
		&project.Name,
		&project.Description,
		&enabled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Project{}, persistence.ErrNotFound
		}
		return persistence.Project{}, NewErrorMapper().MapError(err)
	}

	project.Enabled = enabled != 0

	if project.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Project{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if project.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Project{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return project, nil
}

func collectProjects(rows *sql.Rows) ([]persistence.Project, error) {
	var projects []persistence.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, NewErrorMapper().MapError(err)
	}
	return projects, nil
}
