package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// InvitationRepository implements persistence.InvitationRepository using SQLite.
type InvitationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewInvitationRepository creates a new SQLite invitation repository.
func NewInvitationRepository(pool *ConnectionPool) *InvitationRepository {
	return &InvitationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const invitationColumns = "id, organization_id, email, token, expires_at, created_at"

// CreateInvitation inserts a new invitation. A duplicate token surfaces as
// ErrDuplicate.
func (r *InvitationRepository) CreateInvitation(ctx context.Context, invitation persistence.Invitation) error {
	if invitation.ID == "" || invitation.OrganizationID == "" || invitation.Token == "" {
		return persistence.ErrConstraintViolation
	}

	invitation.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		invitation.ID,
		invitation.OrganizationID,
		invitation.Email,
		invitation.Token,
		invitation.ExpiresAt.UTC().Format(time.RFC3339),
		invitation.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetInvitationByToken retrieves an invitation by its opaque token.
func (r *InvitationRepository) GetInvitationByToken(ctx context.Context, token string) (persistence.Invitation, error) {
	if token == "" {
		return persistence.Invitation{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT "+invitationColumns+" FROM invitations WHERE token = ?", token)
	return scanInvitation(row)
}

// ListInvitations returns an organization's pending invitations, newest first.
func (r *InvitationRepository) ListInvitations(ctx context.Context, organizationID string) ([]persistence.Invitation, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT "+invitationColumns+" FROM invitations WHERE organization_id = ? ORDER BY created_at DESC, id ASC",
		organizationID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var invitations []persistence.Invitation
	for rows.Next() {
		invitation, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return invitations, nil
}

// DeleteInvitation removes an invitation by ID.
func (r *InvitationRepository) DeleteInvitation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM invitations WHERE id = ?", id)
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

// DeleteExpiredInvitations removes all invitations that expired at or before
// the reference time.
func (r *InvitationRepository) DeleteExpiredInvitations(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM invitations WHERE expires_at <= ?",
		reference.UTC().Format(time.RFC3339))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func scanInvitation(row rowScanner) (persistence.Invitation, error) {
	var invitation persistence.Invitation
	var expiresAtStr, createdAtStr string

	err := row.Scan(
		&invitation.ID,
		&invitation.OrganizationID,
		&invitation.Email,
		&invitation.Token,
		&expiresAtStr,
		&createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Invitation{}, persistence.ErrNotFound
		}
		return persistence.Invitation{}, NewErrorMapper().MapError(err)
	}

	if invitation.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr); err != nil {
		return persistence.Invitation{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if invitation.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Invitation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return invitation, nil
}
