package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// InvitationRepository captures the persistence operations needed by the service.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation Invitation) (Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	ListInvitations(ctx context.Context, organizationID string) ([]Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
	DeleteExpiredInvitations(ctx context.Context, reference time.Time) error
}

// InvitationService issues and redeems organization invitations.
type InvitationService struct {
	invitations    InvitationRepository
	users          UserRepository
	tokenGenerator func() string
	idGenerator    func() string
	now            func() time.Time
	invitationTTL  time.Duration
	logger         *slog.Logger
}

// NewInvitationService constructs an invitation service with the provided dependencies.
func NewInvitationService(invitations InvitationRepository, users UserRepository, idGenerator, tokenGenerator func() string, now func() time.Time, invitationTTL time.Duration) *InvitationService {
	return NewInvitationServiceWithLogger(invitations, users, idGenerator, tokenGenerator, now, invitationTTL, nil)
}

// NewInvitationServiceWithLogger constructs an invitation service with a specified logger.
func NewInvitationServiceWithLogger(invitations InvitationRepository, users UserRepository, idGenerator, tokenGenerator func() string, now func() time.Time, invitationTTL time.Duration, logger *slog.Logger) *InvitationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = idGenerator
	}
	if now == nil {
		now = time.Now
	}
	if invitationTTL <= 0 {
		invitationTTL = 7 * 24 * time.Hour
	}
	return &InvitationService{
		invitations:    invitations,
		users:          users,
		tokenGenerator: tokenGenerator,
		idGenerator:    idGenerator,
		now:            now,
		invitationTTL:  invitationTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *InvitationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "InvitationService", operation, attrs...)
}

// Invite issues an invitation token for an email address. Managers only.
// Expired invitations are swept opportunistically on each issue.
func (s *InvitationService) Invite(ctx context.Context, params InviteParams) (invitation Invitation, err error) {
	if s == nil {
		err = fmt.Errorf("InvitationService is nil")
		return
	}
	if s.invitations == nil {
		err = fmt.Errorf("invitation repository not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Invite",
		"principal_id", params.Principal.UserID,
		"email", email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to issue invitation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("invitation_id", invitation.ID).InfoContext(ctx, "invitation issued")
	}()

	if !params.Principal.CanManage() || params.Principal.OrganizationID == "" {
		err = ErrUnauthorized
		return
	}

	if email == "" || !strings.Contains(email, "@") {
		vErr := &ValidationError{}
		vErr.add("email", "a valid email address is required")
		err = vErr
		return
	}

	now := s.now().UTC()
	if err = s.invitations.DeleteExpiredInvitations(ctx, now); err != nil {
		return
	}

	invitation = Invitation{
		ID:             s.idGenerator(),
		OrganizationID: params.Principal.OrganizationID,
		Email:          email,
		Token:          s.tokenGenerator(),
		ExpiresAt:      now.Add(s.invitationTTL),
		CreatedAt:      now,
	}

	invitation, err = s.invitations.CreateInvitation(ctx, invitation)
	if err != nil {
		invitation = Invitation{}
	}
	return
}

// Accept redeems an invitation token, attaching the principal's account to the
// inviting organization and consuming the invitation.
func (s *InvitationService) Accept(ctx context.Context, params AcceptInvitationParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("InvitationService is nil")
		return
	}
	if s.invitations == nil {
		err = fmt.Errorf("invitation repository not configured")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Accept",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to accept invitation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("organization_id", user.OrganizationID).InfoContext(ctx, "invitation accepted")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}
	if params.Principal.OrganizationID != "" {
		err = ErrInvalidState
		return
	}

	token := strings.TrimSpace(params.Token)
	if token == "" {
		vErr := &ValidationError{}
		vErr.add("token", "invitation token is required")
		err = vErr
		return
	}

	var invitation Invitation
	invitation, err = s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		return
	}
	if !invitation.ExpiresAt.After(s.now().UTC()) {
		err = ErrInvitationExpired
		return
	}

	user, err = s.users.GetUser(ctx, params.Principal.UserID)
	if err != nil {
		user = User{}
		return
	}
	if !strings.EqualFold(user.Email, invitation.Email) {
		user = User{}
		err = ErrUnauthorized
		return
	}

	user.OrganizationID = invitation.OrganizationID
	user.UpdatedAt = s.now().UTC()
	user, err = s.users.UpdateUser(ctx, user)
	if err != nil {
		user = User{}
		return
	}

	if err = s.invitations.DeleteInvitation(ctx, invitation.ID); err != nil {
		user = User{}
	}
	return
}

// ListInvitations returns the organization's pending invitations. Managers only.
func (s *InvitationService) ListInvitations(ctx context.Context, principal Principal) ([]Invitation, error) {
	if s == nil {
		return nil, fmt.Errorf("InvitationService is nil")
	}
	if s.invitations == nil {
		return nil, fmt.Errorf("invitation repository not configured")
	}

	if !principal.CanManage() || principal.OrganizationID == "" {
		return nil, ErrUnauthorized
	}
	return s.invitations.ListInvitations(ctx, principal.OrganizationID)
}

// RevokeInvitation withdraws a pending invitation. Managers only.
func (s *InvitationService) RevokeInvitation(ctx context.Context, principal Principal, invitationID string) error {
	if s == nil {
		return fmt.Errorf("InvitationService is nil")
	}
	if s.invitations == nil {
		return fmt.Errorf("invitation repository not configured")
	}

	logger := s.loggerWith(ctx, "RevokeInvitation",
		"principal_id", principal.UserID,
		"invitation_id", invitationID,
	)

	if !principal.CanManage() {
		logger.ErrorContext(ctx, "failed to revoke invitation", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	if err := s.invitations.DeleteInvitation(ctx, invitationID); err != nil {
		logger.ErrorContext(ctx, "failed to revoke invitation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "invitation revoked")
	return nil
}
