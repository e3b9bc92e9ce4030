package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// OrganizationRepository captures the persistence operations needed by the service.
type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org Organization) (Organization, error)
	GetOrganization(ctx context.Context, id string) (Organization, error)
	UpdateOrganization(ctx context.Context, org Organization) (Organization, error)
}

// OrganizationService orchestrates tenant creation and administration.
type OrganizationService struct {
	organizations OrganizationRepository
	users         UserRepository
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewOrganizationService constructs an organization service with the provided dependencies.
func NewOrganizationService(organizations OrganizationRepository, users UserRepository, idGenerator func() string, now func() time.Time) *OrganizationService {
	return NewOrganizationServiceWithLogger(organizations, users, idGenerator, now, nil)
}

// NewOrganizationServiceWithLogger constructs an organization service with a specified logger.
func NewOrganizationServiceWithLogger(organizations OrganizationRepository, users UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrganizationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OrganizationService{
		organizations: organizations,
		users:         users,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *OrganizationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OrganizationService", operation, attrs...)
}

// CreateOrganization creates a tenant and promotes the creating user to its
// admin. Users already belonging to an organization cannot create another.
func (s *OrganizationService) CreateOrganization(ctx context.Context, params CreateOrganizationParams) (org Organization, err error) {
	if s == nil {
		err = fmt.Errorf("OrganizationService is nil")
		return
	}
	if s.organizations == nil {
		err = fmt.Errorf("organization repository not configured")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateOrganization",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create organization", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("organization_id", org.ID).InfoContext(ctx, "organization created")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}
	if params.Principal.OrganizationID != "" {
		err = ErrInvalidState
		return
	}

	name := strings.TrimSpace(params.Input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "organization name is required")
		err = vErr
		return
	}

	var creator User
	creator, err = s.users.GetUser(ctx, params.Principal.UserID)
	if err != nil {
		return
	}

	now := s.now().UTC()
	org = Organization{
		ID:        s.idGenerator(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	org, err = s.organizations.CreateOrganization(ctx, org)
	if err != nil {
		org = Organization{}
		return
	}

	creator.OrganizationID = org.ID
	creator.Role = RoleAdmin
	creator.UpdatedAt = now
	if _, err = s.users.UpdateUser(ctx, creator); err != nil {
		org = Organization{}
	}
	return
}

// GetOrganization returns the principal's tenant.
func (s *OrganizationService) GetOrganization(ctx context.Context, principal Principal, organizationID string) (Organization, error) {
	if s == nil {
		return Organization{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.organizations == nil {
		return Organization{}, fmt.Errorf("organization repository not configured")
	}

	if principal.OrganizationID == "" || principal.OrganizationID != organizationID {
		return Organization{}, ErrUnauthorized
	}

	return s.organizations.GetOrganization(ctx, organizationID)
}

// UpdateOrganization renames the tenant. Admins only.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, params UpdateOrganizationParams) (org Organization, err error) {
	if s == nil {
		err = fmt.Errorf("OrganizationService is nil")
		return
	}
	if s.organizations == nil {
		err = fmt.Errorf("organization repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateOrganization",
		"principal_id", params.Principal.UserID,
		"organization_id", params.OrganizationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update organization", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "organization updated")
	}()

	if params.Principal.Role != RoleAdmin || params.Principal.OrganizationID != params.OrganizationID {
		err = ErrUnauthorized
		return
	}

	name := strings.TrimSpace(params.Input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "organization name is required")
		err = vErr
		return
	}

	org, err = s.organizations.GetOrganization(ctx, params.OrganizationID)
	if err != nil {
		org = Organization{}
		return
	}

	org.Name = name
	org.UpdatedAt = s.now().UTC()

	org, err = s.organizations.UpdateOrganization(ctx, org)
	if err != nil {
		org = Organization{}
	}
	return
}
