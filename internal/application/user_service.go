package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	ListUsersByOrganization(ctx context.Context, organizationID string) ([]User, error)
}

// UserService orchestrates account registration, profile updates, and
// manager-level pay/role administration.
type UserService struct {
	users        UserRepository
	hashPassword func(password string) (string, error)
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService constructs a user service with the provided dependencies.
func NewUserService(users UserRepository, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(users UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: func(password string) (string, error) { return CreatePasswordHash(password, DefaultArgon2idParams) },
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register validates input and creates a new account with the employee role
// and no organization. Joining a tenant happens via invitation.
func (s *UserService) Register(ctx context.Context, params RegisterUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Input.Email))
	logger := s.loggerWith(ctx, "Register", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	vErr := &ValidationError{}
	if email == "" || !strings.Contains(email, "@") {
		vErr.add("email", "a valid email address is required")
	}
	if len(params.Input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(params.Input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Input.Password)
	if err != nil {
		return
	}

	now := s.now().UTC()
	user = User{
		ID:          s.idGenerator(),
		Email:       email,
		DisplayName: strings.TrimSpace(params.Input.DisplayName),
		JobTitle:    strings.TrimSpace(params.Input.JobTitle),
		Role:        RoleEmployee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	user, err = s.users.CreateUser(ctx, user, hash)
	if err != nil {
		user = User{}
	}
	return
}

// GetUser returns one account. Employees may read themselves; managers may
// read members of their organization.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if principal.UserID != userID {
		if !principal.CanManage() || user.OrganizationID == "" || user.OrganizationID != principal.OrganizationID {
			return User{}, ErrUnauthorized
		}
	}
	return user, nil
}

// UpdateProfile updates the display name and job title of an account. Users
// edit themselves; managers may edit members of their organization.
func (s *UserService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateProfile",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update profile", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "profile updated")
	}()

	user, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		user = User{}
		return
	}
	if params.Principal.UserID != params.UserID {
		if !params.Principal.CanManage() || user.OrganizationID != params.Principal.OrganizationID {
			user = User{}
			err = ErrUnauthorized
			return
		}
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(params.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if vErr.HasErrors() {
		user = User{}
		err = vErr
		return
	}

	user.DisplayName = strings.TrimSpace(params.DisplayName)
	user.JobTitle = strings.TrimSpace(params.JobTitle)
	user.UpdatedAt = s.now().UTC()

	user, err = s.users.UpdateUser(ctx, user)
	if err != nil {
		user = User{}
	}
	return
}

// ManageUser applies manager-initiated changes: pay rate, role, and the
// disabled flag. The principal must manage the target's organization.
func (s *UserService) ManageUser(ctx context.Context, params ManageUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ManageUser",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to manage user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	user, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		user = User{}
		return
	}
	if user.OrganizationID == "" || user.OrganizationID != params.Principal.OrganizationID {
		user = User{}
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if params.PayRate != nil && *params.PayRate < 0 {
		vErr.add("pay_rate", "pay rate must not be negative")
	}
	if params.Role != nil && !params.Role.Valid() {
		vErr.add("role", "unknown role")
	}
	// Only admins may grant or revoke the admin role.
	if params.Role != nil && (*params.Role == RoleAdmin || user.Role == RoleAdmin) && params.Principal.Role != RoleAdmin {
		user = User{}
		err = ErrUnauthorized
		return
	}
	if vErr.HasErrors() {
		user = User{}
		err = vErr
		return
	}

	if params.PayRate != nil {
		rate := *params.PayRate
		user.PayRate = &rate
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.Disabled != nil {
		user.Disabled = *params.Disabled
	}
	user.UpdatedAt = s.now().UTC()

	user, err = s.users.UpdateUser(ctx, user)
	if err != nil {
		user = User{}
	}
	return
}

// ListUsers returns the members of an organization. Managers only.
func (s *UserService) ListUsers(ctx context.Context, params ListUsersParams) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}

	if !params.Principal.CanManage() || params.Principal.OrganizationID != params.OrganizationID {
		return nil, ErrUnauthorized
	}

	return s.users.ListUsersByOrganization(ctx, params.OrganizationID)
}
