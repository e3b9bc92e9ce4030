package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ProjectRepository captures the persistence operations needed by the service.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) (Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	UpdateProject(ctx context.Context, project Project) (Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, organizationID string) ([]Project, error)
	ListProjectsForUser(ctx context.Context, organizationID, userID string) ([]Project, error)
	AssignUser(ctx context.Context, projectID, userID string) error
	UnassignUser(ctx context.Context, projectID, userID string) error
}

// ProjectService orchestrates validation, authorization, and persistence for projects.
type ProjectService struct {
	projects    ProjectRepository
	users       UserDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewProjectService constructs a project service with the provided dependencies.
func NewProjectService(projects ProjectRepository, users UserDirectory, idGenerator func() string, now func() time.Time) *ProjectService {
	return NewProjectServiceWithLogger(projects, users, idGenerator, now, nil)
}

// NewProjectServiceWithLogger constructs a project service with a specified logger.
func NewProjectServiceWithLogger(projects ProjectRepository, users UserDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ProjectService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ProjectService{
		projects:    projects,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ProjectService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProjectService", operation, attrs...)
}

// CreateProject validates input and persists a new project. Managers only.
func (s *ProjectService) CreateProject(ctx context.Context, params CreateProjectParams) (project Project, err error) {
	if s == nil {
		err = fmt.Errorf("ProjectService is nil")
		return
	}
	if s.projects == nil {
		err = fmt.Errorf("project repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateProject",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create project", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("project_id", project.ID).InfoContext(ctx, "project created")
	}()

	if !params.Principal.CanManage() || params.Principal.OrganizationID == "" {
		err = ErrUnauthorized
		return
	}

	vErr := validateProjectInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now().UTC()
	project = Project{
		ID:             s.idGenerator(),
		OrganizationID: params.Principal.OrganizationID,
		Name:           strings.TrimSpace(params.Input.Name),
		Description:    strings.TrimSpace(params.Input.Description),
		Enabled:        params.Input.Enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	project, err = s.projects.CreateProject(ctx, project)
	if err != nil {
		project = Project{}
	}
	return
}

// UpdateProject validates input and updates an existing project. Managers only.
func (s *ProjectService) UpdateProject(ctx context.Context, params UpdateProjectParams) (project Project, err error) {
	if s == nil {
		err = fmt.Errorf("ProjectService is nil")
		return
	}
	if s.projects == nil {
		err = fmt.Errorf("project repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateProject",
		"principal_id", params.Principal.UserID,
		"project_id", params.ProjectID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update project", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "project updated")
	}()

	project, err = s.requireManagedProject(ctx, params.Principal, params.ProjectID)
	if err != nil {
		project = Project{}
		return
	}

	vErr := validateProjectInput(params.Input)
	if vErr.HasErrors() {
		project = Project{}
		err = vErr
		return
	}

	project.Name = strings.TrimSpace(params.Input.Name)
	project.Description = strings.TrimSpace(params.Input.Description)
	project.Enabled = params.Input.Enabled
	project.UpdatedAt = s.now().UTC()

	project, err = s.projects.UpdateProject(ctx, project)
	if err != nil {
		project = Project{}
	}
	return
}

// GetProject returns one project in the principal's organization.
func (s *ProjectService) GetProject(ctx context.Context, principal Principal, projectID string) (Project, error) {
	if s == nil {
		return Project{}, fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return Project{}, fmt.Errorf("project repository not configured")
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return Project{}, err
	}
	if project.OrganizationID != principal.OrganizationID {
		return Project{}, ErrNotFound
	}
	return project, nil
}

// ListProjects returns the organization's projects. Members see their assigned
// projects; managers see all of them.
func (s *ProjectService) ListProjects(ctx context.Context, principal Principal) ([]Project, error) {
	if s == nil {
		return nil, fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return nil, fmt.Errorf("project repository not configured")
	}

	if principal.OrganizationID == "" {
		return nil, ErrUnauthorized
	}
	if principal.CanManage() {
		return s.projects.ListProjects(ctx, principal.OrganizationID)
	}
	return s.projects.ListProjectsForUser(ctx, principal.OrganizationID, principal.UserID)
}

// AssignUser adds an organization member to a project. Managers only.
func (s *ProjectService) AssignUser(ctx context.Context, params AssignProjectParams) error {
	return s.changeMembership(ctx, params, true)
}

// UnassignUser removes an organization member from a project. Managers only.
func (s *ProjectService) UnassignUser(ctx context.Context, params AssignProjectParams) error {
	return s.changeMembership(ctx, params, false)
}

func (s *ProjectService) changeMembership(ctx context.Context, params AssignProjectParams, assign bool) error {
	if s == nil {
		return fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return fmt.Errorf("project repository not configured")
	}
	if s.users == nil {
		return fmt.Errorf("user directory not configured")
	}

	operation := "UnassignUser"
	if assign {
		operation = "AssignUser"
	}
	logger := s.loggerWith(ctx, operation,
		"principal_id", params.Principal.UserID,
		"project_id", params.ProjectID,
		"user_id", params.UserID,
	)

	if _, err := s.requireManagedProject(ctx, params.Principal, params.ProjectID); err != nil {
		logger.ErrorContext(ctx, "failed to change project membership", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	member, err := s.users.GetUser(ctx, params.UserID)
	if err == nil && member.OrganizationID != params.Principal.OrganizationID {
		err = ErrNotFound
	}
	if err == nil {
		if assign {
			err = s.projects.AssignUser(ctx, params.ProjectID, params.UserID)
		} else {
			err = s.projects.UnassignUser(ctx, params.ProjectID, params.UserID)
		}
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to change project membership", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "project membership changed")
	return nil
}

// DeleteProject removes a project with no recorded time. Managers only.
func (s *ProjectService) DeleteProject(ctx context.Context, principal Principal, projectID string) error {
	if s == nil {
		return fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return fmt.Errorf("project repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteProject",
		"principal_id", principal.UserID,
		"project_id", projectID,
	)

	if _, err := s.requireManagedProject(ctx, principal, projectID); err != nil {
		logger.ErrorContext(ctx, "failed to delete project", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		logger.ErrorContext(ctx, "failed to delete project", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "project deleted")
	return nil
}

func (s *ProjectService) requireManagedProject(ctx context.Context, principal Principal, projectID string) (Project, error) {
	if !principal.CanManage() {
		return Project{}, ErrUnauthorized
	}
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return Project{}, err
	}
	if project.OrganizationID != principal.OrganizationID {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func validateProjectInput(input ProjectInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "project name is required")
	}
	return vErr
}
