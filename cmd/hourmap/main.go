package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ryan-edwad/capstone/internal/application"
	"github.com/ryan-edwad/capstone/internal/config"
	httptransport "github.com/ryan-edwad/capstone/internal/http"
	"github.com/ryan-edwad/capstone/internal/logging"
	"github.com/ryan-edwad/capstone/internal/persistence"
	"github.com/ryan-edwad/capstone/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	users := sqlite.NewUserRepository(storage)
	organizations := sqlite.NewOrganizationRepository(storage)
	projects := sqlite.NewProjectRepository(storage)
	locations := sqlite.NewLocationRepository(storage)
	invitations := sqlite.NewInvitationRepository(storage)
	entries := sqlite.NewTimeEntryRepository(storage)
	sessions := sqlite.NewSessionRepository(storage)

	userRepo := newUserRepositoryAdapter(users)
	userDirectory := newUserDirectoryAdapter(users)
	credentialStore := newCredentialStoreAdapter(users)
	organizationRepo := newOrganizationRepositoryAdapter(organizations)
	projectRepo := newProjectRepositoryAdapter(projects)
	projectCatalog := newProjectCatalogAdapter(projects)
	locationRepo := newLocationRepositoryAdapter(locations)
	locationCatalog := newLocationCatalogAdapter(locations)
	invitationRepo := newInvitationRepositoryAdapter(invitations)
	entryRepo := newTimeEntryRepositoryAdapter(entries)
	sessionRepo := newSessionRepositoryAdapter(sessions)

	entryService := application.NewTimeEntryServiceWithLogger(entryRepo, projectCatalog, locationCatalog, userDirectory, idGenerator, now, logger)
	userService := application.NewUserServiceWithLogger(userRepo, idGenerator, now, logger)
	organizationService := application.NewOrganizationServiceWithLogger(organizationRepo, userRepo, idGenerator, now, logger)
	projectService := application.NewProjectServiceWithLogger(projectRepo, userDirectory, idGenerator, now, logger)
	locationService := application.NewLocationServiceWithLogger(locationRepo, idGenerator, now, logger)
	invitationService := application.NewInvitationServiceWithLogger(invitationRepo, userRepo, idGenerator, tokenGenerator, now, cfg.InvitationTTL, logger)
	authService := application.NewAuthServiceWithLogger(credentialStore, sessionRepo, application.VerifyPassword, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Users:         httptransport.NewUserHandler(userService, logger),
		Organizations: httptransport.NewOrganizationHandler(organizationService, logger),
		Projects:      httptransport.NewProjectHandler(projectService, logger),
		Locations:     httptransport.NewLocationHandler(locationService, logger),
		Invitations:   httptransport.NewInvitationHandler(invitationService, logger),
		Entries:       httptransport.NewTimeEntryHandler(entryService, logger),
		Reports:       httptransport.NewReportHandler(entryService, logger),

		SessionMiddleware: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	go expireStaleRecords(ctx, logger, sessionRepo, invitationRepo, now)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("hourmap API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// expireStaleRecords deletes expired sessions and invitations on an hourly
// cadence until the context is cancelled.
func expireStaleRecords(ctx context.Context, logger *slog.Logger, sessions application.SessionRepository, invitations application.InvitationRepository, now func() time.Time) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reference := now().UTC()
			if err := sessions.DeleteExpiredSessions(ctx, reference); err != nil {
				logger.Warn("failed to delete expired sessions", "error", err)
			}
			if err := invitations.DeleteExpiredInvitations(ctx, reference); err != nil {
				logger.Warn("failed to delete expired invitations", "error", err)
			}
		}
	}
}

// mapPersistenceError translates storage sentinels into the application error
// vocabulary that the services and the HTTP responder branch on.
func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type timeEntryRepositoryAdapter struct {
	repo persistence.TimeEntryRepository
}

func newTimeEntryRepositoryAdapter(repo persistence.TimeEntryRepository) *timeEntryRepositoryAdapter {
	return &timeEntryRepositoryAdapter{repo: repo}
}

func (a *timeEntryRepositoryAdapter) CreateTimeEntry(ctx context.Context, entry application.TimeEntry) (application.TimeEntry, error) {
	if err := a.repo.CreateTimeEntry(ctx, toPersistenceTimeEntry(entry)); err != nil {
		// The open-entry unique index rejecting a second clock-in is a
		// lifecycle violation, not a key collision.
		if entry.Open() && errors.Is(err, persistence.ErrDuplicate) {
			return application.TimeEntry{}, application.ErrInvalidState
		}
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetTimeEntry(ctx, entry.ID)
	if err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	return toApplicationTimeEntry(stored), nil
}

func (a *timeEntryRepositoryAdapter) GetTimeEntry(ctx context.Context, id string) (application.TimeEntry, error) {
	stored, err := a.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	return toApplicationTimeEntry(stored), nil
}

func (a *timeEntryRepositoryAdapter) GetOpenTimeEntry(ctx context.Context, userID string) (application.TimeEntry, error) {
	stored, err := a.repo.GetOpenTimeEntry(ctx, userID)
	if err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	return toApplicationTimeEntry(stored), nil
}

func (a *timeEntryRepositoryAdapter) GetMostRecentTimeEntry(ctx context.Context, userID string) (application.TimeEntry, error) {
	stored, err := a.repo.GetMostRecentTimeEntry(ctx, userID)
	if err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	return toApplicationTimeEntry(stored), nil
}

func (a *timeEntryRepositoryAdapter) UpdateTimeEntry(ctx context.Context, entry application.TimeEntry) (application.TimeEntry, error) {
	if err := a.repo.UpdateTimeEntry(ctx, toPersistenceTimeEntry(entry)); err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetTimeEntry(ctx, entry.ID)
	if err != nil {
		return application.TimeEntry{}, mapPersistenceError(err)
	}
	return toApplicationTimeEntry(stored), nil
}

func (a *timeEntryRepositoryAdapter) DeleteTimeEntry(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteTimeEntry(ctx, id))
}

func (a *timeEntryRepositoryAdapter) ListTimeEntries(ctx context.Context, query application.TimeEntryQuery) ([]application.TimeEntry, error) {
	filter := persistence.TimeEntryFilter{
		UserID: query.UserID,
		Start:  cloneTime(query.Start),
		End:    cloneTime(query.End),
	}
	models, err := a.repo.ListTimeEntries(ctx, filter)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toApplicationTimeEntries(models), nil
}

func (a *timeEntryRepositoryAdapter) ListClosedEntriesInWindow(ctx context.Context, organizationID string, projectID *string, start, end time.Time) ([]application.TimeEntry, error) {
	models, err := a.repo.ListClosedEntriesInWindow(ctx, organizationID, projectID, start, end)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toApplicationTimeEntries(models), nil
}

type projectCatalogAdapter struct {
	repo persistence.ProjectRepository
}

func newProjectCatalogAdapter(repo persistence.ProjectRepository) *projectCatalogAdapter {
	return &projectCatalogAdapter{repo: repo}
}

func (a *projectCatalogAdapter) GetProject(ctx context.Context, id string) (application.Project, error) {
	stored, err := a.repo.GetProject(ctx, id)
	if err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	return toApplicationProject(stored), nil
}

type locationCatalogAdapter struct {
	repo persistence.LocationRepository
}

func newLocationCatalogAdapter(repo persistence.LocationRepository) *locationCatalogAdapter {
	return &locationCatalogAdapter{repo: repo}
}

func (a *locationCatalogAdapter) GetLocation(ctx context.Context, id string) (application.Location, error) {
	stored, err := a.repo.GetLocation(ctx, id)
	if err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	return toApplicationLocation(stored), nil
}

type userDirectoryAdapter struct {
	repo persistence.UserRepository
}

func newUserDirectoryAdapter(repo persistence.UserRepository) *userDirectoryAdapter {
	return &userDirectoryAdapter{repo: repo}
}

func (a *userDirectoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userDirectoryAdapter) ListUsersByOrganization(ctx context.Context, organizationID string) ([]application.User, error) {
	models, err := a.repo.ListUsersByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

// UpdateUser preserves the stored password hash; credential changes flow
// through dedicated operations.
func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user, current.PasswordHash)); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) ListUsersByOrganization(ctx context.Context, organizationID string) ([]application.User, error) {
	return newUserDirectoryAdapter(a.repo).ListUsersByOrganization(ctx, organizationID)
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapPersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

type organizationRepositoryAdapter struct {
	repo persistence.OrganizationRepository
}

func newOrganizationRepositoryAdapter(repo persistence.OrganizationRepository) *organizationRepositoryAdapter {
	return &organizationRepositoryAdapter{repo: repo}
}

func (a *organizationRepositoryAdapter) CreateOrganization(ctx context.Context, org application.Organization) (application.Organization, error) {
	if err := a.repo.CreateOrganization(ctx, toPersistenceOrganization(org)); err != nil {
		return application.Organization{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetOrganization(ctx, org.ID)
	if err != nil {
		return application.Organization{}, mapPersistenceError(err)
	}
	return toApplicationOrganization(stored), nil
}

func (a *organizationRepositoryAdapter) GetOrganization(ctx context.Context, id string) (application.Organization, error) {
	stored, err := a.repo.GetOrganization(ctx, id)
	if err != nil {
		return application.Organization{}, mapPersistenceError(err)
	}
	return toApplicationOrganization(stored), nil
}

func (a *organizationRepositoryAdapter) UpdateOrganization(ctx context.Context, org application.Organization) (application.Organization, error) {
	if err := a.repo.UpdateOrganization(ctx, toPersistenceOrganization(org)); err != nil {
		return application.Organization{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetOrganization(ctx, org.ID)
	if err != nil {
		return application.Organization{}, mapPersistenceError(err)
	}
	return toApplicationOrganization(stored), nil
}

type projectRepositoryAdapter struct {
	repo persistence.ProjectRepository
}

func newProjectRepositoryAdapter(repo persistence.ProjectRepository) *projectRepositoryAdapter {
	return &projectRepositoryAdapter{repo: repo}
}

func (a *projectRepositoryAdapter) CreateProject(ctx context.Context, project application.Project) (application.Project, error) {
	if err := a.repo.CreateProject(ctx, toPersistenceProject(project)); err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetProject(ctx, project.ID)
	if err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) GetProject(ctx context.Context, id string) (application.Project, error) {
	stored, err := a.repo.GetProject(ctx, id)
	if err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) UpdateProject(ctx context.Context, project application.Project) (application.Project, error) {
	if err := a.repo.UpdateProject(ctx, toPersistenceProject(project)); err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetProject(ctx, project.ID)
	if err != nil {
		return application.Project{}, mapPersistenceError(err)
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) DeleteProject(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteProject(ctx, id))
}

func (a *projectRepositoryAdapter) ListProjects(ctx context.Context, organizationID string) ([]application.Project, error) {
	models, err := a.repo.ListProjects(ctx, organizationID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toApplicationProjects(models), nil
}

func (a *projectRepositoryAdapter) ListProjectsForUser(ctx context.Context, organizationID, userID string) ([]application.Project, error) {
	models, err := a.repo.ListProjectsForUser(ctx, organizationID, userID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toApplicationProjects(models), nil
}

func (a *projectRepositoryAdapter) AssignUser(ctx context.Context, projectID, userID string) error {
	return mapPersistenceError(a.repo.AssignUser(ctx, projectID, userID))
}

func (a *projectRepositoryAdapter) UnassignUser(ctx context.Context, projectID, userID string) error {
	return mapPersistenceError(a.repo.UnassignUser(ctx, projectID, userID))
}

type locationRepositoryAdapter struct {
	repo persistence.LocationRepository
}

func newLocationRepositoryAdapter(repo persistence.LocationRepository) *locationRepositoryAdapter {
	return &locationRepositoryAdapter{repo: repo}
}

func (a *locationRepositoryAdapter) CreateLocation(ctx context.Context, location application.Location) (application.Location, error) {
	if err := a.repo.CreateLocation(ctx, toPersistenceLocation(location)); err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetLocation(ctx, location.ID)
	if err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	return toApplicationLocation(stored), nil
}

func (a *locationRepositoryAdapter) GetLocation(ctx context.Context, id string) (application.Location, error) {
	stored, err := a.repo.GetLocation(ctx, id)
	if err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	return toApplicationLocation(stored), nil
}

func (a *locationRepositoryAdapter) UpdateLocation(ctx context.Context, location application.Location) (application.Location, error) {
	if err := a.repo.UpdateLocation(ctx, toPersistenceLocation(location)); err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetLocation(ctx, location.ID)
	if err != nil {
		return application.Location{}, mapPersistenceError(err)
	}
	return toApplicationLocation(stored), nil
}

func (a *locationRepositoryAdapter) DeleteLocation(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteLocation(ctx, id))
}

func (a *locationRepositoryAdapter) ListLocations(ctx context.Context, organizationID string) ([]application.Location, error) {
	models, err := a.repo.ListLocations(ctx, organizationID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	locations := make([]application.Location, 0, len(models))
	for _, model := range models {
		locations = append(locations, toApplicationLocation(model))
	}
	return locations, nil
}

type invitationRepositoryAdapter struct {
	repo persistence.InvitationRepository
}

func newInvitationRepositoryAdapter(repo persistence.InvitationRepository) *invitationRepositoryAdapter {
	return &invitationRepositoryAdapter{repo: repo}
}

func (a *invitationRepositoryAdapter) CreateInvitation(ctx context.Context, invitation application.Invitation) (application.Invitation, error) {
	if err := a.repo.CreateInvitation(ctx, toPersistenceInvitation(invitation)); err != nil {
		return application.Invitation{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetInvitationByToken(ctx, invitation.Token)
	if err != nil {
		return application.Invitation{}, mapPersistenceError(err)
	}
	return toApplicationInvitation(stored), nil
}

func (a *invitationRepositoryAdapter) GetInvitationByToken(ctx context.Context, token string) (application.Invitation, error) {
	stored, err := a.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return application.Invitation{}, mapPersistenceError(err)
	}
	return toApplicationInvitation(stored), nil
}

func (a *invitationRepositoryAdapter) ListInvitations(ctx context.Context, organizationID string) ([]application.Invitation, error) {
	models, err := a.repo.ListInvitations(ctx, organizationID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	invitations := make([]application.Invitation, 0, len(models))
	for _, model := range models {
		invitations = append(invitations, toApplicationInvitation(model))
	}
	return invitations, nil
}

func (a *invitationRepositoryAdapter) DeleteInvitation(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteInvitation(ctx, id))
}

func (a *invitationRepositoryAdapter) DeleteExpiredInvitations(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredInvitations(ctx, reference))
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredSessions(ctx, reference))
}

func toApplicationUser(model persistence.User) application.User {
	organizationID := ""
	if model.OrganizationID != nil {
		organizationID = *model.OrganizationID
	}
	return application.User{
		ID:             model.ID,
		Email:          model.Email,
		DisplayName:    model.DisplayName,
		JobTitle:       model.JobTitle,
		PayRate:        cloneFloat(model.PayRate),
		Role:           application.Role(model.Role),
		OrganizationID: organizationID,
		Disabled:       model.Disabled,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	var organizationID *string
	if user.OrganizationID != "" {
		organizationID = cloneString(&user.OrganizationID)
	}
	return persistence.User{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		JobTitle:       user.JobTitle,
		PasswordHash:   passwordHash,
		PayRate:        cloneFloat(user.PayRate),
		Role:           string(user.Role),
		OrganizationID: organizationID,
		Disabled:       user.Disabled,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func toApplicationOrganization(model persistence.Organization) application.Organization {
	return application.Organization{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceOrganization(org application.Organization) persistence.Organization {
	return persistence.Organization{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

func toApplicationProject(model persistence.Project) application.Project {
	return application.Project{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		Name:           model.Name,
		Description:    model.Description,
		Enabled:        model.Enabled,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toApplicationProjects(models []persistence.Project) []application.Project {
	if len(models) == 0 {
		return nil
	}
	projects := make([]application.Project, 0, len(models))
	for _, model := range models {
		projects = append(projects, toApplicationProject(model))
	}
	return projects
}

func toPersistenceProject(project application.Project) persistence.Project {
	return persistence.Project{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Description:    project.Description,
		Enabled:        project.Enabled,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

func toApplicationLocation(model persistence.Location) application.Location {
	return application.Location{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		Name:           model.Name,
		Address:        model.Address,
		City:           model.City,
		State:          model.State,
		Description:    model.Description,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toPersistenceLocation(location application.Location) persistence.Location {
	return persistence.Location{
		ID:             location.ID,
		OrganizationID: location.OrganizationID,
		Name:           location.Name,
		Address:        location.Address,
		City:           location.City,
		State:          location.State,
		Description:    location.Description,
		CreatedAt:      location.CreatedAt,
		UpdatedAt:      location.UpdatedAt,
	}
}

func toApplicationInvitation(model persistence.Invitation) application.Invitation {
	return application.Invitation{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		Email:          model.Email,
		Token:          model.Token,
		ExpiresAt:      model.ExpiresAt,
		CreatedAt:      model.CreatedAt,
	}
}

func toPersistenceInvitation(invitation application.Invitation) persistence.Invitation {
	return persistence.Invitation{
		ID:             invitation.ID,
		OrganizationID: invitation.OrganizationID,
		Email:          invitation.Email,
		Token:          invitation.Token,
		ExpiresAt:      invitation.ExpiresAt,
		CreatedAt:      invitation.CreatedAt,
	}
}

func toApplicationTimeEntry(model persistence.TimeEntry) application.TimeEntry {
	return application.TimeEntry{
		ID:             model.ID,
		UserID:         model.UserID,
		OrganizationID: model.OrganizationID,
		ProjectID:      cloneString(model.ProjectID),
		LocationID:     cloneString(model.LocationID),
		ClockIn:        model.ClockIn,
		ClockOut:       cloneTime(model.ClockOut),
		Duration:       cloneString(model.Duration),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toApplicationTimeEntries(models []persistence.TimeEntry) []application.TimeEntry {
	if len(models) == 0 {
		return nil
	}
	entries := make([]application.TimeEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationTimeEntry(model))
	}
	return entries
}

func toPersistenceTimeEntry(entry application.TimeEntry) persistence.TimeEntry {
	return persistence.TimeEntry{
		ID:             entry.ID,
		UserID:         entry.UserID,
		OrganizationID: entry.OrganizationID,
		ProjectID:      cloneString(entry.ProjectID),
		LocationID:     cloneString(entry.LocationID),
		ClockIn:        entry.ClockIn,
		ClockOut:       cloneTime(entry.ClockOut),
		Duration:       cloneString(entry.Duration),
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:          model.ID,
		UserID:      model.UserID,
		Token:       model.Token,
		Fingerprint: model.Fingerprint,
		ExpiresAt:   model.ExpiresAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		RevokedAt:   cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
