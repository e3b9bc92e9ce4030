package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// LocationRepository captures the persistence operations needed by the service.
type LocationRepository interface {
	CreateLocation(ctx context.Context, location Location) (Location, error)
	GetLocation(ctx context.Context, id string) (Location, error)
	UpdateLocation(ctx context.Context, location Location) (Location, error)
	DeleteLocation(ctx context.Context, id string) error
	ListLocations(ctx context.Context, organizationID string) ([]Location, error)
}

// LocationService orchestrates validation, authorization, and persistence for
// work locations.
type LocationService struct {
	locations   LocationRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewLocationService constructs a location service with the provided dependencies.
func NewLocationService(locations LocationRepository, idGenerator func() string, now func() time.Time) *LocationService {
	return NewLocationServiceWithLogger(locations, idGenerator, now, nil)
}

// NewLocationServiceWithLogger constructs a location service with a specified logger.
func NewLocationServiceWithLogger(locations LocationRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *LocationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &LocationService{
		locations:   locations,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *LocationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LocationService", operation, attrs...)
}

// CreateLocation validates input and persists a new location. Managers only.
func (s *LocationService) CreateLocation(ctx context.Context, params CreateLocationParams) (location Location, err error) {
	if s == nil {
		err = fmt.Errorf("LocationService is nil")
		return
	}
	if s.locations == nil {
		err = fmt.Errorf("location repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLocation",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create location", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("location_id", location.ID).InfoContext(ctx, "location created")
	}()

	if !params.Principal.CanManage() || params.Principal.OrganizationID == "" {
		err = ErrUnauthorized
		return
	}

	if strings.TrimSpace(params.Input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "location name is required")
		err = vErr
		return
	}

	now := s.now().UTC()
	location = Location{
		ID:             s.idGenerator(),
		OrganizationID: params.Principal.OrganizationID,
		Name:           strings.TrimSpace(params.Input.Name),
		Address:        strings.TrimSpace(params.Input.Address),
		City:           strings.TrimSpace(params.Input.City),
		State:          strings.TrimSpace(params.Input.State),
		Description:    strings.TrimSpace(params.Input.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	location, err = s.locations.CreateLocation(ctx, location)
	if err != nil {
		location = Location{}
	}
	return
}

// UpdateLocation validates input and updates an existing location. Managers only.
func (s *LocationService) UpdateLocation(ctx context.Context, params UpdateLocationParams) (location Location, err error) {
	if s == nil {
		err = fmt.Errorf("LocationService is nil")
		return
	}
	if s.locations == nil {
		err = fmt.Errorf("location repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLocation",
		"principal_id", params.Principal.UserID,
		"location_id", params.LocationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update location", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "location updated")
	}()

	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	location, err = s.locations.GetLocation(ctx, params.LocationID)
	if err != nil {
		location = Location{}
		return
	}
	if location.OrganizationID != params.Principal.OrganizationID {
		location = Location{}
		err = ErrNotFound
		return
	}

	if strings.TrimSpace(params.Input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "location name is required")
		location = Location{}
		err = vErr
		return
	}

	location.Name = strings.TrimSpace(params.Input.Name)
	location.Address = strings.TrimSpace(params.Input.Address)
	location.City = strings.TrimSpace(params.Input.City)
	location.State = strings.TrimSpace(params.Input.State)
	location.Description = strings.TrimSpace(params.Input.Description)
	location.UpdatedAt = s.now().UTC()

	location, err = s.locations.UpdateLocation(ctx, location)
	if err != nil {
		location = Location{}
	}
	return
}

// ListLocations returns the organization's locations for any member.
func (s *LocationService) ListLocations(ctx context.Context, principal Principal) ([]Location, error) {
	if s == nil {
		return nil, fmt.Errorf("LocationService is nil")
	}
	if s.locations == nil {
		return nil, fmt.Errorf("location repository not configured")
	}

	if principal.OrganizationID == "" {
		return nil, ErrUnauthorized
	}
	return s.locations.ListLocations(ctx, principal.OrganizationID)
}

// DeleteLocation removes a location. Managers only.
func (s *LocationService) DeleteLocation(ctx context.Context, principal Principal, locationID string) error {
	if s == nil {
		return fmt.Errorf("LocationService is nil")
	}
	if s.locations == nil {
		return fmt.Errorf("location repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteLocation",
		"principal_id", principal.UserID,
		"location_id", locationID,
	)

	if !principal.CanManage() {
		logger.ErrorContext(ctx, "failed to delete location", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	location, err := s.locations.GetLocation(ctx, locationID)
	if err == nil && location.OrganizationID != principal.OrganizationID {
		err = ErrNotFound
	}
	if err == nil {
		err = s.locations.DeleteLocation(ctx, locationID)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete location", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "location deleted")
	return nil
}
