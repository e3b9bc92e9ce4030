package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ryan-edwad/capstone/internal/application"
)

type locationService interface {
	CreateLocation(ctx context.Context, params application.CreateLocationParams) (application.Location, error)
	UpdateLocation(ctx context.Context, params application.UpdateLocationParams) (application.Location, error)
	ListLocations(ctx context.Context, principal application.Principal) ([]application.Location, error)
	DeleteLocation(ctx context.Context, principal application.Principal, locationID string) error
}

type LocationHandler struct {
	service   locationService
	responder responder
	logger    *slog.Logger
}

func NewLocationHandler(service locationService, logger *slog.Logger) *LocationHandler {
	base := defaultLogger(logger)
	return &LocationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LocationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LocationHandler", operation, attrs...)
}

// Create adds a work location. Managers only.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode location request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	location, err := h.service.CreateLocation(r.Context(), application.CreateLocationParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toLocationDTO(location))
}

// Update edits a work location. Managers only.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	locationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(locationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLocationID)
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "location_id", locationID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode location request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	location, err := h.service.UpdateLocation(r.Context(), application.UpdateLocationParams{
		Principal:  principal,
		LocationID: locationID,
		Input:      req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toLocationDTO(location))
}

// List returns the organization's locations for any member.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	locations, err := h.service.ListLocations(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLocationsResponse{Locations: toLocationDTOs(locations)})
}

// Delete removes a work location. Managers only.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	locationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(locationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLocationID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteLocation(r.Context(), principal, locationID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type locationRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Description string `json:"description"`
}

func (r locationRequest) toInput() application.LocationInput {
	return application.LocationInput{
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Description: r.Description,
	}
}

type listLocationsResponse struct {
	Locations []locationDTO `json:"locations"`
}

type locationDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toLocationDTO(location application.Location) locationDTO {
	return locationDTO{
		ID:          location.ID,
		Name:        location.Name,
		Address:     location.Address,
		City:        location.City,
		State:       location.State,
		Description: location.Description,
		CreatedAt:   location.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   location.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toLocationDTOs(locations []application.Location) []locationDTO {
	if len(locations) == 0 {
		return nil
	}
	out := make([]locationDTO, 0, len(locations))
	for _, location := range locations {
		out = append(out, toLocationDTO(location))
	}
	return out
}
