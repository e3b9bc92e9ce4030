package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ryan-edwad/capstone/internal/application"
)

type organizationService interface {
	CreateOrganization(ctx context.Context, params application.CreateOrganizationParams) (application.Organization, error)
	GetOrganization(ctx context.Context, principal application.Principal, organizationID string) (application.Organization, error)
	UpdateOrganization(ctx context.Context, params application.UpdateOrganizationParams) (application.Organization, error)
}

type OrganizationHandler struct {
	service   organizationService
	responder responder
	logger    *slog.Logger
}

func NewOrganizationHandler(service organizationService, logger *slog.Logger) *OrganizationHandler {
	base := defaultLogger(logger)
	return &OrganizationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OrganizationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrganizationHandler", operation, attrs...)
}

// Create establishes a new tenant with the caller as its admin.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode organization request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	org, err := h.service.CreateOrganization(r.Context(), application.CreateOrganizationParams{
		Principal: principal,
		Input:     application.OrganizationInput{Name: req.Name},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create organization", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("organization_id", org.ID).InfoContext(r.Context(), "organization created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toOrganizationDTO(org))
}

// Get returns the caller's organization.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	organizationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(organizationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("an organization id is required"))
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	org, err := h.service.GetOrganization(r.Context(), principal, organizationID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrganizationDTO(org))
}

// Update renames the organization. Admins only.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	organizationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(organizationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("an organization id is required"))
		return
	}

	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "organization_id", organizationID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode organization request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	org, err := h.service.UpdateOrganization(r.Context(), application.UpdateOrganizationParams{
		Principal:      principal,
		OrganizationID: organizationID,
		Input:          application.OrganizationInput{Name: req.Name},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrganizationDTO(org))
}

type organizationRequest struct {
	Name string `json:"name"`
}

type organizationDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOrganizationDTO(org application.Organization) organizationDTO {
	return organizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: org.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
