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

type invitationService interface {
	Invite(ctx context.Context, params application.InviteParams) (application.Invitation, error)
	Accept(ctx context.Context, params application.AcceptInvitationParams) (application.User, error)
	ListInvitations(ctx context.Context, principal application.Principal) ([]application.Invitation, error)
	RevokeInvitation(ctx context.Context, principal application.Principal, invitationID string) error
}

type InvitationHandler struct {
	service   invitationService
	responder responder
	logger    *slog.Logger
}

func NewInvitationHandler(service invitationService, logger *slog.Logger) *InvitationHandler {
	base := defaultLogger(logger)
	return &InvitationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *InvitationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "InvitationHandler", operation, attrs...)
}

// Create issues an invitation for an email address. Managers only.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode invitation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	invitation, err := h.service.Invite(r.Context(), application.InviteParams{
		Principal: principal,
		Email:     req.Email,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toInvitationDTO(invitation))
}

// Accept redeems an invitation token for the authenticated caller.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Accept", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode accept request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.Accept(r.Context(), application.AcceptInvitationParams{
		Principal: principal,
		Token:     req.Token,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toUserDTO(user))
}

// List returns the organization's pending invitations. Managers only.
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	invitations, err := h.service.ListInvitations(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listInvitationsResponse{
		Invitations: toInvitationDTOs(invitations),
	})
}

// Delete withdraws a pending invitation. Managers only.
func (h *InvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	invitationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(invitationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("an invitation id is required"))
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.RevokeInvitation(r.Context(), principal, invitationID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type inviteRequest struct {
	Email string `json:"email"`
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

type listInvitationsResponse struct {
	Invitations []invitationDTO `json:"invitations"`
}

type invitationDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

func toInvitationDTO(invitation application.Invitation) invitationDTO {
	return invitationDTO{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Token:     invitation.Token,
		ExpiresAt: invitation.ExpiresAt.UTC().Format(time.RFC3339Nano),
		CreatedAt: invitation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toInvitationDTOs(invitations []application.Invitation) []invitationDTO {
	if len(invitations) == 0 {
		return nil
	}
	out := make([]invitationDTO, 0, len(invitations))
	for _, invitation := range invitations {
		out = append(out, toInvitationDTO(invitation))
	}
	return out
}
