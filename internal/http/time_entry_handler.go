package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ryan-edwad/capstone/internal/application"
)

type timeEntryService interface {
	ClockIn(ctx context.Context, params application.ClockInParams) (application.TimeEntry, error)
	ClockOut(ctx context.Context, params application.ClockOutParams) (application.TimeEntry, error)
	UpdateEntry(ctx context.Context, params application.UpdateEntryParams) (application.TimeEntry, error)
	DeleteEntry(ctx context.Context, params application.DeleteEntryParams) error
	GetEntry(ctx context.Context, params application.GetEntryParams) (application.TimeEntry, error)
	ListEntries(ctx context.Context, params application.ListEntriesParams) ([]application.TimeEntry, error)
	MostRecentEntry(ctx context.Context, params application.MostRecentEntryParams) (application.TimeEntry, error)
}

type TimeEntryHandler struct {
	service   timeEntryService
	responder responder
	logger    *slog.Logger
}

func NewTimeEntryHandler(service timeEntryService, logger *slog.Logger) *TimeEntryHandler {
	base := defaultLogger(logger)
	return &TimeEntryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimeEntryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TimeEntryHandler", operation, attrs...)
}

// ClockIn opens a new entry for a user. Absent an explicit user_id the entry
// is opened for the caller.
func (h *TimeEntryHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req clockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ClockIn", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode clock-in request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = principal.UserID
	}

	entry, err := h.service.ClockIn(r.Context(), application.ClockInParams{
		Principal:  principal,
		UserID:     userID,
		ProjectID:  trimOptional(req.ProjectID),
		LocationID: trimOptional(req.LocationID),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toTimeEntryDTO(entry))
}

// ClockOut closes the identified open entry.
func (h *TimeEntryHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	entry, err := h.service.ClockOut(r.Context(), application.ClockOutParams{
		Principal: principal,
		EntryID:   entryID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimeEntryDTO(entry))
}

// Get returns a single entry.
func (h *TimeEntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	entry, err := h.service.GetEntry(r.Context(), application.GetEntryParams{
		Principal: principal,
		EntryID:   entryID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimeEntryDTO(entry))
}

// Update applies a manager correction to an existing entry.
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "entry_id", entryID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry update request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), application.UpdateEntryParams{
		Principal: principal,
		EntryID:   entryID,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimeEntryDTO(entry))
}

// Delete removes an entry permanently.
func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteEntry(r.Context(), application.DeleteEntryParams{
		Principal: principal,
		EntryID:   entryID,
	}); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List returns a user's entries, optionally bounded by an inclusive clock-in
// window supplied via start/end query parameters.
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params, err := buildListEntriesParams(r.URL.Query(), principal)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.service.ListEntries(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEntriesResponse{
		Entries: toTimeEntryDTOs(entries),
	})
}

// MostRecent returns the user's latest entry by clock-in time.
func (h *TimeEntryHandler) MostRecent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID = principal.UserID
	}

	entry, err := h.service.MostRecentEntry(r.Context(), application.MostRecentEntryParams{
		Principal: principal,
		UserID:    userID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimeEntryDTO(entry))
}

type clockInRequest struct {
	UserID     string  `json:"user_id"`
	ProjectID  *string `json:"project_id"`
	LocationID *string `json:"location_id"`
}

type updateEntryRequest struct {
	ProjectID     *string `json:"project_id"`
	LocationID    *string `json:"location_id"`
	ClearProject  bool    `json:"clear_project"`
	ClearLocation bool    `json:"clear_location"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      string  `json:"clock_out"`
}

func (r updateEntryRequest) toInput() (application.TimeEntryInput, error) {
	input := application.TimeEntryInput{
		ProjectID:     trimOptional(r.ProjectID),
		LocationID:    trimOptional(r.LocationID),
		ClearProject:  r.ClearProject,
		ClearLocation: r.ClearLocation,
	}

	var err error
	if input.ClockIn, err = parseOptionalTime(r.ClockIn); err != nil {
		return application.TimeEntryInput{}, err
	}
	if input.ClockOut, err = parseOptionalTime(r.ClockOut); err != nil {
		return application.TimeEntryInput{}, err
	}

	return input, nil
}

type listEntriesResponse struct {
	Entries []timeEntryDTO `json:"entries"`
}

type timeEntryDTO struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	ProjectID  *string `json:"project_id,omitempty"`
	LocationID *string `json:"location_id,omitempty"`
	ClockIn    string  `json:"clock_in"`
	ClockOut   string  `json:"clock_out,omitempty"`
	Duration   string  `json:"duration,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toTimeEntryDTO(entry application.TimeEntry) timeEntryDTO {
	dto := timeEntryDTO{
		ID:         entry.ID,
		UserID:     entry.UserID,
		ProjectID:  entry.ProjectID,
		LocationID: entry.LocationID,
		ClockIn:    entry.ClockIn.UTC().Format(time.RFC3339Nano),
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if entry.ClockOut != nil {
		dto.ClockOut = entry.ClockOut.UTC().Format(time.RFC3339Nano)
	}
	if entry.Duration != nil {
		dto.Duration = *entry.Duration
	}
	return dto
}

func toTimeEntryDTOs(entries []application.TimeEntry) []timeEntryDTO {
	if len(entries) == 0 {
		return nil
	}
	out := make([]timeEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toTimeEntryDTO(entry))
	}
	return out
}

func buildListEntriesParams(values url.Values, principal application.Principal) (application.ListEntriesParams, error) {
	params := application.ListEntriesParams{Principal: principal, UserID: principal.UserID}

	if userID := strings.TrimSpace(values.Get("user_id")); userID != "" {
		params.UserID = userID
	}

	var err error
	if params.Start, err = parseOptionalTime(values.Get("start")); err != nil {
		return application.ListEntriesParams{}, err
	}
	if params.End, err = parseOptionalTime(values.Get("end")); err != nil {
		return application.ListEntriesParams{}, err
	}

	return params, nil
}

// parseOptionalTime decodes a caller supplied timestamp. Empty input means
// the field was omitted; anything else must be RFC3339 (with or without
// fractional seconds) or a plain date.
func parseOptionalTime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts, nil
		}
	}
	return nil, errInvalidTimeValue
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
