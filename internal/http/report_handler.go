package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ryan-edwad/capstone/internal/application"
)

type reportService interface {
	PayrollReport(ctx context.Context, params application.PayrollReportParams) ([]application.PayrollReportRow, error)
	ProjectReport(ctx context.Context, params application.ProjectReportParams) ([]application.PayrollReportRow, error)
}

type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

// Payroll aggregates the organization's closed entries in the window into one
// row per user.
func (h *ReportHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	start, end, err := reportWindow(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	rows, err := h.service.PayrollReport(r.Context(), application.PayrollReportParams{
		Principal:      principal,
		OrganizationID: principal.OrganizationID,
		Start:          start,
		End:            end,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reportResponse{
		Start: start.UTC().Format(time.RFC3339),
		End:   end.UTC().Format(time.RFC3339),
		Rows:  toReportRowDTOs(rows),
	})
}

// Project aggregates a single project's closed entries in the window.
func (h *ReportHandler) Project(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	start, end, err := reportWindow(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	rows, err := h.service.ProjectReport(r.Context(), application.ProjectReportParams{
		Principal:      principal,
		OrganizationID: principal.OrganizationID,
		ProjectID:      projectID,
		Start:          start,
		End:            end,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reportResponse{
		Start:     start.UTC().Format(time.RFC3339),
		End:       end.UTC().Format(time.RFC3339),
		ProjectID: projectID,
		Rows:      toReportRowDTOs(rows),
	})
}

func reportWindow(r *http.Request) (time.Time, time.Time, error) {
	start, err := parseOptionalTime(r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseOptionalTime(r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start == nil || end == nil {
		return time.Time{}, time.Time{}, errors.New("start and end query parameters are required")
	}
	return *start, *end, nil
}

type reportResponse struct {
	Start     string         `json:"start"`
	End       string         `json:"end"`
	ProjectID string         `json:"project_id,omitempty"`
	Rows      []reportRowDTO `json:"rows"`
}

type reportRowDTO struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	TotalHours string `json:"total_hours"`
	PayRate    string `json:"pay_rate"`
}

func toReportRowDTOs(rows []application.PayrollReportRow) []reportRowDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]reportRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, reportRowDTO{
			UserID:     row.UserID,
			UserName:   row.UserName,
			TotalHours: strconv.FormatFloat(row.TotalHours, 'f', 2, 64),
			PayRate:    strconv.FormatFloat(row.PayRate, 'f', 2, 64),
		})
	}
	return out
}
