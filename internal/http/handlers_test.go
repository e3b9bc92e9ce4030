package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ryan-edwad/capstone/internal/application"
)

type timeEntryServiceStub struct {
	entry   application.TimeEntry
	entries []application.TimeEntry
	err     error

	lastClockIn application.ClockInParams
	lastList    application.ListEntriesParams
	deletedID   string
}

func (s *timeEntryServiceStub) ClockIn(ctx context.Context, params application.ClockInParams) (application.TimeEntry, error) {
	s.lastClockIn = params
	return s.entry, s.err
}

func (s *timeEntryServiceStub) ClockOut(ctx context.Context, params application.ClockOutParams) (application.TimeEntry, error) {
	return s.entry, s.err
}

func (s *timeEntryServiceStub) UpdateEntry(ctx context.Context, params application.UpdateEntryParams) (application.TimeEntry, error) {
	return s.entry, s.err
}

func (s *timeEntryServiceStub) DeleteEntry(ctx context.Context, params application.DeleteEntryParams) error {
	s.deletedID = params.EntryID
	return s.err
}

func (s *timeEntryServiceStub) GetEntry(ctx context.Context, params application.GetEntryParams) (application.TimeEntry, error) {
	return s.entry, s.err
}

func (s *timeEntryServiceStub) ListEntries(ctx context.Context, params application.ListEntriesParams) ([]application.TimeEntry, error) {
	s.lastList = params
	return s.entries, s.err
}

func (s *timeEntryServiceStub) MostRecentEntry(ctx context.Context, params application.MostRecentEntryParams) (application.TimeEntry, error) {
	return s.entry, s.err
}

func testEntry() application.TimeEntry {
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return application.TimeEntry{
		ID:             "entry1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        clockIn,
		CreatedAt:      clockIn,
		UpdatedAt:      clockIn,
	}
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	principal := application.Principal{UserID: "user1", OrganizationID: "org1", Role: application.RoleManager}
	return req.WithContext(ContextWithPrincipal(req.Context(), principal))
}

func newEntriesRouter(service timeEntryService) http.Handler {
	return NewRouter(RouterConfig{
		Entries: NewTimeEntryHandler(service, nil),
	})
}

func TestTimeEntryHandlers(t *testing.T) {
	t.Parallel()

	t.Run("clock-in defaults to the caller and returns 201", func(t *testing.T) {
		t.Parallel()

		service := &timeEntryServiceStub{entry: testEntry()}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPost, "/entries", `{"project_id":"proj1"}`))

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if service.lastClockIn.UserID != "user1" {
			t.Errorf("expected clock-in for the caller, got %q", service.lastClockIn.UserID)
		}
		if service.lastClockIn.ProjectID == nil || *service.lastClockIn.ProjectID != "proj1" {
			t.Errorf("expected project proj1, got %v", service.lastClockIn.ProjectID)
		}

		var dto timeEntryDTO
		if err := json.Unmarshal(recorder.Body.Bytes(), &dto); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if dto.ID != "entry1" || dto.ClockOut != "" {
			t.Errorf("unexpected entry payload: %+v", dto)
		}
	})

	t.Run("clock-out uses the path id", func(t *testing.T) {
		t.Parallel()

		closed := testEntry()
		clockOut := closed.ClockIn.Add(8 * time.Hour)
		duration := "PT8H"
		closed.ClockOut = &clockOut
		closed.Duration = &duration

		service := &timeEntryServiceStub{entry: closed}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPost, "/entries/entry1/clock-out", ""))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var dto timeEntryDTO
		if err := json.Unmarshal(recorder.Body.Bytes(), &dto); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if dto.Duration != "PT8H" {
			t.Errorf("expected duration PT8H, got %q", dto.Duration)
		}
	})

	t.Run("list parses window query parameters", func(t *testing.T) {
		t.Parallel()

		service := &timeEntryServiceStub{entries: []application.TimeEntry{testEntry()}}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		target := "/entries?user_id=user2&start=2026-03-01T00:00:00Z&end=2026-03-31T23:59:59Z"
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, target, ""))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if service.lastList.UserID != "user2" {
			t.Errorf("expected listing for user2, got %q", service.lastList.UserID)
		}
		if service.lastList.Start == nil || service.lastList.End == nil {
			t.Fatalf("expected a bounded window, got %+v", service.lastList)
		}
		if !service.lastList.Start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected window start %v", service.lastList.Start)
		}
	})

	t.Run("list rejects malformed window values", func(t *testing.T) {
		t.Parallel()

		service := &timeEntryServiceStub{}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/entries?start=yesterday", ""))

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for an unparseable start, got %d", recorder.Code)
		}
		if service.lastList.UserID != "" {
			t.Errorf("expected the service not to be called, got listing for %q", service.lastList.UserID)
		}
	})

	t.Run("update rejects malformed timestamps", func(t *testing.T) {
		t.Parallel()

		service := &timeEntryServiceStub{entries: []application.TimeEntry{testEntry()}}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		body := `{"clock_in": "03/02/2026 9am"}`
		router.ServeHTTP(recorder, authedRequest(http.MethodPut, "/entries/entry1", body))

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for an unparseable clock_in, got %d", recorder.Code)
		}
	})

	t.Run("delete routes to the service", func(t *testing.T) {
		t.Parallel()

		service := &timeEntryServiceStub{}
		router := newEntriesRouter(service)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodDelete, "/entries/entry1", ""))

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if service.deletedID != "entry1" {
			t.Errorf("expected entry1 deleted, got %q", service.deletedID)
		}
	})

	t.Run("maps service sentinel errors to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "not found", err: application.ErrNotFound, expectedStatus: http.StatusNotFound},
			{name: "invalid state", err: application.ErrInvalidState, expectedStatus: http.StatusConflict},
			{name: "unauthorized", err: application.ErrUnauthorized, expectedStatus: http.StatusForbidden},
			{name: "validation", err: &application.ValidationError{
				FieldErrors: map[string]string{"project_id": "project does not belong to the organization"},
			}, expectedStatus: http.StatusUnprocessableEntity},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				service := &timeEntryServiceStub{err: tc.err}
				router := newEntriesRouter(service)

				recorder := httptest.NewRecorder()
				router.ServeHTTP(recorder, authedRequest(http.MethodPost, "/entries", `{}`))

				if recorder.Code != tc.expectedStatus {
					t.Fatalf("expected %d, got %d: %s", tc.expectedStatus, recorder.Code, recorder.Body.String())
				}
			})
		}
	})

	t.Run("rejects unsupported methods", func(t *testing.T) {
		t.Parallel()

		router := newEntriesRouter(&timeEntryServiceStub{})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPatch, "/entries", ""))

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
	})
}

type reportServiceStub struct {
	rows []application.PayrollReportRow
	err  error

	lastPayroll application.PayrollReportParams
	lastProject application.ProjectReportParams
}

func (s *reportServiceStub) PayrollReport(ctx context.Context, params application.PayrollReportParams) ([]application.PayrollReportRow, error) {
	s.lastPayroll = params
	return s.rows, s.err
}

func (s *reportServiceStub) ProjectReport(ctx context.Context, params application.ProjectReportParams) ([]application.PayrollReportRow, error) {
	s.lastProject = params
	return s.rows, s.err
}

func TestReportHandlers(t *testing.T) {
	t.Parallel()

	t.Run("payroll requires start and end", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Reports: NewReportHandler(&reportServiceStub{}, nil)})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/reports/payroll", ""))

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("payroll renders rows with formatted totals", func(t *testing.T) {
		t.Parallel()

		service := &reportServiceStub{rows: []application.PayrollReportRow{
			{UserID: "user1", UserName: "Avery Brooks", TotalHours: 7.5, PayRate: 20},
		}}
		router := NewRouter(RouterConfig{Reports: NewReportHandler(service, nil)})

		recorder := httptest.NewRecorder()
		target := "/reports/payroll?start=2026-03-01T00:00:00Z&end=2026-03-31T23:59:59Z"
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, target, ""))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if service.lastPayroll.OrganizationID != "org1" {
			t.Errorf("expected the caller's organization, got %q", service.lastPayroll.OrganizationID)
		}

		var resp reportResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(resp.Rows))
		}
		if resp.Rows[0].TotalHours != "7.50" || resp.Rows[0].PayRate != "20.00" {
			t.Errorf("unexpected row formatting: %+v", resp.Rows[0])
		}
	})

	t.Run("project report carries the path id", func(t *testing.T) {
		t.Parallel()

		service := &reportServiceStub{}
		router := NewRouter(RouterConfig{Reports: NewReportHandler(service, nil)})

		recorder := httptest.NewRecorder()
		target := "/reports/projects/proj1?start=2026-03-01T00:00:00Z&end=2026-03-31T23:59:59Z"
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, target, ""))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if service.lastProject.ProjectID != "proj1" {
			t.Errorf("expected project proj1, got %q", service.lastProject.ProjectID)
		}
	})
}

type authServiceStub struct {
	result     application.AuthenticateResult
	refreshed  application.RefreshSessionResult
	err        error
	revokedTok string
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.result, s.err
}

func (s *authServiceStub) RefreshSession(ctx context.Context, params application.RefreshSessionParams) (application.RefreshSessionResult, error) {
	return s.refreshed, s.err
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	s.revokedTok = token
	return s.err
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	t.Run("login issues the token via body, header, and cookie", func(t *testing.T) {
		t.Parallel()

		expiresAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		service := &authServiceStub{result: application.AuthenticateResult{
			User:    application.User{ID: "user1", Email: "worker@example.com", Role: application.RoleEmployee},
			Session: application.Session{Token: "issued-token", ExpiresAt: expiresAt},
		}}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		recorder := httptest.NewRecorder()
		body := `{"email":"worker@example.com","password":"correct horse"}`
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if got := recorder.Header().Get("X-Session-Token"); got != "issued-token" {
			t.Errorf("expected the token header, got %q", got)
		}

		var foundCookie bool
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "issued-token" {
				foundCookie = true
			}
		}
		if !foundCookie {
			t.Error("expected a session cookie")
		}

		var resp loginResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Token != "issued-token" {
			t.Errorf("expected the token in the body, got %q", resp.Token)
		}
		if resp.User == nil || resp.User.ID != "user1" {
			t.Errorf("expected the user in the body, got %+v", resp.User)
		}
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		t.Parallel()

		service := &authServiceStub{err: application.ErrInvalidCredentials}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		recorder := httptest.NewRecorder()
		body := `{"email":"worker@example.com","password":"wrong"}`
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}

		var resp errorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Errorf("expected AUTH_INVALID_CREDENTIALS, got %q", resp.ErrorCode)
		}
	})

	t.Run("logout revokes the bearer token and clears the cookie", func(t *testing.T) {
		t.Parallel()

		service := &authServiceStub{}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer live-token")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if service.revokedTok != "live-token" {
			t.Errorf("expected live-token revoked, got %q", service.revokedTok)
		}

		var cleared bool
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Error("expected the session cookie to be cleared")
		}
	})
}

func TestRouterMembershipPaths(t *testing.T) {
	t.Parallel()

	service := &projectServiceStub{}
	router := NewRouter(RouterConfig{Projects: NewProjectHandler(service, nil)})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(http.MethodPut, "/projects/proj1/members/user2", ""))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if service.lastAssign.ProjectID != "proj1" || service.lastAssign.UserID != "user2" {
		t.Errorf("unexpected assignment params: %+v", service.lastAssign)
	}

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(http.MethodPut, "/projects/proj1/members/", ""))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing member id, got %d", recorder.Code)
	}
}

type projectServiceStub struct {
	project  application.Project
	projects []application.Project
	err      error

	lastAssign application.AssignProjectParams
}

func (s *projectServiceStub) CreateProject(ctx context.Context, params application.CreateProjectParams) (application.Project, error) {
	return s.project, s.err
}

func (s *projectServiceStub) UpdateProject(ctx context.Context, params application.UpdateProjectParams) (application.Project, error) {
	return s.project, s.err
}

func (s *projectServiceStub) GetProject(ctx context.Context, principal application.Principal, projectID string) (application.Project, error) {
	return s.project, s.err
}

func (s *projectServiceStub) ListProjects(ctx context.Context, principal application.Principal) ([]application.Project, error) {
	return s.projects, s.err
}

func (s *projectServiceStub) DeleteProject(ctx context.Context, principal application.Principal, projectID string) error {
	return s.err
}

func (s *projectServiceStub) AssignUser(ctx context.Context, params application.AssignProjectParams) error {
	s.lastAssign = params
	return s.err
}

func (s *projectServiceStub) UnassignUser(ctx context.Context, params application.AssignProjectParams) error {
	return s.err
}
