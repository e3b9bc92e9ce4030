package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type entryRepoStub struct {
	entries map[string]TimeEntry

	createErr error
	updateErr error
}

func newEntryRepoStub(entries ...TimeEntry) *entryRepoStub {
	stub := &entryRepoStub{entries: make(map[string]TimeEntry)}
	for _, entry := range entries {
		stub.entries[entry.ID] = entry
	}
	return stub
}

func (r *entryRepoStub) CreateTimeEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if r.createErr != nil {
		return TimeEntry{}, r.createErr
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *entryRepoStub) GetTimeEntry(ctx context.Context, id string) (TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return TimeEntry{}, ErrNotFound
	}
	return entry, nil
}

func (r *entryRepoStub) GetOpenTimeEntry(ctx context.Context, userID string) (TimeEntry, error) {
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.Open() {
			return entry, nil
		}
	}
	return TimeEntry{}, ErrNotFound
}

func (r *entryRepoStub) GetMostRecentTimeEntry(ctx context.Context, userID string) (TimeEntry, error) {
	var latest TimeEntry
	found := false
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if !found || entry.ClockIn.After(latest.ClockIn) {
			latest = entry
			found = true
		}
	}
	if !found {
		return TimeEntry{}, ErrNotFound
	}
	return latest, nil
}

func (r *entryRepoStub) UpdateTimeEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if r.updateErr != nil {
		return TimeEntry{}, r.updateErr
	}
	if _, ok := r.entries[entry.ID]; !ok {
		return TimeEntry{}, ErrNotFound
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *entryRepoStub) DeleteTimeEntry(ctx context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *entryRepoStub) ListTimeEntries(ctx context.Context, query TimeEntryQuery) ([]TimeEntry, error) {
	var out []TimeEntry
	for _, entry := range r.entries {
		if query.UserID != "" && entry.UserID != query.UserID {
			continue
		}
		if query.Start != nil && entry.ClockIn.Before(*query.Start) {
			continue
		}
		if query.End != nil && entry.ClockIn.After(*query.End) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *entryRepoStub) ListClosedEntriesInWindow(ctx context.Context, organizationID string, projectID *string, start, end time.Time) ([]TimeEntry, error) {
	var out []TimeEntry
	for _, entry := range r.entries {
		if entry.OrganizationID != organizationID || entry.Open() {
			continue
		}
		if projectID != nil && (entry.ProjectID == nil || *entry.ProjectID != *projectID) {
			continue
		}
		if entry.ClockIn.Before(start) || entry.ClockOut.After(end) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

type projectCatalogStub struct {
	projects map[string]Project
}

func (c *projectCatalogStub) GetProject(ctx context.Context, id string) (Project, error) {
	if c == nil || c.projects == nil {
		return Project{}, ErrNotFound
	}
	project, ok := c.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return project, nil
}

type locationCatalogStub struct {
	locations map[string]Location
}

func (c *locationCatalogStub) GetLocation(ctx context.Context, id string) (Location, error) {
	if c == nil || c.locations == nil {
		return Location{}, ErrNotFound
	}
	location, ok := c.locations[id]
	if !ok {
		return Location{}, ErrNotFound
	}
	return location, nil
}

type userDirectoryStub struct {
	users map[string]User
}

func (d *userDirectoryStub) GetUser(ctx context.Context, id string) (User, error) {
	if d == nil || d.users == nil {
		return User{}, ErrNotFound
	}
	user, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (d *userDirectoryStub) ListUsersByOrganization(ctx context.Context, organizationID string) ([]User, error) {
	var out []User
	if d == nil {
		return nil, nil
	}
	for _, user := range d.users {
		if user.OrganizationID == organizationID {
			out = append(out, user)
		}
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func payRate(v float64) *float64 { return &v }

func testDirectory() *userDirectoryStub {
	return &userDirectoryStub{users: map[string]User{
		"emp1": {ID: "emp1", DisplayName: "Avery Brooks", OrganizationID: "org1", Role: RoleEmployee, PayRate: payRate(20)},
		"emp2": {ID: "emp2", DisplayName: "Zion Clarke", OrganizationID: "org1", Role: RoleEmployee, PayRate: payRate(25)},
		"mgr1": {ID: "mgr1", DisplayName: "Morgan Hale", OrganizationID: "org1", Role: RoleManager},
	}}
}

func employeePrincipal() Principal {
	return Principal{UserID: "emp1", OrganizationID: "org1", Role: RoleEmployee}
}

func managerPrincipal() Principal {
	return Principal{UserID: "mgr1", OrganizationID: "org1", Role: RoleManager}
}

func TestTimeEntryService_ClockIn(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))

	t.Run("opens an entry stamped in UTC", func(t *testing.T) {
		repo := newEntryRepoStub()
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		entry, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
		})
		if err != nil {
			t.Fatalf("ClockIn failed: %v", err)
		}

		if entry.ClockIn.Location() != time.UTC {
			t.Errorf("expected UTC clock-in, got %v", entry.ClockIn.Location())
		}
		if !entry.ClockIn.Equal(now) {
			t.Errorf("expected clock-in %v, got %v", now.UTC(), entry.ClockIn)
		}
		if !entry.Open() {
			t.Error("expected entry to be open")
		}
		if entry.OrganizationID != "org1" {
			t.Errorf("expected organization org1, got %s", entry.OrganizationID)
		}
	})

	t.Run("rejects a second open entry", func(t *testing.T) {
		repo := newEntryRepoStub(TimeEntry{
			ID:             "existing",
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        now.UTC().Add(-time.Hour),
		})
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
		})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("rejects a project outside the organization", func(t *testing.T) {
		projects := &projectCatalogStub{projects: map[string]Project{
			"p-other": {ID: "p-other", OrganizationID: "org2", Name: "Elsewhere", Enabled: true},
		}}
		svc := NewTimeEntryService(newEntryRepoStub(), projects, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		projectID := "p-other"
		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
			ProjectID: &projectID,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["project_id"]; !ok {
			t.Fatalf("expected project_id validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a disabled project", func(t *testing.T) {
		projects := &projectCatalogStub{projects: map[string]Project{
			"p1": {ID: "p1", OrganizationID: "org1", Name: "Mothballed"},
		}}
		svc := NewTimeEntryService(newEntryRepoStub(), projects, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		projectID := "p1"
		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
			ProjectID: &projectID,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects an unknown location", func(t *testing.T) {
		locations := &locationCatalogStub{locations: map[string]Location{}}
		svc := NewTimeEntryService(newEntryRepoStub(), nil, locations, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		locationID := "ghost"
		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal:  employeePrincipal(),
			UserID:     "emp1",
			LocationID: &locationID,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["location_id"]; !ok {
			t.Fatalf("expected location_id validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("employees cannot clock in others", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: employeePrincipal(),
			UserID:    "emp2",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("managers can clock in members of their organization", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(now))

		entry, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: managerPrincipal(),
			UserID:    "emp2",
		})
		if err != nil {
			t.Fatalf("ClockIn failed: %v", err)
		}
		if entry.UserID != "emp2" {
			t.Errorf("expected entry for emp2, got %s", entry.UserID)
		}
	})
}

func TestTimeEntryService_ClockOut(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	t.Run("closes the entry and records the duration", func(t *testing.T) {
		repo := newEntryRepoStub(TimeEntry{
			ID:             "entry1",
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        in,
		})
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		entry, err := svc.ClockOut(context.Background(), ClockOutParams{
			Principal: employeePrincipal(),
			EntryID:   "entry1",
		})
		if err != nil {
			t.Fatalf("ClockOut failed: %v", err)
		}

		if entry.ClockOut == nil || !entry.ClockOut.Equal(out) {
			t.Fatalf("expected clock-out %v, got %v", out, entry.ClockOut)
		}
		if entry.Duration == nil || *entry.Duration != "PT8H30M" {
			t.Errorf("expected duration PT8H30M, got %v", entry.Duration)
		}
	})

	t.Run("rejects a second clock-out", func(t *testing.T) {
		duration := "PT8H30M"
		closed := out
		repo := newEntryRepoStub(TimeEntry{
			ID:             "entry1",
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        in,
			ClockOut:       &closed,
			Duration:       &duration,
		})
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		_, err := svc.ClockOut(context.Background(), ClockOutParams{
			Principal: employeePrincipal(),
			EntryID:   "entry1",
		})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("missing entry is not found", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		_, err := svc.ClockOut(context.Background(), ClockOutParams{
			Principal: employeePrincipal(),
			EntryID:   "ghost",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTimeEntryService_UpdateEntry(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	duration := "PT8H"

	closedEntry := func() TimeEntry {
		clockOut := out
		d := duration
		return TimeEntry{
			ID:             "entry1",
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        in,
			ClockOut:       &clockOut,
			Duration:       &d,
		}
	}

	t.Run("requires manager privileges", func(t *testing.T) {
		repo := newEntryRepoStub(closedEntry())
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		_, err := svc.UpdateEntry(context.Background(), UpdateEntryParams{
			Principal: employeePrincipal(),
			EntryID:   "entry1",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("recomputes the duration when timestamps move", func(t *testing.T) {
		repo := newEntryRepoStub(closedEntry())
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		newOut := in.Add(9*time.Hour + 15*time.Minute)
		entry, err := svc.UpdateEntry(context.Background(), UpdateEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
			Input:     TimeEntryInput{ClockOut: &newOut},
		})
		if err != nil {
			t.Fatalf("UpdateEntry failed: %v", err)
		}
		if entry.Duration == nil || *entry.Duration != "PT9H15M" {
			t.Errorf("expected duration PT9H15M, got %v", entry.Duration)
		}
	})

	t.Run("normalizes timestamps to UTC", func(t *testing.T) {
		repo := newEntryRepoStub(closedEntry())
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		jst := time.FixedZone("JST", 9*3600)
		localIn := in.Add(30 * time.Minute).In(jst)
		entry, err := svc.UpdateEntry(context.Background(), UpdateEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
			Input:     TimeEntryInput{ClockIn: &localIn},
		})
		if err != nil {
			t.Fatalf("UpdateEntry failed: %v", err)
		}
		if entry.ClockIn.Location() != time.UTC {
			t.Errorf("expected UTC clock-in, got %v", entry.ClockIn.Location())
		}
		if entry.Duration == nil || *entry.Duration != "PT7H30M" {
			t.Errorf("expected duration PT7H30M, got %v", entry.Duration)
		}
	})

	t.Run("rejects clock-out before clock-in", func(t *testing.T) {
		repo := newEntryRepoStub(closedEntry())
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		badOut := in.Add(-time.Minute)
		_, err := svc.UpdateEntry(context.Background(), UpdateEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
			Input:     TimeEntryInput{ClockOut: &badOut},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["clock_out"]; !ok {
			t.Fatalf("expected clock_out validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("entries of other organizations stay hidden", func(t *testing.T) {
		foreign := closedEntry()
		foreign.OrganizationID = "org2"
		repo := newEntryRepoStub(foreign)
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(out))

		_, err := svc.UpdateEntry(context.Background(), UpdateEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTimeEntryService_DeleteEntry(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("requires manager privileges", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(in))

		err := svc.DeleteEntry(context.Background(), DeleteEntryParams{
			Principal: employeePrincipal(),
			EntryID:   "entry1",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("deletes and reports missing entries", func(t *testing.T) {
		repo := newEntryRepoStub(TimeEntry{
			ID:             "entry1",
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        in,
		})
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(in))

		if err := svc.DeleteEntry(context.Background(), DeleteEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
		}); err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}

		err := svc.DeleteEntry(context.Background(), DeleteEntryParams{
			Principal: managerPrincipal(),
			EntryID:   "entry1",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTimeEntryService_Queries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC) }
	closed := func(id string, d int) TimeEntry {
		out := day(d).Add(8 * time.Hour)
		dur := "PT8H"
		return TimeEntry{
			ID:             id,
			UserID:         "emp1",
			OrganizationID: "org1",
			ClockIn:        day(d),
			ClockOut:       &out,
			Duration:       &dur,
		}
	}

	repo := newEntryRepoStub(closed("e1", 1), closed("e2", 5), closed("e3", 10))
	svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(day(10)))

	t.Run("list honors the inclusive window", func(t *testing.T) {
		start := day(1)
		end := day(5)
		entries, err := svc.ListEntries(context.Background(), ListEntriesParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
			Start:     &start,
			End:       &end,
		})
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("list rejects inverted windows", func(t *testing.T) {
		start := day(5)
		end := day(1)
		_, err := svc.ListEntries(context.Background(), ListEntriesParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
			Start:     &start,
			End:       &end,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		start := day(20)
		end := day(25)
		entries, err := svc.ListEntries(context.Background(), ListEntriesParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
			Start:     &start,
			End:       &end,
		})
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no entries, got %d", len(entries))
		}
	})

	t.Run("between requires both bounds", func(t *testing.T) {
		_, err := svc.ListEntriesBetween(context.Background(), employeePrincipal(), "emp1", day(1), time.Time{})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("between bounds the listing inclusively", func(t *testing.T) {
		entries, err := svc.ListEntriesBetween(context.Background(), employeePrincipal(), "emp1", day(5), day(10))
		if err != nil {
			t.Fatalf("ListEntriesBetween failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("most recent entry wins by clock-in", func(t *testing.T) {
		entry, err := svc.MostRecentEntry(context.Background(), MostRecentEntryParams{
			Principal: employeePrincipal(),
			UserID:    "emp1",
		})
		if err != nil {
			t.Fatalf("MostRecentEntry failed: %v", err)
		}
		if entry.ID != "e3" {
			t.Errorf("expected e3, got %s", entry.ID)
		}
	})

	t.Run("most recent for an empty history is not found", func(t *testing.T) {
		_, err := svc.MostRecentEntry(context.Background(), MostRecentEntryParams{
			Principal: managerPrincipal(),
			UserID:    "emp2",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTimeEntryService_PayrollReport(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	closed := func(id, userID string, in, out time.Time) TimeEntry {
		clockOut := out
		return TimeEntry{
			ID:             id,
			UserID:         userID,
			OrganizationID: "org1",
			ClockIn:        in,
			ClockOut:       &clockOut,
		}
	}

	start := day(1, 0)
	end := day(31, 0)

	t.Run("sums hours per user and orders rows by name", func(t *testing.T) {
		repo := newEntryRepoStub(
			closed("e1", "emp1", day(2, 9), day(2, 13)),                     // 4h
			closed("e2", "emp1", day(3, 9), day(3, 12).Add(30*time.Minute)), // 3.5h
			closed("e3", "emp2", day(4, 9), day(4, 17)),                     // 8h
		)
		svc := NewTimeEntryService(repo, nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		rows, err := svc.PayrollReport(context.Background(), PayrollReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			Start:          start,
			End:            end,
		})
		if err != nil {
			t.Fatalf("PayrollReport failed: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].UserName != "Avery Brooks" || rows[1].UserName != "Zion Clarke" {
			t.Fatalf("expected rows ordered by name, got %s then %s", rows[0].UserName, rows[1].UserName)
		}
		if rows[0].TotalHours != 7.5 {
			t.Errorf("expected 7.5 hours for emp1, got %v", rows[0].TotalHours)
		}
		if rows[0].PayRate != 20 {
			t.Errorf("expected pay rate 20 for emp1, got %v", rows[0].PayRate)
		}
		if rows[1].TotalHours != 8 {
			t.Errorf("expected 8 hours for emp2, got %v", rows[1].TotalHours)
		}
	})

	t.Run("rejects inverted windows", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		_, err := svc.PayrollReport(context.Background(), PayrollReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			Start:          end,
			End:            start,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("requires manager privileges", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		_, err := svc.PayrollReport(context.Background(), PayrollReportParams{
			Principal:      employeePrincipal(),
			OrganizationID: "org1",
			Start:          start,
			End:            end,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("empty window produces an empty report", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), nil, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		rows, err := svc.PayrollReport(context.Background(), PayrollReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			Start:          start,
			End:            end,
		})
		if err != nil {
			t.Fatalf("PayrollReport failed: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("expected no rows, got %d", len(rows))
		}
	})
}

func TestTimeEntryService_ProjectReport(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	projectID := "p1"
	projects := &projectCatalogStub{projects: map[string]Project{
		"p1": {ID: "p1", OrganizationID: "org1", Name: "Billing", Enabled: true},
	}}

	start := day(1, 0)
	end := day(31, 0)

	t.Run("filters to the project", func(t *testing.T) {
		out1 := day(2, 17)
		out2 := day(3, 17)
		repo := newEntryRepoStub(
			TimeEntry{ID: "e1", UserID: "emp1", OrganizationID: "org1", ProjectID: &projectID, ClockIn: day(2, 9), ClockOut: &out1},
			TimeEntry{ID: "e2", UserID: "emp1", OrganizationID: "org1", ClockIn: day(3, 9), ClockOut: &out2},
		)
		svc := NewTimeEntryService(repo, projects, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		rows, err := svc.ProjectReport(context.Background(), ProjectReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			ProjectID:      "p1",
			Start:          start,
			End:            end,
		})
		if err != nil {
			t.Fatalf("ProjectReport failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].TotalHours != 8 {
			t.Errorf("expected 8 project hours, got %v", rows[0].TotalHours)
		}
	})

	t.Run("no matching entries is not found", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), projects, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		_, err := svc.ProjectReport(context.Background(), ProjectReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			ProjectID:      "p1",
			Start:          start,
			End:            end,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		svc := NewTimeEntryService(newEntryRepoStub(), projects, nil, testDirectory(), sequentialIDs("entry"), fixedClock(end))

		_, err := svc.ProjectReport(context.Background(), ProjectReportParams{
			Principal:      managerPrincipal(),
			OrganizationID: "org1",
			ProjectID:      "ghost",
			Start:          start,
			End:            end,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
