package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

func setupTimeEntryRepositoryTest(t *testing.T) (*TimeEntryRepository, *ConnectionPool) {
	t.Helper()

	pool := setupTestPool(t)
	seedOrganization(t, pool, "org1")
	seedUser(t, pool, "user1", "user1@example.com", "org1")
	seedUser(t, pool, "user2", "user2@example.com", "org1")

	return NewTimeEntryRepository(pool), pool
}

func TestTimeEntryRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entry := persistence.TimeEntry{
		ID:             "entry1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        clockIn,
	}

	if err := repo.CreateTimeEntry(ctx, entry); err != nil {
		t.Fatalf("CreateTimeEntry failed: %v", err)
	}

	retrieved, err := repo.GetTimeEntry(ctx, "entry1")
	if err != nil {
		t.Fatalf("GetTimeEntry failed: %v", err)
	}

	if !retrieved.ClockIn.Equal(clockIn) {
		t.Errorf("Expected clock-in %v, got %v", clockIn, retrieved.ClockIn)
	}
	if retrieved.ClockOut != nil {
		t.Errorf("Expected open entry, got clock-out %v", *retrieved.ClockOut)
	}
	if retrieved.ProjectID != nil {
		t.Errorf("Expected nil project, got %v", *retrieved.ProjectID)
	}
}

func TestTimeEntryRepository_SecondOpenEntryRejected(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	first := persistence.TimeEntry{
		ID:             "entry1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateTimeEntry(ctx, first); err != nil {
		t.Fatalf("CreateTimeEntry failed: %v", err)
	}

	second := first
	second.ID = "entry2"
	second.ClockIn = second.ClockIn.Add(time.Hour)
	err := repo.CreateTimeEntry(ctx, second)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for second open entry, got %v", err)
	}

	// Closing the first entry frees the slot.
	out := first.ClockIn.Add(8 * time.Hour)
	duration := "PT8H"
	first.ClockOut = &out
	first.Duration = &duration
	if err := repo.UpdateTimeEntry(ctx, first); err != nil {
		t.Fatalf("UpdateTimeEntry failed: %v", err)
	}
	if err := repo.CreateTimeEntry(ctx, second); err != nil {
		t.Fatalf("CreateTimeEntry after close failed: %v", err)
	}
}

func TestTimeEntryRepository_FractionalSecondOrdering(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 500_000_000, time.UTC)
	out := clockIn.Add(20 * time.Millisecond)
	duration := "PT0.02S"
	entry := persistence.TimeEntry{
		ID:             "entry1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        clockIn,
		ClockOut:       &out,
		Duration:       &duration,
	}

	// A clock-out textually smaller than the clock-in under trimmed
	// fractions (".5" vs ".52") must still satisfy the check constraint.
	if err := repo.CreateTimeEntry(ctx, entry); err != nil {
		t.Fatalf("CreateTimeEntry failed: %v", err)
	}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries, err := repo.ListTimeEntries(ctx, persistence.TimeEntryFilter{
		UserID: "user1",
		Start:  &start,
	})
	if err != nil {
		t.Fatalf("ListTimeEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected the fractional-second entry inside the window, got %d entries", len(entries))
	}
	if !entries[0].ClockIn.Equal(clockIn) {
		t.Errorf("Expected clock-in %v, got %v", clockIn, entries[0].ClockIn)
	}

	later := persistence.TimeEntry{
		ID:             "entry2",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        clockIn.Add(250 * time.Millisecond),
	}
	if err := repo.CreateTimeEntry(ctx, later); err != nil {
		t.Fatalf("CreateTimeEntry failed: %v", err)
	}

	recent, err := repo.GetMostRecentTimeEntry(ctx, "user1")
	if err != nil {
		t.Fatalf("GetMostRecentTimeEntry failed: %v", err)
	}
	if recent.ID != "entry2" {
		t.Errorf("Expected 'entry2' as most recent within the second, got '%s'", recent.ID)
	}
}

func TestTimeEntryRepository_GetOpenTimeEntry(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	out := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	duration := "PT8H"
	closed := persistence.TimeEntry{
		ID:             "closed1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ClockOut:       &out,
		Duration:       &duration,
	}
	open := persistence.TimeEntry{
		ID:             "open1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	for _, entry := range []persistence.TimeEntry{closed, open} {
		if err := repo.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed for %s: %v", entry.ID, err)
		}
	}

	retrieved, err := repo.GetOpenTimeEntry(ctx, "user1")
	if err != nil {
		t.Fatalf("GetOpenTimeEntry failed: %v", err)
	}
	if retrieved.ID != "open1" {
		t.Errorf("Expected open entry 'open1', got '%s'", retrieved.ID)
	}

	_, err = repo.GetOpenTimeEntry(ctx, "user2")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for user without open entry, got %v", err)
	}
}

func TestTimeEntryRepository_GetMostRecentTimeEntry(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	for i, id := range []string{"entry1", "entry2", "entry3"} {
		in := time.Date(2026, 3, 1+i, 9, 0, 0, 0, time.UTC)
		out := in.Add(8 * time.Hour)
		duration := "PT8H"
		entry := persistence.TimeEntry{
			ID:             id,
			UserID:         "user1",
			OrganizationID: "org1",
			ClockIn:        in,
			ClockOut:       &out,
			Duration:       &duration,
		}
		if err := repo.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed for %s: %v", id, err)
		}
	}

	retrieved, err := repo.GetMostRecentTimeEntry(ctx, "user1")
	if err != nil {
		t.Fatalf("GetMostRecentTimeEntry failed: %v", err)
	}
	if retrieved.ID != "entry3" {
		t.Errorf("Expected most recent entry 'entry3', got '%s'", retrieved.ID)
	}

	_, err = repo.GetMostRecentTimeEntry(ctx, "user2")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for user without entries, got %v", err)
	}
}

func TestTimeEntryRepository_ListTimeEntries_Filters(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	duration := "PT8H"
	mkEntry := func(id, userID string, day int, closed bool) persistence.TimeEntry {
		in := time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC)
		entry := persistence.TimeEntry{
			ID:             id,
			UserID:         userID,
			OrganizationID: "org1",
			ClockIn:        in,
		}
		if closed {
			out := in.Add(8 * time.Hour)
			entry.ClockOut = &out
			entry.Duration = &duration
		}
		return entry
	}

	entries := []persistence.TimeEntry{
		mkEntry("e1", "user1", 1, true),
		mkEntry("e2", "user1", 5, true),
		mkEntry("e3", "user2", 3, true),
		mkEntry("e4", "user1", 10, false),
	}
	for _, entry := range entries {
		if err := repo.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed for %s: %v", entry.ID, err)
		}
	}

	// By user.
	got, err := repo.ListTimeEntries(ctx, persistence.TimeEntryFilter{UserID: "user1"})
	if err != nil {
		t.Fatalf("ListTimeEntries failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries for user1, got %d", len(got))
	}
	if got[0].ID != "e1" || got[2].ID != "e4" {
		t.Errorf("Expected chronological order e1..e4, got %s..%s", got[0].ID, got[2].ID)
	}

	// By date range on clock-in.
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	got, err = repo.ListTimeEntries(ctx, persistence.TimeEntryFilter{
		UserID: "user1",
		Start:  &start,
		End:    &end,
	})
	if err != nil {
		t.Fatalf("ListTimeEntries failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e2" {
		t.Fatalf("Expected exactly e2 in range, got %d entries", len(got))
	}

	// Closed entries for the reporting window exclude the open e4.
	winStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	winEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	got, err = repo.ListClosedEntriesInWindow(ctx, "org1", nil, winStart, winEnd)
	if err != nil {
		t.Fatalf("ListClosedEntriesInWindow failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 closed entries, got %d", len(got))
	}
	for _, entry := range got {
		if entry.ClockOut == nil {
			t.Errorf("Expected only closed entries, got open entry %s", entry.ID)
		}
	}
}

func TestTimeEntryRepository_Delete(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	ctx := context.Background()
	entry := persistence.TimeEntry{
		ID:             "entry1",
		UserID:         "user1",
		OrganizationID: "org1",
		ClockIn:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateTimeEntry(ctx, entry); err != nil {
		t.Fatalf("CreateTimeEntry failed: %v", err)
	}

	if err := repo.DeleteTimeEntry(ctx, "entry1"); err != nil {
		t.Fatalf("DeleteTimeEntry failed: %v", err)
	}

	if err := repo.DeleteTimeEntry(ctx, "entry1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTimeEntryRepository_RejectsUnknownUser(t *testing.T) {
	repo, _ := setupTimeEntryRepositoryTest(t)

	entry := persistence.TimeEntry{
		ID:             "entry1",
		UserID:         "ghost",
		OrganizationID: "org1",
		ClockIn:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	err := repo.CreateTimeEntry(context.Background(), entry)
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}
