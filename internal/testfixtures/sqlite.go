package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ryan-edwad/capstone/internal/persistence"
	"github.com/ryan-edwad/capstone/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool          *sqlite.ConnectionPool
	Users         persistence.UserRepository
	Organizations persistence.OrganizationRepository
	Projects      persistence.ProjectRepository
	Locations     persistence.LocationRepository
	Invitations   persistence.InvitationRepository
	Entries       persistence.TimeEntryRepository
	Sessions      persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a migrated temporary file.
// Callers may optionally invoke Close, but the helper also registers a cleanup
// callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "hourmap.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:          pool,
		Users:         sqlite.NewUserRepository(pool),
		Organizations: sqlite.NewOrganizationRepository(pool),
		Projects:      sqlite.NewProjectRepository(pool),
		Locations:     sqlite.NewLocationRepository(pool),
		Invitations:   sqlite.NewInvitationRepository(pool),
		Entries:       sqlite.NewTimeEntryRepository(pool),
		Sessions:      sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
