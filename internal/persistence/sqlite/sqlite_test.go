package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ryan-edwad/capstone/internal/persistence"
)

// setupTestPool creates a migrated temp-file database for repository tests.
func setupTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	pool, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return pool
}

// seedOrganization inserts a tenant the other fixtures can hang off.
func seedOrganization(t *testing.T, pool *ConnectionPool, id string) {
	t.Helper()

	repo := NewOrganizationRepository(pool)
	err := repo.CreateOrganization(context.Background(), persistence.Organization{
		ID:   id,
		Name: "Acme Consulting",
	})
	if err != nil {
		t.Fatalf("Failed to seed organization: %v", err)
	}
}

// seedUser inserts a user belonging to the given organization.
func seedUser(t *testing.T, pool *ConnectionPool, id, email, orgID string) {
	t.Helper()

	repo := NewUserRepository(pool)
	err := repo.CreateUser(context.Background(), persistence.User{
		ID:             id,
		Email:          email,
		DisplayName:    "Seeded User",
		PasswordHash:   "hashed_password",
		Role:           "employee",
		OrganizationID: &orgID,
	})
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	pool := setupTestPool(t)

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Second Migrate failed: %v", err)
	}

	version, err := pool.schemaVersion(context.Background())
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("Expected schema version %d, got %d", len(migrations), version)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	pool := setupTestPool(t)
	seedOrganization(t, pool, "org1")

	ctx := context.Background()
	wantErr := errors.New("boom")
	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.Exec(
			"INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"org2", "Doomed", time.Now().UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339))
		if execErr != nil {
			return execErr
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Expected injected error, got %v", err)
	}

	_, err = NewOrganizationRepository(pool).GetOrganization(ctx, "org2")
	if err != persistence.ErrNotFound {
		t.Errorf("Expected rolled-back insert to be invisible, got %v", err)
	}
}
