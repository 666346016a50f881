package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

// exerciseBackend checks the Backend contract shared by every implementation.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	if _, ok, err := b.GetEntry(ctx, "s1", "tasks"); err != nil || ok {
		t.Fatalf("expected missing entry, got ok=%v err=%v", ok, err)
	}

	if err := b.PutEntry(ctx, "s1", "tasks", Entry{Value: `[]`, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("PutEntry failed: %v", err)
	}
	if err := b.PutEntry(ctx, "s2", "tasks", Entry{Value: `["other"]`, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("PutEntry failed: %v", err)
	}

	got, ok, err := b.GetEntry(ctx, "s1", "tasks")
	if err != nil || !ok {
		t.Fatalf("GetEntry failed: ok=%v err=%v", ok, err)
	}
	if got.Value != `[]` {
		t.Errorf("expected value %q, got %q", `[]`, got.Value)
	}
	if got.ExpiresAt.Sub(now.Add(time.Hour)).Abs() > time.Second {
		t.Errorf("expected expiry near %v, got %v", now.Add(time.Hour), got.ExpiresAt)
	}

	// Overwrite keeps a single entry per namespace and key.
	if err := b.PutEntry(ctx, "s1", "tasks", Entry{Value: `[1]`, ExpiresAt: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("PutEntry overwrite failed: %v", err)
	}
	got, _, _ = b.GetEntry(ctx, "s1", "tasks")
	if got.Value != `[1]` {
		t.Errorf("expected overwritten value, got %q", got.Value)
	}

	removed, err := b.Purge(ctx, now)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 purged entry, got %d", removed)
	}

	if _, ok, _ := b.GetEntry(ctx, "s1", "tasks"); ok {
		t.Error("expected expired entry to be purged")
	}
	if _, ok, _ := b.GetEntry(ctx, "s2", "tasks"); !ok {
		t.Error("expected live entry in other namespace to survive purge")
	}
}

func TestSQLiteBackend(t *testing.T) {
	exerciseBackend(t, setupTestDB(t))
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "todolist.db")

	first, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	if err := first.PutEntry(ctx, "s1", "deletedTasks", Entry{Value: `[]`, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("PutEntry failed: %v", err)
	}
	first.Close()

	second, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	if _, ok, err := second.GetEntry(ctx, "s1", "deletedTasks"); err != nil || !ok {
		t.Fatalf("expected entry after reopen, ok=%v err=%v", ok, err)
	}
}

func TestMigrations_RecordedOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todolist.db")

	for i := 0; i < 2; i++ {
		b, err := NewSQLiteBackend(dbPath)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		b.Close()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open raw db failed: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations failed: %v", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations failed: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("expected %d recorded migrations, got %d", len(migrations), count)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	version, name, err := parseMigrationFilename("001_create_entries.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 || name != "create_entries" {
		t.Errorf("got version=%d name=%q", version, name)
	}

	for _, bad := range []string{"create.sql", "abc_create.sql", "001_.sql"} {
		if _, _, err := parseMigrationFilename(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}
