// Package storagetest opens migrated throwaway SQLite stores for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	coredatabase "github.com/m3rciful/servicebot/core/database"
	"github.com/m3rciful/servicebot/internal/storage"
	"github.com/m3rciful/servicebot/migrations"
)

// OpenDB returns a migrated SQLite database in t.TempDir, closed on cleanup.
func OpenDB(t testing.TB) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	cfg := coredatabase.Config{
		Driver: coredatabase.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "servicebot.db"),
	}
	db, err := coredatabase.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := coredatabase.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// Open returns a Store over OpenDB.
func Open(t testing.TB, opts ...storage.Option) *storage.Store {
	t.Helper()
	return storage.New(OpenDB(t), opts...)
}
