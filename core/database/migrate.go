package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m3rciful/servicebot/core/logger"
)

// RunMigrations applies every up migration found under the driver named directory of src.
func RunMigrations(ctx context.Context, cfg Config, src fs.FS) error {
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if cfg.Driver == DriverPostgres {
		if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
			logger.MIG.Error("db not ready",
				slog.String("event", "db.migrate"),
				slog.String("status", "fail"),
				logger.Err(err),
			)
			return fmt.Errorf("database not ready: %w", err)
		}
	}

	files := upFiles(src, cfg.Driver)
	logger.MIG.Debug("migrations resolved",
		slog.String("event", "db.migrate.resolve"),
		slog.String("driver", cfg.Driver),
		slog.Int("count", len(files)),
	)

	m, err := newMigrator(cfg, src)
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.MIG.Warn("close failed",
				slog.String("event", "db.migrate.close"),
				logger.Err(errors.Join(srcErr, dbErr)),
			)
		}
	}()

	fromVer, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.RoundMS(time.Since(start))
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "db.migrate.apply"),
			slog.String("status", "fail"),
			slog.Duration("duration", took),
			logger.Err(upErr),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, dirty, _ := m.Version()
	logger.MIG.Info("migrations summary",
		slog.String("event", "db.migrate.summary"),
		slog.String("status", "ok"),
		slog.String("driver", cfg.Driver),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("version", uint64(toVer)),
		slog.Bool("dirty", dirty),
		slog.Int("count", countApplied(files, uint64(fromVer), uint64(toVer))),
		slog.Duration("duration", took),
	)
	return nil
}

// newMigrator owns its own connection because closing the migrator closes the database handle.
func newMigrator(cfg Config, src fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(src, cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	var driver database.Driver
	switch cfg.Driver {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
}

func upFiles(src fs.FS, dir string) []string {
	names, err := fs.Glob(src, dir+"/*.up.sql")
	if err != nil {
		return nil
	}
	for i, name := range names {
		names[i] = strings.TrimPrefix(name, dir+"/")
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	head, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(head, 10, 64)
	return v
}

func countApplied(files []string, from, to uint64) int {
	n := 0
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			n++
		}
	}
	return n
}
