package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/servicebot/core/logger"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// Connect opens the database, configures the pool, and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	took := logger.RoundMS(time.Since(start))
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("status", "fail"),
			slog.String("driver", cfg.Driver),
			slog.String("db", cfg.Target()),
			slog.Duration("duration", took),
			logger.Err(err),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("db pragma %q: %w", pragma, err)
			}
		}
	} else {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxConnections)
	}

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("status", "ok"),
		slog.String("driver", cfg.Driver),
		slog.String("db", cfg.Target()),
		slog.Int("pool_open", db.Stats().MaxOpenConnections),
		slog.Duration("duration", took),
	)
	return db, nil
}

// WaitForPostgres pings dsn until it answers or timeout elapses.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		db, err := sql.Open(DriverPostgres, dsn)
		if err == nil {
			err = db.PingContext(ctx)
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}
