package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/servicebot/core/logger"
)

// Seeder loads reference data into storage of type S.
type Seeder[S any] interface {
	Name() string
	Seed(ctx context.Context, storage S) error
}

// SeederFunc adapts a named function to the Seeder interface.
type SeederFunc[S any] struct {
	Label string
	Fn    func(ctx context.Context, storage S) error
}

// Name returns the seeder label used in logs.
func (f SeederFunc[S]) Name() string { return f.Label }

// Seed executes the underlying function.
func (f SeederFunc[S]) Seed(ctx context.Context, storage S) error {
	return f.Fn(ctx, storage)
}

// RunSeeders executes seeders in order and stops at the first failure.
func RunSeeders[S any](ctx context.Context, storage S, seeders ...Seeder[S]) error {
	for _, s := range seeders {
		start := time.Now()
		err := s.Seed(ctx, storage)
		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.String("handler", s.Name()),
			slog.Duration("duration", logger.Took(start)),
		}
		if err != nil {
			logger.LogEvent(ctx, logger.SEED, slog.LevelError, "db.seed", append(attrs, logger.Err(err))...)
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.LogEvent(ctx, logger.SEED, slog.LevelDebug, "db.seed", attrs...)
	}
	return nil
}
