// Package app assembles the service bot from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/servicebot/core/bootstrap"
	"github.com/m3rciful/servicebot/core/logger"
	tg "github.com/m3rciful/servicebot/core/telegram"
	tghelpers "github.com/m3rciful/servicebot/core/telegram/helpers"
	"github.com/m3rciful/servicebot/internal/access"
	"github.com/m3rciful/servicebot/internal/bot"
	"github.com/m3rciful/servicebot/internal/content"
	"github.com/m3rciful/servicebot/internal/metrics"
	"github.com/m3rciful/servicebot/internal/storage"
	"github.com/m3rciful/servicebot/internal/tgbot"
	"github.com/m3rciful/servicebot/migrations"

	tele "gopkg.in/telebot.v4"
)

const textSlowDown = "⏳ Too many requests. Please slow down."

// App holds the wired bot. Close releases the database.
type App struct {
	cfg *Config
	db  *sqlx.DB

	store    *storage.Store
	gate     *access.Gate
	router   *bot.Router
	handler  *tgbot.Handler
	metrics  *metrics.Recorder
	registry *tg.Registry

	metricsDone chan error
}

// Bootstrap connects and migrates the database, seeds defaults and builds the router.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	return bootstrapWith(ctx, cfg, bootstrap.Options{})
}

func bootstrapWith(ctx context.Context, cfg *Config, opts bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	opts.Config = &cfg.Config
	opts.Database = cfg.Database
	opts.Migrations = migrations.FS

	res, err := bootstrap.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: res.DB, store: storage.New(res.DB)}

	if err := bootstrap.RunSeeders[content.Store](ctx, a.store, seeders(cfg)...); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.gate = access.New(a.store, access.Options{PersistMaintenance: cfg.Bot.PersistMaintenance})
	if err := a.gate.Reload(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("app: load admins: %w", err)
	}
	if err := a.gate.Restore(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("app: restore maintenance: %w", err)
	}

	a.metrics = metrics.New()
	a.handler = tgbot.New(nil, a.metrics)
	a.router = bot.New(bot.Deps{
		Store:    a.store,
		Gate:     a.gate,
		Notifier: a.handler,
		Identity: a.handler,
		Metrics:  a.metrics,
		Broadcast: bot.BroadcastOptions{
			Workers:  cfg.Bot.BroadcastWorkers,
			Interval: cfg.Bot.BroadcastDelay(),
		},
	})
	a.handler.SetRouter(a.router)

	a.registry = tg.NewRegistry()
	a.handler.RegisterCommands(a.registry)

	logger.Info(ctx, logger.CompAccess, "access.ready",
		slog.Int("admins", a.gate.AdminCount()),
		slog.Bool("maintenance", a.gate.Maintenance()),
	)
	return a, nil
}

// Router exposes the interaction router.
func (a *App) Router() *bot.Router { return a.router }

// TelegramRunOptions wires middlewares, routes and lifecycle hooks for RunTelegram.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	if a == nil || a.handler == nil {
		return tg.RunOptions{}, errors.New("app: not bootstrapped")
	}
	onLimited := func(c tele.Context) error { return tghelpers.Alert(c, textSlowDown) }
	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Config, onLimited),
		Routes:      a.handler.Routes(a.registry),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt tg.Runtime) error {
	a.handler.Attach(rt.Bot)
	if addr := a.cfg.Observability.MetricsListen; addr != "" {
		a.metricsDone = make(chan error, 1)
		go func() { a.metricsDone <- a.metrics.Serve(ctx, addr) }()
	}
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	if a.metricsDone == nil {
		return nil
	}
	select {
	case err := <-a.metricsDone:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
