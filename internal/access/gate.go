// Package access owns the authorization and maintenance gates.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/content"
)

// MaintenanceSetting is the bot_settings key used when the flag is persisted.
const MaintenanceSetting = "maintenance"

// AdminSource is the part of the store the gate reads and persists through.
type AdminSource interface {
	ListAdmins(ctx context.Context) ([]content.AdminEntry, error)
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Options configures a Gate.
type Options struct {
	// PersistMaintenance stores the maintenance flag so it survives restarts.
	PersistMaintenance bool
}

// Gate answers IsAdmin from an in-memory snapshot of the admin table and holds the
// maintenance flag. The snapshot changes only through Reload.
type Gate struct {
	src     AdminSource
	persist bool

	mu     sync.RWMutex
	admins map[int64]struct{}

	maintenance atomic.Bool
}

// New builds a gate with an empty snapshot. Call Reload before serving.
func New(src AdminSource, opts Options) *Gate {
	return &Gate{
		src:     src,
		persist: opts.PersistMaintenance,
		admins:  make(map[int64]struct{}),
	}
}

// Reload replaces the admin snapshot with the current store contents.
// On error the previous snapshot is kept.
func (g *Gate) Reload(ctx context.Context) error {
	list, err := g.src.ListAdmins(ctx)
	if err != nil {
		logger.Error(ctx, logger.CompAccess, "access.reload",
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return fmt.Errorf("access: reload admins: %w", err)
	}
	next := make(map[int64]struct{}, len(list))
	for _, a := range list {
		next[a.UserID] = struct{}{}
	}
	g.mu.Lock()
	g.admins = next
	g.mu.Unlock()

	logger.Debug(ctx, logger.CompAccess, "access.reload",
		slog.String("status", "ok"),
		slog.Int("admins", len(next)),
	)
	return nil
}

// IsAdmin reports whether userID is in the admin snapshot.
func (g *Gate) IsAdmin(userID int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.admins[userID]
	return ok
}

// AdminCount returns the snapshot size.
func (g *Gate) AdminCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.admins)
}

// Maintenance reports the maintenance flag.
func (g *Gate) Maintenance() bool { return g.maintenance.Load() }

// IsBlocked reports whether maintenance is on and userID is not an admin.
func (g *Gate) IsBlocked(userID int64) bool {
	return g.maintenance.Load() && !g.IsAdmin(userID)
}

// SetMaintenance switches the flag. When persistence is enabled the value is written
// first; a failed write leaves the flag unchanged.
func (g *Gate) SetMaintenance(ctx context.Context, on bool) error {
	if g.persist {
		if err := g.src.PutSetting(ctx, MaintenanceSetting, formatFlag(on)); err != nil {
			return fmt.Errorf("access: persist maintenance: %w", err)
		}
	}
	prev := g.maintenance.Swap(on)
	logger.Info(ctx, logger.CompAccess, "access.maintenance",
		slog.String("status", "ok"),
		slog.Bool("enabled", on),
		slog.Bool("changed", prev != on),
	)
	return nil
}

// Restore loads the persisted maintenance flag. It is a no-op without persistence.
func (g *Gate) Restore(ctx context.Context) error {
	if !g.persist {
		return nil
	}
	v, err := g.src.GetSetting(ctx, MaintenanceSetting)
	if errors.Is(err, content.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("access: restore maintenance: %w", err)
	}
	g.maintenance.Store(v == formatFlag(true))
	logger.Info(ctx, logger.CompAccess, "access.maintenance.restore",
		slog.Bool("enabled", g.maintenance.Load()),
	)
	return nil
}

func formatFlag(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
