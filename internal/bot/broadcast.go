package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/core/telegram/sender"
	"github.com/m3rciful/servicebot/internal/action"
)

const announcementPrefix = "📢 Announcement\n\n"

// runBroadcast sends text to every known user. Failures are counted per recipient and
// never abort the run. Only the requesting admin's lock is held meanwhile.
func (r *Router) runBroadcast(ctx context.Context, admin User, text string) Response {
	users, err := r.store.ListUsers(ctx, 0)
	if err != nil {
		return r.failure(ctx, "list_users", err)
	}
	nav := [][]Button{back(action.AdminMain)}
	if len(users) == 0 {
		return r.single(View{Text: textNoUsers, Rows: nav})
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.UserID
	}

	if err := r.notifier.Notify(ctx, admin.ID, fmt.Sprintf("📤 Sending to %d users...", len(ids))); err != nil {
		logger.Warn(ctx, logger.CompBroadcast, "broadcast.progress", logger.Err(err))
	}

	msg := announcementPrefix + text
	rep := sender.Fanout(ctx, ids, sender.Options{
		Workers:  r.broadcast.Workers,
		Interval: r.broadcast.Interval,
	}, func(ctx context.Context, id int64) error {
		return r.notifier.Notify(ctx, id, msg)
	})

	if r.metrics != nil {
		r.metrics.ObserveBroadcast(rep.Succeeded, rep.Failed)
	}
	attrs := []slog.Attr{
		slog.String("run_id", rep.RunID),
		slog.Int("recipients", rep.Attempted),
		slog.Int("succeeded", rep.Succeeded),
		slog.Int("failed", rep.Failed),
	}
	for kind, n := range rep.FailureKinds() {
		attrs = append(attrs, slog.Int("failed_"+kind, n))
	}
	logger.Info(ctx, logger.CompBroadcast, "broadcast.done", attrs...)

	return r.single(View{
		Text: fmt.Sprintf("📊 *Broadcast finished*\n\n✅ Delivered: %d\n❌ Failed: %d\n📝 Total: %d",
			rep.Succeeded, rep.Failed, rep.Attempted),
		Markdown: true,
		Rows:     nav,
	})
}
