package middleware

import (
	"log/slog"
	"time"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/servicebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// UpdateKind classifies an update for logs, metrics and rate limit exclusions.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil && upd.Message.Document != nil:
		return "document"
	case upd.Message != nil && upd.Message.Photo != nil:
		return "photo"
	case upd.Message != nil:
		return "message"
	default:
		return "other"
	}
}

// LoggerMiddleware sets the rid, stores the request context, and logs one sampled receipt line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		chat, user := c.Chat(), c.Sender()
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component(logger.CompTG))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() {
			attrs := []slog.Attr{
				slog.String("status", "ok"),
				slog.String("input", UpdateKind(upd)),
			}
			if user != nil && user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			switch {
			case upd.Callback != nil:
				attrs = append(attrs, slog.String("action", logger.SanitizeLimit(callbacks.Key(upd.Callback), 64)))
			case upd.Message != nil && upd.Message.Text != "":
				attrs = append(attrs, slog.Int("count", len(upd.Message.Text)))
			}
			logger.LogEvent(ctx, nil, slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
