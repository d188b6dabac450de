package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/servicebot/core/bootstrap"
	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/content"
)

// seeders fill an empty catalogue. Existing rows are never overwritten.
func seeders(cfg *Config) []bootstrap.Seeder[content.Store] {
	return []bootstrap.Seeder[content.Store]{
		bootstrap.SeederFunc[content.Store]{Label: "default_texts", Fn: seedTexts},
		bootstrap.SeederFunc[content.Store]{Label: "default_faq", Fn: seedFAQ},
		bootstrap.SeederFunc[content.Store]{Label: "owner_admin", Fn: func(ctx context.Context, s content.Store) error {
			return seedOwner(ctx, s, cfg.Telegram.AdminID, cfg.Telegram.AdminName)
		}},
	}
}

func seedTexts(ctx context.Context, s content.Store) error {
	for key, body := range content.DefaultTexts {
		_, err := s.GetText(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, content.ErrNotFound) {
			return err
		}
		if err := s.PutText(ctx, key, body); err != nil {
			return err
		}
	}
	return nil
}

func seedFAQ(ctx context.Context, s content.Store) error {
	items, err := s.ListFAQ(ctx)
	if err != nil || len(items) > 0 {
		return err
	}
	for _, it := range content.DefaultFAQ {
		if _, err := s.AddFAQ(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func seedOwner(ctx context.Context, s content.Store, id int64, name string) error {
	admins, err := s.ListAdmins(ctx)
	if err != nil || len(admins) > 0 {
		return err
	}
	if id <= 0 {
		logger.LogEvent(ctx, logger.SEED, slog.LevelWarn, "db.seed",
			slog.String("handler", "owner_admin"),
			slog.String("status", "skip"),
			slog.String("reason", "telegram.admin_id not set; nobody can manage the bot"),
		)
		return nil
	}
	return s.AddAdmin(ctx, content.AdminEntry{UserID: id, DisplayName: name})
}
