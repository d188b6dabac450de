package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/servicebot/core/bootstrap"
	coreconfig "github.com/m3rciful/servicebot/core/config"
	coredatabase "github.com/m3rciful/servicebot/core/database"
	"github.com/m3rciful/servicebot/internal/bot"
	"github.com/m3rciful/servicebot/internal/content"
	"github.com/m3rciful/servicebot/internal/storage/storagetest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: yaml-token
  admin_id: 42
database:
  driver: sqlite
  path: /tmp/bot.db
bot:
  broadcast_workers: 3
`)
	t.Setenv("BOT_BROADCAST_DELAY_MS", "250")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, coredatabase.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Bot.BroadcastWorkers)
	assert.Equal(t, 250, cfg.Bot.BroadcastDelayMS)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadDefaultsAndRejects(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
telegram: {token: t}
database: {driver: sqlite, path: bot.db}
`))
	require.NoError(t, err)
	assert.Equal(t, defaultBroadcastWorkers, cfg.Bot.BroadcastWorkers)
	assert.Equal(t, defaultBroadcastDelayMS, cfg.Bot.BroadcastDelayMS)

	_, err = Load(writeConfig(t, `
telegram: {token: t}
database: {driver: sqlite, path: bot.db}
bot: {broadcast_workers: -1}
`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `
telegram: {token: t}
database: {driver: oracle}
`))
	require.Error(t, err)
}

func TestSeedersAreIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storagetest.Open(t)
	cfg := &Config{}
	cfg.Telegram.AdminID = 7
	cfg.Telegram.AdminName = "Owner"

	require.NoError(t, store.PutText(ctx, content.TextContact, "custom"))
	for range 2 {
		require.NoError(t, bootstrap.RunSeeders[content.Store](ctx, store, seeders(cfg)...))
	}

	txt, err := store.GetText(ctx, content.TextContact)
	require.NoError(t, err)
	assert.Equal(t, "custom", txt.Body, "existing text kept")
	txt, err = store.GetText(ctx, content.TextWelcome)
	require.NoError(t, err)
	assert.Equal(t, content.DefaultText(content.TextWelcome), txt.Body)

	faq, err := store.ListFAQ(ctx)
	require.NoError(t, err)
	assert.Len(t, faq, len(content.DefaultFAQ))

	admins, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, int64(7), admins[0].UserID)
	assert.Equal(t, "Owner", admins[0].DisplayName)
}

func TestBootstrapWiresRouter(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Telegram.AdminID = 1
	cfg.Database = coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "bot.db")}
	require.NoError(t, cfg.Database.Normalize())
	require.NoError(t, cfg.normalizeBot())

	a, err := bootstrapWith(ctx, cfg, bootstrap.Options{LoggerInit: func(*coreconfig.Config) error { return nil }})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	resp := a.Router().Handle(ctx, bot.Event{Kind: bot.EventCommand, User: bot.User{ID: 1}, Command: "admin"})
	assert.Equal(t, bot.OutcomeOK, resp.Outcome)
	resp = a.Router().Handle(ctx, bot.Event{Kind: bot.EventCommand, User: bot.User{ID: 2}, Command: "admin"})
	assert.Equal(t, bot.OutcomeDenied, resp.Outcome)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.NotEmpty(t, opts.Routes)
	assert.NotEmpty(t, opts.Middlewares)
	_, cmd, ok := opts.Registry.LookupCommand("/broadcast")
	require.True(t, ok)
	assert.True(t, cmd.AdminOnly)
}
