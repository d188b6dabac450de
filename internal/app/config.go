package app

import (
	"fmt"
	"time"

	coreconfig "github.com/m3rciful/servicebot/core/config"
	coredatabase "github.com/m3rciful/servicebot/core/database"
)

const (
	defaultBroadcastWorkers = 1
	defaultBroadcastDelayMS = 100
)

// Config is the full bot configuration: the reusable core plus bot specific sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database      coredatabase.Config `yaml:"database"`
	Bot           BotConfig           `yaml:"bot"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// BotConfig tunes bot behaviour.
type BotConfig struct {
	// PersistMaintenance keeps the maintenance flag across restarts.
	PersistMaintenance bool `yaml:"persist_maintenance" envconfig:"BOT_PERSIST_MAINTENANCE"`
	BroadcastWorkers   int  `yaml:"broadcast_workers" envconfig:"BOT_BROADCAST_WORKERS"`
	BroadcastDelayMS   int  `yaml:"broadcast_delay_ms" envconfig:"BOT_BROADCAST_DELAY_MS"`
}

// BroadcastDelay is the pause between two broadcast sends.
func (b BotConfig) BroadcastDelay() time.Duration {
	return time.Duration(b.BroadcastDelayMS) * time.Millisecond
}

// ObservabilityConfig controls the metrics endpoint. An empty address disables it.
type ObservabilityConfig struct {
	MetricsListen string `yaml:"metrics_listen" envconfig:"METRICS_LISTEN"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// Load reads the YAML file at path, applies env overrides and validates every section.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.normalizeBot(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalizeBot() error {
	b := &c.Bot
	if b.BroadcastWorkers < 0 || b.BroadcastDelayMS < 0 {
		return fmt.Errorf("bot.broadcast_workers and bot.broadcast_delay_ms must be >= 0")
	}
	if b.BroadcastWorkers == 0 {
		b.BroadcastWorkers = defaultBroadcastWorkers
	}
	if b.BroadcastDelayMS == 0 {
		b.BroadcastDelayMS = defaultBroadcastDelayMS
	}
	return nil
}
