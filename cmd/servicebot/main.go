// Package main provides the servicebot binary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m3rciful/servicebot/core/buildinfo"
	corecmd "github.com/m3rciful/servicebot/core/cmd"
	coredatabase "github.com/m3rciful/servicebot/core/database"
	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/app"
	"github.com/m3rciful/servicebot/migrations"
)

const defaultConfigPath = "config.yaml"

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "servicebot",
	Short:        "Telegram service bot",
	SilenceUsage: true,
	RunE:         runBot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := corecmd.ResolveConfigPath(configFile, corecmd.DefaultConfigEnvVar, defaultConfigPath)
		if err != nil {
			return err
		}
		cfg, err := app.Load(path)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
			return err
		}
		defer func() { _ = logger.Shutdown() }()
		return coredatabase.RunMigrations(cmd.Context(), cfg.Database, migrations.FS)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "servicebot "+buildinfo.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: $CONFIG_PATH or config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	return corecmd.Run(cmd.Context(), corecmd.Options{
		ConfigPath:        configFile,
		ConfigEnvVar:      corecmd.DefaultConfigEnvVar,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(ctx, cfg.(*app.Config))
		},
	})
}
