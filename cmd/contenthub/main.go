package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/logger"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "contenthub",
		Short:         "ContentHub - content calendar with briefs and templates",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(credentialCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config.
func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the configured database. Migrations and template
// seeding run as part of opening.
func openStore(ctx context.Context, cfg *model.AppConfig, log *logger.Logger) (*store.SQLStore, error) {
	if cfg.Database.Driver == model.DriverSQLite {
		if err := ensureParentDir(cfg.Database.DSN); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Database.Driver, err)
	}
	log.Debug("Store opened", "driver", cfg.Database.Driver, "dialect", st.Dialect())
	return st, nil
}
