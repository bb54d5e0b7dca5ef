package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed default templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.Log.Mode)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Database up to date (%s).\n", cfg.Database.Driver)
		return nil
	},
}
