package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/api"
	"github.com/nhle/contenthub/internal/attachment"
	"github.com/nhle/contenthub/internal/credential"
	"github.com/nhle/contenthub/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	Long: `Start the ContentHub HTTP API.

Examples:
  contenthub serve
  contenthub serve --addr :9090
  CONTENTHUB_DATABASE_DRIVER=postgres CONTENTHUB_DATABASE_DSN=postgres://... contenthub serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	// The keyring is optional: without it the signing key must be in the
	// config, otherwise uploads answer 503.
	var secrets attachment.SecretSource
	if creds, err := credential.Open(); err != nil {
		log.Warn("Keyring unavailable", "error", err)
	} else {
		secrets = creds
	}

	uploads := attachment.NewPresigner(cfg.Storage, secrets, log)
	defer uploads.Close()
	if !uploads.Configured() {
		log.Info("Attachment uploads disabled: storage.bucket is not set")
	}

	server := api.NewServer(st, uploads, log, cfg.Server)
	return server.Run(ctx, cfg.Server.Addr)
}
