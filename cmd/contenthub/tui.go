package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/app"
	"github.com/nhle/contenthub/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Log output would corrupt the alternate screen.
		st, err := openStore(context.Background(), cfg, logger.Nop())
		if err != nil {
			return err
		}
		defer st.Close()

		p := tea.NewProgram(app.New(st), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running tui: %w", err)
		}
		return nil
	},
}
