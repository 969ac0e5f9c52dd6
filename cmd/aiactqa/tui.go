package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/aiactqa/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive query view",
		Long: `Open the interactive query view.

Type a question and press ctrl+s (or alt+enter) to ask. While the backend is
working the question box stays editable but cannot be submitted again.
Sources are paged with pgup/pgdown. Logs go to the log file only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			model := tui.NewModel(ctx, a.client, tui.Options{
				PageSize: a.cfg.UI.PageSize,
				Logger:   a.logger,
			})

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("query view: %w", err)
			}
			return nil
		},
	}
}
