package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RHellenes/drag-and-drop/internal/demo"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal demo",
		Long: `Run an interactive two-column board in the terminal. Items are dragged
with the mouse; every gesture goes through the engine's normalizer,
resolvers, and value sync, exactly as an embedding host would drive it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(demo.NewModel(),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return WrapExitError(ExitCommandError, "demo failed", err)
			}
			return nil
		},
	}
}
