// orion browse — interactive artifact registry browser.
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/internal/tui"
)

func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "browse",
		Short:        "Browse built artifacts in an interactive terminal UI",
		Example:      `  orion browse`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			app := tui.New(tui.Config{
				State: rt.State,
				Log:   rt.Log,
			})

			p := tea.NewProgram(app,
				tea.WithAltScreen(), // use alternate screen buffer
			)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
	return cmd
}
