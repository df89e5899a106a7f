// orion history — show the build journal.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewHistoryCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past build invocations from the journal",
		Example: `  orion history
  orion history --template kitchensink`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			recs, err := rt.State.ListBuilds(template)
			if err != nil {
				return fmt.Errorf("journal: %w", err)
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(recs)
			}

			pprint.Header("Build History")
			if len(recs) == 0 {
				pprint.Info("no builds recorded yet")
				return nil
			}

			table := pprint.NewTable("STARTED", "TEMPLATE", "ARTIFACT", "RUNNER", "DURATION", "RESULT")
			for _, rec := range recs {
				artifactID := rec.Artifact
				if artifactID == "" {
					artifactID = "-"
				}
				table.AddRow(
					rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
					rec.Template,
					artifactID,
					rec.Runner,
					rec.Duration,
					rec.Result,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Filter by template name")
	return cmd
}
