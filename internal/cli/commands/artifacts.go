// orion artifacts — list and maintain the artifact registry.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewArtifactsCmd() *cobra.Command {
	var (
		status string
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List built collection artifacts from the registry",
		Example: `  orion artifacts
  orion artifacts --status published
  orion artifacts --prune`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			recs, err := rt.State.ListArtifacts(v1.ArtifactStatus(status))
			if err != nil {
				return fmt.Errorf("registry: %w", err)
			}

			if prune {
				return pruneArtifacts(rt, recs)
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(recs)
			}

			pprint.Header("Artifact Registry")
			if len(recs) == 0 {
				pprint.Info("nothing built yet — run `orion build <template>`")
				return nil
			}

			table := pprint.NewTable("COLLECTION", "VERSION", "TEMPLATE", "STATUS", "BUILT")
			for _, rec := range recs {
				table.AddRow(
					rec.FQCN(),
					rec.Version,
					rec.Template,
					string(rec.Status),
					rec.BuiltAt.Local().Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (built, published, missing)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Mark records whose tarball is gone as missing and drop old missing records")
	return cmd
}

// pruneArtifacts re-checks every record against the filesystem. Records whose
// tarball vanished flip to missing; records already missing are dropped.
func pruneArtifacts(rt *Runtime, recs []v1.ArtifactRecord) error {
	marked, dropped := 0, 0
	for _, rec := range recs {
		if rec.Status == v1.ArtifactMissing {
			if err := rt.State.DeleteArtifact(rec.ID()); err != nil {
				return err
			}
			dropped++
			continue
		}
		if _, err := os.Stat(rec.Filename); err != nil {
			if err := rt.State.MarkMissing(rec.ID()); err != nil {
				return err
			}
			marked++
		}
	}
	pprint.Success("pruned: %d marked missing, %d dropped", marked, dropped)
	return nil
}
