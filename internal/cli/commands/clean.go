// orion clean — remove leftover build roots from the system temp directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover build roots and reconcile the registry",
		Long: `Successful builds leave their temp root in place so the artifact can be
published or inspected later. clean removes those roots and marks the
affected registry records as missing.`,
		Example:      `  orion clean`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			roots, err := filepath.Glob(filepath.Join(os.TempDir(), "orion-utils-*"))
			if err != nil {
				return fmt.Errorf("scan temp dir: %w", err)
			}

			pprint.Header("Cleaning Build Roots")
			if len(roots) == 0 {
				pprint.Info("nothing to clean")
			}

			if rt.Flags.DryRun {
				for _, root := range roots {
					pprint.Info("dry-run: would remove %s", root)
				}
				return nil
			}

			if len(roots) > 0 {
				progress := pprint.NewProgress("Removing", len(roots), 30)
				for i, root := range roots {
					if err := os.RemoveAll(root); err != nil {
						return fmt.Errorf("remove %s: %w", root, err)
					}
					progress.Set(i + 1)
				}
				fmt.Println()
			}

			// Reconcile the registry with what is actually still on disk.
			recs, err := rt.State.ListArtifacts(v1.ArtifactBuilt)
			if err != nil {
				return fmt.Errorf("registry: %w", err)
			}
			marked := 0
			for _, rec := range recs {
				if _, err := os.Stat(rec.Filename); err != nil {
					if err := rt.State.MarkMissing(rec.ID()); err != nil {
						return err
					}
					marked++
				}
			}

			pprint.Success("removed %d build roots, %d records marked missing", len(roots), marked)
			return nil
		},
	}
	return cmd
}
