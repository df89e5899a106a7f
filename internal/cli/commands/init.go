// orion init — scaffold a new orion.yaml in the target directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/internal/core/config"
)

func NewInitCmd() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new orion.yaml in the current (or specified) directory",
		Example: `  orion init
  orion init --path ./my-fixtures`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, "orion.yaml")
			if _, err := os.Stat(outFile); err == nil {
				return fmt.Errorf("orion.yaml already exists at %s — delete it first to reinitialise", outFile)
			}

			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("create dir %q: %w", targetPath, err)
			}

			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return fmt.Errorf("write orion.yaml: %w", err)
			}

			fmt.Printf("✓ Created %s\n", outFile)
			fmt.Println("  Edit it to define your servers, then run: orion build skeleton")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for orion.yaml")
	return cmd
}
