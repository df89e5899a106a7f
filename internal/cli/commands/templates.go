// orion templates — list the embedded collection templates.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/internal/generator"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewTemplatesCmd() *cobra.Command {
	var showFiles string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the embedded collection templates",
		Example: `  orion templates
  orion templates --files kitchensink`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			if showFiles != "" {
				files, err := generator.TemplateFiles(showFiles)
				if err != nil {
					return err
				}
				if rt.Flags.JSONOutput {
					return json.NewEncoder(os.Stdout).Encode(files)
				}
				pprint.Header("Template: " + showFiles)
				for _, f := range files {
					fmt.Println("  " + f)
				}
				return nil
			}

			names := generator.Templates()
			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(names)
			}

			pprint.Header("Templates")
			for _, name := range names {
				fmt.Println("  " + name)
			}
			fmt.Println()
			pprint.Info("build one with: orion build <template>")
			return nil
		},
	}

	cmd.Flags().StringVar(&showFiles, "files", "", "List the files of the named template")
	return cmd
}
