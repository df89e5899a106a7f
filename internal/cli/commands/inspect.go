// orion inspect — show the manifest and contents of a collection artifact.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/internal/artifact"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewInspectCmd() *cobra.Command {
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "inspect <artifact-id | tarball>",
		Short: "Show the manifest of a built collection artifact",
		Example: `  orion inspect acme.skeleton_foobar12-1.0.0
  orion inspect ./acme-skeleton_foobar12-1.0.0.tar.gz --files`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			filename := args[0]
			checksum := ""
			if _, err := os.Stat(filename); err != nil {
				rec, err := rt.State.GetArtifact(args[0])
				if err != nil {
					return fmt.Errorf("registry lookup: %w", err)
				}
				if rec == nil {
					return fmt.Errorf("no artifact %q in the registry and no such file", args[0])
				}
				filename = rec.Filename
				checksum = rec.Checksum
			}

			manifest, err := artifact.ReadManifest(filename)
			if err != nil {
				return err
			}

			if checksum != "" {
				if err := artifact.Verify(filename, checksum); err != nil {
					pprint.Warn("checksum mismatch: %v", err)
				}
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(manifest)
			}

			info := manifest.CollectionInfo
			pprint.Header("Collection Manifest")
			pprint.KV("Collection  ", info.Namespace+"."+info.Name)
			pprint.KV("Version     ", info.Version)
			pprint.KV("Description ", info.Description)
			pprint.KV("Authors     ", strings.Join(info.Authors, ", "))
			pprint.KV("License     ", strings.Join(info.License, ", "))
			pprint.KV("Tags        ", strings.Join(info.Tags, ", "))
			if len(info.Dependencies) > 0 {
				deps := make([]string, 0, len(info.Dependencies))
				for dep, ver := range info.Dependencies {
					deps = append(deps, fmt.Sprintf("%s (%v)", dep, ver))
				}
				pprint.KV("Dependencies", strings.Join(deps, ", "))
			}

			if showFiles {
				files, err := artifact.Files(filename)
				if err != nil {
					return err
				}
				fmt.Println()
				pprint.Header("Contents")
				for _, f := range files {
					fmt.Println("  " + f)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFiles, "files", false, "List the files inside the tarball")
	return cmd
}
