// orion publish — upload a built artifact to a configured Galaxy server.
package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/galaxy"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewPublishCmd() *cobra.Command {
	var (
		serverName string
		skipPing   bool
		runnerKind string
	)

	cmd := &cobra.Command{
		Use:   "publish <artifact-id | tarball>",
		Short: "Upload a built collection artifact to a Galaxy server",
		Example: `  orion publish acme.skeleton_foobar12-1.0.0
  orion publish ./acme-skeleton_foobar12-1.0.0.tar.gz --server stage`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			// Accept either a registry artifact ID or a tarball path.
			var rec *v1.ArtifactRecord
			filename := args[0]
			if _, err := os.Stat(filename); err != nil {
				rec, err = rt.State.GetArtifact(args[0])
				if err != nil {
					return fmt.Errorf("registry lookup: %w", err)
				}
				if rec == nil {
					return fmt.Errorf("no artifact %q in the registry and no such file", args[0])
				}
				filename = rec.Filename
				if _, err := os.Stat(filename); err != nil {
					_ = rt.State.MarkMissing(rec.ID())
					return fmt.Errorf("artifact file is gone: %s (marked missing)", filename)
				}
			}

			srv := rt.Config.ServerByName(serverName)
			if srv == nil {
				if serverName == "" {
					return fmt.Errorf("no servers configured in orion.yaml")
				}
				return fmt.Errorf("no server %q in orion.yaml", serverName)
			}

			pprint.Header("Publishing Collection")
			pprint.KV("Artifact ", filename)
			pprint.KV("Server   ", fmt.Sprintf("%s (%s)", srv.Name, srv.URL))

			if !skipPing {
				spinner := pprint.NewSpinner("Checking server availability")
				spinner.Start()
				err := galaxy.Ping(cmd.Context(), srv.URL, galaxy.DefaultTimeout)
				spinner.Stop(err == nil)
				if err != nil {
					return fmt.Errorf("server %q: %w", srv.Name, err)
				}
			}

			if rt.Flags.DryRun {
				pprint.Info("dry-run: would publish %s to %s", filename, srv.URL)
				return nil
			}

			r, closeRunner, err := newRunner(cmd.Context(), rt, runnerKind)
			if err != nil {
				return err
			}
			defer closeRunner()

			rt.Hooks.Fire(cmd.Context(), v1.HookPrePublish, v1.HookContext{Artifact: rec})

			argv := []string{"ansible-galaxy", "collection", "publish", filename,
				"--server", srv.URL}
			if srv.APIKey != "" {
				argv = append(argv, "--api-key", srv.APIKey)
			}

			spinner := pprint.NewSpinner("Uploading to " + srv.Name)
			spinner.Start()
			var out bytes.Buffer
			err = r.Run(cmd.Context(), ".", argv, &out, &out)
			spinner.Stop(err == nil)
			if err != nil {
				pprint.Error("Upload failed:\n%s", out.String())
				return err
			}

			if rec != nil {
				if err := rt.State.MarkPublished(rec.ID(), srv.Name); err != nil {
					rt.Log.Warn("publish state not recorded", "artifact", rec.ID(), "err", err)
				}
			}

			rt.Hooks.Fire(cmd.Context(), v1.HookPostPublish, v1.HookContext{Artifact: rec})

			fmt.Println()
			pprint.Success("Published to %s ◉", srv.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverName, "server", "", "Galaxy server name from orion.yaml (default: first)")
	cmd.Flags().BoolVar(&skipPing, "skip-ping", false, "Skip the server availability check")
	cmd.Flags().StringVar(&runnerKind, "runner", "", "Override runner kind (local or docker)")
	return cmd
}
