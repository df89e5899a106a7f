// orion build — build collection artifacts from embedded templates.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/generator"
	"github.com/peaqe/orion-utils/internal/runner"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

func NewBuildCmd() *cobra.Command {
	var (
		key         string
		noKey       bool
		namespace   string
		name        string
		version     string
		setValues   []string
		extraFiles  []string
		keepWorkdir bool
		runnerKind  string
	)

	cmd := &cobra.Command{
		Use:   "build [template]",
		Short: "Build collection artifacts from embedded templates",
		Long: `Build the named template, or, with no argument, every entry of the
builds list in orion.yaml.`,
		Example: `  orion build skeleton
  orion build skeleton --namespace acme --version 1.2.0
  orion build kitchensink --key smoke01 --set tags=database
  orion build                  # everything declared in orion.yaml`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			extra, err := parseExtraFiles(extraFiles)
			if err != nil {
				return err
			}

			var requests []v1.BuildRequest
			if len(args) == 1 {
				cfg := map[string]any{}
				if namespace != "" {
					cfg["namespace"] = namespace
				}
				if name != "" {
					cfg["name"] = name
				}
				if version != "" {
					cfg["version"] = version
				}
				for _, kv := range setValues {
					k, v, ok := strings.Cut(kv, "=")
					if !ok {
						return fmt.Errorf("--set %q: expected key=value", kv)
					}
					cfg[k] = v
				}
				requests = []v1.BuildRequest{{
					Template:   args[0],
					Config:     cfg,
					Key:        key,
					NoKey:      noKey,
					ExtraFiles: extra,
				}}
			} else {
				if len(rt.Config.Builds) == 0 {
					return fmt.Errorf("no template argument and no builds list in orion.yaml")
				}
				requests = rt.Config.Builds
			}

			pprint.Header("Building Collections")

			r, closeRunner, err := newRunner(cmd.Context(), rt, runnerKind)
			if err != nil {
				return err
			}
			defer closeRunner()

			builder := generator.New(r, rt.Log)
			builder.Seed = rt.Config.Build.Seed
			builder.KeepWorkdir = keepWorkdir || rt.Config.Build.KeepWorkdir

			for i, req := range requests {
				pprint.Step(i+1, len(requests), "Building %s", req.Template)
				if err := runBuild(cmd.Context(), rt, builder, r, req); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Collection key suffix (default: random)")
	cmd.Flags().BoolVar(&noKey, "no-key", false, "Build without a key suffix")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Override the collection namespace")
	cmd.Flags().StringVar(&name, "name", "", "Override the collection name (disables the key suffix on it)")
	cmd.Flags().StringVar(&version, "version", "", "Override the collection version")
	cmd.Flags().StringArrayVar(&setValues, "set", nil, "Set a galaxy.yml field, key=value (repeatable)")
	cmd.Flags().StringArrayVar(&extraFiles, "extra-file", nil, "Write an extra file into the checkout, path=content (repeatable)")
	cmd.Flags().BoolVar(&keepWorkdir, "keep-workdir", false, "Keep the temp build root after a failed build")
	cmd.Flags().StringVar(&runnerKind, "runner", "", "Override runner kind for this build (local or docker)")
	return cmd
}

// runBuild executes one build request, journals it, and records the artifact.
func runBuild(ctx context.Context, rt *Runtime, builder *generator.Builder, r runner.Runner, req v1.BuildRequest) error {
	cfg := req.Config
	if rt.Config.Build.Namespace != "" {
		if cfg == nil {
			cfg = map[string]any{}
		}
		if _, ok := cfg["namespace"]; !ok {
			cfg["namespace"] = rt.Config.Build.Namespace
		}
	}

	if rt.Flags.DryRun {
		pprint.Info("dry-run: would build %q with config %v", req.Template, cfg)
		return nil
	}

	opts := generator.Options{
		Config:     cfg,
		Key:        req.Key,
		NoKey:      req.NoKey,
		ExtraFiles: req.ExtraFiles,
		PreBuild: func(name, key, checkout string) error {
			rt.Hooks.Fire(ctx, v1.HookPreBuild, v1.HookContext{
				Template: req.Template,
				Key:      key,
				Checkout: checkout,
			})
			return nil
		},
	}

	spinner := pprint.NewSpinner("Running ansible-galaxy collection build")
	spinner.Start()

	started := time.Now()
	rec, buildErr := builder.Build(ctx, req.Template, opts)
	spinner.Stop(buildErr == nil)

	journal := v1.BuildRecord{
		ID:        fmt.Sprintf("%s-%d", req.Template, started.UnixNano()),
		Template:  req.Template,
		Runner:    r.Kind(),
		StartedAt: started.UTC(),
		Duration:  time.Since(started).Round(time.Millisecond).String(),
		Result:    "success",
	}
	if buildErr != nil {
		journal.Result = "failure"
		journal.Error = buildErr.Error()
	} else {
		journal.Artifact = rec.ID()
	}
	rt.Log.Journal(journal)
	if err := rt.State.PutBuild(journal); err != nil {
		rt.Log.Warn("journal record not persisted", "err", err)
	}

	if buildErr != nil {
		return buildErr
	}

	if err := rt.State.PutArtifact(rec); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}

	rt.Hooks.Fire(ctx, v1.HookPostBuild, v1.HookContext{
		Template: req.Template,
		Key:      rec.Key,
		Artifact: &rec,
	})

	fmt.Println()
	pprint.Success("Built %s %s ◉", rec.FQCN(), rec.Version)
	pprint.KV("Artifact ", rec.Filename)
	pprint.KV("Checksum ", rec.Checksum)
	return nil
}

// parseExtraFiles turns repeated path=content flags into the ExtraFiles map.
// A content value starting with @ reads the named file.
func parseExtraFiles(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		path, content, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--extra-file %q: expected path=content", pair)
		}
		if strings.HasPrefix(content, "@") {
			data, err := os.ReadFile(strings.TrimPrefix(content, "@"))
			if err != nil {
				return nil, fmt.Errorf("--extra-file %q: %w", pair, err)
			}
			out[path] = string(data)
			continue
		}
		out[path] = content
	}
	return out, nil
}
