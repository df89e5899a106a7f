// Shared runner construction for commands that shell out to ansible-galaxy.
package commands

import (
	"context"
	"fmt"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/runner"
)

// newRunner builds the Runner selected by config (and the --runner override).
// The returned closer releases docker client resources; for the local runner
// it is a no-op.
func newRunner(ctx context.Context, rt *Runtime, kindOverride string) (runner.Runner, func() error, error) {
	noop := func() error { return nil }

	kind := rt.Config.Runner.Kind
	if kindOverride != "" {
		kind = kindOverride
	}

	switch kind {
	case "", string(v1.RunnerLocal):
		r := runner.NewLocal(rt.Config.Runner.Binary, rt.Config.Runner.ExtraArgs, rt.Flags.DryRun, rt.Log)
		return r, noop, nil

	case string(v1.RunnerDocker):
		d, err := runner.NewDocker("", rt.Config.Runner.Image, rt.Log)
		if err != nil {
			return nil, noop, fmt.Errorf("docker runner: %w", err)
		}
		if err := d.Ping(ctx); err != nil {
			_ = d.Close()
			return nil, noop, fmt.Errorf("docker daemon not reachable: %w", err)
		}
		return d, d.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown runner kind %q (local or docker)", kind)
	}
}
