// Package runner executes external ansible-galaxy invocations for the build
// pipeline. A Runner interface hides whether the tool runs on the host or
// inside a disposable container, and lets tests inject fakes that never touch
// a real toolchain.
package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/peaqe/orion-utils/internal/core/logger"
	"github.com/peaqe/orion-utils/pkg/errs"
)

// Runner executes a single external command in a working directory, writing
// its output to the provided writers.
type Runner interface {
	// Run executes argv[0] with argv[1:] as arguments, in workdir.
	// A non-zero exit status is returned as an error.
	Run(ctx context.Context, workdir string, argv []string, stdout, stderr io.Writer) error

	// Kind identifies the runner for journaling ("local" or "docker").
	Kind() string
}

// Local runs commands directly on the host.
type Local struct {
	// Binary overrides argv[0] when non-empty. Lets config point at a
	// specific ansible-galaxy in a virtualenv.
	Binary string

	// ExtraArgs is a shell-quoted string appended to every invocation.
	ExtraArgs string

	// DryRun prints the command instead of executing it.
	DryRun bool

	Log *logger.Logger
}

// NewLocal returns a Local runner.
func NewLocal(binary, extraArgs string, dryRun bool, log *logger.Logger) *Local {
	if log == nil {
		log = logger.Nop()
	}
	return &Local{Binary: binary, ExtraArgs: extraArgs, DryRun: dryRun, Log: log}
}

func (l *Local) Kind() string { return "local" }

// Run executes the command on the host. ExtraArgs are split with shell
// quoting rules before being appended, so config values like
// `--ignore-certs -vvv` behave as they would in a shell.
func (l *Local) Run(ctx context.Context, workdir string, argv []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return errs.Newf(errs.ErrRunnerExec, "runner.local", "empty command")
	}

	name := argv[0]
	if l.Binary != "" {
		name = l.Binary
	}
	args := argv[1:]

	if l.ExtraArgs != "" {
		extra, err := shellquote.Split(l.ExtraArgs)
		if err != nil {
			return errs.Wrap(err, errs.ErrRunnerExec, "runner.local.extra_args").
				WithAdvice("check runner.extra_args quoting in orion.yaml")
		}
		args = append(args, extra...)
	}

	if l.DryRun {
		fmt.Fprintf(stdout, "dry-run: %s %s\n", name, strings.Join(args, " "))
		return nil
	}

	if _, err := exec.LookPath(name); err != nil {
		return errs.Wrap(err, errs.ErrRunnerNotFound, "runner.local.lookpath").
			WithResource(name).
			WithAdvice("install ansible-core or set runner.binary / runner.kind: docker")
	}

	l.Log.Debug("exec", "cmd", name, "args", strings.Join(args, " "), "cwd", workdir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workdir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errs.Wrap(err, errs.ErrRunnerExec, "runner.local.run").WithResource(name)
	}
	return nil
}
