// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/peaqe/orion-utils/internal/cli/commands"
	"github.com/peaqe/orion-utils/internal/core/config"
	"github.com/peaqe/orion-utils/internal/core/hooks"
	"github.com/peaqe/orion-utils/internal/core/logger"
	"github.com/peaqe/orion-utils/internal/core/state"
	"github.com/peaqe/orion-utils/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
var globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
	dryRun     bool
}

// rootCmd is the base command for orion.
var rootCmd = &cobra.Command{
	Use:           "orion",
	Short:         "Orion — Test collection fixtures for Ansible Galaxy",
	Long:          ``, // overridden by SetHelpTemplate below
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare `orion` — help func already prints banner
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "completion", "init":
			// These run without a project config or registry.
			return nil
		}
		return initRuntime(cmd)
	},
}

// Execute runs the CLI. Called by main().
func Execute() {
	// Show banner before every help screen
	origHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	if err := rootCmd.Execute(); err != nil {
		pprint.Error("%s", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.configFile, "config", "c", "", "Path to orion.yaml (defaults to auto-discovery)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.jsonOutput, "json", false, "Output in machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.dryRun, "dry-run", false, "Print planned actions without executing")

	// Register all subcommands
	rootCmd.AddCommand(
		commands.NewInitCmd(),
		commands.NewBuildCmd(),
		commands.NewPublishCmd(),
		commands.NewInspectCmd(),
		commands.NewArtifactsCmd(),
		commands.NewTemplatesCmd(),
		commands.NewHistoryCmd(),
		commands.NewCleanCmd(),
		commands.NewBrowseCmd(),
		commands.NewVersionCmd(),
	)
}

// initRuntime loads config, logger, state, and plugins before each command runs.
func initRuntime(cmd *cobra.Command) error {
	// Load config
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil && globalFlags.configFile != "" {
		return fmt.Errorf("config: %w", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Initialise logger
	orionHome := config.OrionHome()
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(orionHome, "logs", "orion.log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format, logFile, orionHome, globalFlags.debug)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}

	// Open artifact registry
	dbPath := filepath.Join(orionHome, "registry.db")
	if err := os.MkdirAll(orionHome, 0750); err != nil {
		return fmt.Errorf("create orion home: %w", err)
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("registry db: %w", err)
	}

	// Load build hook plugins
	host := hooks.NewHost(log)
	if err := host.LoadDir(filepath.Join(orionHome, "plugins")); err != nil {
		log.Warn("plugin scan failed", "err", err)
	}

	// Store in command context
	cmd.SetContext(commands.NewContext(cmd.Context(), &commands.Runtime{
		Config: cfg,
		Log:    log,
		State:  db,
		Hooks:  host,
		Flags: commands.GlobalFlags{
			Debug:      globalFlags.debug,
			JSONOutput: globalFlags.jsonOutput,
			DryRun:     globalFlags.dryRun,
		},
	}))

	return nil
}
