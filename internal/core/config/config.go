// Package config provides the orion configuration loader.
// Config is loaded by merging orion.yaml → ~/.orion/config.yaml → ORION_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/pkg/nameutil"
)

// sensitiveKeyRegex matches config keys that should be redacted in log output.
var sensitiveKeyRegex = regexp.MustCompile(`(?i)(password|token|secret|api_key|key)`)

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"log.level":     "info",
	"log.format":    "text",
	"runner.kind":   "local",
	"runner.binary": "ansible-galaxy",
	"runner.image":  "quay.io/ansible/ansible-runner:latest",
	"build.seed":    0,
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded project configuration.
type Config struct {
	Version string            `mapstructure:"version"`
	Build   BuildConfig       `mapstructure:"build"`
	Builds  []v1.BuildRequest `mapstructure:"builds"`
	Runner  RunnerConfig      `mapstructure:"runner"`
	Servers []v1.ServerSpec   `mapstructure:"servers"`
	Log     LogConfig         `mapstructure:"log"`
}

// BuildConfig holds defaults applied to every collection build.
type BuildConfig struct {
	// Namespace overrides the template namespace when no per-build value is given.
	Namespace string `mapstructure:"namespace"`
	// Seed pins key generation for reproducible fixture names. Zero means random.
	Seed int64 `mapstructure:"seed"`
	// KeepWorkdir leaves the temp build root in place after a build for debugging.
	KeepWorkdir bool `mapstructure:"keep_workdir"`
}

// RunnerConfig controls how ansible-galaxy is invoked.
type RunnerConfig struct {
	Kind string `mapstructure:"kind"` // local | docker
	// Binary is the ansible-galaxy executable used by the local runner.
	Binary string `mapstructure:"binary"`
	// Image is the container image used by the docker runner.
	Image string `mapstructure:"image"`
	// ExtraArgs is a shell-quoted string appended to every invocation.
	ExtraArgs string `mapstructure:"extra_args"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load discovers and loads the configuration, walking up directories to find
// orion.yaml, then merging it with the global config and environment variables.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	// Apply defaults
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// Environment variable binding: ORION_LOG_LEVEL → log.level
	v.SetEnvPrefix("ORION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load global config (~/.orion/config.yaml) if it exists
	globalCfg := filepath.Join(orionHome(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	// Load project config
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		path, err := discoverProjectConfig()
		if err == nil {
			v.SetConfigFile(path)
		}
	}

	if v.ConfigFileUsed() != "" || explicitPath != "" {
		if err := v.MergeInConfig(); err != nil && explicitPath != "" {
			return nil, fmt.Errorf("read project config %q: %w", explicitPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Resolve env variable placeholders in credential fields
	expandEnvInConfig(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// ServerByName returns the ServerSpec with the given name, or nil. An empty
// name selects the first configured server.
func (c *Config) ServerByName(name string) *v1.ServerSpec {
	if name == "" && len(c.Servers) > 0 {
		return &c.Servers[0]
	}
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			return &c.Servers[i]
		}
	}
	return nil
}

// IsSensitiveKey returns true if key matches a known sensitive pattern.
func IsSensitiveKey(key string) bool {
	return sensitiveKeyRegex.MatchString(key)
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// discoverProjectConfig walks up from the CWD looking for orion.yaml.
func discoverProjectConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "orion.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("orion.yaml not found (searched up from the working directory)")
}

// expandEnvInConfig resolves ${VAR} placeholders in credential fields.
func expandEnvInConfig(cfg *Config) {
	for i := range cfg.Servers {
		cfg.Servers[i].APIKey = os.ExpandEnv(cfg.Servers[i].APIKey)
		cfg.Servers[i].URL = os.ExpandEnv(cfg.Servers[i].URL)
	}
}

// validate performs semantic validation on the loaded config.
func validate(cfg *Config) error {
	switch cfg.Runner.Kind {
	case "", string(v1.RunnerLocal), string(v1.RunnerDocker):
	default:
		return fmt.Errorf("runner.kind %q: must be local or docker", cfg.Runner.Kind)
	}
	if cfg.Build.Namespace != "" && !nameutil.IsValidCollectionName(cfg.Build.Namespace) {
		return fmt.Errorf("build.namespace %q is not a valid Galaxy namespace", cfg.Build.Namespace)
	}

	for i, req := range cfg.Builds {
		if req.Template == "" {
			return fmt.Errorf("builds[%d]: template is required", i)
		}
	}

	seen := map[string]bool{}
	for _, srv := range cfg.Servers {
		if srv.Name == "" {
			return fmt.Errorf("server with empty name is not allowed")
		}
		if seen[srv.Name] {
			return fmt.Errorf("duplicate server name: %q", srv.Name)
		}
		seen[srv.Name] = true
		if srv.URL == "" {
			return fmt.Errorf("server %q: url is required", srv.Name)
		}
	}
	return nil
}

// orionHome returns the orion home directory (~/.orion).
func orionHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orion"
	}
	return filepath.Join(home, ".orion")
}

// OrionHome is the exported variant for use by other packages.
func OrionHome() string {
	return orionHome()
}

// DefaultConfigTemplate is the content written by `orion init`.
const DefaultConfigTemplate = `# orion.yaml — Project manifest
version: "1"

build:
  # namespace: my_test_namespace
  # seed: 0            # non-zero pins generated collection keys
  # keep_workdir: false

runner:
  kind: local          # local | docker
  # binary: ansible-galaxy
  # image: quay.io/ansible/ansible-runner:latest

# Declarative builds for "orion build" with no arguments:
# builds:
#   - template: skeleton
#     config:
#       namespace: my_test_namespace
#       version: "1.0.0"
#   - template: kitchensink
#     no_key: true

# servers:
#   - name: stage
#     url: https://galaxy-stage.example.com/
#     api_key: ${GALAXY_STAGE_API_KEY}

log:
  level: info
  format: text
`
