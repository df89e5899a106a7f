package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "orion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "version: \"1\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "local", cfg.Runner.Kind)
	assert.Equal(t, "ansible-galaxy", cfg.Runner.Binary)
}

func TestLoadServers(t *testing.T) {
	path := writeConfig(t, `
version: "1"
servers:
  - name: stage
    url: https://galaxy-stage.example.com/
    api_key: abc123
  - name: prod
    url: https://galaxy.example.com/
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)

	// Empty name selects the first server.
	assert.Equal(t, "stage", cfg.ServerByName("").Name)
	assert.Equal(t, "https://galaxy.example.com/", cfg.ServerByName("prod").URL)
	assert.Nil(t, cfg.ServerByName("missing"))
}

func TestLoadExpandsEnvInAPIKey(t *testing.T) {
	t.Setenv("ORION_TEST_KEY", "s3cret")
	path := writeConfig(t, `
servers:
  - name: stage
    url: https://galaxy-stage.example.com/
    api_key: ${ORION_TEST_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Servers[0].APIKey)
}

func TestLoadBuildsList(t *testing.T) {
	path := writeConfig(t, `
version: "1"
builds:
  - template: skeleton
    config:
      namespace: acme
      version: "1.0.0"
  - template: kitchensink
    no_key: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Builds, 2)
	assert.Equal(t, "skeleton", cfg.Builds[0].Template)
	assert.Equal(t, "acme", cfg.Builds[0].Config["namespace"])
	assert.True(t, cfg.Builds[1].NoKey)
}

func TestValidateRejectsBuildWithoutTemplate(t *testing.T) {
	path := writeConfig(t, "builds:\n  - key: abc\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template is required")
}

func TestValidateRejectsBadRunnerKind(t *testing.T) {
	path := writeConfig(t, "runner:\n  kind: podman\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner.kind")
}

func TestValidateRejectsDuplicateServers(t *testing.T) {
	path := writeConfig(t, `
servers:
  - name: stage
    url: https://a.example.com/
  - name: stage
    url: https://b.example.com/
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate server name")
}

func TestValidateRejectsBadNamespace(t *testing.T) {
	path := writeConfig(t, "build:\n  namespace: Not-Valid\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := writeConfig(t, DefaultConfigTemplate)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Runner.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	// Commented-out sections stay commented out.
	assert.Empty(t, cfg.Builds)
	assert.Empty(t, cfg.Servers)
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("servers.0.api_key"))
	assert.True(t, IsSensitiveKey("GALAXY_TOKEN"))
	assert.False(t, IsSensitiveKey("log.level"))
}
