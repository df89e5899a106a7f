package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaqe/orion-utils/internal/core/config"
	"github.com/peaqe/orion-utils/internal/core/logger"
)

func TestParseExtraFiles(t *testing.T) {
	got, err := parseExtraFiles([]string{
		"README.md=hello there",
		"meta/runtime.yml=requires_ansible: '>=2.9'",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", got["README.md"])
	assert.Equal(t, "requires_ansible: '>=2.9'", got["meta/runtime.yml"])
}

func TestParseExtraFilesFromFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "readme.md")
	require.NoError(t, os.WriteFile(src, []byte("# from disk"), 0644))

	got, err := parseExtraFiles([]string{"README.md=@" + src})
	require.NoError(t, err)
	assert.Equal(t, "# from disk", got["README.md"])
}

func TestParseExtraFilesMalformed(t *testing.T) {
	_, err := parseExtraFiles([]string{"no-separator"})
	assert.Error(t, err)
}

func TestParseExtraFilesEmpty(t *testing.T) {
	got, err := parseExtraFiles(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewRunnerUnknownKind(t *testing.T) {
	rt := &Runtime{
		Config: &config.Config{Runner: config.RunnerConfig{Kind: "podman"}},
		Log:    logger.Nop(),
	}
	_, _, err := newRunner(context.Background(), rt, "")
	assert.ErrorContains(t, err, "unknown runner kind")
}

func TestNewRunnerLocalDefault(t *testing.T) {
	rt := &Runtime{
		Config: &config.Config{},
		Log:    logger.Nop(),
	}
	r, closer, err := newRunner(context.Background(), rt, "")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, "local", r.Kind())
}
