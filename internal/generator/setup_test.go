package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func materializedCheckout(t *testing.T, template string) string {
	t.Helper()
	checkout := filepath.Join(t.TempDir(), template)
	require.NoError(t, materializeTemplate(template, checkout))
	return checkout
}

func TestCollectionSetupCopiesPlugin(t *testing.T) {
	checkout := materializedCheckout(t, "skeleton")

	setup := &CollectionSetup{
		Copies: map[string]map[string]any{
			"plugins/modules/fakemod.py": nil,
		},
	}
	require.NoError(t, setup.PreBuild("skeleton", "k1", checkout))

	assert.FileExists(t, filepath.Join(checkout, "plugins", "modules", "fakemod.py"))
	assert.Equal(t, []string{"fakemod.py"}, setup.Contents["plugins"])
}

func TestCollectionSetupPluginDocumentation(t *testing.T) {
	checkout := materializedCheckout(t, "skeleton")

	setup := &CollectionSetup{
		Copies: map[string]map[string]any{
			"plugins/modules/fakemod.py": {
				"module":            "fakemod",
				"short_description": "A fake module",
			},
		},
	}
	require.NoError(t, setup.PreBuild("skeleton", "k1", checkout))

	data, err := os.ReadFile(filepath.Join(checkout, "plugins", "modules", "fakemod.py"))
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "DOCUMENTATION='''")
	assert.Contains(t, body, "module: fakemod")
	assert.Contains(t, body, "short_description: A fake module")
}

func TestCollectionSetupRoleMeta(t *testing.T) {
	checkout := materializedCheckout(t, "skeleton")

	setup := &CollectionSetup{
		Copies: map[string]map[string]any{
			"roles/fakerole": {
				"meta": map[string]any{
					"description": "This role is a fake role.",
				},
			},
		},
	}
	require.NoError(t, setup.PreBuild("skeleton", "k1", checkout))

	metaPath := filepath.Join(checkout, "roles", "fakerole", "meta", "main.yml")
	data, err := os.ReadFile(metaPath)
	require.NoError(t, err)

	var loaded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &loaded))

	info, ok := loaded["galaxy_info"].(map[string]any)
	require.True(t, ok, "galaxy_info should be a map, got %T", loaded["galaxy_info"])
	assert.Equal(t, "This role is a fake role.", info["description"])

	// The copied role keeps its task file alongside the rewritten meta.
	assert.FileExists(t, filepath.Join(checkout, "roles", "fakerole", "tasks", "main.yml"))
}

func TestCollectionSetupReadme(t *testing.T) {
	checkout := materializedCheckout(t, "skeleton")

	setup := &CollectionSetup{Readme: "# custom readme\n"}
	require.NoError(t, setup.PreBuild("skeleton", "k1", checkout))

	data, err := os.ReadFile(filepath.Join(checkout, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# custom readme\n", string(data))
}

func TestCollectionSetupRecordsContentsPerKind(t *testing.T) {
	checkout := materializedCheckout(t, "skeleton")

	setup := &CollectionSetup{
		Copies: map[string]map[string]any{
			"plugins/modules/mod_a.py": nil,
			"plugins/lookup/look_a.py": nil,
			"roles/role_a":             nil,
		},
	}
	require.NoError(t, setup.PreBuild("skeleton", "k1", checkout))

	assert.ElementsMatch(t, []string{"mod_a.py", "look_a.py"}, setup.Contents["plugins"])
	assert.ElementsMatch(t, []string{"role_a"}, setup.Contents["roles"])
}
