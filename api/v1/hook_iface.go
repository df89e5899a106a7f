// Package v1: the build hook plugin contract (HookPluginV1).
// External plugins implement this interface and export an "OrionPlugin" symbol.
package v1

// HookAPIVersion is the current hook plugin API version.
// Checked at plugin load time to prevent incompatible plugins from loading.
const HookAPIVersion = "v1"

// Hook names fired by the build pipeline.
const (
	HookPreBuild    = "OnPreBuild"
	HookPostBuild   = "OnPostBuild"
	HookPrePublish  = "OnPrePublish"
	HookPostPublish = "OnPostPublish"
)

// HookFunc is a function invoked at a named lifecycle point.
type HookFunc func(ctx HookContext) error

// HookContext carries contextual data passed to build hooks.
type HookContext struct {
	Template string
	Key      string
	// Checkout is the working copy of the collection. Pre-build hooks may
	// add or modify files under it; it is discarded after the build.
	Checkout string
	Artifact *ArtifactRecord
	DryRun   bool
	// Metadata is a free-form map for passing extension data between hooks.
	Metadata map[string]string
}

// HookPluginV1 is the interface every orion hook plugin must implement.
// Exported symbol name in the .so file must be "OrionPlugin" of type HookPluginV1.
type HookPluginV1 interface {
	// Name returns the human-readable plugin identifier.
	Name() string

	// APIVersion must return exactly HookAPIVersion.
	// A mismatch causes the plugin to be rejected at load time.
	APIVersion() string

	// Init is called once after the plugin is loaded.
	// Return an error to abort loading.
	Init(cfg map[string]string) error

	// Hooks returns the named hooks this plugin subscribes to.
	Hooks() map[string]HookFunc

	// Shutdown is called when orion exits cleanly.
	Shutdown() error
}
