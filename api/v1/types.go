// Package v1 defines the public data types shared across all orion-utils layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Status enumerations
// ─────────────────────────────────────────────────────────────────────────────

// ArtifactStatus represents the lifecycle state of a built collection artifact.
type ArtifactStatus string

const (
	ArtifactBuilt     ArtifactStatus = "built"
	ArtifactPublished ArtifactStatus = "published"
	ArtifactMissing   ArtifactStatus = "missing"
)

// RunnerKind selects how external ansible-galaxy invocations are executed.
type RunnerKind string

const (
	RunnerLocal  RunnerKind = "local"
	RunnerDocker RunnerKind = "docker"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request types (derived from orion.yaml and build invocations)
// ─────────────────────────────────────────────────────────────────────────────

// BuildRequest is the declarative definition of a single collection build.
type BuildRequest struct {
	// Template names the embedded collection skeleton to start from,
	// e.g. "skeleton" or "kitchensink".
	Template string `yaml:"template" mapstructure:"template"`

	// Config is merged over the template's galaxy.yml. Keys mirror the
	// galaxy.yml schema (namespace, name, version, tags, dependencies, ...).
	Config map[string]any `yaml:"config" mapstructure:"config"`

	// Key is appended to the collection name as "_<key>". When empty and
	// NoKey is false, a random 8-character key is generated.
	Key string `yaml:"key" mapstructure:"key"`

	// NoKey suppresses key generation entirely, leaving the template's
	// collection name untouched.
	NoKey bool `yaml:"no_key" mapstructure:"no_key"`

	// ExtraFiles maps checkout-relative paths to YAML-serializable content
	// written into the collection before building.
	ExtraFiles map[string]any `yaml:"extra_files" mapstructure:"extra_files"`
}

// ServerSpec describes a Galaxy server that artifacts can be published to.
type ServerSpec struct {
	Name   string `yaml:"name"    mapstructure:"name"`
	URL    string `yaml:"url"     mapstructure:"url"`
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Runtime state types (persisted in BoltDB)
// ─────────────────────────────────────────────────────────────────────────────

// ArtifactRecord is the persisted record for a built collection artifact.
type ArtifactRecord struct {
	Key       string         `json:"key"`
	Namespace string         `json:"namespace"`
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Template  string         `json:"template"`
	Filename  string         `json:"filename"`
	Checksum  string         `json:"checksum"` // sha256 hex of the tarball
	Status    ArtifactStatus `json:"status"`
	BuiltAt   time.Time      `json:"built_at"`

	// Publish bookkeeping, zero-valued until the artifact is published.
	PublishedAt time.Time `json:"published_at,omitempty"`
	Server      string    `json:"server,omitempty"`
}

// FQCN returns the fully qualified collection name, "namespace.name".
func (r ArtifactRecord) FQCN() string {
	return r.Namespace + "." + r.Name
}

// ID returns the registry key for this record: "namespace.name-version".
func (r ArtifactRecord) ID() string {
	return r.Namespace + "." + r.Name + "-" + r.Version
}

// BuildRecord is a journal entry describing one build invocation.
type BuildRecord struct {
	ID        string    `json:"id"`
	Template  string    `json:"template"`
	Artifact  string    `json:"artifact"` // ArtifactRecord.ID, empty on failure
	Runner    string    `json:"runner"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Result    string    `json:"result"` // success | failure
	Error     string    `json:"error,omitempty"`
}
