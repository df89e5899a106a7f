// Package generator builds Ansible Galaxy collection artifacts from embedded
// templates. A build copies a template into a disposable checkout, lets
// pre-build hooks populate it, merges user config into galaxy.yml, runs
// `ansible-galaxy collection build` through a Runner, and returns a record of
// the resulting tarball.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/artifact"
	"github.com/peaqe/orion-utils/internal/core/logger"
	"github.com/peaqe/orion-utils/internal/runner"
	"github.com/peaqe/orion-utils/pkg/errs"
	"github.com/peaqe/orion-utils/pkg/nameutil"
)

// artifactPathRegex extracts the built tarball path from ansible-galaxy output.
var artifactPathRegex = regexp.MustCompile(`([-_/\w\d\.]+\.tar\.gz)`)

// docsPrefix is the placeholder prefix of docs files renamed during a build.
const docsPrefix = "namespace.collection."

// KeyLength is the length of generated collection keys.
const KeyLength = 8

// PreBuildFunc runs against a fresh checkout before galaxy.yml is merged and
// the build starts. CollectionSetup.PreBuild is the usual implementation.
type PreBuildFunc func(name, key, checkout string) error

// Options controls a single Build invocation.
type Options struct {
	// Config is merged over the template's galaxy.yml.
	Config map[string]any

	// Key is the collection key suffix. Empty means "generate one" unless
	// NoKey is set.
	Key   string
	NoKey bool

	// PreBuild, when non-nil, is called with (name, key, checkout) before
	// the galaxy.yml merge.
	PreBuild PreBuildFunc

	// ExtraFiles maps checkout-relative paths to YAML-serializable content.
	ExtraFiles map[string]any
}

// Builder runs collection builds.
type Builder struct {
	Runner runner.Runner
	Log    *logger.Logger

	// Seed pins key generation; zero keeps it random.
	Seed int64

	// KeepWorkdir leaves build roots in place for debugging.
	KeepWorkdir bool
}

// New returns a Builder using the given runner.
func New(r runner.Runner, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{Runner: r, Log: log}
}

// Build materialises template into a temp checkout, applies opts, and builds
// the collection artifact.
func (b *Builder) Build(ctx context.Context, template string, opts Options) (v1.ArtifactRecord, error) {
	var rec v1.ArtifactRecord

	if !HasTemplate(template) {
		return rec, errs.Newf(errs.ErrTemplateNotFound, "build.template", "no such template %q", template).
			WithAdvice("run `orion templates` for the available names")
	}

	key := opts.Key
	if key == "" && !opts.NoKey {
		key = nameutil.RandString(KeyLength, b.Seed)
	}

	buildRoot, err := os.MkdirTemp("", "orion-utils-")
	if err != nil {
		return rec, errs.Wrap(err, errs.ErrInternal, "build.workdir")
	}
	// The artifact lives inside the build root, so the root survives a
	// successful build; `orion clean` prunes leftovers later. Failed builds
	// are removed immediately unless KeepWorkdir asks for a post-mortem.
	built := false
	if !b.KeepWorkdir {
		defer func() {
			if !built {
				os.RemoveAll(buildRoot)
			}
		}()
	}

	checkout := filepath.Join(buildRoot, "collections", template)
	if err := os.MkdirAll(filepath.Dir(checkout), 0755); err != nil {
		return rec, errs.Wrap(err, errs.ErrInternal, "build.workdir")
	}
	if err := materializeTemplate(template, checkout); err != nil {
		return rec, err
	}

	name := nameutil.Collectionize(template)

	// Rename placeholder docs files when the build overrides namespace+name.
	if err := renameDocs(checkout, opts.Config); err != nil {
		return rec, err
	}

	if opts.PreBuild != nil {
		b.Log.Info("running pre-build hook", "collection", name, "key", key)
		if err := opts.PreBuild(name, key, checkout); err != nil {
			return rec, errs.Wrap(err, errs.ErrTemplateSetup, "build.pre_build").WithResource(name)
		}
	}

	cfg, name, err := mergeGalaxyYAML(checkout, name, key, opts.Config)
	if err != nil {
		return rec, err
	}

	if err := writeExtraFiles(checkout, opts.ExtraFiles); err != nil {
		return rec, err
	}

	b.Log.Info("building collection", "collection", name, "checkout", checkout)

	var out bytes.Buffer
	argv := []string{"ansible-galaxy", "collection", "build", "-vvv"}
	if err := b.Runner.Run(ctx, checkout, argv, &out, &out); err != nil {
		return rec, errs.Wrap(err, errs.ErrBuildFailed, "build.run").
			WithResource(name).
			WithAdvice("tool output:\n" + out.String())
	}

	filename, err := findArtifactPath(checkout, out.String())
	if err != nil {
		return rec, err
	}

	sum, err := artifact.Checksum(filename)
	if err != nil {
		return rec, err
	}

	namespace, _ := cfg["namespace"].(string)
	version, _ := cfg["version"].(string)

	built = true
	rec = v1.ArtifactRecord{
		Key:       key,
		Namespace: namespace,
		Name:      name,
		Version:   version,
		Template:  template,
		Filename:  filename,
		Checksum:  sum,
		Status:    v1.ArtifactBuilt,
		BuiltAt:   time.Now().UTC(),
	}
	return rec, nil
}

// mergeGalaxyYAML loads the checkout's galaxy.yml, applies the key suffix and
// user config, validates the version, and writes the result back. It returns
// the merged config and the final collection name.
func mergeGalaxyYAML(checkout, name, key string, config map[string]any) (map[string]any, string, error) {
	galaxyPath := filepath.Join(checkout, "galaxy.yml")
	data, err := os.ReadFile(galaxyPath)
	if err != nil {
		return nil, "", errs.Wrap(err, errs.ErrBuildConfig, "build.galaxy_yml.read").WithResource(checkout)
	}

	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, "", errs.Wrap(err, errs.ErrBuildConfig, "build.galaxy_yml.parse").WithResource(galaxyPath)
	}

	if key != "" {
		base, _ := cfg["name"].(string)
		name = base + "_" + key
	}
	for k, v := range config {
		cfg[k] = v
	}
	if n, ok := config["name"]; ok {
		name, _ = n.(string)
	} else {
		cfg["name"] = name
	}

	if _, ok := cfg["version"].(string); !ok {
		return nil, "", errs.Newf(errs.ErrBuildVersion, "build.galaxy_yml.version", "version must be a string")
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(galaxyPath, out, 0644); err != nil {
		return nil, "", errs.Wrap(err, errs.ErrBuildConfig, "build.galaxy_yml.write").WithResource(galaxyPath)
	}
	return cfg, name, nil
}

// renameDocs renames docs/namespace.collection.* files in the checkout to the
// configured namespace and collection name.
func renameDocs(checkout string, config map[string]any) error {
	namespace, okNS := config["namespace"].(string)
	collection, okName := config["name"].(string)
	if !okNS || !okName {
		return nil
	}

	docsDir := filepath.Join(checkout, "docs")
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), docsPrefix) {
			continue
		}
		rest := strings.TrimPrefix(e.Name(), docsPrefix)
		renamed := fmt.Sprintf("%s.%s.%s", namespace, collection, rest)
		if err := os.Rename(filepath.Join(docsDir, e.Name()), filepath.Join(docsDir, renamed)); err != nil {
			return errs.Wrap(err, errs.ErrTemplateSetup, "build.docs.rename").WithResource(e.Name())
		}
	}
	return nil
}

// writeExtraFiles serializes each entry of extra to YAML inside the checkout.
func writeExtraFiles(checkout string, extra map[string]any) error {
	for rel, content := range extra {
		target := filepath.Join(checkout, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errs.Wrap(err, errs.ErrTemplateSetup, "build.extra_files").WithResource(rel)
		}

		var data []byte
		switch c := content.(type) {
		case string:
			// Raw strings are written verbatim — serializing would add quoting.
			data = []byte(c)
		default:
			out, err := yaml.Marshal(c)
			if err != nil {
				return errs.Wrap(err, errs.ErrTemplateSetup, "build.extra_files.marshal").WithResource(rel)
			}
			data = out
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return errs.Wrap(err, errs.ErrTemplateSetup, "build.extra_files.write").WithResource(rel)
		}
	}
	return nil
}

// findArtifactPath scans tool output for the built tarball path and verifies
// it exists. Relative paths are resolved against the checkout. A containerized
// tool reports paths from its own mount namespace, so an absolute path that
// does not exist on the host is retried against the checkout by basename.
func findArtifactPath(checkout, output string) (string, error) {
	m := artifactPathRegex.FindStringSubmatch(output)
	if m == nil {
		return "", errs.Newf(errs.ErrBuildNoOutput, "build.artifact.locate",
			"no artifact path in tool output").WithAdvice("tool output:\n" + output)
	}
	filename := m[1]
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(checkout, filename)
	}
	if _, err := os.Stat(filename); err != nil {
		mounted := filepath.Join(checkout, filepath.Base(filename))
		if _, merr := os.Stat(mounted); merr != nil {
			return "", errs.Wrap(err, errs.ErrBuildNoOutput, "build.artifact.stat").WithResource(filename)
		}
		filename = mounted
	}
	return filename, nil
}
