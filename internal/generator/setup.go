// CollectionSetup: declarative pre-build population of a collection checkout.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peaqe/orion-utils/pkg/errs"
)

// placeholderSource is the template whose placeholder files CollectionSetup
// copies into generated collections.
const placeholderSource = "kitchensink"

// CollectionSetup fills a new collection with content before it is built.
//
//	setup := &CollectionSetup{
//		Copies: map[string]map[string]any{
//			"plugins/modules/fakemod.py": nil,
//			"roles/fakerole": {
//				"meta": map[string]any{
//					"description": "This role is a fake role.",
//				},
//			},
//		},
//	}
//
// Each Copies key is a checkout-relative destination; the matching
// placeholder content from the kitchensink template is copied there, then a
// per-kind setup step applies the entry's config. The first path segment of
// the destination selects the kind ("roles", "plugins", ...).
type CollectionSetup struct {
	Copies map[string]map[string]any
	Readme string

	// Contents records what was generated, keyed by kind. Populated by PreBuild.
	Contents map[string][]string

	name     string
	key      string
	checkout string
}

// PreBuild populates the checkout. It satisfies the Builder's PreBuildFunc.
func (s *CollectionSetup) PreBuild(name, key, checkout string) error {
	s.name = name
	s.key = key
	s.checkout = checkout
	if s.Contents == nil {
		s.Contents = make(map[string][]string)
	}

	if s.Readme != "" {
		if err := os.WriteFile(filepath.Join(checkout, "README.md"), []byte(s.Readme), 0644); err != nil {
			return errs.Wrap(err, errs.ErrTemplateSetup, "setup.readme")
		}
	}

	// Sorted for deterministic content ordering.
	dests := make([]string, 0, len(s.Copies))
	for d := range s.Copies {
		dests = append(dests, d)
	}
	sort.Strings(dests)

	for _, dest := range dests {
		cfg := s.Copies[dest]
		kind := strings.SplitN(dest, "/", 2)[0]
		filename := filepath.Base(dest)
		ext := filepath.Ext(filename)

		// "plugins/modules/fakemod.py" → "plugins/modules/placeholder.py";
		// a destination without an extension names a directory, e.g.
		// "roles/fakerole" → "roles/placeholder".
		src := filepath.ToSlash(filepath.Join(filepath.Dir(dest), "placeholder"+ext))

		target := filepath.Join(s.checkout, dest)
		if err := copyTemplatePath(placeholderSource, src, target); err != nil {
			return err
		}
		if err := s.setup(kind, cfg, target); err != nil {
			return err
		}

		s.Contents[kind] = append(s.Contents[kind], filename)
	}
	return nil
}

// setup dispatches the kind-specific setup step. Unknown kinds are copied
// verbatim with no further setup.
func (s *CollectionSetup) setup(kind string, cfg map[string]any, path string) error {
	switch kind {
	case "roles":
		return s.setupRole(cfg, path)
	case "plugins":
		return s.setupPlugin(cfg, path)
	}
	return nil
}

// setupRole merges cfg["meta"] into the role's meta/main.yml galaxy_info.
func (s *CollectionSetup) setupRole(cfg map[string]any, rolePath string) error {
	meta, ok := cfg["meta"]
	if !ok {
		return nil
	}

	metaPath := filepath.Join(rolePath, "meta", "main.yml")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return errs.Wrap(err, errs.ErrTemplateSetup, "setup.role.meta").WithResource(rolePath)
	}

	var loaded map[string]any
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return errs.Wrap(err, errs.ErrTemplateSetup, "setup.role.meta.parse").WithResource(metaPath)
	}
	loaded["galaxy_info"] = meta

	out, err := yaml.Marshal(loaded)
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath, out, 0644)
}

// setupPlugin rewrites the plugin file with a DOCUMENTATION stub built from cfg.
func (s *CollectionSetup) setupPlugin(cfg map[string]any, pluginPath string) error {
	if len(cfg) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("DOCUMENTATION='''\n")
	b.WriteString("---\n")

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, cfg[k])
	}
	b.WriteString("'''\n")

	if err := os.WriteFile(pluginPath, []byte(b.String()), 0644); err != nil {
		return errs.Wrap(err, errs.ErrTemplateSetup, "setup.plugin").WithResource(pluginPath)
	}
	return nil
}
