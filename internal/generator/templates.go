// Embedded collection templates and helpers for materialising them on disk.
package generator

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/peaqe/orion-utils/pkg/errs"
)

//go:embed all:templates
var templatesFS embed.FS

const templatesRoot = "templates"

// Templates returns the sorted names of all embedded collection templates.
func Templates() []string {
	entries, err := templatesFS.ReadDir(templatesRoot)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// HasTemplate reports whether an embedded template with the given name exists.
func HasTemplate(name string) bool {
	info, err := fs.Stat(templatesFS, path.Join(templatesRoot, name))
	return err == nil && info.IsDir()
}

// TemplateFiles returns the sorted relative paths of all files in a template.
func TemplateFiles(name string) ([]string, error) {
	root := path.Join(templatesRoot, name)
	var files []string
	err := fs.WalkDir(templatesFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrTemplateNotFound, "template.files").WithResource(name)
	}
	sort.Strings(files)
	return files, nil
}

// materializeTemplate writes the named template into dest on disk.
func materializeTemplate(name, dest string) error {
	root := path.Join(templatesRoot, name)
	err := fs.WalkDir(templatesFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := templatesFS.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return errs.Wrap(err, errs.ErrTemplateCopy, "template.materialize").WithResource(name)
	}
	return nil
}

// copyTemplatePath copies a single file or directory from the named template
// into dest. Used by CollectionSetup to pull placeholder content out of the
// kitchensink template.
func copyTemplatePath(template, src, dest string) error {
	full := path.Join(templatesRoot, template, src)
	info, err := fs.Stat(templatesFS, full)
	if err != nil {
		return errs.Wrap(err, errs.ErrTemplateCopy, "template.copy").WithResource(src)
	}

	if info.IsDir() {
		sub, err := fs.Sub(templatesFS, full)
		if err != nil {
			return err
		}
		return fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			target := filepath.Join(dest, p)
			if d.IsDir() {
				return os.MkdirAll(target, 0755)
			}
			data, err := fs.ReadFile(sub, p)
			if err != nil {
				return err
			}
			return os.WriteFile(target, data, 0644)
		})
	}

	data, err := templatesFS.ReadFile(full)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}
