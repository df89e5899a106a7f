package generator

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"

	"github.com/peaqe/orion-utils/internal/artifact"
	"github.com/peaqe/orion-utils/pkg/errs"
)

// fakeGalaxyRunner stands in for ansible-galaxy: it reads galaxy.yml from the
// checkout, writes a real tarball with a MANIFEST.json, and reports the
// artifact path on stdout the way the real tool does.
type fakeGalaxyRunner struct {
	silent bool // produce the tarball but report nothing
	fail   bool // exit with an error before producing anything
}

func (f *fakeGalaxyRunner) Kind() string { return "fake" }

func (f *fakeGalaxyRunner) Run(ctx context.Context, workdir string, argv []string, stdout, stderr io.Writer) error {
	if f.fail {
		fmt.Fprintln(stderr, "ERROR! unable to build collection")
		return errs.Newf(errs.ErrRunnerExec, "runner.fake", "exit status 1")
	}

	data, err := os.ReadFile(filepath.Join(workdir, "galaxy.yml"))
	if err != nil {
		return err
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	ns, _ := cfg["namespace"].(string)
	name, _ := cfg["name"].(string)
	version, _ := cfg["version"].(string)

	out := filepath.Join(workdir, fmt.Sprintf("%s-%s-%s.tar.gz", ns, name, version))
	if err := writeTarball(workdir, out, cfg); err != nil {
		return err
	}
	if !f.silent {
		fmt.Fprintf(stdout, "Created collection for %s.%s at %s\n", ns, name, out)
	}
	return nil
}

// writeTarball archives every file under workdir plus a synthesized
// MANIFEST.json into a gzipped tar at out.
func writeTarball(workdir, out string, cfg map[string]any) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	manifest := map[string]any{"collection_info": cfg, "format": 1}
	raw, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	if err := addTarFile(tw, "MANIFEST.json", raw); err != nil {
		return err
	}

	return filepath.Walk(workdir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || path == out {
			return err
		}
		rel, err := filepath.Rel(workdir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return addTarFile(tw, filepath.ToSlash(rel), data)
	})
}

func addTarFile(tw *tar.Writer, name string, data []byte) error {
	if err := tw.WriteHeader(&tar.Header{
		Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg,
	}); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// cleanupBuildRoot removes the temp build root an artifact was left in.
func cleanupBuildRoot(t *testing.T, filename string) {
	t.Helper()
	// <root>/collections/<template>/<artifact>.tar.gz
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	if filepath.Base(filepath.Dir(filepath.Dir(filename))) == "collections" {
		assert.NoError(t, os.RemoveAll(root))
	}
}

func newTestBuilder() *Builder {
	return New(&fakeGalaxyRunner{}, nil)
}

func TestBuildSkeleton(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "skeleton", Options{})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	assert.FileExists(t, rec.Filename)
	assert.NotEmpty(t, rec.Checksum)

	// The artifact must be produced outside the module source tree.
	_, selfPath, _, ok := runtime.Caller(0)
	require.True(t, ok)
	installPath := filepath.Dir(selfPath)
	assert.NotEqual(t, installPath, filepath.Dir(rec.Filename))
}

func TestBuildSkeletonWithKey(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "skeleton", Options{Key: "foobar"})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	assert.FileExists(t, rec.Filename)
	assert.Equal(t, "foobar", rec.Key)
	assert.True(t, len(rec.Name) > 7 && rec.Name[len(rec.Name)-7:] == "_foobar",
		"name %q should end with _foobar", rec.Name)
}

func TestBuildSkeletonNoKey(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "skeleton", Options{NoKey: true})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	assert.Equal(t, "", rec.Key)
	assert.Equal(t, "skeleton", rec.Name)
}

func TestBuildSkeletonWithNamespaceNameVersion(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "skeleton", Options{
		Config: map[string]any{"namespace": "foo", "name": "bar", "version": "5.5.5"},
	})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	assert.Equal(t, "foo", rec.Namespace)
	assert.Equal(t, "bar", rec.Name)
	assert.Equal(t, "5.5.5", rec.Version)

	m, err := artifact.ReadManifest(rec.Filename)
	require.NoError(t, err)
	assert.Equal(t, "foo", m.CollectionInfo.Namespace)
	assert.Equal(t, "bar", m.CollectionInfo.Name)
	assert.Equal(t, "5.5.5", m.CollectionInfo.Version)
}

func TestBuildSkeletonWithPreBuild(t *testing.T) {
	b := newTestBuilder()

	preBuild := func(name, key, checkout string) error {
		assert.Equal(t, "skeleton", name)
		assert.Equal(t, "foo", key)
		assert.DirExists(t, checkout)

		roleDir := filepath.Join(checkout, "roles", "foobar")
		if err := os.MkdirAll(roleDir, 0755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(roleDir, "main.yml"), []byte("# tasks"), 0644)
	}

	rec, err := b.Build(context.Background(), "skeleton", Options{Key: "foo", PreBuild: preBuild})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	fmap, err := artifact.Peek(rec.Filename)
	require.NoError(t, err)
	assert.Contains(t, fmap, "roles/foobar/main.yml")
}

func TestBuildSkeletonWithExtraFiles(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "skeleton", Options{
		ExtraFiles: map[string]any{"roles/foobar/main.yml": "# a role"},
	})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	fmap, err := artifact.Peek(rec.Filename)
	require.NoError(t, err)
	require.Contains(t, fmap, "roles/foobar/main.yml")
	assert.Equal(t, "# a role", string(fmap["roles/foobar/main.yml"]))
}

func TestBuildSkeletonWithIntegerVersion(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(context.Background(), "skeleton", Options{
		Config: map[string]any{"version": 3},
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrBuildVersion))
	assert.Contains(t, err.Error(), "version must be a string")
}

func TestBuildUnknownTemplate(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(context.Background(), "no_such_template", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrTemplateNotFound))
}

func TestBuildSeededKeysAreDeterministic(t *testing.T) {
	b := newTestBuilder()
	b.Seed = 42

	rec1, err := b.Build(context.Background(), "skeleton", Options{})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec1.Filename)

	rec2, err := b.Build(context.Background(), "skeleton", Options{})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec2.Filename)

	assert.Equal(t, rec1.Key, rec2.Key)
}

func TestBuildToolFailureSurfacesOutput(t *testing.T) {
	b := New(&fakeGalaxyRunner{fail: true}, nil)

	_, err := b.Build(context.Background(), "skeleton", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrBuildFailed))

	oe := errs.AsError(err)
	require.NotNil(t, oe)
	assert.Contains(t, oe.Advice, "unable to build collection")
}

func TestBuildNoArtifactInOutput(t *testing.T) {
	b := New(&fakeGalaxyRunner{silent: true}, nil)

	// The tarball exists but the tool never reported it.
	_, err := b.Build(context.Background(), "skeleton", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrBuildNoOutput))
}

// containerGalaxyRunner mimics a containerized tool: the tarball lands in the
// bind-mounted checkout but the reported path is container-side.
type containerGalaxyRunner struct{}

func (c *containerGalaxyRunner) Kind() string { return "docker" }

func (c *containerGalaxyRunner) Run(ctx context.Context, workdir string, argv []string, stdout, stderr io.Writer) error {
	data, err := os.ReadFile(filepath.Join(workdir, "galaxy.yml"))
	if err != nil {
		return err
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	ns, _ := cfg["namespace"].(string)
	name, _ := cfg["name"].(string)
	version, _ := cfg["version"].(string)

	out := filepath.Join(workdir, fmt.Sprintf("%s-%s-%s.tar.gz", ns, name, version))
	if err := writeTarball(workdir, out, cfg); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created collection for %s.%s at /workspace/%s\n", ns, name, filepath.Base(out))
	return nil
}

func TestBuildContainerReportedPathResolvesToCheckout(t *testing.T) {
	b := New(&containerGalaxyRunner{}, nil)

	rec, err := b.Build(context.Background(), "skeleton", Options{Key: "mounted1"})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	assert.NotContains(t, rec.Filename, "/workspace/")
	_, err = os.Stat(rec.Filename)
	assert.NoError(t, err)
}

func TestBuildDocsRenamed(t *testing.T) {
	b := newTestBuilder()

	rec, err := b.Build(context.Background(), "kitchensink", Options{
		Config: map[string]any{"namespace": "acme", "name": "sink", "version": "2.0.0"},
	})
	require.NoError(t, err)
	defer cleanupBuildRoot(t, rec.Filename)

	fmap, err := artifact.Peek(rec.Filename)
	require.NoError(t, err)
	assert.Contains(t, fmap, "docs/acme.sink.placeholder_module.rst")
	assert.NotContains(t, fmap, "docs/namespace.collection.placeholder_module.rst")
}

func TestTemplatesListing(t *testing.T) {
	names := Templates()
	for _, want := range []string{
		"collection_dep_a", "collection_dep_a1", "collection_with_content",
		"kitchensink", "searchfixture", "skeleton",
	} {
		assert.Contains(t, names, want)
	}
	assert.True(t, HasTemplate("skeleton"))
	assert.False(t, HasTemplate("bogus"))
}

func TestTemplateFiles(t *testing.T) {
	files, err := TemplateFiles("skeleton")
	require.NoError(t, err)
	assert.Contains(t, files, "galaxy.yml")
	assert.Contains(t, files, "README.md")
}

// Guard against the fake runner regressing: its tarballs must be readable by
// the artifact package.
func TestFakeRunnerProducesReadableTarball(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"),
		[]byte("namespace: n\nname: c\nversion: 1.0.0\n"), 0644))

	var out bytes.Buffer
	f := &fakeGalaxyRunner{}
	require.NoError(t, f.Run(context.Background(), dir, []string{"ansible-galaxy"}, &out, &out))

	files, err := artifact.Files(filepath.Join(dir, "n-c-1.0.0.tar.gz"))
	require.NoError(t, err)
	assert.Contains(t, files, "MANIFEST.json")
	assert.Contains(t, files, "galaxy.yml")
}
