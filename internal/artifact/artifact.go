// Package artifact reads built collection tarballs: file maps, MANIFEST.json
// metadata, and checksums. Nothing here extracts to disk — all inspection is
// in-memory.
package artifact

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/peaqe/orion-utils/pkg/errs"
)

// Manifest mirrors the parts of a collection's MANIFEST.json that fixtures
// assert against.
type Manifest struct {
	CollectionInfo CollectionInfo `json:"collection_info"`
	FormatVersion  any            `json:"format"`
}

// CollectionInfo is the collection_info block of MANIFEST.json.
type CollectionInfo struct {
	Namespace    string         `json:"namespace"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Readme       string         `json:"readme"`
	Authors      []string       `json:"authors"`
	Description  string         `json:"description"`
	License      []string       `json:"license"`
	Tags         []string       `json:"tags"`
	Dependencies map[string]any `json:"dependencies"`
	Repository   string         `json:"repository"`
}

// Peek reads every regular file out of a collection tarball into a map of
// member name to content.
func Peek(filename string) (map[string][]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrArtifactRead, "artifact.peek.open").WithResource(filename)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrArtifactRead, "artifact.peek.gzip").WithResource(filename)
	}
	defer gz.Close()

	fmap := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(err, errs.ErrArtifactRead, "artifact.peek.tar").WithResource(filename)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errs.Wrap(err, errs.ErrArtifactRead, "artifact.peek.read").WithResource(hdr.Name)
		}
		fmap[hdr.Name] = data
	}
	return fmap, nil
}

// Files returns the sorted member names of a collection tarball.
func Files(filename string) ([]string, error) {
	fmap, err := Peek(filename)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(fmap))
	for n := range fmap {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// ReadManifest extracts and decodes MANIFEST.json from a collection tarball.
func ReadManifest(filename string) (*Manifest, error) {
	fmap, err := Peek(filename)
	if err != nil {
		return nil, err
	}
	raw, ok := fmap["MANIFEST.json"]
	if !ok {
		return nil, errs.Newf(errs.ErrArtifactManifest, "artifact.manifest",
			"MANIFEST.json not found in %s", filename)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errs.Wrap(err, errs.ErrArtifactManifest, "artifact.manifest.decode").WithResource(filename)
	}
	return &m, nil
}

// Checksum returns the sha256 hex digest of the tarball.
func Checksum(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", errs.Wrap(err, errs.ErrArtifactChecksum, "artifact.checksum.open").WithResource(filename)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errs.Wrap(err, errs.ErrArtifactChecksum, "artifact.checksum.read").WithResource(filename)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify recomputes the tarball checksum and compares it to want.
func Verify(filename, want string) error {
	got, err := Checksum(filename)
	if err != nil {
		return err
	}
	if got != want {
		return errs.Newf(errs.ErrArtifactChecksum, "artifact.verify",
			"checksum mismatch: got %s, want %s", got, want).WithResource(filename)
	}
	return nil
}
