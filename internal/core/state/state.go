// Package state manages the orion artifact registry using BoltDB.
// All writes are transactional; reads use read-only transactions to minimise contention.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/peaqe/orion-utils/api/v1"
)

// Bucket names
var (
	bucketArtifacts = []byte("artifacts")
	bucketBuilds    = []byte("builds")
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the registry database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open registry db %q: %w", path, err)
	}

	// Ensure all buckets exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketArtifacts, bucketBuilds} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %q: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Artifact operations
// ─────────────────────────────────────────────────────────────────────────────

// PutArtifact upserts an ArtifactRecord.
func (db *DB) PutArtifact(rec v1.ArtifactRecord) error {
	return db.putJSON(bucketArtifacts, rec.ID(), rec)
}

// GetArtifact retrieves an ArtifactRecord by its registry ID
// ("namespace.name-version"). Returns nil, nil if not found.
func (db *DB) GetArtifact(id string) (*v1.ArtifactRecord, error) {
	var rec v1.ArtifactRecord
	found, err := db.getJSON(bucketArtifacts, id, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// DeleteArtifact removes an artifact record.
func (db *DB) DeleteArtifact(id string) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Delete([]byte(id))
	})
}

// ListArtifacts returns all artifact records, optionally filtered by status.
func (db *DB) ListArtifacts(status v1.ArtifactStatus) ([]v1.ArtifactRecord, error) {
	var recs []v1.ArtifactRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketArtifacts).ForEach(func(k, v []byte) error {
			var rec v1.ArtifactRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal artifact %q: %w", k, err)
			}
			if status == "" || rec.Status == status {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	return recs, err
}

// MarkPublished flips an artifact to published and records the target server.
func (db *DB) MarkPublished(id, server string) error {
	rec, err := db.GetArtifact(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("artifact %q not found", id)
	}
	rec.Status = v1.ArtifactPublished
	rec.PublishedAt = time.Now().UTC()
	rec.Server = server
	return db.PutArtifact(*rec)
}

// MarkMissing flips an artifact whose tarball has disappeared from disk.
func (db *DB) MarkMissing(id string) error {
	rec, err := db.GetArtifact(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("artifact %q not found", id)
	}
	rec.Status = v1.ArtifactMissing
	return db.PutArtifact(*rec)
}

// ─────────────────────────────────────────────────────────────────────────────
// Build journal
// ─────────────────────────────────────────────────────────────────────────────

// PutBuild appends a build record to the journal.
func (db *DB) PutBuild(rec v1.BuildRecord) error {
	return db.putJSON(bucketBuilds, rec.ID, rec)
}

// ListBuilds returns all build records for a given template name.
// Pass empty string to return all builds.
func (db *DB) ListBuilds(template string) ([]v1.BuildRecord, error) {
	var recs []v1.BuildRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBuilds).ForEach(func(k, v []byte) error {
			var r v1.BuildRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			if template == "" || r.Template == template {
				recs = append(recs, r)
			}
			return nil
		})
	})
	return recs, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Generic helpers
// ─────────────────────────────────────────────────────────────────────────────

func (db *DB) putJSON(bucket []byte, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (db *DB) getJSON(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}
