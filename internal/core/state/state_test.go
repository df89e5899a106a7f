package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/peaqe/orion-utils/api/v1"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

func sampleArtifact() v1.ArtifactRecord {
	return v1.ArtifactRecord{
		Key:       "foobar",
		Namespace: "orion",
		Name:      "skeleton_foobar",
		Version:   "1.0.0",
		Template:  "skeleton",
		Filename:  "/tmp/orion-skeleton_foobar-1.0.0.tar.gz",
		Checksum:  "deadbeef",
		Status:    v1.ArtifactBuilt,
		BuiltAt:   time.Now().UTC(),
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	db := openTestDB(t)
	rec := sampleArtifact()

	require.NoError(t, db.PutArtifact(rec))

	got, err := db.GetArtifact(rec.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "orion.skeleton_foobar", got.FQCN())
	assert.Equal(t, v1.ArtifactBuilt, got.Status)
}

func TestGetArtifactMissingIsNilNil(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetArtifact("nope.nothing-0.0.0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListArtifactsFiltersByStatus(t *testing.T) {
	db := openTestDB(t)

	a := sampleArtifact()
	b := sampleArtifact()
	b.Name = "skeleton_other"
	b.Status = v1.ArtifactPublished
	require.NoError(t, db.PutArtifact(a))
	require.NoError(t, db.PutArtifact(b))

	all, err := db.ListArtifacts("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := db.ListArtifacts(v1.ArtifactPublished)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "skeleton_other", published[0].Name)
}

func TestMarkPublished(t *testing.T) {
	db := openTestDB(t)
	rec := sampleArtifact()
	require.NoError(t, db.PutArtifact(rec))

	require.NoError(t, db.MarkPublished(rec.ID(), "stage"))

	got, err := db.GetArtifact(rec.ID())
	require.NoError(t, err)
	assert.Equal(t, v1.ArtifactPublished, got.Status)
	assert.Equal(t, "stage", got.Server)
	assert.False(t, got.PublishedAt.IsZero())
}

func TestMarkPublishedUnknownArtifact(t *testing.T) {
	db := openTestDB(t)
	err := db.MarkPublished("nope.nothing-0.0.0", "stage")
	require.Error(t, err)
}

func TestDeleteArtifact(t *testing.T) {
	db := openTestDB(t)
	rec := sampleArtifact()
	require.NoError(t, db.PutArtifact(rec))
	require.NoError(t, db.DeleteArtifact(rec.ID()))

	got, err := db.GetArtifact(rec.ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBuildJournal(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.PutBuild(v1.BuildRecord{
		ID: "b1", Template: "skeleton", Runner: "local", Result: "success",
	}))
	require.NoError(t, db.PutBuild(v1.BuildRecord{
		ID: "b2", Template: "kitchensink", Runner: "local", Result: "failure",
	}))

	all, err := db.ListBuilds("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sk, err := db.ListBuilds("skeleton")
	require.NoError(t, err)
	require.Len(t, sk, 1)
	assert.Equal(t, "b1", sk[0].ID)
}
