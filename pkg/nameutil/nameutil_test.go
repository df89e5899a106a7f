package nameutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCollectionName(t *testing.T) {
	valid := []string{"foo", "my_namespace", "dep_a1", "a0"}
	invalid := []string{"", "Foo", "1foo", "_foo", "foo-bar", "foo.bar", "f"}

	for _, n := range valid {
		assert.True(t, IsValidCollectionName(n), "expected %q to be valid", n)
	}
	for _, n := range invalid {
		assert.False(t, IsValidCollectionName(n), "expected %q to be invalid", n)
	}
}

func TestCollectionize(t *testing.T) {
	assert.Equal(t, "collection_dep_a", Collectionize("collection-dep-a"))
	assert.Equal(t, "skeleton", Collectionize("skeleton"))
}

func TestRandStringSeeded(t *testing.T) {
	a := RandString(8, 42)
	b := RandString(8, 42)
	assert.Equal(t, a, b, "same seed must give same name")
	assert.Len(t, a, 8)

	c := RandString(8, 43)
	assert.NotEqual(t, a, c, "different seeds should diverge")
}

func TestRandStringIsLowercase(t *testing.T) {
	s := RandString(64, 7)
	for _, r := range s {
		assert.True(t, r >= 'a' && r <= 'z', "rune %q out of range", r)
	}
}
