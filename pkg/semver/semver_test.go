package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementPatch(t *testing.T) {
	v2, err := IncrementPatch("1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "1.1.2", v2)
}

func TestIncrementPatchCarriesNothing(t *testing.T) {
	// Patch bumps never roll over into minor.
	v2, err := IncrementPatch("0.9.9")
	require.NoError(t, err)
	assert.Equal(t, "0.9.10", v2)
}

func TestIncrementPatchMalformed(t *testing.T) {
	for _, in := range []string{"", "1", "1.2", "1.2.3.4", "1.2.x", "1.-2.3"} {
		_, err := IncrementPatch(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestCompare(t *testing.T) {
	a, err := Parse("1.2.3")
	require.NoError(t, err)
	b, err := Parse("1.10.0")
	require.NoError(t, err)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestParseRoundTrip(t *testing.T) {
	v, err := Parse("5.5.5")
	require.NoError(t, err)
	assert.Equal(t, "5.5.5", v.String())
}
