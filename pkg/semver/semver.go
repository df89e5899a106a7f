// Package semver provides the minimal semantic-version handling needed for
// collection fixtures: parsing "major.minor.patch" strings and bumping the
// patch component between update scenarios.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a "major.minor.patch" string. Pre-release and build metadata
// are not supported — collection fixtures never use them.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("malformed version %q: want major.minor.patch", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("malformed version %q: component %q is not a non-negative integer", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version back to "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 comparing v against o.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

// IncrementPatch parses cur, bumps the patch component and returns the new
// version string: "1.1.1" → "1.1.2".
func IncrementPatch(cur string) (string, error) {
	v, err := Parse(cur)
	if err != nil {
		return "", err
	}
	v.Patch++
	return v.String(), nil
}
