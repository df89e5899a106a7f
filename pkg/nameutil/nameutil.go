// Package nameutil provides name validation helpers used across orion-utils.
package nameutil

import (
	"math/rand"
	"regexp"
	"strings"
)

var (
	// collectionNameRegex enforces Galaxy's naming rules for namespaces and
	// collection names: lowercase, digits and underscores, starting with a letter.
	collectionNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]+$`)

	// templateNameRegex matches embedded template directory names.
	templateNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_\-]*$`)
)

// IsValidCollectionName returns true if name is a valid Galaxy namespace or
// collection name.
func IsValidCollectionName(name string) bool {
	return collectionNameRegex.MatchString(name)
}

// IsValidTemplateName returns true if name is a plausible template directory name.
func IsValidTemplateName(name string) bool {
	return templateNameRegex.MatchString(name)
}

// Collectionize converts a template directory name into a legal collection
// name ("collection-dep-a" → "collection_dep_a").
func Collectionize(template string) string {
	return strings.ReplaceAll(template, "-", "_")
}

const lowercase = "abcdefghijklmnopqrstuvwxyz"

// RandString generates a random lowercase name for collections or other
// resources. A non-zero seed makes the output deterministic, which test
// suites use to pin fixture names across runs.
func RandString(length int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	if seed == 0 {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(lowercase[r.Intn(len(lowercase))])
	}
	return b.String()
}
