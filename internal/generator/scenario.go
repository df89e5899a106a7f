// Fixture types for collection-update test matrices.
package generator

// UpdateScenario pairs two CollectionSetups — the original collection and its
// update — with the information a test expects to observe after both versions
// are published.
type UpdateScenario struct {
	ID     string
	First  *CollectionSetup
	Second *CollectionSetup

	// Contents is the expected per-kind content listing after the update.
	Contents map[string][]string

	ExpectVersion string
	ExpectReadme  string
}

// ContentCard holds the expected values for a content card on a collection
// detail page.
type ContentCard struct {
	Type        string
	Title       string
	Description string
	PluginType  string
}
