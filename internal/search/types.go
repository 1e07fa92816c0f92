// Package search executes book searches: strategy planning, hybrid
// metadata + semantic retrieval, degraded fallback retrieval, and
// intent-aware ranking.
package search

// MetadataFilter selects books by a single metadata field.
type MetadataFilter struct {
	Field string
	Value string
	Exact bool
}

// Strategy describes how a query should be searched.
type Strategy struct {
	// Filter is the metadata pre-filter, nil when the query carries no
	// author or genre signal.
	Filter *MetadataFilter

	// SemanticWeight scales semantic result ratings during hybrid merge.
	SemanticWeight float64

	// Hybrid runs the semantic search even when metadata already
	// returned enough results.
	Hybrid bool
}
