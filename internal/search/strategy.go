package search

import "github.com/hari2309s/recommend-a-book-sub000/internal/query"

// Plan maps an enhanced query to a search strategy. Total over all patterns:
// author and genre queries get a metadata pre-filter plus hybrid semantic
// search; every other pattern searches purely semantically.
func Plan(q query.Enhanced) Strategy {
	switch q.Pattern {
	case query.PatternAuthor:
		return Strategy{
			Filter: &MetadataFilter{
				Field: "author",
				Value: q.Filters.Author,
			},
			SemanticWeight: 0.3,
			Hybrid:         true,
		}
	case query.PatternGenre:
		return Strategy{
			Filter: &MetadataFilter{
				Field: "categories",
				Value: canonicalGenre(q),
			},
			SemanticWeight: 0.7,
			Hybrid:         true,
		}
	default:
		return Strategy{SemanticWeight: 1.0}
	}
}

// canonicalGenre returns the base genre label the classifier extracted.
// For genre-pattern queries that is always the first extracted term.
func canonicalGenre(q query.Enhanced) string {
	if len(q.ExtractedTerms) > 0 {
		return q.ExtractedTerms[0]
	}
	if len(q.Filters.Genres) > 0 {
		return q.Filters.Genres[0]
	}
	return ""
}
