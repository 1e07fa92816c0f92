// Package query turns free-text book queries into structured search input.
// A query is classified into a pattern (author, genre, mood, ...), terms are
// extracted and expanded from synonym tables, and filters plus weighting
// hints are derived for the downstream search strategy.
package query

// Pattern identifies the dominant shape of a user query.
type Pattern string

const (
	PatternAuthor      Pattern = "author"
	PatternGenre       Pattern = "genre"
	PatternMood        Pattern = "mood"
	PatternSimilarTo   Pattern = "similar_to"
	PatternTimeBased   Pattern = "time_based"
	PatternAudience    Pattern = "audience"
	PatternLength      Pattern = "length"
	PatternComplexity  Pattern = "complexity"
	PatternTheme       Pattern = "theme"
	PatternAward       Pattern = "award"
	PatternSetting     Pattern = "setting"
	PatternPace        Pattern = "pace"
	PatternPerspective Pattern = "perspective"
	PatternGeneral     Pattern = "general"
)

// Filters constrain search results based on what the query asked for.
type Filters struct {
	Author    string   `json:"author,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Themes    []string `json:"themes,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	MaxPages  int      `json:"max_pages,omitempty"`
	MinYear   int      `json:"min_year,omitempty"`
	MaxYear   int      `json:"max_year,omitempty"`
	Audience  string   `json:"audience,omitempty"`
	Settings  []string `json:"settings,omitempty"`
}

// SearchHints weight the search strategy. Weights multiply, they are not
// normalized against each other.
type SearchHints struct {
	SemanticWeight float64 `json:"semantic_weight"`
	MetadataWeight float64 `json:"metadata_weight"`
	RatingBoost    float64 `json:"rating_boost"`
	RecencyBoost   float64 `json:"recency_boost"`
}

// DefaultHints returns the neutral hint weights.
func DefaultHints() SearchHints {
	return SearchHints{
		SemanticWeight: 0.6,
		MetadataWeight: 0.4,
		RatingBoost:    1.0,
		RecencyBoost:   1.0,
	}
}

// Enhanced is the structured form of a user query.
type Enhanced struct {
	OriginalQuery  string      `json:"original_query"`
	Pattern        Pattern     `json:"pattern"`
	ExtractedTerms []string    `json:"extracted_terms"`
	ExpandedTerms  []string    `json:"expanded_terms"`
	Filters        Filters     `json:"filters"`
	SearchHints    SearchHints `json:"search_hints"`
}
