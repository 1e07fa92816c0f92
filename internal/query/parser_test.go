package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Pattern Classification Tests
// =============================================================================

func TestParse_PatternPriority(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Pattern
	}{
		{"author form", "books by Brandon Sanderson", PatternAuthor},
		{"possessive author form", "Agatha Christie's novels", PatternAuthor},
		{"genre phrase", "fantasy books", PatternGenre},
		{"bare genre keyword", "recommend some cyberpunk", PatternGenre},
		{"mood adjective", "something cozy to read", PatternMood},
		{"time based", "recent releases", PatternTimeBased},
		{"audience", "books for grown-ups", PatternAudience},
		{"perspective", "unreliable narrator stories", PatternPerspective},
		{"general fallthrough", "anything interesting", PatternGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.query)
			assert.Equal(t, tt.want, got.Pattern, "query: %q", tt.query)
		})
	}
}

func TestParse_AuthorBeatsOtherSignals(t *testing.T) {
	// Author phrasing wins even when the query also carries theme and
	// genre vocabulary.
	got := Parse("books by Tolkien about dragons")

	assert.Equal(t, PatternAuthor, got.Pattern)
	assert.Contains(t, got.Filters.Author, "Tolkien")
	assert.Equal(t, 0.8, got.SearchHints.MetadataWeight)
	assert.Equal(t, 0.2, got.SearchHints.SemanticWeight)
	// Theme extraction still runs underneath the author pattern.
	assert.Contains(t, got.Filters.Themes, "dragon")
}

func TestParse_SimilarToOverridesEverything(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"plain similar to", "books similar to Dune"},
		{"like phrasing", "something like The Martian"},
		{"style phrasing", "in the style of Ursula K. Le Guin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.query)
			assert.Equal(t, PatternSimilarTo, got.Pattern)
			assert.Equal(t, 0.9, got.SearchHints.SemanticWeight)
		})
	}
}

func TestParse_GenreExpansion(t *testing.T) {
	got := Parse("fantasy books")

	require.Equal(t, PatternGenre, got.Pattern)
	require.NotEmpty(t, got.ExtractedTerms)
	assert.Equal(t, "fantasy", got.ExtractedTerms[0])
	assert.Contains(t, got.Filters.Genres, "fantasy")
	assert.Contains(t, got.Filters.Genres, "epic fantasy")
	assert.Equal(t, 0.7, got.SearchHints.SemanticWeight)
	assert.Equal(t, 0.3, got.SearchHints.MetadataWeight)
}

// =============================================================================
// Filter Extraction Tests
// =============================================================================

func TestParse_FiltersAccumulateAcrossPatterns(t *testing.T) {
	// The pattern locks in as genre, but time and quality filters still
	// apply on top of it.
	got := Parse("best recent science fiction")

	assert.Equal(t, PatternGenre, got.Pattern)
	assert.Equal(t, 2015, got.Filters.MinYear)
	assert.Equal(t, 1.3, got.SearchHints.RecencyBoost)
	assert.Equal(t, 4.0, got.Filters.MinRating)
	assert.Equal(t, 1.5, got.SearchHints.RatingBoost)
}

func TestParse_ClassicQueriesCapTheYear(t *testing.T) {
	got := Parse("classic literature everyone should read")

	assert.Equal(t, 2000, got.Filters.MaxYear)
	assert.Equal(t, 1.2, got.SearchHints.RatingBoost)
}

func TestParse_LengthAndAudience(t *testing.T) {
	got := Parse("short books for children")

	assert.Equal(t, 300, got.Filters.MaxPages)
	assert.Equal(t, "children", got.Filters.Audience)
}

func TestParse_TeenQueriesClassifyAsGenre(t *testing.T) {
	// "teen" lives in the young-adult synonym list, so the genre scan wins
	// the pattern. The audience filter still applies on top.
	got := Parse("stories for teens")

	assert.Equal(t, PatternGenre, got.Pattern)
	assert.Contains(t, got.Filters.Genres, "young adult")
	assert.Equal(t, "young adult", got.Filters.Audience)
}

func TestParse_HistoricalPeriodSetsYearRange(t *testing.T) {
	got := Parse("novels set during the victorian era")

	assert.Equal(t, 1837, got.Filters.MinYear)
	assert.Equal(t, 1901, got.Filters.MaxYear)
	assert.Contains(t, got.Filters.Settings, "victorian")
}

func TestParse_ThemesAccumulate(t *testing.T) {
	got := Parse("a story about war and betrayal")

	assert.Contains(t, got.Filters.Themes, "war")
	assert.Contains(t, got.Filters.Themes, "betrayal")
}

// =============================================================================
// Edge Cases
// =============================================================================

func TestParse_EmptyQuery(t *testing.T) {
	got := Parse("")

	assert.Equal(t, PatternGeneral, got.Pattern)
	assert.Empty(t, got.ExtractedTerms)
	assert.Equal(t, DefaultHints(), got.SearchHints)
}

func TestParse_IsDeterministic(t *testing.T) {
	queries := []string{
		"books by Tolkien about dragons",
		"best recent science fiction",
		"something like The Martian",
		"a story about war and betrayal",
	}

	for _, q := range queries {
		first := Parse(q)
		second := Parse(q)
		assert.Equal(t, first, second, "query: %q", q)
	}
}

func TestParse_StopWordsNeverBecomeTerms(t *testing.T) {
	got := Parse("please recommend some good books")

	for _, term := range got.ExtractedTerms {
		assert.False(t, stopWords[term], "stop word leaked into terms: %q", term)
	}
}
