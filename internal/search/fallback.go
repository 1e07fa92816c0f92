package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	"github.com/hari2309s/recommend-a-book-sub000/internal/vector"
)

// maxFallbackTerms caps how many query words drive the term search.
const maxFallbackTerms = 5

// fallbackStopWords are skipped during fallback term extraction. This list
// is intentionally smaller than the classifier's stop words.
var fallbackStopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
	"have": true, "like": true,
}

// Fallback searches by metadata terms alone, used when the embedding service
// is unavailable or the primary search hard-fails. Best effort: sub-queries
// that error are skipped, never propagated.
type Fallback struct {
	index  vector.Index
	logger *slog.Logger
}

// NewFallback creates a fallback searcher over the given index.
func NewFallback(index vector.Index, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{index: index, logger: logger}
}

// Search escalates through term search, high-rating search, and recent-year
// search until enough results accumulate. Every returned book's identifier is
// prefixed with "fallback-" so callers can tell degraded results apart.
func (f *Fallback) Search(ctx context.Context, queryText string, topK int) ([]books.Book, error) {
	f.logger.Info("fallback search", "query", queryText)

	terms := fallbackTerms(queryText)
	var results []books.Book
	seen := make(map[string]bool)

	add := func(items []books.Book, limit int) {
		for _, b := range items {
			if b.ID != "" {
				if seen[b.ID] {
					continue
				}
				seen[b.ID] = true
			}
			results = append(results, b)
			if limit > 0 && len(results) >= limit {
				return
			}
		}
	}

	for _, term := range terms {
		if titleMatches, err := f.index.QueryByMetadata(ctx, "title", term, false, topK*3); err == nil {
			add(titleMatches, topK*2)
		}
		if len(results) >= topK*2 {
			break
		}
		if descMatches, err := f.index.QueryByMetadata(ctx, "description", term, false, topK*3); err == nil {
			add(descMatches, topK*2)
		}
		if len(results) >= topK*2 {
			break
		}
	}

	if len(results) < topK {
		f.logger.Warn("term search under-returned, widening fallback", "count", len(results))
		if popular, err := f.index.QueryByMetadata(ctx, "rating", "4.5", false, topK*3); err == nil {
			add(popular, 0)
		}
		if len(results) < topK {
			if recent, err := f.index.QueryByMetadata(ctx, "year", "2020", false, topK*3); err == nil {
				add(recent, 0)
			}
		}
	}

	f.logger.Info("fallback search finished", "count", len(results))

	for i := range results {
		if results[i].ID != "" && !strings.HasPrefix(results[i].ID, "fallback-") {
			results[i].ID = "fallback-" + results[i].ID
		}
	}
	return results, nil
}

// fallbackTerms extracts up to maxFallbackTerms meaningful words.
func fallbackTerms(queryText string) []string {
	var terms []string
	for _, w := range strings.Fields(queryText) {
		if len(w) > 3 && !fallbackStopWords[strings.ToLower(w)] {
			terms = append(terms, w)
			if len(terms) == maxFallbackTerms {
				break
			}
		}
	}
	return terms
}
