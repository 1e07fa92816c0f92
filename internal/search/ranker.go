package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
)

// maxRelevanceIndicators caps the indicator list per book.
const maxRelevanceIndicators = 3

// Rank orders raw candidates by the query's pattern, removes duplicate
// titles, truncates to topK, and enriches the survivors with confidence
// scores and relevance indicators.
//
// Author queries sort books containing the target author name strictly
// before all others, ties broken by rating. Genre queries use the same
// scheme keyed on category membership. Every other pattern sorts purely by
// rating; the sort is stable throughout so equal keys keep their incoming
// order.
func Rank(results []books.Book, q query.Enhanced, topK int) []books.Book {
	if topK <= 0 {
		return nil
	}
	if len(results) <= 1 {
		return results
	}

	switch q.Pattern {
	case query.PatternAuthor:
		name := strings.ToLower(q.Filters.Author)
		sort.SliceStable(results, func(i, j int) bool {
			mi := boolBit(strings.Contains(strings.ToLower(results[i].Author), name))
			mj := boolBit(strings.Contains(strings.ToLower(results[j].Author), name))
			if mi != mj {
				return mi > mj
			}
			return results[i].Rating > results[j].Rating
		})
	case query.PatternGenre:
		genre := strings.ToLower(canonicalGenre(q))
		sort.SliceStable(results, func(i, j int) bool {
			mi := boolBit(categoriesContain(results[i].Categories, genre))
			mj := boolBit(categoriesContain(results[j].Categories, genre))
			if mi != mj {
				return mi > mj
			}
			return results[i].Rating > results[j].Rating
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Rating > results[j].Rating
		})
	}

	return applyEnrichment(truncate(dedupe(results, topK*3), topK), q, topK)
}

// dedupe keeps the first occurrence per (title, author) identity, in sorted
// order, stopping once max unique books are collected.
func dedupe(results []books.Book, max int) []books.Book {
	seen := make(map[string]bool, max)
	unique := make([]books.Book, 0, max)
	for _, b := range results {
		if len(unique) >= max {
			break
		}
		if seen[dedupKey(b)] {
			continue
		}
		seen[dedupKey(b)] = true
		unique = append(unique, b)
	}
	return unique
}

// dedupKey is the book's synthetic identity for deduplication.
func dedupKey(b books.Book) string {
	title, author := b.Title, b.Author
	if title == "" {
		title = "Unknown"
	}
	if author == "" {
		author = "Unknown"
	}
	return title + "-" + author
}

func truncate(results []books.Book, topK int) []books.Book {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}

// applyEnrichment sets confidence scores and relevance indicators on the
// final list. Purely additive: order is never changed here.
func applyEnrichment(results []books.Book, q query.Enhanced, topK int) []books.Book {
	for i := range results {
		positionFactor := 1.0 - float64(i)/float64(topK)
		ratingFactor := results[i].Rating / 5.0
		score := positionFactor*0.7 + ratingFactor*0.3
		if score > 1.0 {
			score = 1.0
		}
		results[i].ConfidenceScore = score
		results[i].RelevanceIndicators = relevanceIndicators(results[i], q)
	}
	return results
}

// relevanceIndicators surfaces up to three reasons a book matched: extracted
// terms found in its title, categories, or description, the author match,
// and finally its own categories as filler.
func relevanceIndicators(b books.Book, q query.Enhanced) []string {
	var indicators []string
	title := strings.ToLower(b.Title)
	desc := strings.ToLower(b.Description)

	for _, term := range q.ExtractedTerms {
		t := strings.ToLower(term)
		if strings.Contains(title, t) || categoriesContain(b.Categories, t) || strings.Contains(desc, t) {
			indicators = append(indicators, term)
		}
	}

	if q.Filters.Author != "" &&
		strings.Contains(strings.ToLower(b.Author), strings.ToLower(q.Filters.Author)) {
		indicators = append(indicators, fmt.Sprintf("Author: %s", q.Filters.Author))
	}

	if len(indicators) < 2 {
		for _, c := range b.Categories {
			if !containsStr(indicators, c) {
				indicators = append(indicators, c)
			}
			if len(indicators) >= maxRelevanceIndicators {
				break
			}
		}
	}

	if len(indicators) > maxRelevanceIndicators {
		indicators = indicators[:maxRelevanceIndicators]
	}
	return indicators
}

func categoriesContain(categories []string, needle string) bool {
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
