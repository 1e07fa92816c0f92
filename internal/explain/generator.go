// Package explain produces human-readable justifications for recommended
// books, derived from the same classification the search ran on.
package explain

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	"github.com/hari2309s/recommend-a-book-sub000/internal/cache"
	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
)

// Explanation cache defaults. Explanations are deterministic per
// (query, book) pair, so they cache for much longer than search results.
const (
	DefaultTTL      = 24 * time.Hour
	DefaultCapacity = 5000
)

// Generator builds one explanation per (query, book) pair, cached.
type Generator struct {
	cache  *cache.TTL[string, string]
	logger *slog.Logger
}

// NewGenerator creates a generator with its own explanation cache.
func NewGenerator(ttl time.Duration, capacity int, logger *slog.Logger, opts ...cache.Option[string, string]) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cache: cache.NewTTL(ttl, capacity, opts...), logger: logger}
}

// Explain returns a justification for recommending the book against the
// query, compact enough for a result card.
func (g *Generator) Explain(queryText string, b books.Book, q query.Enhanced) string {
	key := g.cacheKey(queryText, b)
	if v, ok := g.cache.Get(key); ok {
		return v
	}

	explanation := compose(b, q)
	g.cache.Put(key, explanation)

	if isGeneric(explanation) {
		g.logger.Debug("generic explanation",
			"query", queryText, "book", b.Title, "pattern", string(q.Pattern))
	}
	return explanation
}

// ExplainTop generates explanations for the first n books.
func (g *Generator) ExplainTop(queryText string, list []books.Book, q query.Enhanced, n int) []string {
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for _, b := range list[:n] {
		out = append(out, g.Explain(queryText, b, q))
	}
	return out
}

// CacheLen reports the number of cached explanations.
func (g *Generator) CacheLen() int { return g.cache.Len() }

// cacheKey hashes the query and pairs it with the book's identity, so the
// key stays short no matter how long the query is.
func (g *Generator) cacheKey(queryText string, b books.Book) string {
	h := fnv.New64a()
	h.Write([]byte(queryText))

	id := b.ID
	if id == "" {
		title, author := b.Title, b.Author
		if title == "" {
			title = "unknown"
		}
		if author == "" {
			author = "unknown"
		}
		id = title + ":" + author
	}
	return fmt.Sprintf("%d:%s", h.Sum64(), id)
}

// compose builds the explanation text from the strongest available signal:
// author match, genre/category overlap, matched themes, then rating.
func compose(b books.Book, q query.Enhanced) string {
	var parts []string

	if q.Pattern == query.PatternAuthor && q.Filters.Author != "" &&
		strings.Contains(strings.ToLower(b.Author), strings.ToLower(q.Filters.Author)) {
		parts = append(parts, fmt.Sprintf("Written by %s, the author you asked for", b.Author))
	}

	if genres := matchedGenres(b, q.Filters.Genres); len(genres) > 0 {
		parts = append(parts, fmt.Sprintf("A %s pick matching the genre you're after", strings.Join(genres, ", ")))
	}

	if themes := matchedThemes(b, q.Filters.Themes); len(themes) > 0 {
		parts = append(parts, fmt.Sprintf("Explores %s", joinNatural(themes)))
	}

	if q.Pattern == query.PatternSimilarTo && len(b.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Shares its %s territory with what you named", strings.ToLower(b.Categories[0])))
	}

	if b.Rating >= 4.5 {
		parts = append(parts, fmt.Sprintf("Exceptionally rated at %.1f", b.Rating))
	} else if b.Rating >= 4.0 {
		parts = append(parts, fmt.Sprintf("Strongly rated at %.1f", b.Rating))
	}

	if len(parts) == 0 {
		if b.Rating >= 4.0 {
			return "Highly rated recommendation"
		}
		return "Matches your search"
	}

	// Two signals are plenty for a card.
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ". ") + "."
}

// matchedGenres returns expanded genre synonyms found in the book's
// categories, capped at two.
func matchedGenres(b books.Book, genres []string) []string {
	var out []string
	for _, g := range genres {
		gl := strings.ToLower(g)
		for _, c := range b.Categories {
			if strings.Contains(strings.ToLower(c), gl) {
				out = append(out, g)
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return out
}

// matchedThemes returns the query's themes that appear in the book's title,
// categories, or description, with hyphens rendered as spaces.
func matchedThemes(b books.Book, themes []string) []string {
	haystack := strings.ToLower(b.Title + " " + strings.Join(b.Categories, " ") + " " + b.Description)
	var out []string
	for _, t := range themes {
		plain := strings.ReplaceAll(t, "-", " ")
		if strings.Contains(haystack, plain) {
			out = append(out, plain)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func isGeneric(explanation string) bool {
	return strings.Contains(explanation, "Matches your search") ||
		strings.Contains(explanation, "Highly rated recommendation") ||
		len(explanation) < 20
}
