package search

import (
	"context"
	"log/slog"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	"github.com/hari2309s/recommend-a-book-sub000/internal/embed"
	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
	"github.com/hari2309s/recommend-a-book-sub000/internal/vector"
)

// Engine performs hybrid metadata + semantic searches against the vector
// index, degrading to the fallback searcher when the embedder times out.
type Engine struct {
	index    vector.Index
	embedder embed.Embedder
	fallback *Fallback
	logger   *slog.Logger
}

// NewEngine creates a search engine over the given index and embedder.
func NewEngine(index vector.Index, embedder embed.Embedder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		index:    index,
		embedder: embedder,
		fallback: NewFallback(index, logger),
		logger:   logger,
	}
}

// Search collects raw candidates for the query. Metadata results always come
// first so exact-match accumulation is deterministic, then semantic results
// are merged in, deduped by identifier. The returned slice may exceed topK;
// final cuts belong to the ranker.
//
// An embedder timeout is recovered locally by substituting fallback results,
// which are never down-weighted. Any other embedder failure propagates.
func (e *Engine) Search(ctx context.Context, q query.Enhanced, strategy Strategy, topK int) ([]books.Book, error) {
	var results []books.Book
	seen := make(map[string]bool)

	add := func(items []books.Book) {
		for _, b := range items {
			if b.ID != "" && seen[b.ID] {
				continue
			}
			if b.ID != "" {
				seen[b.ID] = true
			}
			results = append(results, b)
		}
	}

	if f := strategy.Filter; f != nil && f.Value != "" {
		if f.Exact {
			exact, err := e.index.QueryByMetadata(ctx, f.Field, f.Value, true, topK*3)
			if err != nil {
				return nil, err
			}
			add(exact)
		}
		if len(results) < topK {
			partial, err := e.index.QueryByMetadata(ctx, f.Field, f.Value, false, topK*3)
			if err != nil {
				return nil, err
			}
			add(partial)
		}
	}

	if len(results) >= topK && !strategy.Hybrid {
		return results, nil
	}

	vec, err := e.embedder.Embed(ctx, q.OriginalQuery)
	if err != nil {
		if embed.IsTimeout(err) {
			e.logger.Warn("embedder timed out, degrading to fallback search",
				"query", q.OriginalQuery, "error", err)
			degraded, ferr := e.fallback.Search(ctx, q.OriginalQuery, topK)
			if ferr != nil {
				return nil, ferr
			}
			add(degraded)
			return results, nil
		}
		return nil, err
	}

	semantic, err := e.index.QueryByVector(ctx, vec, topK*3)
	if err != nil {
		return nil, err
	}

	if strategy.Hybrid {
		// The adjusted rating is a transient ranking signal, not truth
		// about the book.
		for i := range semantic {
			semantic[i].Rating *= strategy.SemanticWeight
		}
	}
	add(semantic)

	return results, nil
}

// Fallbacker exposes the engine's fallback searcher for direct use when the
// whole hybrid path fails.
func (e *Engine) Fallbacker() *Fallback { return e.fallback }
