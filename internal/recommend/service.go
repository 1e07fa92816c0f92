// Package recommend orchestrates the recommendation pipeline: validation,
// query enhancement, strategy planning, hybrid search, ranking, explanation,
// and result caching.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	"github.com/hari2309s/recommend-a-book-sub000/internal/cache"
	"github.com/hari2309s/recommend-a-book-sub000/internal/embed"
	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
	"github.com/hari2309s/recommend-a-book-sub000/internal/explain"
	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
	"github.com/hari2309s/recommend-a-book-sub000/internal/search"
	"github.com/hari2309s/recommend-a-book-sub000/internal/vector"
)

// Query validation bounds.
const (
	MinQueryLength = 3
	MaxQueryLength = 200
)

// Result cache defaults.
const (
	DefaultResultTTL      = 5 * time.Minute
	DefaultResultCapacity = 100
)

// Options configures a Service.
type Options struct {
	DefaultTopK int
	MaxTopK     int
	ResultTTL   time.Duration
	ResultCap   int

	// ExplainTop limits explanation generation to the first n results.
	// Zero explains everything returned.
	ExplainTop int

	// Clock overrides the result cache time source, for tests.
	Clock cache.Clock
}

// Service runs the full recommendation pipeline.
type Service struct {
	enhancer    *query.Enhancer
	engine      *search.Engine
	explainer   *explain.Generator
	index       vector.Index
	embedder    embed.Embedder
	resultCache *cache.TTL[string, []books.Book]
	logger      *slog.Logger

	defaultTopK int
	maxTopK     int
	explainTop  int

	prewarmed atomic.Bool
}

// NewService wires the pipeline together.
func NewService(enhancer *query.Enhancer, engine *search.Engine, explainer *explain.Generator,
	index vector.Index, embedder embed.Embedder, opts Options, logger *slog.Logger) *Service {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 10
	}
	if opts.MaxTopK < opts.DefaultTopK {
		opts.MaxTopK = opts.DefaultTopK * 5
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	if opts.ResultCap <= 0 {
		opts.ResultCap = DefaultResultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}

	var cacheOpts []cache.Option[string, []books.Book]
	if opts.Clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock[string, []books.Book](opts.Clock))
	}

	return &Service{
		enhancer:    enhancer,
		engine:      engine,
		explainer:   explainer,
		index:       index,
		embedder:    embedder,
		resultCache: cache.NewTTL(opts.ResultTTL, opts.ResultCap, cacheOpts...),
		logger:      logger,
		defaultTopK: opts.DefaultTopK,
		maxTopK:     opts.MaxTopK,
		explainTop:  opts.ExplainTop,
	}
}

// Recommend returns up to topK ranked books for the query. A topK of zero
// uses the configured default; values above the cap are clamped.
func (s *Service) Recommend(ctx context.Context, rawQuery string, topK int) ([]books.Book, error) {
	trimmed, err := validateQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	topK = s.clampTopK(topK)

	cacheKey := trimmed + ":" + strconv.Itoa(topK)
	if cached, ok := s.resultCache.Get(cacheKey); ok {
		s.logger.Info("result cache hit", "query", trimmed, "top_k", topK)
		return cloneBooks(cached), nil
	}

	enhanced := s.enhancer.Enhance(trimmed)
	strategy := search.Plan(enhanced)
	s.logger.Info("searching",
		"query", trimmed,
		"pattern", string(enhanced.Pattern),
		"hybrid", strategy.Hybrid,
		"top_k", topK)

	expandedK := topK * 3
	raw, err := s.engine.Search(ctx, enhanced, strategy, expandedK)
	if err != nil {
		s.logger.Error("hybrid search failed, trying fallback", "query", trimmed, "error", err)
		raw, err = s.engine.Fallbacker().Search(ctx, trimmed, expandedK)
		if err != nil {
			return nil, err
		}
	}

	ranked := search.Rank(raw, enhanced, topK)
	s.attachExplanations(trimmed, ranked, enhanced)

	// The cache keeps its own copy so callers can mutate what they get back.
	s.resultCache.Put(cacheKey, cloneBooks(ranked))
	s.logger.Info("recommendations ready", "query", trimmed, "count", len(ranked))
	return ranked, nil
}

func cloneBooks(in []books.Book) []books.Book {
	if in == nil {
		return nil
	}
	out := make([]books.Book, len(in))
	copy(out, in)
	for i := range out {
		out[i].Categories = append([]string(nil), out[i].Categories...)
		out[i].RelevanceIndicators = append([]string(nil), out[i].RelevanceIndicators...)
	}
	return out
}

// Analyze exposes the enhanced form of a query without searching.
func (s *Service) Analyze(rawQuery string) (query.Enhanced, error) {
	trimmed, err := validateQuery(rawQuery)
	if err != nil {
		return query.Enhanced{}, err
	}
	return s.enhancer.Enhance(trimmed), nil
}

// Prewarm readies the embedder, the vector index connection, and the
// pipeline itself so the first user request avoids cold-start latency.
// Idempotent: only the first call does work. Returns whether this call was
// the one that performed the warm-up.
func (s *Service) Prewarm(ctx context.Context) (bool, error) {
	if !s.prewarmed.CompareAndSwap(false, true) {
		s.logger.Debug("already prewarmed, skipping")
		return false, nil
	}

	s.logger.Info("prewarming recommendation pipeline")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Cold model loads on the inference side time out for a while,
		// so the embedder warm-up retries with backoff.
		return embed.Warm(gctx, s.embedder, embed.DefaultRetryConfig())
	})
	g.Go(func() error {
		if _, err := s.index.QueryByMetadata(gctx, "title", "test", false, 1); err != nil {
			return fmt.Errorf("ping vector index: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.prewarmed.Store(false)
		return true, err
	}

	// Prime the full pipeline with a canned query. Best effort: a failure
	// here leaves the dependencies warm, which is most of the win.
	if _, err := s.Recommend(ctx, "popular fiction books", 3); err != nil {
		s.logger.Warn("prewarm pipeline probe failed", "error", err)
	}

	s.logger.Info("prewarm complete")
	return true, nil
}

// CacheStats reports entry counts for the service's caches.
func (s *Service) CacheStats() map[string]int {
	stats := map[string]int{
		"results": s.resultCache.Len(),
		"intents": s.enhancer.CacheLen(),
	}
	if s.explainer != nil {
		stats["explanations"] = s.explainer.CacheLen()
	}
	return stats
}

func (s *Service) clampTopK(topK int) int {
	if topK <= 0 {
		return s.defaultTopK
	}
	if topK > s.maxTopK {
		return s.maxTopK
	}
	return topK
}

func (s *Service) attachExplanations(queryText string, ranked []books.Book, enhanced query.Enhanced) {
	if s.explainer == nil {
		return
	}
	n := len(ranked)
	if s.explainTop > 0 && s.explainTop < n {
		n = s.explainTop
	}
	for i := 0; i < n; i++ {
		ranked[i].Explanation = s.explainer.Explain(queryText, ranked[i], enhanced)
	}
}

// validateQuery trims and bounds-checks the raw query text.
func validateQuery(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return "", apierrors.New(apierrors.ErrCodeQueryEmpty, "query cannot be empty")
	case len(trimmed) < MinQueryLength:
		return "", apierrors.New(apierrors.ErrCodeQueryTooShort,
			fmt.Sprintf("query too short (minimum %d characters)", MinQueryLength))
	case len(trimmed) > MaxQueryLength:
		return "", apierrors.New(apierrors.ErrCodeQueryTooLong,
			fmt.Sprintf("query too long (maximum %d characters)", MaxQueryLength))
	}
	return trimmed, nil
}
