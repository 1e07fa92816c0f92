// Package embed provides query embedding via a remote inference API, with
// LRU caching and dimension normalization.
package embed

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common embedding constants.
const (
	// DefaultDimensions is the embedding dimension for all-MiniLM-L6-v2.
	DefaultDimensions = 384

	// DefaultEmbeddingCacheSize is the default number of embeddings to cache.
	// At 384 dimensions * 4 bytes * 1000 entries, roughly 1.5MB of memory.
	DefaultEmbeddingCacheSize = 1000

	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultRequestTimeout bounds the full embedding request. Cold model
	// loads on the inference side can take tens of seconds.
	DefaultRequestTimeout = 30 * time.Second
)

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector length.
	Dimensions() int

	// ModelName returns the model identifier, used in cache keys.
	ModelName() string
}

// Kind classifies embedding failures. The classification happens where the
// transport error is caught, so callers branch on the kind rather than
// inspecting error text.
type Kind int

const (
	// KindOther covers failures with no special handling.
	KindOther Kind = iota

	// KindTimeout marks deadline or connection timeouts. Search degrades
	// to metadata-only fallback on this kind instead of failing.
	KindTimeout

	// KindRateLimited marks provider throttling responses.
	KindRateLimited

	// KindAuth marks rejected credentials.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	default:
		return "other"
	}
}

// Error is an embedding failure with its classified kind.
type Error struct {
	Kind  Kind
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embed %s: %s: %v", e.Model, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is an embedding error of kind timeout.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}

// KindOf returns the classified kind of an embedding error, or KindOther
// for anything else.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindOther
}
