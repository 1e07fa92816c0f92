// Package vector provides access to the external vector index holding the
// book corpus. Searches return deserialized Book records; individual records
// that fail to decode are skipped, never failing the whole query.
package vector

import (
	"context"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
)

// Index is the vector store consumed by the search layer.
type Index interface {
	// QueryByVector returns the topK nearest books to the given embedding.
	QueryByVector(ctx context.Context, vec []float32, topK int) ([]books.Book, error)

	// QueryByMetadata returns up to topK books whose metadata field matches
	// value. Exact matches compare full values; partial matches are
	// case-insensitive substring containment.
	QueryByMetadata(ctx context.Context, field, value string, exact bool, topK int) ([]books.Book, error)
}
