// Package history persists search history so users can revisit past
// recommendations. Persistence failures never fail a recommendation
// request; callers log and continue.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
)

// Entry is one saved search with its recommendations.
type Entry struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	Query           string       `json:"query"`
	Recommendations []books.Book `json:"recommendations"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Store saves and lists search history.
type Store interface {
	// Save records a search and its results for the user.
	Save(ctx context.Context, userID uuid.UUID, query string, recommendations []books.Book) error

	// List returns the user's most recent searches, newest first.
	List(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error)
}
