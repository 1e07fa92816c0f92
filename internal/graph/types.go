// Package graph exposes read access to the book relationship graph: the
// neighborhood around a book, similar books, title search, and corpus stats.
package graph

import "context"

// RelSimilarTo is the similarity edge type as stored in the graph.
const RelSimilarTo = "SIMILAR_TO"

// BookNode is a book as stored in the graph.
type BookNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Categories  []string `json:"categories"`
	Rating      float64  `json:"rating"`
	Year        int      `json:"year,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Relationship is a directed, weighted edge between two books.
type Relationship struct {
	FromID       string  `json:"from_id"`
	ToID         string  `json:"to_id"`
	RelationType string  `json:"relation_type"`
	Weight       float64 `json:"weight"`
}

// Neighborhood is the subgraph around a root book.
type Neighborhood struct {
	Nodes         []BookNode     `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Stats summarizes the graph contents.
type Stats struct {
	TotalBooks         int `json:"total_books"`
	TotalRelationships int `json:"total_relationships"`
}

// Reader is the graph query surface consumed by the HTTP layer.
type Reader interface {
	// Neighborhood returns the subgraph around the book up to depth hops.
	// Returns NotFound when the root book is absent.
	Neighborhood(ctx context.Context, bookID string, depth int) (*Neighborhood, error)

	// SimilarBooks returns books linked by SIMILAR_TO edges, strongest first.
	SimilarBooks(ctx context.Context, bookID string, limit int) ([]BookNode, error)

	// SearchBooks finds books whose title contains the pattern.
	SearchBooks(ctx context.Context, titlePattern string, limit int) ([]BookNode, error)

	// Stats returns node and edge counts.
	Stats(ctx context.Context) (*Stats, error)
}
