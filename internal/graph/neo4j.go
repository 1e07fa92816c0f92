package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
)

// Query bounds.
const (
	// MaxDepth caps neighborhood traversal depth.
	MaxDepth = 5

	// DefaultDepth is used when the caller passes no depth.
	DefaultDepth = 1

	// MaxLimit caps result list sizes.
	MaxLimit = 100

	// DefaultLimit is used when the caller passes no limit.
	DefaultLimit = 10

	// neighborhoodRowLimit caps rows per neighborhood query.
	neighborhoodRowLimit = 100
)

// cypherRunner executes a read query and collects all rows. The indirection
// keeps query assembly and row decoding testable without a live database.
type cypherRunner interface {
	run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// sessionRunner runs each query in a fresh read session.
type sessionRunner struct {
	driver neo4j.DriverWithContext
}

func (s sessionRunner) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

// Neo4jReader reads the book graph from a Neo4j database.
type Neo4jReader struct {
	driver neo4j.DriverWithContext
	runner cypherRunner
	logger *slog.Logger
}

// NewNeo4j connects to the graph database and verifies connectivity.
func NewNeo4j(ctx context.Context, uri, username, password string, logger *slog.Logger) (*Neo4jReader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "create graph driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "connect graph database")
	}

	logger.Info("connected to graph database", "uri", uri)
	return &Neo4jReader{driver: driver, runner: sessionRunner{driver: driver}, logger: logger}, nil
}

// Close releases the driver.
func (r *Neo4jReader) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// clampDepth bounds traversal depth to [DefaultDepth, MaxDepth].
func clampDepth(depth int) int {
	if depth <= 0 {
		return DefaultDepth
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

// neighborhoodCypher builds the variable-length traversal query. Depth
// cannot be parameterized in Cypher, so it is interpolated after clamping.
func neighborhoodCypher(depth int) string {
	return fmt.Sprintf(`
		MATCH path = (b:Book {id: $book_id})-[*1..%d]-(related:Book)
		WITH b, related, relationships(path) AS rels
		RETURN DISTINCT
			b.id AS source_id,
			related.id AS target_id, related.title AS target_title,
			related.author AS target_author, related.categories AS target_categories,
			related.rating AS target_rating, related.year AS target_year,
			related.description AS target_description,
			[r IN rels | type(r)] AS rel_types,
			[r IN rels | r.weight] AS weights
		LIMIT %d`, clampDepth(depth), neighborhoodRowLimit)
}

// Neighborhood returns the subgraph around the book up to depth hops.
func (r *Neo4jReader) Neighborhood(ctx context.Context, bookID string, depth int) (*Neighborhood, error) {
	root, err := r.bookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, apierrors.NotFound("book", bookID)
	}

	records, err := r.runner.run(ctx, neighborhoodCypher(depth), map[string]any{"book_id": bookID})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "query book neighborhood")
	}

	nodes := map[string]BookNode{root.ID: *root}
	var relationships []Relationship

	for _, rec := range records {
		target := nodeFromRecord(rec, "target_")
		nodes[target.ID] = target

		sourceID, _ := stringValue(rec, "source_id")
		relTypes := stringSliceValue(rec, "rel_types")
		weights := floatSliceValue(rec, "weights")
		for i, relType := range relTypes {
			rel := Relationship{
				FromID:       sourceID,
				ToID:         target.ID,
				RelationType: relType,
			}
			if i < len(weights) {
				rel.Weight = weights[i]
			}
			relationships = append(relationships, rel)
		}
	}

	out := &Neighborhood{Relationships: relationships}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, n)
	}
	r.logger.Debug("neighborhood query finished",
		"book_id", bookID, "nodes", len(out.Nodes), "relationships", len(relationships))
	return out, nil
}

var similarCypher = `
	MATCH (b:Book {id: $book_id})-[r:` + RelSimilarTo + `]->(similar:Book)
	RETURN similar.id AS id, similar.title AS title, similar.author AS author,
		similar.categories AS categories, similar.rating AS rating,
		similar.year AS year, similar.description AS description
	ORDER BY r.weight DESC
	LIMIT $limit`

// SimilarBooks returns books linked by similarity edges, strongest first.
func (r *Neo4jReader) SimilarBooks(ctx context.Context, bookID string, limit int) ([]BookNode, error) {
	records, err := r.runner.run(ctx, similarCypher,
		map[string]any{"book_id": bookID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "query similar books")
	}
	return collectNodes(records), nil
}

// SearchBooks finds books whose title contains the pattern, best rated first.
func (r *Neo4jReader) SearchBooks(ctx context.Context, titlePattern string, limit int) ([]BookNode, error) {
	records, err := r.runner.run(ctx, `
		MATCH (b:Book)
		WHERE toLower(b.title) CONTAINS toLower($pattern)
		RETURN b.id AS id, b.title AS title, b.author AS author,
			b.categories AS categories, b.rating AS rating,
			b.year AS year, b.description AS description
		ORDER BY b.rating DESC
		LIMIT $limit`,
		map[string]any{"pattern": titlePattern, "limit": clampLimit(limit)})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "search graph books")
	}
	return collectNodes(records), nil
}

// Stats returns node and edge counts.
func (r *Neo4jReader) Stats(ctx context.Context) (*Stats, error) {
	books, err := r.count(ctx, `MATCH (b:Book) RETURN count(b) AS count`)
	if err != nil {
		return nil, err
	}
	rels, err := r.count(ctx, `MATCH ()-[r]->() RETURN count(r) AS count`)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalBooks: books, TotalRelationships: rels}, nil
}

func (r *Neo4jReader) count(ctx context.Context, cypher string) (int, error) {
	records, err := r.runner.run(ctx, cypher, nil)
	if err != nil {
		return 0, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "count graph entities")
	}
	if len(records) == 0 {
		return 0, nil
	}
	if v, ok := records[0].Get("count"); ok {
		if n, ok := v.(int64); ok {
			return int(n), nil
		}
	}
	return 0, nil
}

func (r *Neo4jReader) bookByID(ctx context.Context, bookID string) (*BookNode, error) {
	records, err := r.runner.run(ctx, `
		MATCH (b:Book {id: $book_id})
		RETURN b.id AS id, b.title AS title, b.author AS author,
			b.categories AS categories, b.rating AS rating,
			b.year AS year, b.description AS description`,
		map[string]any{"book_id": bookID})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeGraphQuery, "look up book")
	}
	if len(records) == 0 {
		return nil, nil
	}
	node := nodeFromRecord(records[0], "")
	return &node, nil
}

func collectNodes(records []*neo4j.Record) []BookNode {
	var nodes []BookNode
	for _, rec := range records {
		nodes = append(nodes, nodeFromRecord(rec, ""))
	}
	return nodes
}

// nodeFromRecord builds a BookNode from a record whose columns share a
// common prefix. Missing or mistyped properties read as zero values.
func nodeFromRecord(rec *neo4j.Record, prefix string) BookNode {
	node := BookNode{}
	node.ID, _ = stringValue(rec, prefix+"id")
	node.Title, _ = stringValue(rec, prefix+"title")
	node.Author, _ = stringValue(rec, prefix+"author")
	node.Categories = stringSliceValue(rec, prefix+"categories")
	node.Description, _ = stringValue(rec, prefix+"description")

	if v, ok := rec.Get(prefix + "rating"); ok {
		switch n := v.(type) {
		case float64:
			node.Rating = n
		case int64:
			node.Rating = float64(n)
		}
	}
	if v, ok := rec.Get(prefix + "year"); ok {
		if n, ok := v.(int64); ok {
			node.Year = int(n)
		}
	}
	return node
}

func stringValue(rec *neo4j.Record, key string) (string, bool) {
	v, ok := rec.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringSliceValue(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func floatSliceValue(rec *neo4j.Record, key string) []float64 {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case int64:
			out = append(out, float64(n))
		default:
			out = append(out, 0)
		}
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Ensure Neo4jReader implements the Reader interface.
var _ Reader = (*Neo4jReader)(nil)
