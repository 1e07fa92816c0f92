package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
)

// fakeRunner records every query and serves canned rows per call.
type fakeRunner struct {
	cyphers []string
	params  []map[string]any
	results [][]*neo4j.Record
	err     error
}

func (f *fakeRunner) run(_ context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	f.cyphers = append(f.cyphers, cypher)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	call := len(f.cyphers) - 1
	if call < len(f.results) {
		return f.results[call], nil
	}
	return nil, nil
}

func newTestReader(runner cypherRunner) *Neo4jReader {
	return &Neo4jReader{
		runner: runner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// record builds a row from alternating key/value pairs.
func record(pairs ...any) *neo4j.Record {
	rec := &neo4j.Record{}
	for i := 0; i < len(pairs); i += 2 {
		rec.Keys = append(rec.Keys, pairs[i].(string))
		rec.Values = append(rec.Values, pairs[i+1])
	}
	return rec
}

func rootRecord() *neo4j.Record {
	return record(
		"id", "b1", "title", "Dune", "author", "Frank Herbert",
		"categories", []any{"Science Fiction"}, "rating", 4.5,
		"year", int64(1965), "description", "Desert planet epic")
}

// ===== Depth Clamping =====

func TestClampDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  int
	}{
		{0, DefaultDepth},
		{-3, DefaultDepth},
		{1, 1},
		{3, 3},
		{5, MaxDepth},
		{9, MaxDepth},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, clampDepth(tt.depth), "depth %d", tt.depth)
	}
}

func TestNeighborhoodCypher_InterpolatesClampedDepth(t *testing.T) {
	assert.Contains(t, neighborhoodCypher(0), "[*1..1]")
	assert.Contains(t, neighborhoodCypher(3), "[*1..3]")
	assert.Contains(t, neighborhoodCypher(9), "[*1..5]")
}

func TestNeighborhood_ClampsDepthInQuery(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{{rootRecord()}}}
	reader := newTestReader(runner)

	_, err := reader.Neighborhood(context.Background(), "b1", 9)

	require.NoError(t, err)
	require.Len(t, runner.cyphers, 2, "root lookup then traversal")
	assert.Contains(t, runner.cyphers[1], "[*1..5]")
	assert.Equal(t, "b1", runner.params[1]["book_id"])
}

// ===== Missing Root =====

func TestNeighborhood_MissingRootIsNotFound(t *testing.T) {
	runner := &fakeRunner{}
	reader := newTestReader(runner)

	_, err := reader.Neighborhood(context.Background(), "ghost", 2)

	require.Error(t, err)
	assert.Equal(t, apierrors.ErrCodeNotFound, apierrors.GetCode(err))
	assert.Equal(t, http.StatusNotFound, apierrors.HTTPStatus(err))
	assert.Len(t, runner.cyphers, 1, "traversal must not run without a root")
}

func TestNeighborhood_LookupErrorPropagates(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection reset")}
	reader := newTestReader(runner)

	_, err := reader.Neighborhood(context.Background(), "b1", 1)

	require.Error(t, err)
	assert.Equal(t, apierrors.ErrCodeGraphQuery, apierrors.GetCode(err))
}

// ===== Subgraph Assembly =====

func TestNeighborhood_BuildsNodesAndRelationships(t *testing.T) {
	related := record(
		"source_id", "b1",
		"target_id", "b2", "target_title", "Hyperion", "target_author", "Dan Simmons",
		"target_categories", []any{"Science Fiction"}, "target_rating", int64(4),
		"target_year", int64(1989), "target_description", "Pilgrimage to the Shrike",
		"rel_types", []any{RelSimilarTo}, "weights", []any{0.9})
	runner := &fakeRunner{results: [][]*neo4j.Record{{rootRecord()}, {related}}}
	reader := newTestReader(runner)

	got, err := reader.Neighborhood(context.Background(), "b1", 1)

	require.NoError(t, err)
	assert.Len(t, got.Nodes, 2)
	require.Len(t, got.Relationships, 1)

	rel := got.Relationships[0]
	assert.Equal(t, "b1", rel.FromID)
	assert.Equal(t, "b2", rel.ToID)
	assert.Equal(t, RelSimilarTo, rel.RelationType)
	assert.Equal(t, 0.9, rel.Weight)

	byID := map[string]BookNode{}
	for _, n := range got.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "Dune", byID["b1"].Title)
	assert.Equal(t, "Hyperion", byID["b2"].Title)
	assert.Equal(t, 4.0, byID["b2"].Rating, "integer ratings coerce to float")
	assert.Equal(t, 1989, byID["b2"].Year)
}

// ===== Similar Books =====

func TestSimilarBooks_QueriesSimilarityEdges(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{{
		record("id", "b2", "title", "Hyperion", "rating", 4.3),
		record("id", "b3", "title", "Foundation", "rating", 4.1),
	}}}
	reader := newTestReader(runner)

	got, err := reader.SimilarBooks(context.Background(), "b1", 25)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Hyperion", got[0].Title)
	assert.Contains(t, runner.cyphers[0], RelSimilarTo)
	assert.Equal(t, 25, runner.params[0]["limit"])
}

func TestSimilarBooks_ClampsLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultLimit},
		{-1, DefaultLimit},
		{500, MaxLimit},
	}

	for _, tt := range tests {
		runner := &fakeRunner{}
		reader := newTestReader(runner)

		_, err := reader.SimilarBooks(context.Background(), "b1", tt.limit)

		require.NoError(t, err)
		assert.Equal(t, tt.want, runner.params[0]["limit"], "limit %d", tt.limit)
	}
}

// ===== Title Search =====

func TestSearchBooks_PassesPatternAndLimit(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{{
		record("id", "b1", "title", "Dune", "rating", 4.5),
	}}}
	reader := newTestReader(runner)

	got, err := reader.SearchBooks(context.Background(), "dune", 700)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, "dune", runner.params[0]["pattern"])
	assert.Equal(t, MaxLimit, runner.params[0]["limit"])
}

func TestSearchBooks_EmptyResult(t *testing.T) {
	reader := newTestReader(&fakeRunner{})

	got, err := reader.SearchBooks(context.Background(), "nothing", 5)

	require.NoError(t, err)
	assert.Empty(t, got)
}

// ===== Stats =====

func TestStats_CountsBooksAndRelationships(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{
		{record("count", int64(1200))},
		{record("count", int64(5400))},
	}}
	reader := newTestReader(runner)

	got, err := reader.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1200, got.TotalBooks)
	assert.Equal(t, 5400, got.TotalRelationships)
}

// ===== Record Decoding =====

func TestNodeFromRecord_MissingFieldsReadAsZero(t *testing.T) {
	node := nodeFromRecord(record("id", "b9", "title", "Sparse"), "")

	assert.Equal(t, "b9", node.ID)
	assert.Equal(t, "Sparse", node.Title)
	assert.Empty(t, node.Author)
	assert.Empty(t, node.Categories)
	assert.Zero(t, node.Rating)
	assert.Zero(t, node.Year)
}

func TestNodeFromRecord_SkipsNonStringCategories(t *testing.T) {
	node := nodeFromRecord(record("id", "b1", "categories", []any{"Fantasy", int64(7), "Epic"}), "")

	assert.Equal(t, []string{"Fantasy", "Epic"}, node.Categories)
}
