package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
)

func metadata(t *testing.T, b map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	return raw
}

func newIndexServer(t *testing.T, handle func(queryRequest) queryResponse) (*httptest.Server, *Pinecone) {
	t.Helper()
	var lastReq queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		_ = json.NewEncoder(w).Encode(handle(lastReq))
	}))
	t.Cleanup(srv.Close)

	p := NewPinecone(PineconeConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Dimensions: 4,
	}, nil)
	return srv, p
}

func TestQueryByVector_DecodesMatches(t *testing.T) {
	_, p := newIndexServer(t, func(req queryRequest) queryResponse {
		return queryResponse{Matches: []queryMatch{
			{ID: "v1", Score: 0.9, Metadata: metadata(t, map[string]any{
				"title": "Dune", "author": "Frank Herbert", "rating": "4.5",
			})},
			{ID: "v2", Score: 0.8, Metadata: metadata(t, map[string]any{
				"title": "Hyperion", "rating": 4.3,
			})},
		}}
	})

	got, err := p.QueryByVector(context.Background(), []float32{1, 0, 0, 0}, 5)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v1", got[0].ID, "missing metadata id backfills from the match")
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, 4.5, got[0].Rating, "string rating coerced")
}

func TestQueryByVector_SkipsMalformedRecords(t *testing.T) {
	_, p := newIndexServer(t, func(req queryRequest) queryResponse {
		return queryResponse{Matches: []queryMatch{
			{ID: "bad", Metadata: json.RawMessage(`"not an object"`)},
			{ID: "empty"},
			{ID: "null-token", Metadata: json.RawMessage(`null`)},
			{ID: "ok", Metadata: metadata(t, map[string]any{"title": "Fine"})},
		}}
	})

	got, err := p.QueryByVector(context.Background(), []float32{1, 0, 0, 0}, 5)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestQueryByMetadata_ExactUsesEqualityFilter(t *testing.T) {
	var captured queryRequest
	_, p := newIndexServer(t, func(req queryRequest) queryResponse {
		captured = req
		return queryResponse{}
	})

	_, err := p.QueryByMetadata(context.Background(), "author", "Frank Herbert", true, 5)

	require.NoError(t, err)
	require.NotNil(t, captured.Filter)
	cond, ok := captured.Filter["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Frank Herbert", cond["$eq"])
	assert.Equal(t, 5, captured.TopK)
	assert.Len(t, captured.Vector, 4, "zero-vector probe matches index dimensions")
}

func TestQueryByMetadata_PartialFiltersClientSide(t *testing.T) {
	var captured queryRequest
	_, p := newIndexServer(t, func(req queryRequest) queryResponse {
		captured = req
		return queryResponse{Matches: []queryMatch{
			{ID: "1", Metadata: metadata(t, map[string]any{"author": "Frank Herbert"})},
			{ID: "2", Metadata: metadata(t, map[string]any{"author": "Dan Simmons"})},
			{ID: "3", Metadata: metadata(t, map[string]any{"author": "HERBERT Frank"})},
		}}
	})

	got, err := p.QueryByMetadata(context.Background(), "author", "herbert", false, 5)

	require.NoError(t, err)
	assert.Nil(t, captured.Filter, "partial match sends no index filter")
	assert.Equal(t, 50, captured.TopK, "candidate pull is widened")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestQueryByMetadata_CandidatePullIsCapped(t *testing.T) {
	var captured queryRequest
	_, p := newIndexServer(t, func(req queryRequest) queryResponse {
		captured = req
		return queryResponse{}
	})

	_, err := p.QueryByMetadata(context.Background(), "title", "dune", false, 500)

	require.NoError(t, err)
	assert.Equal(t, maxCandidates, captured.TopK)
}

func TestQuery_ErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	p := NewPinecone(PineconeConfig{BaseURL: srv.URL, APIKey: "k", Dimensions: 4}, nil)

	_, err := p.QueryByVector(context.Background(), []float32{1, 0, 0, 0}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestBookFieldContains(t *testing.T) {
	b := books.Book{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Description: "An envoy visits a wintry planet",
		Categories:  []string{"Science Fiction"},
		Rating:      4.2,
		Year:        1969,
	}

	assert.True(t, bookFieldContains(b, "title", "darkness"))
	assert.True(t, bookFieldContains(b, "author", "le guin"))
	assert.True(t, bookFieldContains(b, "description", "wintry"))
	assert.True(t, bookFieldContains(b, "categories", "science"))
	assert.True(t, bookFieldContains(b, "rating", "4.2"))
	assert.True(t, bookFieldContains(b, "year", "1969"))
	assert.False(t, bookFieldContains(b, "title", "sunlight"))
	assert.False(t, bookFieldContains(b, "unknown", "anything"))
}
