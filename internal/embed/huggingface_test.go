package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbedderServer(t *testing.T, handler http.HandlerFunc) *HuggingFaceEmbedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHuggingFace(HuggingFaceConfig{
		BaseURL:    srv.URL,
		Model:      "test-model",
		APIKey:     "hf_token",
		Dimensions: 4,
	}, nil)
}

func TestHuggingFace_EmbedFlatVector(t *testing.T) {
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model", r.URL.Path)
		assert.Equal(t, "Bearer hf_token", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Inputs)
		assert.True(t, req.Options.WaitForModel)

		_ = json.NewEncoder(w).Encode([]float32{0.1, 0.2, 0.3, 0.4})
	})

	vec, err := e.Embed(context.Background(), "hello world")

	require.NoError(t, err)
	assert.Len(t, vec, 4)
}

func TestHuggingFace_EmbedNestedVector(t *testing.T) {
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([][]float32{{0.1, 0.2, 0.3, 0.4}})
	})

	vec, err := e.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Len(t, vec, 4)
}

func TestHuggingFace_ResizesMismatchedOutput(t *testing.T) {
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		out := make([]float32, 8)
		for i := range out {
			out[i] = 0.5
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	vec, err := e.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Len(t, vec, 4, "oversized model output is reduced to the target dimension")
}

func TestHuggingFace_NormalizesInputText(t *testing.T) {
	var received string
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		received = req.Inputs
		_ = json.NewEncoder(w).Encode([]float32{1, 0, 0, 0})
	})

	_, err := e.Embed(context.Background(), "  spaced\t\nout \x00 text  ")

	require.NoError(t, err)
	assert.Equal(t, "spaced out text", received)
}

func TestHuggingFace_EmptyTextIsAnError(t *testing.T) {
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the API")
	})

	_, err := e.Embed(context.Background(), "   \t ")

	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
}

func TestHuggingFace_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusGatewayTimeout, KindTimeout},
		{http.StatusInternalServerError, KindOther},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := e.Embed(context.Background(), "hello")

			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestHuggingFace_EmptyEmbeddingIsAnError(t *testing.T) {
	e := newEmbedderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]float32{})
	})

	_, err := e.Embed(context.Background(), "hello")
	require.Error(t, err)
}
