package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
)

// Pinecone query constants.
const (
	// DefaultTimeout bounds each index query.
	DefaultTimeout = 15 * time.Second

	// metadataCandidateMultiplier widens the candidate pull for partial
	// metadata matches, which are filtered client-side since the index
	// only supports equality filters.
	metadataCandidateMultiplier = 10

	// maxCandidates caps a single candidate pull.
	maxCandidates = 1000
)

// PineconeConfig holds configuration for the Pinecone-backed index.
type PineconeConfig struct {
	// BaseURL is the index endpoint.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Namespace scopes all queries. Empty uses the default namespace.
	Namespace string

	// Dimensions is the index vector length, used for the zero-vector
	// probe behind metadata-only queries.
	Dimensions int

	// Timeout bounds each query.
	Timeout time.Duration
}

// Pinecone queries a Pinecone index over its REST API.
type Pinecone struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	namespace  string
	dimensions int
	logger     *slog.Logger
}

// NewPinecone creates an index client for the configured endpoint.
func NewPinecone(cfg PineconeConfig, logger *slog.Logger) *Pinecone {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pinecone{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		namespace:  cfg.Namespace,
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

type queryRequest struct {
	Namespace       string         `json:"namespace,omitempty"`
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeValues   bool           `json:"includeValues"`
	IncludeMetadata bool           `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type queryMatch struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"`
	Metadata json.RawMessage `json:"metadata"`
}

// QueryByVector returns the topK nearest books to the given embedding.
func (p *Pinecone) QueryByVector(ctx context.Context, vec []float32, topK int) ([]books.Book, error) {
	resp, err := p.query(ctx, queryRequest{
		Namespace:       p.namespace,
		Vector:          vec,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	return p.decodeMatches(resp.Matches), nil
}

// QueryByMetadata returns up to topK books matching the metadata field.
// Exact matches use the index's equality filter. Partial matches pull a
// wider candidate set with a zero-vector probe and filter client-side,
// since the index has no substring operator.
func (p *Pinecone) QueryByMetadata(ctx context.Context, field, value string, exact bool, topK int) ([]books.Book, error) {
	req := queryRequest{
		Namespace:       p.namespace,
		Vector:          make([]float32, p.dimensions),
		TopK:            topK,
		IncludeMetadata: true,
	}
	if exact {
		req.Filter = map[string]any{field: map[string]any{"$eq": value}}
	} else {
		req.TopK = topK * metadataCandidateMultiplier
		if req.TopK > maxCandidates {
			req.TopK = maxCandidates
		}
	}

	resp, err := p.query(ctx, req)
	if err != nil {
		return nil, err
	}

	results := p.decodeMatches(resp.Matches)
	if exact {
		return results, nil
	}

	needle := strings.ToLower(value)
	filtered := make([]books.Book, 0, topK)
	for _, b := range results {
		if bookFieldContains(b, field, needle) {
			filtered = append(filtered, b)
			if len(filtered) >= topK {
				break
			}
		}
	}
	return filtered, nil
}

func (p *Pinecone) query(ctx context.Context, req queryRequest) (*queryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeSerialization, "encode index query")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeInternal, "build index request")
	}
	httpReq.Header.Set("Api-Key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeVectorIndex, "vector index query")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apierrors.New(apierrors.ErrCodeVectorIndex,
			fmt.Sprintf("vector index returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeSerialization, "decode index response")
	}
	return &out, nil
}

// decodeMatches converts raw matches to books, skipping records whose
// metadata does not decode.
func (p *Pinecone) decodeMatches(matches []queryMatch) []books.Book {
	out := make([]books.Book, 0, len(matches))
	for _, m := range matches {
		// Absent metadata arrives as the JSON null token, which unmarshals
		// into an empty book without error. Treat it as a skip.
		if len(m.Metadata) == 0 || string(m.Metadata) == "null" {
			continue
		}
		var b books.Book
		if err := json.Unmarshal(m.Metadata, &b); err != nil {
			p.logger.Warn("skipping malformed index record", "id", m.ID, "error", err)
			continue
		}
		if b.ID == "" {
			b.ID = m.ID
		}
		out = append(out, b)
	}
	return out
}

// bookFieldContains checks the named metadata field for a lower-cased needle.
func bookFieldContains(b books.Book, field, needle string) bool {
	switch field {
	case "author":
		return strings.Contains(strings.ToLower(b.Author), needle)
	case "title":
		return strings.Contains(strings.ToLower(b.Title), needle)
	case "description":
		return strings.Contains(strings.ToLower(b.Description), needle)
	case "categories":
		for _, c := range b.Categories {
			if strings.Contains(strings.ToLower(c), needle) {
				return true
			}
		}
		return false
	case "rating":
		return fmt.Sprintf("%.1f", b.Rating) == needle
	case "year":
		return fmt.Sprintf("%d", b.Year) == needle
	default:
		return false
	}
}

// Ensure Pinecone implements the Index interface.
var _ Index = (*Pinecone)(nil)
