package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Default HuggingFace inference configuration.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultModel   = "sentence-transformers/all-MiniLM-L6-v2"
)

// HuggingFaceConfig holds configuration for the inference API embedder.
type HuggingFaceConfig struct {
	// BaseURL is the inference API base URL (default: the public endpoint).
	BaseURL string

	// Model is the sentence-embedding model identifier.
	Model string

	// APIKey is the bearer token for the API.
	APIKey string

	// Dimensions is the target vector length. Raw model output is resized
	// to this length when it differs.
	Dimensions int

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// RequestTimeout bounds the whole request.
	RequestTimeout time.Duration
}

// DefaultHuggingFaceConfig returns sensible defaults for the embedder.
func DefaultHuggingFaceConfig() HuggingFaceConfig {
	return HuggingFaceConfig{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		Dimensions:     DefaultDimensions,
		ConnectTimeout: DefaultConnectTimeout,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// HuggingFaceEmbedder generates embeddings through the HuggingFace inference
// API. Transport failures are classified into error kinds here, at the
// boundary, so the search layer never inspects error text.
type HuggingFaceEmbedder struct {
	client     *http.Client
	modelURL   string
	model      string
	apiKey     string
	dimensions int
	logger     *slog.Logger
}

// NewHuggingFace creates an embedder for the configured model.
func NewHuggingFace(cfg HuggingFaceConfig, logger *slog.Logger) *HuggingFaceEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		MaxIdleConnsPerHost: 10,
	}
	return &HuggingFaceEmbedder{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		modelURL:   fmt.Sprintf("%s/models/%s", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

type embedRequest struct {
	Inputs  string       `json:"inputs"`
	Options embedOptions `json:"options"`
}

type embedOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

// Embed generates an embedding for the given text. The raw vector is resized
// to the configured dimension when the model emits a different length.
func (h *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = normalizeText(text)
	if text == "" {
		return nil, &Error{Kind: KindOther, Model: h.model, Err: errors.New("empty text")}
	}

	body, err := json.Marshal(embedRequest{
		Inputs:  text,
		Options: embedOptions{WaitForModel: true, UseCache: true},
	})
	if err != nil {
		return nil, &Error{Kind: KindOther, Model: h.model, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.modelURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindOther, Model: h.model, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, h.classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, h.classifyStatus(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, h.classifyTransportErr(err)
	}

	vec, err := decodeVector(raw)
	if err != nil {
		return nil, &Error{Kind: KindOther, Model: h.model, Err: err}
	}

	h.logger.Debug("embedding generated",
		"model", h.model,
		"raw_dimensions", len(vec),
		"duration_ms", time.Since(start).Milliseconds())

	return Resize(vec, h.dimensions), nil
}

// Dimensions returns the configured target dimension.
func (h *HuggingFaceEmbedder) Dimensions() int { return h.dimensions }

// ModelName returns the model identifier.
func (h *HuggingFaceEmbedder) ModelName() string { return h.model }

// classifyTransportErr assigns an error kind based on the transport failure.
func (h *HuggingFaceEmbedder) classifyTransportErr(err error) error {
	kind := KindOther
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}
	return &Error{Kind: kind, Model: h.model, Err: err}
}

// classifyStatus assigns an error kind based on the HTTP status.
func (h *HuggingFaceEmbedder) classifyStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	kind := KindOther
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindAuth
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	case http.StatusGatewayTimeout:
		kind = KindTimeout
	}
	return &Error{
		Kind:  kind,
		Model: h.model,
		Err:   fmt.Errorf("inference API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
	}
}

// decodeVector parses the inference response, which is either a flat vector
// or a single-element batch of vectors depending on the model pipeline.
func decodeVector(raw []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) == 0 {
			return nil, errors.New("empty embedding returned")
		}
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("unexpected embedding payload: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, errors.New("empty embedding returned")
	}
	return nested[0], nil
}

// normalizeText collapses whitespace and strips control characters.
func normalizeText(text string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(clean), " ")
}

// Ensure HuggingFaceEmbedder implements the Embedder interface.
var _ Embedder = (*HuggingFaceEmbedder)(nil)
