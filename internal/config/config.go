// Package config loads and validates service configuration.
//
// Configuration is layered:
//  1. Built-in defaults
//  2. YAML config file (optional)
//  3. Environment variables with prefix BOOKREC_ (highest priority)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Search     SearchConfig     `yaml:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Vector     VectorConfig     `yaml:"vector"`
	History    HistoryConfig    `yaml:"history"`
	Graph      GraphConfig      `yaml:"graph"`
	Caches     CachesConfig     `yaml:"caches"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// SearchConfig configures the recommendation pipeline.
type SearchConfig struct {
	// DefaultTopK is the number of results when the request omits top_k.
	DefaultTopK int `yaml:"default_top_k"`
	// MaxTopK caps the requested result count.
	MaxTopK int `yaml:"max_top_k"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Endpoint is the inference API base URL.
	Endpoint string `yaml:"endpoint"`
	// Model is the sentence-embedding model identifier.
	Model string `yaml:"model"`
	// APIKey authenticates against the inference API.
	APIKey string `yaml:"api_key"`
	// Dimensions is the target embedding dimension, shared with the vector index.
	Dimensions int `yaml:"dimensions"`
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// RequestTimeout bounds the whole embedding request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// CacheSize is the LRU cache size for query embeddings.
	CacheSize int `yaml:"cache_size"`
}

// VectorConfig configures the external vector index.
type VectorConfig struct {
	// BaseURL is the index endpoint (e.g. https://<index>.svc.<env>.pinecone.io).
	BaseURL string `yaml:"base_url"`
	// APIKey authenticates against the index.
	APIKey string `yaml:"api_key"`
	// Namespace scopes queries within the index.
	Namespace string `yaml:"namespace"`
	// Timeout bounds each index query.
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig configures the search history store.
type HistoryConfig struct {
	// DatabaseURL is the Postgres connection string. Empty disables history.
	DatabaseURL string `yaml:"database_url"`
	// MaxConns is the connection pool size.
	MaxConns int32 `yaml:"max_conns"`
	// ConnectTimeout bounds pool creation.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// GraphConfig configures the book graph store.
type GraphConfig struct {
	// URI is the Neo4j bolt URI. Empty disables the graph API.
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CachesConfig configures the TTL caches.
type CachesConfig struct {
	IntentTTL      time.Duration `yaml:"intent_ttl"`
	ResultTTL      time.Duration `yaml:"result_ttl"`
	ExplanationTTL time.Duration `yaml:"explanation_ttl"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Search: SearchConfig{
			DefaultTopK: 10,
			MaxTopK:     50,
		},
		Embeddings: EmbeddingsConfig{
			Endpoint:       "https://api-inference.huggingface.co",
			Model:          "sentence-transformers/all-MiniLM-L6-v2",
			Dimensions:     384,
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 30 * time.Second,
			CacheSize:      1000,
		},
		Vector: VectorConfig{
			Timeout: 15 * time.Second,
		},
		History: HistoryConfig{
			MaxConns:       10,
			ConnectTimeout: 30 * time.Second,
		},
		Caches: CachesConfig{
			IntentTTL:      time.Hour,
			ResultTTL:      5 * time.Minute,
			ExplanationTTL: 24 * time.Hour,
		},
	}
}

// Load reads configuration from the given YAML file (if it exists), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies BOOKREC_* environment variables on top of the
// loaded configuration. Secrets are expected to arrive this way in production.
func (c *Config) applyEnvOverrides() {
	setString(&c.Server.Host, "BOOKREC_HOST")
	setInt(&c.Server.Port, "BOOKREC_PORT")
	setString(&c.Server.LogLevel, "BOOKREC_LOG_LEVEL")

	setString(&c.Embeddings.Endpoint, "BOOKREC_EMBEDDINGS_ENDPOINT")
	setString(&c.Embeddings.Model, "BOOKREC_EMBEDDINGS_MODEL")
	setString(&c.Embeddings.APIKey, "BOOKREC_EMBEDDINGS_API_KEY")
	setInt(&c.Embeddings.Dimensions, "BOOKREC_EMBEDDINGS_DIMENSIONS")

	setString(&c.Vector.BaseURL, "BOOKREC_VECTOR_BASE_URL")
	setString(&c.Vector.APIKey, "BOOKREC_VECTOR_API_KEY")
	setString(&c.Vector.Namespace, "BOOKREC_VECTOR_NAMESPACE")

	setString(&c.History.DatabaseURL, "BOOKREC_HISTORY_DATABASE_URL")

	setString(&c.Graph.URI, "BOOKREC_GRAPH_URI")
	setString(&c.Graph.Username, "BOOKREC_GRAPH_USERNAME")
	setString(&c.Graph.Password, "BOOKREC_GRAPH_PASSWORD")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Search.DefaultTopK <= 0 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.Search.DefaultTopK)
	}
	if c.Search.MaxTopK < c.Search.DefaultTopK {
		return fmt.Errorf("max_top_k (%d) must be >= default_top_k (%d)",
			c.Search.MaxTopK, c.Search.DefaultTopK)
	}
	if c.Embeddings.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.Embeddings.Dimensions)
	}
	if c.Caches.ResultTTL <= 0 || c.Caches.IntentTTL <= 0 || c.Caches.ExplanationTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
