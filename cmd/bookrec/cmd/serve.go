package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hari2309s/recommend-a-book-sub000/internal/config"
	"github.com/hari2309s/recommend-a-book-sub000/internal/embed"
	"github.com/hari2309s/recommend-a-book-sub000/internal/explain"
	"github.com/hari2309s/recommend-a-book-sub000/internal/graph"
	"github.com/hari2309s/recommend-a-book-sub000/internal/history"
	"github.com/hari2309s/recommend-a-book-sub000/internal/logging"
	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
	"github.com/hari2309s/recommend-a-book-sub000/internal/recommend"
	"github.com/hari2309s/recommend-a-book-sub000/internal/search"
	"github.com/hari2309s/recommend-a-book-sub000/internal/server"
	"github.com/hari2309s/recommend-a-book-sub000/internal/vector"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var configPath string
	var port int
	var prewarm bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recommendation API server",
		Long: `Start the HTTP server that serves book recommendations, search history,
and the book graph API. Configuration comes from a YAML file and
BOOKREC_* environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath, port, prewarm)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the listen port")
	cmd.Flags().BoolVar(&prewarm, "prewarm", true, "Warm the pipeline on startup")

	return cmd
}

func runServe(ctx context.Context, configPath string, portOverride int, prewarm bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Server.LogLevel,
		WriteToStderr: true,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder := embed.NewCached(embed.NewHuggingFace(embed.HuggingFaceConfig{
		BaseURL:        cfg.Embeddings.Endpoint,
		Model:          cfg.Embeddings.Model,
		APIKey:         cfg.Embeddings.APIKey,
		Dimensions:     cfg.Embeddings.Dimensions,
		ConnectTimeout: cfg.Embeddings.ConnectTimeout,
		RequestTimeout: cfg.Embeddings.RequestTimeout,
	}, logger), cfg.Embeddings.CacheSize)

	index := vector.NewPinecone(vector.PineconeConfig{
		BaseURL:    cfg.Vector.BaseURL,
		APIKey:     cfg.Vector.APIKey,
		Namespace:  cfg.Vector.Namespace,
		Dimensions: cfg.Embeddings.Dimensions,
		Timeout:    cfg.Vector.Timeout,
	}, logger)

	enhancer := query.NewEnhancer(cfg.Caches.IntentTTL, query.DefaultIntentCapacity)
	explainer := explain.NewGenerator(cfg.Caches.ExplanationTTL, explain.DefaultCapacity, logger)
	engine := search.NewEngine(index, embedder, logger)

	service := recommend.NewService(enhancer, engine, explainer, index, embedder, recommend.Options{
		DefaultTopK: cfg.Search.DefaultTopK,
		MaxTopK:     cfg.Search.MaxTopK,
		ResultTTL:   cfg.Caches.ResultTTL,
	}, logger)

	// History and graph are optional: the core recommendation API works
	// without either backing store.
	var store history.Store
	if cfg.History.DatabaseURL != "" {
		pg, err := history.NewPostgres(ctx, cfg.History.DatabaseURL, cfg.History.MaxConns, cfg.History.ConnectTimeout)
		if err != nil {
			logger.Warn("search history disabled", "error", err)
		} else {
			defer pg.Close()
			store = pg
		}
	}

	var reader graph.Reader
	if cfg.Graph.URI != "" {
		neo, err := graph.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, logger)
		if err != nil {
			logger.Warn("book graph disabled", "error", err)
		} else {
			defer neo.Close(context.Background())
			reader = neo
		}
	}

	if prewarm {
		go func() {
			if _, err := service.Prewarm(ctx); err != nil {
				logger.Warn("prewarm failed", "error", err)
			}
		}()
	}

	srv := server.New(server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, service, store, reader, logger)

	return srv.Run(ctx)
}
