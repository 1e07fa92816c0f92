// Package server exposes the recommendation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/hari2309s/recommend-a-book-sub000/internal/graph"
	"github.com/hari2309s/recommend-a-book-sub000/internal/history"
	"github.com/hari2309s/recommend-a-book-sub000/internal/recommend"
)

// Timeouts for the HTTP server.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures the HTTP server.
type Config struct {
	Host string
	Port int
}

// Server serves the recommendation API.
type Server struct {
	cfg     Config
	service *recommend.Service
	store   history.Store
	graph   graph.Reader
	logger  *slog.Logger
	httpSrv *http.Server
}

// New builds a Server. The history store and graph reader may be nil; their
// routes then report the feature as unavailable.
func New(cfg Config, service *recommend.Service, store history.Store, reader graph.Reader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		service: service,
		store:   store,
		graph:   reader,
		logger:  logger,
	}
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recommendations", s.handleRecommend).Methods(http.MethodPost)
	api.HandleFunc("/search-history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/prewarm", s.handlePrewarm).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	g := api.PathPrefix("/graph").Subrouter()
	g.HandleFunc("/book", s.handleGraphBook).Methods(http.MethodGet)
	g.HandleFunc("/similar", s.handleGraphSimilar).Methods(http.MethodGet)
	g.HandleFunc("/search", s.handleGraphSearch).Methods(http.MethodGet)
	g.HandleFunc("/stats", s.handleGraphStats).Methods(http.MethodGet)

	router.Use(s.logRequests)
	return router
}

// Run starts the server and blocks until the context is cancelled or the
// listener fails. Shutdown drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
