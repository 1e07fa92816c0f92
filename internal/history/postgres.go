package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hari2309s/recommend-a-book-sub000/internal/books"
	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
)

// DefaultListLimit bounds history listings when the caller passes none.
const DefaultListLimit = 20

// MaxListLimit caps history listings.
const MaxListLimit = 100

// PostgresStore persists search history in Postgres. Recommendations are
// stored as a JSONB snapshot of what the user was actually shown.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a history store to the given database.
func NewPostgres(ctx context.Context, databaseURL string, maxConns int32, connectTimeout time.Duration) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeConfigInvalid, "parse history database URL")
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	if connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeHistorySave, "connect history database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apierrors.Wrap(err, apierrors.ErrCodeHistorySave, "ping history database")
	}
	return &PostgresStore{pool: pool}, nil
}

// Save records a search and its results for the user.
func (s *PostgresStore) Save(ctx context.Context, userID uuid.UUID, query string, recommendations []books.Book) error {
	payload, err := json.Marshal(recommendations)
	if err != nil {
		return apierrors.Wrap(err, apierrors.ErrCodeSerialization, "encode recommendations")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO search_history (id, user_id, query, recommendations, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), userID, query, payload)
	if err != nil {
		return apierrors.Wrap(err, apierrors.ErrCodeHistorySave, "save search history")
	}
	return nil
}

// List returns the user's most recent searches, newest first.
func (s *PostgresStore) List(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, query, recommendations, created_at
		 FROM search_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeHistoryQuery, "query search history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &payload, &e.CreatedAt); err != nil {
			return nil, apierrors.Wrap(err, apierrors.ErrCodeHistoryQuery, "scan history row")
		}
		if err := json.Unmarshal(payload, &e.Recommendations); err != nil {
			return nil, apierrors.Wrap(err, apierrors.ErrCodeSerialization, "decode history recommendations")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrCodeHistoryQuery, "iterate history rows")
	}
	return entries, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ensure PostgresStore implements the Store interface.
var _ Store = (*PostgresStore)(nil)
