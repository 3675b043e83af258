package score

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `
CREATE TABLE IF NOT EXISTS best_scores (
	profile    text PRIMARY KEY,
	score      integer NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Updates only when the new score is higher.
const upsertBest = `
INSERT INTO best_scores (profile, score, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (profile) DO UPDATE
	SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
	WHERE best_scores.score < EXCLUDED.score`

// PostgresStore keeps best scores in a best_scores table.
type PostgresStore struct {
	pool    *pgxpool.Pool
	profile string
}

// NewPostgresStore connects, verifies the connection and creates the table
// if needed.
func NewPostgresStore(ctx context.Context, dsn, profile string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to score database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping score database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create best_scores table: %w", err)
	}
	return &PostgresStore{pool: pool, profile: profile}, nil
}

func (s *PostgresStore) Read(ctx context.Context) (int, error) {
	var best int
	err := s.pool.QueryRow(ctx, `SELECT score FROM best_scores WHERE profile = $1`, s.profile).Scan(&best)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	return best, nil
}

func (s *PostgresStore) WriteIfHigher(ctx context.Context, score int) (bool, error) {
	tag, err := s.pool.Exec(ctx, upsertBest, s.profile, score)
	if err != nil {
		return false, fmt.Errorf("write best score: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
