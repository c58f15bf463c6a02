// Package store keeps an append-only journal of generated drafts in
// PostgreSQL. It is optional: the service runs without a database.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS brief_drafts (
	id             uuid PRIMARY KEY,
	session_id     text NOT NULL,
	seq            bigint NOT NULL,
	kind           text NOT NULL,
	purpose        text NOT NULL,
	recipient_role text NOT NULL,
	role_variant   text NOT NULL,
	output_locale  text NOT NULL,
	revision       text NOT NULL DEFAULT '',
	body           text NOT NULL,
	provider       text NOT NULL,
	created_at     timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS brief_drafts_session_idx ON brief_drafts (session_id, seq);
`

// Migrate creates the journal table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
