package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// schema is the reference DDL, kept in sync with db/schema.sql. The primary
// key on users.username is what makes concurrent duplicate registration
// yield exactly one success.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username      VARCHAR(100) PRIMARY KEY,
    password_hash VARCHAR(256) NOT NULL,
    role          VARCHAR(20)  NOT NULL
);

CREATE TABLE IF NOT EXISTS policies (
    id      BIGSERIAL    PRIMARY KEY,
    name    VARCHAR(200) NOT NULL,
    details TEXT,
    owner   VARCHAR(100) NOT NULL
);
`

// Bootstrap creates the tables if they do not exist. Safe to run on every
// startup.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("bootstrapping schema: %w", err)
	}
	return nil
}
