package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of *pgxpool.Pool the archive uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type DB struct {
	pool Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) Close() {
	db.pool.Close()
}

const migrationSQL = `
		CREATE TABLE IF NOT EXISTS round_results (
			id BIGSERIAL PRIMARY KEY,
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL DEFAULT '',
			player_name TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			round_number INTEGER NOT NULL,
			location_name TEXT NOT NULL,
			target_lat DOUBLE PRECISION NOT NULL,
			target_lng DOUBLE PRECISION NOT NULL,
			guess_lat DOUBLE PRECISION NOT NULL,
			guess_lng DOUBLE PRECISION NOT NULL,
			distance_meters DOUBLE PRECISION NOT NULL,
			points INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_round_results_game_id ON round_results(game_id);
		CREATE INDEX IF NOT EXISTS idx_round_results_player_id ON round_results(player_id);
	`

// RunMigrations runs database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
