package toggle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps switches in a shared database so every bot instance sees
// the same settings.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a pgx pool and the toggle table.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("toggle: database url is required")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("toggle: parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("toggle: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("toggle: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS feature_toggles (
		toggle_key INTEGER PRIMARY KEY,
		enabled    BOOLEAN NOT NULL DEFAULT FALSE
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("toggle: init schema: %w", err)
	}

	slog.Info("toggle postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Enabled(ctx context.Context, key int) (bool, error) {
	var on bool
	err := p.pool.QueryRow(ctx, `SELECT enabled FROM feature_toggles WHERE toggle_key = $1`, key).Scan(&on)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("toggle: query %d: %w", key, err)
	}
	return on, nil
}

func (p *Postgres) Set(ctx context.Context, key int, on bool) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO feature_toggles (toggle_key, enabled) VALUES ($1, $2)
		 ON CONFLICT (toggle_key) DO UPDATE SET enabled = EXCLUDED.enabled`, key, on)
	if err != nil {
		return fmt.Errorf("toggle: set %d: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() { p.pool.Close() }
