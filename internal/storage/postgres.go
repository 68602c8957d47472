package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores keys in the client_state table, scoped by namespace.
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgres wraps an existing pool. The schema comes from the persistence migrations.
func NewPostgres(pool *pgxpool.Pool, namespace string) *Postgres {
	return &Postgres{pool: pool, namespace: namespace}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM client_state WHERE namespace=$1 AND key=$2`

	var value string
	if err := p.pool.QueryRow(ctx, query, p.namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO client_state (namespace, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (namespace, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	_, err := p.pool.Exec(ctx, query, p.namespace, key, value)
	return err
}

// Delete removes every key in one statement.
func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `DELETE FROM client_state WHERE namespace=$1 AND key = ANY($2)`

	_, err := p.pool.Exec(ctx, query, p.namespace, keys)
	return err
}

func (p *Postgres) Close() error { return nil }
