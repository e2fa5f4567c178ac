package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS client_storage (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// Postgres keeps keys in the client_storage table. It uses pgx directly,
// without an ORM.
type Postgres struct {
	db        *pgxpool.Pool
	namespace string
}

// NewPostgres wraps a pool. Call EnsureSchema once before first use.
func NewPostgres(db *pgxpool.Pool, namespace string) *Postgres {
	return &Postgres{db: db, namespace: namespace}
}

// EnsureSchema creates the client_storage table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create client_storage: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.db.QueryRow(ctx,
		`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`,
		p.namespace, key,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO client_storage (namespace, key, value, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		p.namespace, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx,
		`DELETE FROM client_storage WHERE namespace = $1 AND key = $2`,
		p.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
