package storage

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventdesk/internal/database"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Namespace   string
	Path        string
	RedisURL    string
	DatabaseURL string
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("storage: file driver needs a path")
		}
		return NewFile(opts.Path, opts.Namespace), nil
	case DriverRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("storage: redis driver needs a url")
		}
		return OpenRedis(ctx, opts.RedisURL, opts.Namespace)
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("storage: postgres driver needs a database url")
		}
		pool, err := database.NewPool(ctx, opts.DatabaseURL, database.Options{})
		if err != nil {
			return nil, err
		}
		pg := NewPostgres(pool, opts.Namespace)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
