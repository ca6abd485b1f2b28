// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/unclebandit/relief-campaign/internal/config"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB is the contact store connection
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured driver and pings it
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var (
		conn    *sql.DB
		dialect Dialect
		err     error
	)

	switch Dialect(cfg.Driver) {
	case Postgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires database.dsn")
		}
		conn, err = sql.Open("postgres", cfg.DSN)
		dialect = Postgres
	case SQLite, "":
		conn, err = sql.Open("sqlite", cfg.Path)
		dialect = SQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// one connection keeps ":memory:" databases shared and serialises writers
		conn.SetMaxOpenConns(1)
	} else if cfg.MaxConnections > 0 {
		conn.SetMaxOpenConns(cfg.MaxConnections)
		conn.SetMaxIdleConns(cfg.MaxConnections / 4)
		conn.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: conn, Dialect: dialect}, nil
}

// HealthCheck verifies the connection is usable
func (d *DB) HealthCheck(ctx context.Context) error {
	return d.PingContext(ctx)
}
