// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"

	_ "github.com/lib/pq"
)

// recordTables holds the demand and supply record tables read by the
// introduction workers. Signals and metadata are stored as JSONB.
const recordTables = `
CREATE TABLE IF NOT EXISTS demand_records (
	id         BIGSERIAL PRIMARY KEY,
	segment    TEXT        NOT NULL,
	domain     TEXT        NOT NULL DEFAULT '',
	company    TEXT        NOT NULL,
	contact    TEXT        NOT NULL DEFAULT '',
	email      TEXT        NOT NULL DEFAULT '',
	title      TEXT        NOT NULL DEFAULT '',
	industry   TEXT        NOT NULL DEFAULT '',
	signals    JSONB       NOT NULL DEFAULT '[]',
	metadata   JSONB       NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS demand_records_segment_idx ON demand_records (segment);

CREATE TABLE IF NOT EXISTS supply_records (
	id             BIGSERIAL PRIMARY KEY,
	segment        TEXT        NOT NULL,
	domain         TEXT        NOT NULL DEFAULT '',
	company        TEXT        NOT NULL,
	contact        TEXT        NOT NULL DEFAULT '',
	email          TEXT        NOT NULL DEFAULT '',
	title          TEXT        NOT NULL DEFAULT '',
	capability     TEXT        NOT NULL DEFAULT '',
	target_profile TEXT        NOT NULL DEFAULT '',
	metadata       JSONB       NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS supply_records_segment_idx ON supply_records (segment);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the record tables when they are missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, recordTables); err != nil {
		return fmt.Errorf("failed to create record tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
