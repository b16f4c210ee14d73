package pgpool

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Config carries the connection and pool tuning parameters.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string

	MaxConns    int
	IdleTimeout time.Duration
	MaxLifetime time.Duration
}

// ConnString assembles the lib/pq connection string. The schema goes into
// search_path so the admin views and routines resolve without qualification.
func (c Config) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=%s,public",
		c.Host, c.Port, c.User, c.Password, c.Database, c.Schema)
}

// New opens and verifies the connection pool. The pool is the only shared
// mutable resource in the process: each request borrows one connection for
// the duration of its single query and returns it immediately after.
func New(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Dynamic tuning of the underlying pool
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 16
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}
	if cfg.IdleTimeout > 0 {
		db.SetConnMaxIdleTime(cfg.IdleTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
