// Package db opens the relational store and owns its schema migrations.
//
// Engine selection is environment-driven: production uses Postgres via
// DATABASE_URL, every other environment uses a local SQLite file. Both
// engines are reached through database/sql so the repositories are shared.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/taskbox/todo-api/internal/infrastructure/db/migrations"
)

const pingTimeout = 10 * time.Second

// Config captures the settings needed to open the store.
type Config struct {
	Env        string
	URL        string // Postgres DSN, used when Env == "production"
	SQLitePath string
}

// Store wraps the open connection together with its goose dialect.
type Store struct {
	DB      *sql.DB
	dialect string
	dir     string
}

// Open connects to the selected engine and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		driver, dsn, dialect, dir string
	)
	if cfg.Env == "production" {
		driver, dsn = "pgx", cfg.URL
		dialect, dir = "postgres", "postgres"
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		driver, dsn = "sqlite3", "file:"+cfg.SQLitePath+"?_fk=1"
		dialect, dir = "sqlite3", "sqlite"
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &Store{DB: conn, dialect: dialect, dir: dir}, nil
}

// Migrate brings the schema up to date using the embedded goose migrations
// for the active engine.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.DB, s.dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
