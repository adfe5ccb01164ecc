package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MediSynth-io/todos/internal/config"
	"github.com/MediSynth-io/todos/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
)

// Database types accepted in config.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypePgx      = "pgx"
)

// DriverName maps a configured database type to its database/sql driver.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite, "":
		return "sqlite3", nil
	case TypePostgres:
		return "postgres", nil
	case TypePgx:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// DSN builds the connection string for the configured database.
func DSN(cfg *config.Config) string {
	if cfg.Database.Type == TypeSQLite || cfg.Database.Type == "" {
		return fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", cfg.Database.Path)
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

// Open connects to the configured database, applies pool settings and
// verifies the connection. The caller owns the returned *sql.DB.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*sql.DB, error) {
	driver, err := DriverName(cfg.Database.Type)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" {
		if err := createDataDir(filepath.Dir(cfg.Database.Path)); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "opening database", "type", cfg.Database.Type, "driver", driver)

	db, err := sql.Open(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// createDataDir ensures the sqlite data directory exists.
func createDataDir(dir string) error {
	if stat, err := os.Stat(dir); err == nil {
		if !stat.IsDir() {
			return fmt.Errorf("path %s exists but is not a directory", dir)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
