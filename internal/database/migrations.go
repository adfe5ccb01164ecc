package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// gooseRunContext is a seam for testing goose.RunContext.
var gooseRunContext = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
	return goose.RunContext(ctx, command, db, dir, args...)
}

// MigrationsDir returns the embedded directory holding the migrations
// for dbType, and the goose dialect to run them with.
func MigrationsDir(dbType string) (dir, dialect string, err error) {
	switch dbType {
	case TypeSQLite, "":
		return "migrations/sqlite", "sqlite3", nil
	case TypePostgres:
		return "migrations/postgres", "postgres", nil
	case TypePgx:
		return "migrations/postgres", "pgx", nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// RunMigrations applies every pending migration.
func RunMigrations(ctx context.Context, db *sql.DB, dbType string, logger logging.Logger) error {
	return Migrate(ctx, db, dbType, "up", logger)
}

// Migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations for dbType.
func Migrate(ctx context.Context, db *sql.DB, dbType, command string, logger logging.Logger) error {
	dir, dialect, err := MigrationsDir(dbType)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&gooseLogger{ctx: ctx, l: logger})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info(ctx, "running migrations", "command", command, "dialect", dialect)
	if err := gooseRunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("migrations %s: %w", command, err)
	}
	return nil
}

// gooseLogger adapts logging.Logger to goose.Logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.l.Info(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}
