package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MediSynth-io/todos/internal/api"
	"github.com/MediSynth-io/todos/internal/auth"
	"github.com/MediSynth-io/todos/internal/config"
	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/services"
	"github.com/MediSynth-io/todos/internal/store"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

// initializeAPI wires config, logger, database, stores, services and the
// HTTP boundary, in that order. The returned func closes the database.
func initializeAPI(ctx context.Context, configPath string) (*api.Api, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "starting todos API", "version", version, "config", cfg.ConfigFileUsed, "environment", cfg.Environment)

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }

	if err := database.RunMigrations(ctx, db, cfg.Database.Type, logger); err != nil {
		cleanup()
		return nil, nil, err
	}

	st := store.New(db)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	userSvc := services.NewUserService(st.Users, hasher, logger)
	authSvc, err := services.NewAuthService(userSvc, st.Sessions, tokens, hasher, services.AuthConfig{
		SessionTTL:    cfg.Auth.SessionTTL,
		RememberMeTTL: cfg.Auth.RememberMeTTL,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	todoSvc := services.NewTodoService(st.Todos, st, logger)
	sweeper := services.NewSessionSweeper(st.Sessions, cfg.Auth.SessionCleanupInterval, logger)

	a, err := api.NewApi(cfg, authSvc, userSvc, todoSvc, sweeper, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return a, cleanup, nil
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := initializeAPI(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	return a.Serve(ctx)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
