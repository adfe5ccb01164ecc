package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/MediSynth-io/todos/internal/config"
	"github.com/MediSynth-io/todos/internal/database"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	command := flag.String("command", "up", "goose command: up, down, status, reset, version")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, "text")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.Database.Type, *command, logger); err != nil {
		log.Fatalf("Migration %s failed: %v", *command, err)
	}

	logger.Info(ctx, "migration command finished", "command", *command)
}
