package main

import (
	"context"
	"log"
	"os"

	"github.com/mangrove-registry/config"
	"github.com/mangrove-registry/database"
	"github.com/mangrove-registry/lib/logger"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	zl, err := logger.New(config.GetEnv("APP_ENV", "development"), config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting database migration")

	// Source and target accept a postgres URL or sqlite:<path>
	sourceDBURL := os.Getenv("SOURCE_DATABASE_URL")
	targetDBURL := os.Getenv("TARGET_DATABASE_URL")
	if sourceDBURL == "" || targetDBURL == "" {
		zl.Fatal("SOURCE_DATABASE_URL and TARGET_DATABASE_URL must both be set")
	}

	// Connect to source database
	sourceDB, err := database.NewDBConnection("source", sourceDBURL, zl)
	if err != nil {
		zl.Fatal("failed to connect to source database", zap.Error(err))
	}

	// Connect to target database
	targetDB, err := database.NewDBConnection("target", targetDBURL, zl)
	if err != nil {
		zl.Fatal("failed to connect to target database", zap.Error(err))
	}

	// Ensure target database schema is migrated
	if err := targetDB.Migrate(); err != nil {
		zl.Fatal("failed to migrate target database schema", zap.Error(err))
	}

	// Migrate data from source to target
	stats, err := database.MigrateDataBetweenDatabases(context.Background(), sourceDB, targetDB)
	if err != nil {
		zl.Fatal("data migration failed", zap.Error(err))
	}

	zl.Info("database migration completed",
		zap.Int("users", stats.Users),
		zap.Int("projects", stats.Projects),
		zap.Int("documents", stats.Documents),
		zap.Int("actions", stats.Actions))
}
