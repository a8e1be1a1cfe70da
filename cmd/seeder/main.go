//cmd/seeder/main.go
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/unclebandit/neura-backend/internal/config"
	"github.com/unclebandit/neura-backend/internal/db"
	"github.com/unclebandit/neura-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	conn, err := db.Open(context.Background(), cfg.Database.DSN(), log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	seedFiles := []string{
		"seed/schema.sql",
		"seed/trend_samples.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Error("failed to read seed file", "file", file, "error", err)
			os.Exit(1)
		}

		if _, err := conn.Exec(string(content)); err != nil {
			log.Error("failed to execute seed file", "file", file, "error", err)
			os.Exit(1)
		}
		log.Info("seeded", "file", file)
	}

	log.Info("Database seeding completed successfully!")
}
