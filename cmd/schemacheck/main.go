// cmd/schemacheck/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/unclebandit/neura-backend/internal/config"
	"github.com/unclebandit/neura-backend/internal/db"
	"github.com/unclebandit/neura-backend/internal/logger"
	"github.com/unclebandit/neura-backend/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.Database.DSN(), log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	report, err := schema.Inspect(ctx, conn, cfg.Database.Schema, schema.DefaultExpected)
	if err != nil {
		log.Error("schema inspection failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.Format())
	if !report.OK() {
		os.Exit(1)
	}
}
