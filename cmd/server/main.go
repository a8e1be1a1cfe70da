// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/neura-backend/internal/ai"
	"github.com/unclebandit/neura-backend/internal/config"
	"github.com/unclebandit/neura-backend/internal/controller"
	"github.com/unclebandit/neura-backend/internal/db"
	"github.com/unclebandit/neura-backend/internal/handler"
	"github.com/unclebandit/neura-backend/internal/logger"
	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/queue"
	"github.com/unclebandit/neura-backend/internal/repository"
	"github.com/unclebandit/neura-backend/internal/router"
	"github.com/unclebandit/neura-backend/internal/schema"
	"github.com/unclebandit/neura-backend/internal/service"
	"github.com/unclebandit/neura-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	conn, err := db.Open(ctx, cfg.Database.DSN(), log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if report, err := schema.Inspect(ctx, conn, cfg.Database.Schema, schema.DefaultExpected); err != nil {
		log.Warn("schema inspection failed", "error", err)
	} else if !report.OK() {
		log.Warn("schema drift", "report", report.Format())
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	stepRepo := &repository.CampaignStepRepository{DB: conn}
	ideaRepo := &repository.ContentIdeaRepository{DB: conn}
	trendRepo := &repository.TrendRepository{DB: conn}

	aiClient := ai.NewClient(ai.Options{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
		RatePerSec: cfg.AI.RatePerSec,
	}, log)

	trendService := &service.TrendService{Repo: trendRepo, Logger: log}

	q, closeQueue, err := newQueue(cfg, trendService, log)
	if err != nil {
		log.Error("queue unavailable", "error", err)
		os.Exit(1)
	}
	defer closeQueue()

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		StepRepo:     stepRepo,
		Planner:      service.NewStepPlanner(aiClient, log),
		Ideas:        &service.IdeaService{AI: aiClient, Repo: ideaRepo, Logger: log},
		Queue:        q,
		Logger:       log,
	}

	r := router.New(router.Deps{
		Auth: middleware.NewJWTAuth(cfg.JWTSecret, log),
		CampaignController: &controller.CampaignController{
			CampaignService: campaignService,
			Validate:        validation.New(),
			Logger:          log,
		},
		CampaignHandler: &handler.CampaignHandler{Service: campaignService, Logger: log},
		TrendHandler:    &handler.TrendHandler{Trends: trendService, Queue: q, Logger: log},
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("🚀 Server running", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise jobs run
// in-process on the in-memory queue.
func newQueue(cfg *config.Config, trends *service.TrendService, log *slog.Logger) (queue.Queue, func(), error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using RabbitMQ queue")
		return q, func() { _ = q.Close() }, nil
	}

	q := queue.NewInMemoryQueue(log)
	if err := queue.StartTrendClassificationSubscriber(q, trends, log); err != nil {
		return nil, nil, err
	}
	if err := q.Subscribe(queue.TopicCampaignActivated, func(payload any) error {
		if ev, ok := payload.(queue.CampaignActivatedEvent); ok {
			log.Info("campaign activated", "campaign_id", ev.CampaignID, "steps", ev.Steps, "failed_steps", ev.FailedSteps)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	log.Info("AMQP_URL not set, using in-memory queue")
	return q, q.Wait, nil
}
