package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"github.com/unclebandit/neura-backend/internal/config"
	"github.com/unclebandit/neura-backend/internal/db"
	"github.com/unclebandit/neura-backend/internal/logger"
	"github.com/unclebandit/neura-backend/internal/queue"
	"github.com/unclebandit/neura-backend/internal/repository"
	"github.com/unclebandit/neura-backend/internal/service"
)

const (
	maxDeliveries   = 3
	retryHeader     = "x-retry-count"
	consumerTag     = "neura-worker"
	scheduledReason = "schedule"
)

type action int

const (
	actionAck action = iota
	actionRetry
	actionDrop
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database.DSN(), log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	trendService := &service.TrendService{
		Repo:   &repository.TrendRepository{DB: conn},
		Logger: log,
	}

	jobs := make(chan service.Job, 16)
	worker := service.NewWorker(trendService, jobs, log)
	go worker.Start(ctx)
	go schedule(ctx, cfg.ClassifyInterval, jobs)

	if cfg.AMQPURL == "" {
		log.Info("AMQP_URL not set, running scheduled classification only", "interval", cfg.ClassifyInterval.String())
		<-ctx.Done()
		return
	}

	q, err := queue.DialAMQP(cfg.AMQPURL, log)
	if err != nil {
		log.Error("queue unavailable", "error", err)
		os.Exit(1)
	}
	defer q.Close()

	if err := consume(ctx, q, jobs, log); err != nil {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}

// schedule enqueues a classification run every interval until ctx ends.
func schedule(ctx context.Context, interval time.Duration, jobs chan<- service.Job) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case jobs <- service.Job{Reason: scheduledReason}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func consume(ctx context.Context, q *queue.AMQPQueue, jobs chan<- service.Job, log *slog.Logger) error {
	ch := q.Channel()
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := consumeTopic(q, queue.TopicTrendClassification)
	if err != nil {
		return err
	}
	activations, err := consumeTopic(q, queue.TopicCampaignActivated)
	if err != nil {
		return err
	}

	log.Info("Worker running, waiting for messages...",
		"queues", []string{queue.TopicTrendClassification, queue.TopicCampaignActivated})
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			handleDelivery(ctx, ch, d, jobs, log)
		case d, ok := <-activations:
			if !ok {
				return nil
			}
			// bad payloads are logged and dropped
			if err := handleActivation(d.Body, log); err != nil {
				log.Warn("invalid activation event", "error", err)
			}
			_ = d.Ack(false)
		}
	}
}

func consumeTopic(q *queue.AMQPQueue, topic string) (<-chan amqp.Delivery, error) {
	decl, err := q.Declare(topic)
	if err != nil {
		return nil, err
	}
	return q.Channel().Consume(
		decl.Name,
		consumerTag+"-"+topic,
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
}

// handleActivation records a campaign.activated event.
func handleActivation(body []byte, log *slog.Logger) error {
	var ev queue.CampaignActivatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	if ev.CampaignID < 1 {
		return fmt.Errorf("activation event without campaign id")
	}
	log.Info("campaign activated",
		"campaign_id", ev.CampaignID,
		"user_id", ev.UserID,
		"steps", ev.Steps,
		"failed_steps", ev.FailedSteps,
		"plan_source", ev.PlanSource)
	return nil
}

func handleDelivery(ctx context.Context, ch *amqp.Channel, d amqp.Delivery, jobs chan<- service.Job, log *slog.Logger) {
	var job queue.ClassificationJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Warn("invalid job", "error", err)
		_ = d.Ack(false)
		return
	}

	done := make(chan error, 1)
	select {
	case jobs <- service.Job{Reason: "queue:" + job.RequestedBy, Done: func(err error) { done <- err }}:
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return
	}

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return
	}

	switch decide(runErr, d.Headers) {
	case actionAck:
		_ = d.Ack(false)
	case actionRetry:
		// Requeued as a new message carrying the incremented attempt count.
		if err := ch.Publish("", d.RoutingKey, false, false, amqp.Publishing{
			ContentType:  d.ContentType,
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retryCount(d.Headers) + 1)},
			Body:         d.Body,
		}); err != nil {
			log.Error("failed to requeue job", "error", err)
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)
	case actionDrop:
		log.Error("job permanently failed", "attempts", retryCount(d.Headers)+1, "error", runErr)
		_ = d.Nack(false, false)
	}
}

// decide maps a run outcome and the delivery's retry header to what happens
// to the message. A job is attempted at most maxDeliveries times.
func decide(runErr error, headers amqp.Table) action {
	if runErr == nil {
		return actionAck
	}
	if retryCount(headers)+1 < maxDeliveries {
		return actionRetry
	}
	return actionDrop
}

// retryCount reads the retry header, tolerating the integer widths the
// AMQP table decoder may produce.
func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	default:
		return 0
	}
}
