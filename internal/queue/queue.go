package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	TopicTrendClassification = "trend_classification"
	TopicCampaignActivated   = "campaign.activated"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// ClassificationJob asks for one trend classification run.
type ClassificationJob struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// CampaignActivatedEvent is emitted once a generated campaign goes active.
type CampaignActivatedEvent struct {
	CampaignID  int    `json:"campaign_id"`
	UserID      string `json:"user_id"`
	Steps       int    `json:"steps"`
	FailedSteps int    `json:"failed_steps"`
	PlanSource  string `json:"plan_source"`
}

// InMemoryQueue delivers to subscribers in-process with retry.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	wg       sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
	Logger     *slog.Logger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		Logger:     logger,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{
			Topic:      topic,
			Payload:    payload,
			MaxRetries: q.MaxRetries,
		}
		q.wg.Add(1)
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			q.Logger.Debug("job processed", "topic", job.Topic, "attempt", job.RetryCount+1)
			return
		}

		job.RetryCount++
		q.Logger.Warn("job failed", "topic", job.Topic, "attempt", job.RetryCount, "max_retries", job.MaxRetries, "error", err)

		if job.RetryCount > job.MaxRetries {
			q.Logger.Error("job permanently failed", "topic", job.Topic, "attempts", job.RetryCount)
			return
		}

		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every in-flight job has finished, retries included.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

// TrendClassifier is the part of the trend service the subscriber needs.
type TrendClassifier interface {
	Run(ctx context.Context, reason string) error
}

// StartTrendClassificationSubscriber runs classification in-process for
// every job published on TopicTrendClassification.
func StartTrendClassificationSubscriber(q Queue, classifier TrendClassifier, logger *slog.Logger) error {
	return q.Subscribe(TopicTrendClassification, func(payload any) error {
		job, ok := payload.(ClassificationJob)
		if !ok {
			logger.Warn("invalid payload type, expected ClassificationJob", "type", fmt.Sprintf("%T", payload))
			return nil // no retry
		}
		return classifier.Run(context.Background(), "queue:"+job.RequestedBy)
	})
}
