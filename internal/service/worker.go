package service

import (
	"context"
	"log/slog"
)

// Classifier is what the worker drives.
type Classifier interface {
	Run(ctx context.Context, reason string) error
}

// Job triggers one classification run. Done, when set, receives the outcome
// so the caller can ack or nack the originating message.
type Job struct {
	Reason string
	Done   func(err error)
}

// Worker serializes classification runs coming from several triggers.
type Worker struct {
	Classifier Classifier
	JobChan    <-chan Job
	Logger     *slog.Logger
}

// Constructor
func NewWorker(classifier Classifier, jobChan <-chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		Classifier: classifier,
		JobChan:    jobChan,
		Logger:     logger,
	}
}

// Start processes jobs until the channel closes or ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.JobChan:
			if !ok {
				return
			}
			err := w.Classifier.Run(ctx, job.Reason)
			if err != nil {
				w.Logger.Error("classification run failed", "reason", job.Reason, "error", err)
			}
			if job.Done != nil {
				job.Done(err)
			}
		}
	}
}
