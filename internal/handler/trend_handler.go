// internal/handler/trend_handler.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/queue"
	"github.com/unclebandit/neura-backend/internal/respond"
)

type TrendLister interface {
	ListLatest(ctx context.Context, region string) ([]model.TrendSample, error)
}

type TrendHandler struct {
	Trends TrendLister
	Queue  queue.Queue
	Logger *slog.Logger
}

// RequestClassification enqueues a classification run and returns at once.
func (h *TrendHandler) RequestClassification(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	job := queue.ClassificationJob{RequestedBy: userID, RequestedAt: time.Now().UTC()}
	if err := h.Queue.Publish(queue.TopicTrendClassification, job); err != nil {
		h.Logger.Error("failed to enqueue classification", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to enqueue classification", "")
		return
	}
	respond.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// ListTrends returns the newest classified sample of each tracked series.
func (h *TrendHandler) ListTrends(w http.ResponseWriter, r *http.Request) {
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))

	trends, err := h.Trends.ListLatest(r.Context(), region)
	if err != nil {
		respond.ServiceError(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"data": trends})
}
