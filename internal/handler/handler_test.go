package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/neura-backend/internal/errors"
	"github.com/unclebandit/neura-backend/internal/logger"
	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/queue"
	"github.com/unclebandit/neura-backend/internal/service"
)

const owner = "6f1c2b1e-7d7a-4d43-9b7e-1f0d0c8a9e11"

type fakeReader struct{}

func (fakeReader) GetCampaign(ctx context.Context, userID string, id int) (*service.CampaignDetails, error) {
	if userID != owner || id != 7 {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	ideaID := 3
	return &service.CampaignDetails{
		Campaign: &model.Campaign{ID: 7, UserID: owner, Objective: "Launch", Status: model.CampaignStatusActive},
		Steps: []*model.CampaignStep{{
			ID: 1, CampaignID: 7, ContentIdeaID: &ideaID, Order: 1, StepObjective: "Teaser",
			Status: model.StepStatusPending, Idea: &model.ContentIdea{ID: 3, Title: "Hook them"},
		}},
	}, nil
}

type fakeTrends struct {
	region string
	err    error
}

func (f *fakeTrends) ListLatest(ctx context.Context, region string) ([]model.TrendSample, error) {
	f.region = region
	if f.err != nil {
		return nil, f.err
	}
	status := model.TrendStatusEmerging
	return []model.TrendSample{{ID: 1, ItemName: "matcha", Source: "tiktok", Region: region, Value: 10, CollectedAt: time.Now(), Status: &status}}, nil
}

type captureQueue struct {
	topics []string
	err    error
}

func (q *captureQueue) Publish(topic string, payload any) error {
	if q.err != nil {
		return q.err
	}
	q.topics = append(q.topics, topic)
	return nil
}

func (q *captureQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

var _ queue.Queue = (*captureQueue)(nil)

func getCampaign(userID, id string) *httptest.ResponseRecorder {
	h := &CampaignHandler{Service: fakeReader{}, Logger: logger.Discard()}
	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = middleware.WithUserID(ctx, userID)
	}
	w := httptest.NewRecorder()
	h.GetCampaign(w, req.WithContext(ctx))
	return w
}

func TestGetCampaign(t *testing.T) {
	w := getCampaign(owner, "7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"campanha"`)
	assert.Contains(t, w.Body.String(), `"etapas"`)
	assert.Contains(t, w.Body.String(), `"titulo":"Hook them"`)

	assert.Equal(t, http.StatusNotFound, getCampaign(owner, "8").Code)
	assert.Equal(t, http.StatusNotFound, getCampaign("0b4a7c55-9f57-4d0c-8f5a-bb2f5d6a8b10", "7").Code)
	assert.Equal(t, http.StatusBadRequest, getCampaign(owner, "seven").Code)
	assert.Equal(t, http.StatusUnauthorized, getCampaign("", "7").Code)
}

func TestRequestClassification(t *testing.T) {
	q := &captureQueue{}
	h := &TrendHandler{Queue: q, Logger: logger.Discard()}

	req := httptest.NewRequest(http.MethodPost, "/trends/classify", nil)
	w := httptest.NewRecorder()
	h.RequestClassification(w, req.WithContext(middleware.WithUserID(req.Context(), owner)))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"status":"queued"}`, w.Body.String())
	assert.Equal(t, []string{queue.TopicTrendClassification}, q.topics)

	q.err = errors.New("broker down")
	w = httptest.NewRecorder()
	h.RequestClassification(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListTrends(t *testing.T) {
	trends := &fakeTrends{}
	h := &TrendHandler{Trends: trends, Logger: logger.Discard()}

	w := httptest.NewRecorder()
	h.ListTrends(w, httptest.NewRequest(http.MethodGet, "/trends?region=br", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BR", trends.region)
	assert.Contains(t, w.Body.String(), `"status":"emerging"`)

	trends.err = errors.New("db gone")
	w = httptest.NewRecorder()
	h.ListTrends(w, httptest.NewRequest(http.MethodGet, "/trends", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
