// internal/service/trend_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/repository"
	"github.com/unclebandit/neura-backend/internal/trend"
)

type ClassificationReport struct {
	Groups  int                 `json:"groups"`
	Updated int                 `json:"updated"`
	Failed  int                 `json:"failed"`
	Results []model.TrendStatus `json:"results"`
}

type TrendService struct {
	Repo   repository.TrendRepositoryInterface
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *TrendService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Classify recomputes the status of every series seen in the trailing
// window. A group whose write fails is logged and counted; the others
// still get written.
func (s *TrendService) Classify(ctx context.Context) (*ClassificationReport, error) {
	now := s.now()

	samples, err := s.Repo.ListSince(ctx, now.Add(-trend.Window))
	if err != nil {
		return nil, fmt.Errorf("load trend samples: %w", err)
	}

	groups := trend.GroupSamples(samples)
	report := &ClassificationReport{Groups: len(groups), Results: make([]model.TrendStatus, 0, len(groups))}
	writeSince := now.Add(-trend.WriteBack)

	for _, g := range groups {
		st := g.Classify()
		report.Results = append(report.Results, st)

		if _, err := s.Repo.UpdateGroupStatus(ctx, g.Key, st.Status, st.Velocity, writeSince); err != nil {
			report.Failed++
			s.Logger.Error("failed to persist trend status",
				"item_name", g.Key.ItemName,
				"source", g.Key.Source,
				"region", g.Key.Region,
				"status", st.Status,
				"error", err)
			continue
		}
		report.Updated++
	}

	s.Logger.Info("trend classification finished",
		"groups", report.Groups,
		"updated", report.Updated,
		"failed", report.Failed)
	return report, nil
}

// Run is Classify for callers that only care about success.
func (s *TrendService) Run(ctx context.Context, reason string) error {
	s.Logger.Info("trend classification started", "reason", reason)
	_, err := s.Classify(ctx)
	return err
}

// ListLatest returns the newest classified row of each series in the window.
func (s *TrendService) ListLatest(ctx context.Context, region string) ([]model.TrendSample, error) {
	return s.Repo.ListLatest(ctx, region, s.now().Add(-trend.Window))
}
