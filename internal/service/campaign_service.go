// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	appErrors "github.com/unclebandit/neura-backend/internal/errors"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/queue"
	"github.com/unclebandit/neura-backend/internal/repository"
)

const DateLayout = "2006-01-02"

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	StepRepo     repository.CampaignStepRepositoryInterface
	Planner      Planner
	Ideas        IdeaGenerator
	Queue        queue.Queue
	Logger       *slog.Logger
}

type GenerateCampaignInput struct {
	Objective string
	StartDate string
	EndDate   string
	Niche     string
}

// GenerateCampaignResult makes partial success explicit: FailedSteps counts
// planned steps that could not be created.
type GenerateCampaignResult struct {
	Campaign     *model.Campaign
	Steps        []*model.CampaignStep
	PlanSource   string
	PlannedSteps int
	FailedSteps  int
}

type CampaignDetails struct {
	Campaign *model.Campaign       `json:"campanha"`
	Steps    []*model.CampaignStep `json:"etapas"`
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, appErrors.NewValidation("invalid input", field+" is required")
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, appErrors.NewValidation("invalid input", fmt.Sprintf("%s must be a date in %s format", field, DateLayout))
}

func (in GenerateCampaignInput) validate() (start, end time.Time, err error) {
	if strings.TrimSpace(in.Objective) == "" {
		return start, end, appErrors.NewValidation("invalid input", "objetivo_principal is required")
	}
	if start, err = parseDate("data_inicio", in.StartDate); err != nil {
		return
	}
	if end, err = parseDate("data_fim", in.EndDate); err != nil {
		return
	}
	if end.Before(start) {
		err = appErrors.NewValidation("invalid input", "data_fim must not be before data_inicio")
	}
	return
}

// GenerateCampaign creates a draft, plans it, creates its steps one at a time
// and then activates it. Only input errors and the initial insert abort the
// run; per-step failures are logged and counted.
func (s *CampaignService) GenerateCampaign(ctx context.Context, userID string, in GenerateCampaignInput) (*GenerateCampaignResult, error) {
	start, end, err := in.validate()
	if err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		UserID:    userID,
		Objective: strings.TrimSpace(in.Objective),
		Niche:     strings.TrimSpace(in.Niche),
		StartDate: start,
		EndDate:   end,
		Status:    model.CampaignStatusDraft,
	}
	if err := s.CampaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	// Once the draft exists the run finishes even if the caller goes away,
	// so the row always ends up active.
	ctx = context.WithoutCancel(ctx)

	log := s.Logger.With("campaign_id", campaign.ID, "user_id", userID)

	plan := s.Planner.Plan(ctx, campaign.Objective, campaign.Niche)
	log.Info("campaign planned", "plan_source", plan.Source, "steps", len(plan.Steps))

	result := &GenerateCampaignResult{
		Campaign:     campaign,
		Steps:        []*model.CampaignStep{},
		PlanSource:   plan.Source,
		PlannedSteps: len(plan.Steps),
	}

	// Steps run one at a time, in plan order.
	for _, ps := range plan.Steps {
		step, err := s.createStep(ctx, campaign, ps)
		if err != nil {
			result.FailedSteps++
			log.Error("campaign step failed", "step_order", ps.Order, "step_objective", ps.Name, "error", err)
			continue
		}
		result.Steps = append(result.Steps, step)
	}

	if err := s.CampaignRepo.UpdateStatus(ctx, userID, campaign.ID, model.CampaignStatusActive); err != nil {
		log.Error("failed to activate campaign", "error", err)
	} else {
		campaign.Status = model.CampaignStatusActive
	}

	if s.Queue != nil && campaign.Status == model.CampaignStatusActive {
		event := queue.CampaignActivatedEvent{
			CampaignID:  campaign.ID,
			UserID:      userID,
			Steps:       len(result.Steps),
			FailedSteps: result.FailedSteps,
			PlanSource:  plan.Source,
		}
		if err := s.Queue.Publish(queue.TopicCampaignActivated, event); err != nil {
			log.Warn("failed to publish campaign activation", "error", err)
		}
	}

	log.Info("campaign generated", "steps", len(result.Steps), "failed_steps", result.FailedSteps)
	return result, nil
}

func (s *CampaignService) createStep(ctx context.Context, campaign *model.Campaign, ps PlannedStep) (*model.CampaignStep, error) {
	idea, err := s.Ideas.Generate(ctx, IdeaRequest{
		UserID:        campaign.UserID,
		Objective:     campaign.Objective,
		StepObjective: ps.Name,
		StepOrder:     ps.Order,
		Niche:         campaign.Niche,
	})
	if err != nil {
		return nil, err
	}

	ideaID := idea.ID
	step := &model.CampaignStep{
		CampaignID:    campaign.ID,
		ContentIdeaID: &ideaID,
		Order:         ps.Order,
		StepObjective: ps.Name,
		Description:   ps.Description,
		SuggestedDate: campaign.StartDate.AddDate(0, 0, ps.OffsetDays),
		Status:        model.StepStatusPending,
		Idea:          idea,
	}
	if err := s.StepRepo.Create(ctx, step); err != nil {
		return nil, fmt.Errorf("persist step: %w", err)
	}
	return step, nil
}

// ListCampaigns fetches the caller's campaigns with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, userID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(ctx, userID, offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaign returns the campaign with its steps and their ideas.
func (s *CampaignService) GetCampaign(ctx context.Context, userID string, id int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	steps, err := s.StepRepo.ListByCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return &CampaignDetails{Campaign: campaign, Steps: steps}, nil
}

// UpdateStatus is the manual transition used to pause, resume or complete.
func (s *CampaignService) UpdateStatus(ctx context.Context, userID string, id int, status string) error {
	if !model.ValidCampaignStatus(status) {
		return appErrors.NewValidation("invalid input", fmt.Sprintf("unknown status %q", status))
	}
	return s.CampaignRepo.UpdateStatus(ctx, userID, id, status)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, userID string, id int) error {
	return s.CampaignRepo.Delete(ctx, userID, id)
}
