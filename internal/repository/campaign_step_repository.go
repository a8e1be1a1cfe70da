package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/neura-backend/internal/model"
)

type CampaignStepRepositoryInterface interface {
	Create(ctx context.Context, s *model.CampaignStep) error
	ListByCampaign(ctx context.Context, campaignID int) ([]*model.CampaignStep, error)
}

type CampaignStepRepository struct {
	DB *sql.DB
}

func (r *CampaignStepRepository) Create(ctx context.Context, s *model.CampaignStep) error {
	s.CreatedAt = time.Now()
	if s.Status == "" {
		s.Status = model.StepStatusPending
	}
	query := `
        INSERT INTO campaign_steps
        (campaign_id, content_idea_id, step_order, step_objective, description, suggested_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRowContext(ctx, query,
		s.CampaignID,
		s.ContentIdeaID,
		s.Order,
		s.StepObjective,
		s.Description,
		s.SuggestedDate,
		s.Status,
		s.CreatedAt,
	).Scan(&s.ID)
}

// ListByCampaign returns the steps in sequence order, each joined with its idea.
func (r *CampaignStepRepository) ListByCampaign(ctx context.Context, campaignID int) ([]*model.CampaignStep, error) {
	query := `
        SELECT s.id, s.campaign_id, s.content_idea_id, s.step_order, s.step_objective, s.description,
               s.suggested_date, s.status, s.created_at,
               i.id, i.user_id, i.title, i.content, i.category, i.format, i.hooks, i.created_at
        FROM campaign_steps s
        LEFT JOIN content_ideas i ON i.id = s.content_idea_id
        WHERE s.campaign_id = $1
        ORDER BY s.step_order ASC
    `
	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []*model.CampaignStep{}
	for rows.Next() {
		var (
			s                                 model.CampaignStep
			ideaRef                           sql.NullInt64
			description                       sql.NullString
			ideaID                            sql.NullInt64
			userID, title, content, cat, form sql.NullString
			hooks                             []string
			ideaCreated                       sql.NullTime
		)
		if err := rows.Scan(
			&s.ID, &s.CampaignID, &ideaRef, &s.Order, &s.StepObjective, &description,
			&s.SuggestedDate, &s.Status, &s.CreatedAt,
			&ideaID, &userID, &title, &content, &cat, &form, pq.Array(&hooks), &ideaCreated,
		); err != nil {
			return nil, err
		}
		s.Description = description.String
		if ideaRef.Valid {
			ref := int(ideaRef.Int64)
			s.ContentIdeaID = &ref
		}
		if ideaID.Valid {
			s.Idea = &model.ContentIdea{
				ID:        int(ideaID.Int64),
				UserID:    userID.String,
				Title:     title.String,
				Content:   content.String,
				Category:  cat.String,
				Format:    form.String,
				Hooks:     hooks,
				CreatedAt: ideaCreated.Time,
			}
		}
		steps = append(steps, &s)
	}
	return steps, rows.Err()
}

var _ CampaignStepRepositoryInterface = (*CampaignStepRepository)(nil)
