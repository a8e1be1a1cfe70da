// internal/model/campaign.go
package model

import "time"

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"

	StepStatusPending   = "pending"
	StepStatusPublished = "published"
)

// ValidCampaignStatus reports whether s is one of the four campaign states.
func ValidCampaignStatus(s string) bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

type Campaign struct {
	ID        int        `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Objective string     `db:"objective" json:"objetivo_principal"`
	Niche     string     `db:"niche" json:"nicho,omitempty"`
	StartDate time.Time  `db:"start_date" json:"data_inicio"`
	EndDate   time.Time  `db:"end_date" json:"data_fim"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CampaignStep is owned by exactly one Campaign and is removed with it.
type CampaignStep struct {
	ID            int       `db:"id" json:"id"`
	CampaignID    int       `db:"campaign_id" json:"campanha_id"`
	ContentIdeaID *int      `db:"content_idea_id" json:"ideia_id,omitempty"`
	Order         int       `db:"step_order" json:"ordem"`
	StepObjective string    `db:"step_objective" json:"objetivo_etapa"`
	Description   string    `db:"description" json:"descricao,omitempty"`
	SuggestedDate time.Time `db:"suggested_date" json:"data_sugerida"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	Idea *ContentIdea `db:"-" json:"ideia,omitempty"`
}
