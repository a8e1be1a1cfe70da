package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/neura-backend/internal/model"
)

func TestCampaignStepRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignStepRepository{DB: db}

	ideaID := 44
	date := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO campaign_steps")).
		WithArgs(7, &ideaID, 2, "Value Sample", "free lesson", date, model.StepStatusPending, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

	step := &model.CampaignStep{
		CampaignID:    7,
		ContentIdeaID: &ideaID,
		Order:         2,
		StepObjective: "Value Sample",
		Description:   "free lesson",
		SuggestedDate: date,
	}
	require.NoError(t, repo.Create(context.Background(), step))
	assert.Equal(t, 100, step.ID)
	assert.Equal(t, model.StepStatusPending, step.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStepRepository_ListByCampaign(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignStepRepository{DB: db}
	now := time.Now()

	cols := []string{
		"id", "campaign_id", "content_idea_id", "step_order", "step_objective", "description",
		"suggested_date", "status", "created_at",
		"id", "user_id", "title", "content", "category", "format", "hooks", "created_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM campaign_steps s")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 7, 44, 1, "Teaser", "hint", now, "pending", now,
				44, testUser, "Sneak peek", "Show the box", "launch", "reel", "{\"Wait for it\",Guess}", now).
			AddRow(2, 7, nil, 2, "Value Sample", nil, now, "pending", now,
				nil, nil, nil, nil, nil, nil, nil, nil))

	steps, err := repo.ListByCampaign(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	require.NotNil(t, steps[0].Idea)
	assert.Equal(t, 44, *steps[0].ContentIdeaID)
	assert.Equal(t, "Sneak peek", steps[0].Idea.Title)
	assert.Equal(t, []string{"Wait for it", "Guess"}, steps[0].Idea.Hooks)

	assert.Nil(t, steps[1].ContentIdeaID)
	assert.Nil(t, steps[1].Idea)
	assert.Equal(t, "", steps[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentIdeaRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := &ContentIdeaRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_ideas (user_id, title, content, category, format, hooks, created_at)")).
		WithArgs(testUser, "Title", "Body", "education", "carousel", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))

	idea := &model.ContentIdea{UserID: testUser, Title: "Title", Content: "Body", Category: "education", Format: "carousel"}
	require.NoError(t, repo.Create(context.Background(), idea))
	assert.Equal(t, 31, idea.ID)
	assert.Equal(t, []string{}, idea.Hooks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
