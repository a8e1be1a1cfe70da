package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/neura-backend/internal/logger"
	"github.com/unclebandit/neura-backend/internal/model"
)

type memIdeaRepo struct {
	created []*model.ContentIdea
	err     error
}

func (m *memIdeaRepo) Create(ctx context.Context, idea *model.ContentIdea) error {
	if m.err != nil {
		return m.err
	}
	idea.ID = 500 + len(m.created)
	m.created = append(m.created, idea)
	return nil
}

func TestIdeaServiceGenerate(t *testing.T) {
	ai := &stubCompleter{out: `{"titulo":" Behind the oven ","conteudo":"Show the dough rising","categoria":"bastidores","formato":"reel","ganchos":["Você sabia?","Olha isso"]}`}
	repo := &memIdeaRepo{}
	svc := &IdeaService{AI: ai, Repo: repo, Logger: logger.Discard()}

	idea, err := svc.Generate(context.Background(), IdeaRequest{
		UserID: "u1", Objective: "Sell course", StepObjective: "Teaser", StepOrder: 1, Niche: "baking",
	})
	require.NoError(t, err)

	assert.Equal(t, 500, idea.ID)
	assert.Equal(t, "Behind the oven", idea.Title)
	assert.Equal(t, "reel", idea.Format)
	assert.Equal(t, []string{"Você sabia?", "Olha isso"}, idea.Hooks)
	assert.Equal(t, "u1", idea.UserID)
	require.Len(t, repo.created, 1)

	assert.Contains(t, ai.prompt, "Campaign step 1: Teaser")
	assert.Contains(t, ai.prompt, "Niche: baking")
}

func TestIdeaServiceRejectsUnusableOutput(t *testing.T) {
	for name, out := range map[string]string{
		"prose":         "I cannot help with that",
		"missing title": `{"conteudo":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := &memIdeaRepo{}
			svc := &IdeaService{AI: &stubCompleter{out: out}, Repo: repo, Logger: logger.Discard()}
			_, err := svc.Generate(context.Background(), IdeaRequest{StepObjective: "Teaser"})
			assert.ErrorIs(t, err, ErrInvalidIdea)
			assert.Empty(t, repo.created)
		})
	}
}

func TestIdeaServicePropagatesErrors(t *testing.T) {
	svc := &IdeaService{AI: &stubCompleter{err: errors.New("timeout")}, Repo: &memIdeaRepo{}, Logger: logger.Discard()}
	_, err := svc.Generate(context.Background(), IdeaRequest{})
	assert.ErrorContains(t, err, "timeout")

	svc = &IdeaService{
		AI:     &stubCompleter{out: `{"titulo":"t","conteudo":"c"}`},
		Repo:   &memIdeaRepo{err: errors.New("duplicate key")},
		Logger: logger.Discard(),
	}
	_, err = svc.Generate(context.Background(), IdeaRequest{})
	assert.ErrorContains(t, err, "persist idea")
}
