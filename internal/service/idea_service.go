// internal/service/idea_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/unclebandit/neura-backend/internal/ai"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/repository"
)

type IdeaRequest struct {
	UserID        string
	Objective     string
	StepObjective string
	StepOrder     int
	Niche         string
}

// IdeaGenerator persists a new idea and hands back the stored row, ID included.
type IdeaGenerator interface {
	Generate(ctx context.Context, req IdeaRequest) (*model.ContentIdea, error)
}

var ErrInvalidIdea = errors.New("model returned an unusable idea")

const ideaSystemPrompt = `You create short-form social media content ideas for creators. ` +
	`Answer only with strict JSON, no markdown.`

const ideaPromptTemplate = `Create one content idea in Brazilian Portuguese.
Campaign objective: {objective}
Campaign step {order}: {step}
Niche: {niche}

Return exactly this JSON shape:
{"titulo":"...","conteudo":"script or caption","categoria":"...","formato":"reel|carousel|story|post","ganchos":["hook 1","hook 2","hook 3"]}`

type generatedIdea struct {
	Title    string   `json:"titulo"`
	Content  string   `json:"conteudo"`
	Category string   `json:"categoria"`
	Format   string   `json:"formato"`
	Hooks    []string `json:"ganchos"`
}

type IdeaService struct {
	AI     ai.Completer
	Repo   repository.ContentIdeaRepositoryInterface
	Logger *slog.Logger
}

func (s *IdeaService) Generate(ctx context.Context, req IdeaRequest) (*model.ContentIdea, error) {
	prompt := RenderTemplate(ideaPromptTemplate, map[string]string{
		"objective": req.Objective,
		"order":     strconv.Itoa(req.StepOrder),
		"step":      req.StepObjective,
		"niche":     req.Niche,
	})

	raw, err := s.AI.Complete(ctx, ideaSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate idea: %w", err)
	}

	var out generatedIdea
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdea, err)
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("%w: missing title or content", ErrInvalidIdea)
	}

	idea := &model.ContentIdea{
		UserID:   req.UserID,
		Title:    strings.TrimSpace(out.Title),
		Content:  strings.TrimSpace(out.Content),
		Category: out.Category,
		Format:   out.Format,
		Hooks:    out.Hooks,
	}
	if err := s.Repo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("persist idea: %w", err)
	}

	s.Logger.Debug("idea generated", "idea_id", idea.ID, "step_order", req.StepOrder)
	return idea, nil
}
