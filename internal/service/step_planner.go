// internal/service/step_planner.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unclebandit/neura-backend/internal/ai"
)

const (
	PlanSourceModel    = "model"
	PlanSourceFallback = "fallback"

	MinPlannedSteps = 4
	MaxPlannedSteps = 6
)

type PlannedStep struct {
	Order       int    `json:"ordem"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	OffsetDays  int    `json:"dias_apos_inicio"`
}

// Plan says whether the steps came from the model or the static template.
type Plan struct {
	Steps  []PlannedStep `json:"etapas"`
	Source string        `json:"origem"`
}

type Planner interface {
	Plan(ctx context.Context, objective, niche string) Plan
}

const plannerSystemPrompt = `You are a social media marketing strategist for content creators. ` +
	`Answer only with strict JSON, no markdown.`

const plannerPromptTemplate = `Plan a content campaign for a creator.
Objective: {objective}
Niche: {niche}

Return between 4 and 6 sequential steps in Brazilian Portuguese using exactly this JSON shape:
{"etapas":[{"ordem":1,"nome":"Teaser","descricao":"what to publish and why","dias_apos_inicio":0}]}
"dias_apos_inicio" is the number of days after the campaign start when the step should be published.`

// FallbackPlan is used whenever the model output cannot be trusted.
func FallbackPlan() Plan {
	return Plan{
		Source: PlanSourceFallback,
		Steps: []PlannedStep{
			{Order: 1, Name: "Teaser", Description: "Spark curiosity about what is coming without revealing everything.", OffsetDays: 0},
			{Order: 2, Name: "Value Sample", Description: "Share a free, useful piece that shows the value of the offer.", OffsetDays: 3},
			{Order: 3, Name: "Launch Announcement", Description: "Announce the launch clearly with the main call to action.", OffsetDays: 7},
			{Order: 4, Name: "Social Proof", Description: "Show results, testimonials or reactions from the audience.", OffsetDays: 10},
			{Order: 5, Name: "Final Call", Description: "Create urgency with a last reminder before the campaign ends.", OffsetDays: 14},
		},
	}
}

type StepPlanner struct {
	AI     ai.Completer
	Logger *slog.Logger
}

func NewStepPlanner(completer ai.Completer, logger *slog.Logger) *StepPlanner {
	return &StepPlanner{AI: completer, Logger: logger}
}

// Plan never fails: any model or parse problem degrades to FallbackPlan.
func (p *StepPlanner) Plan(ctx context.Context, objective, niche string) Plan {
	prompt := RenderTemplate(plannerPromptTemplate, map[string]string{
		"objective": objective,
		"niche":     niche,
	})

	raw, err := p.AI.Complete(ctx, plannerSystemPrompt, prompt)
	if err != nil {
		p.Logger.Warn("step planner falling back", "reason", "ai_error", "error", err)
		return FallbackPlan()
	}

	steps, err := parsePlannedSteps(raw)
	if err != nil {
		p.Logger.Warn("step planner falling back", "reason", "invalid_output", "error", err)
		return FallbackPlan()
	}
	return Plan{Steps: steps, Source: PlanSourceModel}
}

// parsePlannedSteps validates model output and renumbers the surviving steps
// 1..N in the order they were returned. The model's own order field is ignored.
func parsePlannedSteps(raw string) ([]PlannedStep, error) {
	var envelope struct {
		Steps []PlannedStep `json:"etapas"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &envelope); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	steps := make([]PlannedStep, 0, MaxPlannedSteps)
	for _, s := range envelope.Steps {
		if len(steps) == MaxPlannedSteps {
			break
		}
		s.Name = strings.TrimSpace(s.Name)
		s.Description = strings.TrimSpace(s.Description)
		if s.Name == "" || s.OffsetDays < 0 {
			continue
		}
		s.Order = len(steps) + 1
		steps = append(steps, s)
	}

	if len(steps) < MinPlannedSteps {
		return nil, fmt.Errorf("plan has %d valid steps, need at least %d", len(steps), MinPlannedSteps)
	}
	return steps, nil
}
