package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/neura-backend/internal/logger"
)

type stubCompleter struct {
	out    string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	return s.out, s.err
}

func stepsJSON(n int, order func(i int) int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf(`{"ordem":%d,"nome":"Step %d","descricao":"d%d","dias_apos_inicio":%d}`, order(i), i+1, i+1, i*2)
	}
	return `{"etapas":[` + strings.Join(parts, ",") + `]}`
}

func assertWellFormed(t *testing.T, p Plan) {
	t.Helper()
	require.GreaterOrEqual(t, len(p.Steps), MinPlannedSteps)
	require.LessOrEqual(t, len(p.Steps), MaxPlannedSteps)
	for i, s := range p.Steps {
		assert.Equal(t, i+1, s.Order)
		assert.GreaterOrEqual(t, s.OffsetDays, 0)
		assert.NotEmpty(t, s.Name)
	}
}

func TestPlanRenumbersModelOrders(t *testing.T) {
	ai := &stubCompleter{out: stepsJSON(5, func(i int) int { return 7 })}
	p := NewStepPlanner(ai, logger.Discard()).Plan(context.Background(), "Grow followers", "fitness")

	assert.Equal(t, PlanSourceModel, p.Source)
	require.Len(t, p.Steps, 5)
	assertWellFormed(t, p)
	assert.Equal(t, "Step 3", p.Steps[2].Name)
	assert.Equal(t, 4, p.Steps[2].OffsetDays)

	assert.Contains(t, ai.prompt, "Objective: Grow followers")
	assert.Contains(t, ai.prompt, "Niche: fitness")
}

func TestPlanCapsAtSixSteps(t *testing.T) {
	ai := &stubCompleter{out: stepsJSON(9, func(i int) int { return 9 - i })}
	p := NewStepPlanner(ai, logger.Discard()).Plan(context.Background(), "x", "")

	assert.Equal(t, PlanSourceModel, p.Source)
	assert.Len(t, p.Steps, MaxPlannedSteps)
	assertWellFormed(t, p)
	assert.Equal(t, "Step 1", p.Steps[0].Name)
}

func TestPlanDropsInvalidStepsBeforeCounting(t *testing.T) {
	out := "```json\n" + `{"etapas":[
		{"ordem":1,"nome":"A","dias_apos_inicio":0},
		{"ordem":2,"nome":"","dias_apos_inicio":1},
		{"ordem":3,"nome":"B","dias_apos_inicio":-2},
		{"ordem":4,"nome":"C","dias_apos_inicio":3},
		{"ordem":5,"nome":"D","dias_apos_inicio":4},
		{"ordem":6,"nome":"E","dias_apos_inicio":6}]}` + "\n```"
	p := NewStepPlanner(&stubCompleter{out: out}, logger.Discard()).Plan(context.Background(), "x", "")

	assert.Equal(t, PlanSourceModel, p.Source)
	require.Len(t, p.Steps, 4)
	assert.Equal(t, []string{"A", "C", "D", "E"}, []string{p.Steps[0].Name, p.Steps[1].Name, p.Steps[2].Name, p.Steps[3].Name})
	assertWellFormed(t, p)
}

func TestPlanFallsBack(t *testing.T) {
	cases := map[string]*stubCompleter{
		"ai error":      {err: errors.New("503")},
		"not json":      {out: "Sure! Here is your plan: step one..."},
		"too few steps": {out: stepsJSON(3, func(i int) int { return i + 1 })},
		"wrong types":   {out: `{"etapas":[{"ordem":"one","nome":1}]}`},
		"empty object":  {out: `{}`},
	}

	for name, ai := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewStepPlanner(ai, logger.Discard()).Plan(context.Background(), "x", "")
			assert.Equal(t, PlanSourceFallback, p.Source)
			assert.Equal(t, FallbackPlan(), p)
			assertWellFormed(t, p)
		})
	}
}

func TestFallbackPlanOffsets(t *testing.T) {
	p := FallbackPlan()
	offsets := make([]int, len(p.Steps))
	for i, s := range p.Steps {
		offsets[i] = s.OffsetDays
	}
	assert.Equal(t, []int{0, 3, 7, 10, 14}, offsets)
	assert.Equal(t, "Teaser", p.Steps[0].Name)
	assert.Equal(t, "Final Call", p.Steps[4].Name)
}

func TestRenderTemplate(t *testing.T) {
	out := RenderTemplate("Objective: {objective} / Niche: {niche}", map[string]string{
		"objective": "Sell",
		"niche":     "",
	})
	assert.Equal(t, "Objective: Sell / Niche: <unknown>", out)
}

func TestRenderTemplateLeavesPlaceholdersInValues(t *testing.T) {
	data := map[string]string{
		"objective": "sell {niche} kits",
		"niche":     "baking",
		"order":     "{objective}",
	}
	for i := 0; i < 100; i++ {
		out := RenderTemplate("{order}: {objective} for {niche}", data)
		assert.Equal(t, "{objective}: sell {niche} kits for baking", out)
	}
}
