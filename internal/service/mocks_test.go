package service_test

import (
	"context"
	"errors"
	"sync"

	appErrors "github.com/unclebandit/neura-backend/internal/errors"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/service"
)

// MockCampaignRepo keeps campaigns in memory.
type MockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	nextID    int

	CreateErr error
	StatusErr error
	Creates   int
}

func NewMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{campaigns: map[int]*model.Campaign{}, nextID: 1}
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	c.ID = m.nextID
	m.nextID++
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, userID string, id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, userID string, id int, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusErr != nil {
		return m.StatusErr
	}
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Status = status
	return nil
}

func (m *MockCampaignRepo) ListCampaigns(ctx context.Context, userID string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	return []*model.Campaign{}, 0, nil
}

func (m *MockCampaignRepo) Delete(ctx context.Context, userID string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *MockCampaignRepo) Stored(id int) *model.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.campaigns[id]
}

// MockStepRepo records created steps; FailOrder makes one order fail.
type MockStepRepo struct {
	Steps     []*model.CampaignStep
	FailOrder int
}

func (m *MockStepRepo) Create(ctx context.Context, s *model.CampaignStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailOrder != 0 && s.Order == m.FailOrder {
		return errors.New("insert failed")
	}
	s.ID = len(m.Steps) + 1
	m.Steps = append(m.Steps, s)
	return nil
}

func (m *MockStepRepo) ListByCampaign(ctx context.Context, campaignID int) ([]*model.CampaignStep, error) {
	out := []*model.CampaignStep{}
	for _, s := range m.Steps {
		if s.CampaignID == campaignID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockIdeas fails for the step objectives listed in FailFor. OnCall runs
// before each generation.
type MockIdeas struct {
	Calls   []service.IdeaRequest
	FailFor map[string]bool
	FailAll bool
	OnCall  func()
}

func (m *MockIdeas) Generate(ctx context.Context, req service.IdeaRequest) (*model.ContentIdea, error) {
	m.Calls = append(m.Calls, req)
	if m.OnCall != nil {
		m.OnCall()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailAll || m.FailFor[req.StepObjective] {
		return nil, errors.New("model unavailable")
	}
	return &model.ContentIdea{
		ID:       100 + len(m.Calls),
		UserID:   req.UserID,
		Title:    "Idea for " + req.StepObjective,
		Content:  "content",
		Category: "launch",
		Format:   "reel",
		Hooks:    []string{"hook"},
	}, nil
}

// MockCompleter returns a canned response or error.
type MockCompleter struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.Calls++
	return m.Response, m.Err
}

// RecordingQueue captures published messages.
type RecordingQueue struct {
	Published []any
	Err       error
}

func (q *RecordingQueue) Publish(topic string, payload any) error {
	if q.Err != nil {
		return q.Err
	}
	q.Published = append(q.Published, payload)
	return nil
}

func (q *RecordingQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}
