package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/themobileprof/vocalis/internal/interfaces"
	"github.com/themobileprof/vocalis/pkg/models"
)

// MockProcessor is a mock implementation of UtteranceProcessor for testing
type MockProcessor struct {
	ProcessFunc func(input string) (*models.NLPResult, error)
	ExplainFunc func(input string) []models.IntentScore
	Calls       []string
}

func (m *MockProcessor) Process(input string) (*models.NLPResult, error) {
	m.Calls = append(m.Calls, input)
	if m.ProcessFunc != nil {
		return m.ProcessFunc(input)
	}
	return &models.NLPResult{Input: input, Intent: models.IntentGeneralQuery, Entities: models.Entities{}}, nil
}

func (m *MockProcessor) Explain(input string) []models.IntentScore {
	if m.ExplainFunc != nil {
		return m.ExplainFunc(input)
	}
	return nil
}

// MockPlanner is a mock implementation of ActionPlanner for testing
type MockPlanner struct {
	PlanFunc func(res *models.NLPResult) models.Action
}

func (m *MockPlanner) Plan(res *models.NLPResult) models.Action {
	if m.PlanFunc != nil {
		return m.PlanFunc(res)
	}
	return models.Action{Kind: models.ActionChat, Params: map[string]string{"input": res.Input}}
}

// MockHistoryStore is an in-memory HistoryStore for testing
type MockHistoryStore struct {
	LogResultFunc     func(sessionID string, res *models.NLPResult, action models.Action) (int64, error)
	RecentResultsFunc func(limit int) ([]models.HistoryEntry, error)

	mu      sync.Mutex
	entries []models.HistoryEntry
}

// NewMockHistoryStore creates an empty mock history store
func NewMockHistoryStore() *MockHistoryStore {
	return &MockHistoryStore{}
}

func (m *MockHistoryStore) LogResult(sessionID string, res *models.NLPResult, action models.Action) (int64, error) {
	if m.LogResultFunc != nil {
		return m.LogResultFunc(sessionID, res, action)
	}
	if res == nil {
		return 0, fmt.Errorf("nil result")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := int64(len(m.entries) + 1)
	m.entries = append(m.entries, models.HistoryEntry{
		ID:         id,
		SessionID:  sessionID,
		Input:      res.Input,
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Entities:   res.Entities,
		Action:     action.Kind,
		Reply:      action.Reply,
		CreatedAt:  time.Now(),
	})
	return id, nil
}

func (m *MockHistoryStore) RecentResults(limit int) ([]models.HistoryEntry, error) {
	if m.RecentResultsFunc != nil {
		return m.RecentResultsFunc(limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HistoryEntry
	for i := len(m.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *MockHistoryStore) IntentCounts() (map[models.Intent]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.Intent]int)
	for _, e := range m.entries {
		counts[e.Intent]++
	}
	return counts, nil
}

func (m *MockHistoryStore) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Entries returns everything logged so far, oldest first
func (m *MockHistoryStore) Entries() []models.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.HistoryEntry(nil), m.entries...)
}

// Verify mocks implement interfaces
var (
	_ interfaces.UtteranceProcessor = (*MockProcessor)(nil)
	_ interfaces.ActionPlanner      = (*MockPlanner)(nil)
	_ interfaces.HistoryStore       = (*MockHistoryStore)(nil)
)
