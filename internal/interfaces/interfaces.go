package interfaces

import (
	"github.com/themobileprof/vocalis/pkg/models"
)

// UtteranceProcessor turns raw utterances into NLP results
type UtteranceProcessor interface {
	// Process classifies the utterance and extracts its entities
	Process(input string) (*models.NLPResult, error)
	// Explain returns every intent's score for the utterance in catalog order
	Explain(input string) []models.IntentScore
}

// ActionPlanner decides what the assistant should do with a result
type ActionPlanner interface {
	// Plan maps an NLP result to an action without executing it
	Plan(res *models.NLPResult) models.Action
}

// HistoryStore persists processed interactions
type HistoryStore interface {
	// LogResult stores an interaction and returns its ID
	LogResult(sessionID string, res *models.NLPResult, action models.Action) (int64, error)
	// RecentResults returns the latest interactions, newest first
	RecentResults(limit int) ([]models.HistoryEntry, error)
	// IntentCounts returns how often each intent was recorded
	IntentCounts() (map[models.Intent]int, error)
	// ClearHistory removes all stored interactions
	ClearHistory() error
}

// IntentCatalog exposes the declared intents and their exemplars
type IntentCatalog interface {
	// Intents returns intent names in declaration order
	Intents() []models.Intent
	// Exemplars returns the exemplar phrases of an intent
	Exemplars(intent models.Intent) []string
}
