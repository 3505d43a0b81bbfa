package journey

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/themobileprof/vocalis/pkg/models"
)

// Journey is the trace of one processed utterance
type Journey struct {
	Timestamp  time.Time       `json:"timestamp"`
	Query      string          `json:"query"`
	Steps      []Step          `json:"steps"`
	Candidates []Candidate     `json:"candidates,omitempty"`
	Intent     models.Intent   `json:"intent,omitempty"`
	Confidence float64         `json:"confidence"`
	Entities   models.Entities `json:"entities,omitempty"`
}

// Step represents one processing phase (normalize, classify, extract)
type Step struct {
	Source     string  `json:"source"`
	Candidates int     `json:"candidates"`  // items produced by this step
	TopScore   float64 `json:"top_score"`   // highest score in this step
	DurationMs int64   `json:"duration_ms"` // time taken for this step
	Details    string  `json:"details,omitempty"`
}

// Candidate is an intent that scored above zero
type Candidate struct {
	Intent models.Intent `json:"intent"`
	Score  float64       `json:"score"`
}

// maxCandidates limits how many candidates are kept per journey
const maxCandidates = 5

// AddStep records a processing step. Safe to call on a nil journey.
func (j *Journey) AddStep(source string, candidates int, topScore float64, duration time.Duration, details string) {
	if j == nil {
		return
	}
	j.Steps = append(j.Steps, Step{
		Source:     source,
		Candidates: candidates,
		TopScore:   topScore,
		DurationMs: duration.Milliseconds(),
		Details:    details,
	})
}

// SetCandidates keeps the highest scoring candidates
func (j *Journey) SetCandidates(candidates []Candidate) {
	if j == nil {
		return
	}
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Score > sorted[b].Score })
	if len(sorted) > maxCandidates {
		sorted = sorted[:maxCandidates]
	}
	j.Candidates = sorted
}

// Recorder appends journeys to a JSONL file
type Recorder struct {
	mu   sync.Mutex
	path string
}

// New creates a recorder writing to path
func New(path string) *Recorder {
	return &Recorder{path: path}
}

// DefaultPath returns the default journey log location
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".vocalis", "journey.jsonl")
}

// Path returns the file the recorder writes to
func (r *Recorder) Path() string {
	return r.path
}

// Start begins a new journey for a query
func (r *Recorder) Start(query string) *Journey {
	return &Journey{
		Timestamp: time.Now(),
		Query:     query,
		Steps:     make([]Step, 0, 3),
	}
}

// End finalizes the journey with its result and appends it to the log
func (r *Recorder) End(j *Journey, result *models.NLPResult) error {
	if j == nil {
		return nil
	}
	if result != nil {
		j.Intent = result.Intent
		j.Confidence = result.Confidence
		j.Entities = result.Entities
	}

	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal journey: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create journey directory: %w", err)
	}

	// JSONL: one journey per line
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journey log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journey log: %w", err)
	}
	return nil
}

// ReadAll loads every journey in the log. A missing file yields no journeys.
func (r *Recorder) ReadAll() ([]Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journey log: %w", err)
	}
	defer f.Close()

	var journeys []Journey
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var j Journey
		if err := json.Unmarshal(scanner.Bytes(), &j); err != nil {
			return nil, fmt.Errorf("failed to parse journey: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journey log: %w", err)
	}
	return journeys, nil
}
