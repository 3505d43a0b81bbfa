package intent

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/internal/journey"
	"github.com/themobileprof/vocalis/internal/logger"
	"github.com/themobileprof/vocalis/pkg/models"
)

// Processor runs normalization, classification and extraction for one
// utterance at a time
type Processor struct {
	classifier *Classifier
	extractor  *Extractor
	recorder   *journey.Recorder
	logger     *log.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithRecorder traces every processed utterance to a journey log
func WithRecorder(r *journey.Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

// WithLogger sets the debug logger
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor assembles a processor from its parts
func NewProcessor(c *Classifier, x *Extractor, opts ...Option) *Processor {
	p := &Processor{
		classifier: c,
		extractor:  x,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New builds the classifier and extractor for a catalog
func New(cat *catalog.Catalog, n *Normalizer, threshold float64, opts ...Option) (*Processor, error) {
	c, err := NewClassifier(cat, n, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}
	x, err := NewExtractor(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}
	return NewProcessor(c, x, opts...), nil
}

// Explain returns every intent's score for the utterance in catalog order
func (p *Processor) Explain(input string) []models.IntentScore {
	return p.classifier.Scores(input)
}

// Process classifies the utterance and extracts its slots
func (p *Processor) Process(input string) (*models.NLPResult, error) {
	var trace *journey.Journey
	if p.recorder != nil {
		trace = p.recorder.Start(input)
	}

	// Step 1: normalize
	start := time.Now()
	normalized := p.classifier.normalizer.Normalize(input)
	trace.AddStep("normalize", len(strings.Fields(normalized)), 0, time.Since(start), normalized)

	// Step 2: score every intent and pick the winner
	start = time.Now()
	scores := p.classifier.score(normalized)
	cls := p.classifier.pick(scores)
	trace.AddStep("classify", countPositive(scores), cls.Confidence, time.Since(start), string(cls.Intent))
	trace.SetCandidates(toCandidates(scores))

	// Step 3: extract slots from the raw utterance
	start = time.Now()
	entities, err := p.extractor.Extract(input, cls.Intent)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}
	trace.AddStep("extract", len(entities), 0, time.Since(start), "")

	result := &models.NLPResult{
		Input:      input,
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Entities:   entities,
	}

	p.logger.Debug("processed utterance",
		"input", input,
		"normalized", normalized,
		"intent", result.Intent,
		"confidence", fmt.Sprintf("%.3f", result.Confidence),
		"entities", len(entities),
	)

	if p.recorder != nil {
		if err := p.recorder.End(trace, result); err != nil {
			p.logger.Warn("failed to write journey", "err", err)
		}
	}

	return result, nil
}

func countPositive(scores []models.IntentScore) int {
	n := 0
	for _, s := range scores {
		if s.Score > 0 {
			n++
		}
	}
	return n
}

func toCandidates(scores []models.IntentScore) []journey.Candidate {
	out := make([]journey.Candidate, 0, len(scores))
	for _, s := range scores {
		if s.Score > 0 {
			out = append(out, journey.Candidate{Intent: s.Intent, Score: s.Score})
		}
	}
	return out
}
