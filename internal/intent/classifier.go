package intent

import (
	"fmt"
	"slices"
	"strings"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/pkg/models"
)

// DefaultThreshold is the score an intent must exceed to be selected
const DefaultThreshold = 0.1

// Classifier picks the catalog intent whose exemplars are closest to an
// utterance. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	normalizer *Normalizer
	intents    []models.Intent
	exemplars  map[models.Intent][]string // normalized
	threshold  float64
}

// NewClassifier normalizes every exemplar once up front. It fails when an
// exemplar normalizes to nothing or when two intents share a normalized
// exemplar, since either would make that exemplar unclassifiable.
func NewClassifier(cat *catalog.Catalog, n *Normalizer, threshold float64) (*Classifier, error) {
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v out of range [0,1)", threshold)
	}

	c := &Classifier{
		normalizer: n,
		intents:    cat.Intents(),
		exemplars:  make(map[models.Intent][]string),
		threshold:  threshold,
	}

	owner := make(map[string]models.Intent)
	for _, in := range c.intents {
		for _, raw := range cat.Exemplars(in) {
			norm := n.Normalize(raw)
			if !hasIndexableTerms(norm) {
				return nil, fmt.Errorf("%w: exemplar %q of %s normalizes to nothing", catalog.ErrInvalidCatalog, raw, in)
			}
			key := termKey(norm)
			if prev, ok := owner[key]; ok && prev != in {
				return nil, fmt.Errorf("%w: exemplar %q of %s collides with %s", catalog.ErrInvalidCatalog, raw, in, prev)
			}
			owner[key] = in
			c.exemplars[in] = append(c.exemplars[in], norm)
		}
	}

	return c, nil
}

// Threshold returns the selection threshold
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify returns the best intent and its score, or general_query with
// zero confidence when nothing scores above the threshold. Ties go to the
// intent declared first in the catalog.
func (c *Classifier) Classify(utterance string) models.Classification {
	return c.pick(c.score(c.normalizer.Normalize(utterance)))
}

// Scores returns every intent's score in catalog order
func (c *Classifier) Scores(utterance string) []models.IntentScore {
	return c.score(c.normalizer.Normalize(utterance))
}

func (c *Classifier) score(normalized string) []models.IntentScore {
	scores := make([]models.IntentScore, len(c.intents))
	for i, in := range c.intents {
		scores[i] = models.IntentScore{Intent: in}
		if normalized == "" {
			continue
		}
		scores[i].Score = maxSimilarity(c.exemplars[in], normalized)
	}
	return scores
}

func (c *Classifier) pick(scores []models.IntentScore) models.Classification {
	best := -1
	for i, s := range scores {
		// strict comparison keeps the earlier intent on ties
		if best < 0 || s.Score > scores[best].Score {
			best = i
		}
	}
	if best < 0 || scores[best].Score <= c.threshold {
		return models.Classification{Intent: models.IntentGeneralQuery, Confidence: 0}
	}
	return models.Classification{Intent: scores[best].Intent, Confidence: scores[best].Score}
}

// termKey identifies exemplars that produce the same term vector
func termKey(normalized string) string {
	var terms []string
	for term, count := range computeTermFreq(normalized) {
		terms = append(terms, fmt.Sprintf("%s:%v", term, count))
	}
	slices.Sort(terms)
	return strings.Join(terms, " ")
}
