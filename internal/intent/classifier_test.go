package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/pkg/models"
)

func newTestClassifier(t *testing.T, n *Normalizer) *Classifier {
	t.Helper()
	c, err := NewClassifier(catalog.MustDefault(), n, DefaultThreshold)
	require.NoError(t, err)
	return c
}

func parseCatalog(t *testing.T, data string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(data))
	require.NoError(t, err)
	return cat
}

func TestClassifyScenarios(t *testing.T) {
	c := newTestClassifier(t, dictionaryNormalizer(t))

	tests := []struct {
		input string
		want  models.Intent
	}{
		{"what's the weather like in new york", models.IntentWeather},
		{"open youtube.com", models.IntentOpenWebsite},
		{"send a message to mom saying i'll be home soon", models.IntentWhatsApp},
		{"tell me the latest sports news", models.IntentNews},
		{"search wikipedia for albert einstein", models.IntentWikipedia},
		{"Open notepad application", models.IntentAppControl},
		{"check internet speed", models.IntentInternetSpeed},
		{"what is my ip address", models.IntentSystemInfo},
		{"set brightness to 50%", models.IntentSystemControl},
		{"open file explorer in downloads", models.IntentFileExplorer},
		{"launch calculator", models.IntentAppControl},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.want, got.Intent)
			assert.Greater(t, got.Confidence, DefaultThreshold)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	c := newTestClassifier(t, dictionaryNormalizer(t))

	for _, input := range []string{"blah blah nonsense xyz", "", "   ", "the and of", "?!"} {
		got := c.Classify(input)
		assert.Equal(t, models.IntentGeneralQuery, got.Intent, "input %q", input)
		assert.Zero(t, got.Confidence, "input %q", input)
	}
}

func TestExemplarsClassifyToOwnIntent(t *testing.T) {
	cat := catalog.MustDefault()

	normalizers := map[string]*Normalizer{
		"identity": NewNormalizer(nil),
		"dict":     dictionaryNormalizer(t),
	}
	for name, n := range normalizers {
		t.Run(name, func(t *testing.T) {
			c, err := NewClassifier(cat, n, DefaultThreshold)
			require.NoError(t, err)

			for _, in := range cat.Intents() {
				for _, ex := range cat.Exemplars(in) {
					got := c.Classify(ex)
					assert.Equal(t, in, got.Intent, "exemplar %q", ex)
					assert.Greater(t, got.Confidence, DefaultThreshold, "exemplar %q", ex)
				}
			}
		})
	}
}

func TestScoresInCatalogOrder(t *testing.T) {
	c := newTestClassifier(t, NewNormalizer(nil))
	scores := c.Scores("check internet speed")

	require.Len(t, scores, len(catalog.MustDefault().Intents()))
	for i, in := range catalog.MustDefault().Intents() {
		assert.Equal(t, in, scores[i].Intent)
		assert.GreaterOrEqual(t, scores[i].Score, 0.0)
		assert.LessOrEqual(t, scores[i].Score, 1.0)
	}
	assert.InDelta(t, 1.0, scores[len(scores)-2].Score, 1e-9) // internet_speed
}

func TestClassifyTieGoesToFirstDeclared(t *testing.T) {
	n := NewNormalizer(nil)

	ab := parseCatalog(t, `
intents:
  - name: weather
    exemplars: [alpha beta]
  - name: news
    exemplars: [alpha gamma]
`)
	c, err := NewClassifier(ab, n, DefaultThreshold)
	require.NoError(t, err)

	scores := c.Scores("alpha")
	require.Len(t, scores, 2)
	require.Equal(t, scores[0].Score, scores[1].Score)
	assert.Equal(t, models.IntentWeather, c.Classify("alpha").Intent)

	ba := parseCatalog(t, `
intents:
  - name: news
    exemplars: [alpha gamma]
  - name: weather
    exemplars: [alpha beta]
`)
	c, err = NewClassifier(ba, n, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, models.IntentNews, c.Classify("alpha").Intent)
}

func TestClassifyThresholdIsStrict(t *testing.T) {
	n := NewNormalizer(nil)
	cat := parseCatalog(t, `
intents:
  - name: weather
    exemplars: [alpha beta]
`)

	c, err := NewClassifier(cat, n, 0)
	require.NoError(t, err)
	score := c.Scores("alpha")[0].Score
	require.Greater(t, score, 0.0)
	assert.Equal(t, models.IntentWeather, c.Classify("alpha").Intent)

	c, err = NewClassifier(cat, n, score)
	require.NoError(t, err)
	got := c.Classify("alpha")
	assert.Equal(t, models.IntentGeneralQuery, got.Intent)
	assert.Zero(t, got.Confidence)
}

func TestPerIntentIDF(t *testing.T) {
	// "weather" appears in every exemplar of the first intent but is rare
	// in the second, so its weight differs between the two spaces.
	n := NewNormalizer(nil)
	cat := parseCatalog(t, `
intents:
  - name: weather
    exemplars: [weather today, weather tomorrow]
  - name: news
    exemplars: [weather news, sports news, business news]
`)
	c, err := NewClassifier(cat, n, DefaultThreshold)
	require.NoError(t, err)

	scores := c.Scores("weather")
	assert.NotEqual(t, scores[0].Score, scores[1].Score)
}

func TestNewClassifierRejectsBadExemplars(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name string
		yaml string
	}{
		{"normalizes to nothing", "intents:\n  - name: weather\n    exemplars: [the of]"},
		{"single character only", "intents:\n  - name: weather\n    exemplars: [x]"},
		{"shared exemplar", "intents:\n  - name: weather\n    exemplars: [web search]\n  - name: news\n    exemplars: [search web]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(parseCatalog(t, tt.yaml), n, DefaultThreshold)
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}

	_, err := NewClassifier(catalog.MustDefault(), n, 1.5)
	assert.Error(t, err)
}

func TestMaxSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, maxSimilarity([]string{"check internet speed"}, "check internet speed"), 1e-9)
	assert.Zero(t, maxSimilarity([]string{"weather"}, "news"))
	assert.Zero(t, maxSimilarity([]string{"weather"}, ""))
}
