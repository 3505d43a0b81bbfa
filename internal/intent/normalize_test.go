package intent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dictOnce       sync.Once
	dictNormalizer *Normalizer
	dictErr        error
)

// dictionaryNormalizer loads the English lemma dictionary once per test run
func dictionaryNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	dictOnce.Do(func() {
		dictNormalizer, dictErr = NewDefaultNormalizer()
	})
	require.NoError(t, dictErr)
	return dictNormalizer
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(TableLemmatizer{
		"files":   "file",
		"running": "run",
		"saying":  "say",
		"wasnt":   "be", // lemma is a stop word
		"ab1":     "cd2",
		"cd2":     "ef3", // lemma is not its own lemma
		"mice":    "Mouse",
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"contraction and punctuation", "What's the weather like in New York?", "weather like new york"},
		{"domain token dropped", "open youtube.com", "open"},
		{"stop words only", "the and of", ""},
		{"empty", "", ""},
		{"whitespace", "   \t\n ", ""},
		{"accents folded", "Café résumé", "cafe resume"},
		{"clitic is stop word", "I'll be home soon", "home soon"},
		{"lemmatized", "show files running", "show file run"},
		{"trailing percent", "set brightness to 50%", "set brightness 50"},
		{"quoted", `search "golang tutorials"`, "search golang tutorials"},
		{"stop word lemma rejected", "wasnt", "wasnt"},
		{"unstable lemma rejected", "ab1", "ab1"},
		{"uppercase lemma rejected", "mice", "mice"},
		{"hyphenated dropped", "wi-fi speed", "speed"},
		{"collapses spaces", "check    internet   speed", "check internet speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"What's the weather like in New York?",
		"send a message to mom saying i'll be home soon",
		"tell me the latest sports news",
		"search wikipedia for albert einstein",
		"Open notepad application",
		"remind me to call mom in 10 minutes",
		"show files and documents",
		"running performances headlines updates",
		"Café déjà vu",
		"blah blah nonsense xyz",
		"",
	}

	normalizers := map[string]*Normalizer{
		"table": NewNormalizer(TableLemmatizer{"files": "file", "ab1": "cd2", "cd2": "ef3"}),
		"dict":  dictionaryNormalizer(t),
	}

	for name, n := range normalizers {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				once := n.Normalize(in)
				assert.Equal(t, once, n.Normalize(once), "input %q", in)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	n := NewNormalizer(nil)
	assert.True(t, n.IsStopWord("The"))
	assert.True(t, n.IsStopWord("up"))
	assert.False(t, n.IsStopWord("weather"))
	assert.False(t, n.IsStopWord("like"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"what", "news", "50"}, tokenize("what's (news)? 50%"))
	assert.Empty(t, tokenize("... !! youtube.com"))
}
