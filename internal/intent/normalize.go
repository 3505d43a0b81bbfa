package intent

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lemmatizer maps a word to its dictionary base form
type Lemmatizer interface {
	Lemma(word string) string
}

// TableLemmatizer is a fixed lookup lemmatizer. Words not in the table
// are their own lemma.
type TableLemmatizer map[string]string

// Lemma implements Lemmatizer
func (t TableLemmatizer) Lemma(word string) string {
	if lemma, ok := t[word]; ok {
		return lemma
	}
	return word
}

// NewDictionaryLemmatizer loads the English lemma dictionary
func NewDictionaryLemmatizer() (Lemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemma dictionary: %w", err)
	}
	return lem, nil
}

// Normalizer canonicalizes utterances and exemplars so they can be compared
type Normalizer struct {
	stopWords  map[string]bool
	lemmatizer Lemmatizer
}

// NewNormalizer creates a normalizer using the given lemmatizer
func NewNormalizer(lem Lemmatizer) *Normalizer {
	if lem == nil {
		lem = TableLemmatizer(nil)
	}
	return &Normalizer{
		stopWords:  buildStopWords(),
		lemmatizer: lem,
	}
}

// NewDefaultNormalizer creates a normalizer backed by the English dictionary
func NewDefaultNormalizer() (*Normalizer, error) {
	lem, err := NewDictionaryLemmatizer()
	if err != nil {
		return nil, err
	}
	return NewNormalizer(lem), nil
}

// Normalize lowercases, tokenizes, drops stop words and punctuation,
// lemmatizes, and rejoins with single spaces. Applying it twice gives
// the same result as applying it once.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(foldAccents(text))

	tokens := tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.stopWords[tok] {
			continue
		}
		out = append(out, n.lemma(tok))
	}
	return strings.Join(out, " ")
}

// IsStopWord reports whether the lowercased word is a stop word
func (n *Normalizer) IsStopWord(word string) bool {
	return n.stopWords[strings.ToLower(word)]
}

// lemma returns the lemma of tok only when the lemma is a stable, usable
// token. Otherwise tok is kept as-is.
func (n *Normalizer) lemma(tok string) string {
	l := n.lemmatizer.Lemma(tok)
	if l == tok {
		return tok
	}
	if l == "" || !isAlnum(l) || l != strings.ToLower(foldAccents(l)) || n.stopWords[l] {
		return tok
	}
	if n.lemmatizer.Lemma(l) != l {
		return tok
	}
	return l
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// tokenize splits on whitespace, trims surrounding punctuation, cuts
// contractions at the apostrophe and keeps purely alphanumeric tokens.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, isPunct)
		if i := strings.IndexAny(f, "'’"); i >= 0 {
			f = f[:i]
		}
		if f == "" || !isAlnum(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// buildStopWords returns the standard English stop word list
func buildStopWords() map[string]bool {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
		"yourselves", "he", "him", "his", "himself", "she", "she's", "her",
		"hers", "herself", "it", "it's", "its", "itself", "they", "them",
		"their", "theirs", "themselves", "what", "which", "who", "whom",
		"this", "that", "that'll", "these", "those", "am", "is", "are", "was",
		"were", "be", "been", "being", "have", "has", "had", "having", "do",
		"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or",
		"because", "as", "until", "while", "of", "at", "by", "for", "with",
		"about", "against", "between", "into", "through", "during", "before",
		"after", "above", "below", "to", "from", "up", "down", "in", "out",
		"on", "off", "over", "under", "again", "further", "then", "once",
		"here", "there", "when", "where", "why", "how", "all", "any", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
		"can", "will", "just", "don", "don't", "should", "should've", "now",
		"d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "aren't",
		"couldn", "couldn't", "didn", "didn't", "doesn", "doesn't", "hadn",
		"hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't", "ma",
		"mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan",
		"shan't", "shouldn", "shouldn't", "wasn", "wasn't", "weren",
		"weren't", "won", "won't", "wouldn", "wouldn't",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
