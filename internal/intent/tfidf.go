package intent

import (
	"math"
	"strings"
	"unicode/utf8"
)

// vectorSpace is a TF-IDF space fitted over a small, fixed document set.
// Each intent gets its own space per classification, so IDF weights are
// scoped to that intent's exemplars plus the utterance being scored.
type vectorSpace struct {
	idf     map[string]float64
	vectors []map[string]float64
}

// newVectorSpace fits IDF over docs and returns L2-normalized TF-IDF
// vectors, one per document, in input order.
func newVectorSpace(docs []string) *vectorSpace {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = computeTermFreq(doc)
		for term := range counts[i] {
			df[term]++
		}
	}

	// Smoothed IDF: as if one extra document contained every term once
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	s := &vectorSpace{
		idf:     idf,
		vectors: make([]map[string]float64, len(docs)),
	}
	for i, tf := range counts {
		s.vectors[i] = s.weigh(tf)
	}
	return s
}

// weigh applies IDF to raw counts and L2-normalizes the result
func (s *vectorSpace) weigh(tf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tf))
	var sumSq float64
	for term, count := range tf {
		w := count * s.idf[term]
		vec[term] = w
		sumSq += w * w
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

// computeTermFreq counts raw term occurrences. Terms shorter than two
// characters are not indexed.
func computeTermFreq(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		tf[token]++
	}
	return tf
}

// cosineSimilarity of two L2-normalized vectors. Zero vectors score 0.
func cosineSimilarity(v1, v2 map[string]float64) float64 {
	if len(v2) < len(v1) {
		v1, v2 = v2, v1
	}
	var dot float64
	for term, w := range v1 {
		dot += w * v2[term]
	}
	return dot
}

// maxSimilarity scores an utterance against a set of exemplars inside a
// space fitted on both. Returns the best exemplar similarity.
func maxSimilarity(exemplars []string, utterance string) float64 {
	docs := make([]string, 0, len(exemplars)+1)
	docs = append(docs, exemplars...)
	docs = append(docs, utterance)

	space := newVectorSpace(docs)
	query := space.vectors[len(docs)-1]
	if len(query) == 0 {
		return 0
	}

	best := 0.0
	for _, vec := range space.vectors[:len(exemplars)] {
		if score := cosineSimilarity(query, vec); score > best {
			best = score
		}
	}
	// Rounding can push an exact match a hair past 1
	return math.Min(best, 1)
}

// hasIndexableTerms reports whether text yields a non-empty vector
func hasIndexableTerms(text string) bool {
	return len(computeTermFreq(text)) > 0
}
