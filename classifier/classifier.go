// Package classifier infers an issue category from a free-text description
// using weighted keyword matching over a static vocabulary. Matching is done
// with a single Aho-Corasick pass instead of one substring search per keyword.
package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"report-validation-pipeline/vocab"
)

const (
	// phraseWeight is the score contributed by a multi-word vocabulary term;
	// singleWeight by a single word. Phrases are more specific, so they count
	// double.
	phraseWeight = 2.0
	singleWeight = 1.0

	// confidenceScale normalizes a raw keyword score into [0,1]. One single
	// keyword match lands exactly on the global 0.1 acceptance threshold.
	confidenceScale = 10.0
)

type categoryWeight struct {
	category string
	weight   float64
}

// Classifier maps descriptions to categories with a confidence score.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	matcher   *ahocorasick.Matcher
	keywords  []string
	kwWeights map[string][]categoryWeight
	priority  map[string]int
}

// New builds a classifier from the static category vocabulary.
func New() *Classifier {
	c := &Classifier{
		kwWeights: make(map[string][]categoryWeight),
		priority:  make(map[string]int),
	}

	for i, category := range vocab.CategoryPriority {
		c.priority[category] = i
	}

	seen := make(map[string]bool)
	for category, keywords := range vocab.CategoryKeywords {
		for _, kw := range keywords {
			normalized := normalize(kw)
			if normalized == "" {
				continue
			}
			weight := singleWeight
			if strings.Contains(normalized, " ") {
				weight = phraseWeight
			}
			c.kwWeights[normalized] = append(c.kwWeights[normalized], categoryWeight{
				category: category,
				weight:   weight,
			})
			if !seen[normalized] {
				seen[normalized] = true
				c.keywords = append(c.keywords, normalized)
			}
		}
	}

	c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	return c
}

// Classify returns the best-scoring category for the description and a
// confidence in [0,1]. When no vocabulary term matches, it returns the
// sentinel category "Other" with confidence 0. Callers must not pass an
// empty description; the pipeline rejects those before classification.
func (c *Classifier) Classify(description string) (string, float64) {
	text := normalize(description)

	hits := c.matcher.Match([]byte(text))

	scores := make(map[string]float64)
	for _, hit := range hits {
		if hit < 0 || hit >= len(c.keywords) {
			continue
		}
		for _, cw := range c.kwWeights[c.keywords[hit]] {
			scores[cw.category] += cw.weight
		}
	}

	best := ""
	bestScore := 0.0
	for category, score := range scores {
		if score > bestScore || (score == bestScore && best != "" && c.priority[category] < c.priority[best]) {
			best = category
			bestScore = score
		}
	}

	if best == "" || bestScore <= 0 {
		return vocab.CategoryOther, 0.0
	}

	confidence := bestScore / confidenceScale
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence
}

// normalize lowercases text and collapses runs of whitespace so that
// multi-word vocabulary phrases match regardless of spacing.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
