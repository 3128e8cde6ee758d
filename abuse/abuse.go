// Package abuse flags descriptions containing profane or abusive language.
package abuse

import (
	"context"
	"strings"

	"github.com/apex/log"

	"report-validation-pipeline/vocab"
)

// TextClassifier is an optional statistical profanity capability. Its absence
// or failure never blocks the filter; it can only add rejections on top of
// the keyword list.
type TextClassifier interface {
	Predict(ctx context.Context, text string) (bool, error)
}

// Filter combines a static keyword list with an optional statistical
// classifier. The keyword list is the authoritative signal.
type Filter struct {
	keywords   []string
	classifier TextClassifier
}

// New creates a filter over the static profanity vocabulary. classifier may
// be nil.
func New(classifier TextClassifier) *Filter {
	keywords := make([]string, 0, len(vocab.ProfanityKeywords))
	for _, kw := range vocab.ProfanityKeywords {
		keywords = append(keywords, strings.ToLower(kw))
	}
	return &Filter{keywords: keywords, classifier: classifier}
}

// IsAbusive reports whether the description contains abusive language.
// Keywords are matched as case-insensitive substrings; the statistical
// classifier, when configured and reachable, is ORed in.
func (f *Filter) IsAbusive(ctx context.Context, description string) bool {
	text := strings.ToLower(description)
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	if f.classifier != nil {
		profane, err := f.classifier.Predict(ctx, description)
		if err != nil {
			log.Warnf("Statistical profanity check failed, keyword verdict stands: %v", err)
			return false
		}
		return profane
	}

	return false
}
