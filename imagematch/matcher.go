// Package imagematch decides whether an image-classifier label is consistent
// with a textually inferred category. The policy is deliberately permissive:
// it only rejects when the category has configured vocabulary and the label
// clearly matches none of it. Every uncertain case passes.
package imagematch

import (
	"strings"

	"report-validation-pipeline/vocab"
)

// minTokenLength is the shortest label token considered meaningful for
// partial matching.
const minTokenLength = 3

// Matches reports whether the label is consistent with the category.
// Rules are applied in order, first match wins.
func Matches(imageLabel, category string) bool {
	label := strings.TrimSpace(strings.ToLower(imageLabel))

	// Empty label: the classifier failed or returned nothing. Uncertain,
	// allow through.
	if label == "" {
		return true
	}

	// Generic labels are too vague to reject over.
	if label == "other" || vocab.GenericImageLabels[label] {
		return true
	}

	allowed := lowered(vocab.ImageLabels[category])
	keywords := lowered(vocab.CategoryKeywords[category])

	// Exact match against the category's allowed labels.
	for _, lbl := range allowed {
		if label == lbl {
			return true
		}
	}

	// Substring match, either direction, against allowed labels.
	for _, lbl := range allowed {
		if strings.Contains(label, lbl) || strings.Contains(lbl, label) {
			return true
		}
	}

	// Substring match, either direction, against category keywords.
	for _, kw := range keywords {
		if strings.Contains(label, kw) || strings.Contains(kw, label) {
			return true
		}
	}

	// Shared token with any allowed label.
	labelTokens := strings.Fields(label)
	for _, lbl := range allowed {
		for _, lt := range labelTokens {
			for _, at := range strings.Fields(lbl) {
				if lt == at {
					return true
				}
			}
		}
	}

	// Any meaningful label token partially matching a keyword or allowed
	// label.
	for _, token := range labelTokens {
		if len(token) < minTokenLength {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(kw, token) || strings.Contains(token, kw) {
				return true
			}
		}
		for _, lbl := range allowed {
			if strings.Contains(lbl, token) || strings.Contains(token, lbl) {
				return true
			}
		}
	}

	// Nothing configured for this category: cannot validate, so do not
	// reject.
	if len(allowed) == 0 && len(keywords) == 0 {
		return true
	}

	return false
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
