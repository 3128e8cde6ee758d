// Package urgency assigns a binary urgency level to accepted reports.
package urgency

import (
	"strings"

	"report-validation-pipeline/models"
	"report-validation-pipeline/vocab"
)

// Tag returns "urgent" when the description contains a global urgency term
// or one scoped to the report's category, matched as case-insensitive
// substrings. Otherwise it returns "normal".
func Tag(description, category string) string {
	text := strings.ToLower(description)

	for _, kw := range vocab.GlobalUrgencyKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return models.UrgencyUrgent
		}
	}
	for _, kw := range vocab.CategoryUrgencyKeywords[category] {
		if strings.Contains(text, strings.ToLower(kw)) {
			return models.UrgencyUrgent
		}
	}
	return models.UrgencyNormal
}
