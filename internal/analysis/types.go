// Package analysis defines the structured content-safety report returned by
// the generative backend, together with the response schema that forces the
// backend into that exact shape. The two live in one package so a field
// change cannot drift between them.
package analysis

import (
	"fmt"
	"strings"
)

// Severity is the closed ordinal scale for content warnings.
type Severity string

const (
	SeverityLow     Severity = "Low"
	SeverityMedium  Severity = "Medium"
	SeverityHigh    Severity = "High"
	SeverityExtreme Severity = "Extreme"
)

// Severities lists all valid severity values in ascending order.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityExtreme}
}

// ParseSeverity resolves a severity value case-insensitively.
func ParseSeverity(value string) (Severity, error) {
	trimmed := strings.TrimSpace(value)
	for _, s := range Severities() {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", value)
}

// ContentWarning is a categorized, severity-rated concern with supporting
// detail and optional scene citations.
type ContentWarning struct {
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Details        string   `json:"details"`
	SpecificScenes []string `json:"specificScenes"`
}

// MediaRating carries the origin-aware rating block of a report.
type MediaRating struct {
	OriginCountry string `json:"originCountry"`
	OriginRating  string `json:"originRating"`
	USMPARating   string `json:"usMpaRating"`
	SuggestedAge  string `json:"suggestedAge"`
	Explanation   string `json:"explanation"`
}

// MediaAnalysis is the complete content-safety report for one media title.
// Instances are immutable once decoded from a backend response.
type MediaAnalysis struct {
	Title             string           `json:"title"`
	MediaType         string           `json:"mediaType"`
	Ratings           MediaRating      `json:"ratings"`
	ContentWarnings   []ContentWarning `json:"contentWarnings"`
	Controversies     []string         `json:"controversies"`
	OverallAssessment string           `json:"overallAssessment"`
}
