package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"safemedia/internal/services"
)

// Decode parses a raw backend payload into a MediaAnalysis. The schema
// constraint should make the payload plain JSON, but models occasionally wrap
// it in code fences or prose, so decoding tolerates both. Empty and
// unparseable payloads come back tagged with the matching sentinel.
func Decode(payload string) (*MediaAnalysis, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, services.Wrap(services.ErrEmptyResponse, "analysis", "decode", "no textual payload", nil)
	}

	var report MediaAnalysis
	directErr := json.Unmarshal([]byte(trimmed), &report)
	if directErr == nil {
		return &report, validate(&report)
	}

	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return nil, services.Wrap(services.ErrMalformedResponse, "analysis", "decode",
			fmt.Sprintf("payload snippet: %s", summarizeSnippet(trimmed)), directErr)
	}
	if err := json.Unmarshal([]byte(sanitized), &report); err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, "analysis", "decode",
			fmt.Sprintf("sanitized payload snippet: %s", summarizeSnippet(sanitized)), err)
	}
	return &report, validate(&report)
}

func validate(report *MediaAnalysis) error {
	if strings.TrimSpace(report.Title) == "" {
		return services.Wrap(services.ErrMalformedResponse, "analysis", "decode", "missing title", nil)
	}
	for i, warning := range report.ContentWarnings {
		if _, err := ParseSeverity(string(warning.Severity)); err != nil {
			return services.Wrap(services.ErrMalformedResponse, "analysis", "decode",
				fmt.Sprintf("contentWarnings[%d]", i), err)
		}
	}
	return nil
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarizeSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := replacer.Replace(trimmed)
	clean = strings.Join(strings.Fields(clean), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
