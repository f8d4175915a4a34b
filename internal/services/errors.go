package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used to classify analysis and capture failures. The user
// never sees these directly: the session controller collapses every analysis
// failure into one generic message and keeps the classification for logs.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrEmptyResponse     = errors.New("empty response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrTransport         = errors.New("transport error")
	ErrVoiceUnavailable  = errors.New("voice capture unavailable")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsConfiguration reports whether the error chain carries the configuration
// marker. Configuration failures are the one class worth distinguishing in
// diagnostics: they are not fixable by resubmitting.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
