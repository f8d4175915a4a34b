package services_test

import (
	"errors"
	"fmt"
	"testing"

	"safemedia/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "gemini", "analyze", "request failed", base)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker in %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause in %v", err)
	}
}

func TestWrapDefaultsToTransport(t *testing.T) {
	err := services.Wrap(nil, "gemini", "analyze", "", nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport default, got %v", err)
	}
}

func TestIsConfiguration(t *testing.T) {
	err := fmt.Errorf("outer: %w", services.Wrap(services.ErrConfiguration, "gemini", "analyze", "api key required", nil))
	if !services.IsConfiguration(err) {
		t.Fatalf("expected configuration classification for %v", err)
	}
	if services.IsConfiguration(errors.New("other")) {
		t.Fatal("unexpected configuration classification")
	}
}

func TestWrapWithoutContext(t *testing.T) {
	err := services.Wrap(services.ErrEmptyResponse, "", "", "", nil)
	if got := err.Error(); got != "empty response: service failure" {
		t.Fatalf("unexpected message %q", got)
	}
}
