package analysis

import (
	"errors"
	"strings"
	"testing"

	"safemedia/internal/services"
)

const validPayload = `{
  "title": "The Matrix",
  "mediaType": "Movie",
  "ratings": {
    "originCountry": "United States",
    "originRating": "R",
    "usMpaRating": "R",
    "suggestedAge": "18+",
    "explanation": "Sustained sci-fi violence."
  },
  "contentWarnings": [
    {
      "category": "Violence",
      "severity": "High",
      "details": "Extended gunfights.",
      "specificScenes": ["Lobby shootout"]
    }
  ],
  "controversies": [],
  "overallAssessment": "Best suited to adults."
}`

func TestDecodeValidPayload(t *testing.T) {
	report, err := Decode(validPayload)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if report.Title != "The Matrix" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if report.Ratings.SuggestedAge != "18+" {
		t.Fatalf("unexpected suggested age %q", report.Ratings.SuggestedAge)
	}
	if len(report.ContentWarnings) != 1 || report.ContentWarnings[0].Severity != SeverityHigh {
		t.Fatalf("unexpected warnings %+v", report.ContentWarnings)
	}
}

func TestDecodeCodeFencedPayload(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"
	report, err := Decode(fenced)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if report.MediaType != "Movie" {
		t.Fatalf("unexpected media type %q", report.MediaType)
	}
}

func TestDecodeProseWrappedPayload(t *testing.T) {
	wrapped := "Here is the report you asked for:\n" + validPayload + "\nLet me know if you need more."
	if _, err := Decode(wrapped); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	for _, payload := range []string{"", "   ", "\n\t"} {
		_, err := Decode(payload)
		if !errors.Is(err, services.ErrEmptyResponse) {
			t.Fatalf("Decode(%q) = %v, want empty-response marker", payload, err)
		}
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := Decode(`{"title": "Broken"`)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed-response marker, got %v", err)
	}
}

func TestDecodeRejectsUnknownSeverity(t *testing.T) {
	payload := strings.Replace(validPayload, `"High"`, `"Catastrophic"`, 1)
	_, err := Decode(payload)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed-response marker, got %v", err)
	}
}

func TestParseSeverityCaseInsensitive(t *testing.T) {
	for input, want := range map[string]Severity{
		"low":     SeverityLow,
		"MEDIUM":  SeverityMedium,
		" High ":  SeverityHigh,
		"extreme": SeverityExtreme,
	} {
		got, err := ParseSeverity(input)
		if err != nil {
			t.Fatalf("ParseSeverity(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseSeverity(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseSeverity("mild"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}
