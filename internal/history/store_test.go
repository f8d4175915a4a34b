package history

import (
	"context"
	"testing"

	"safemedia/internal/analysis"
)

func sampleReport(title, age string) *analysis.MediaAnalysis {
	return &analysis.MediaAnalysis{
		Title:     title,
		MediaType: "Movie",
		Ratings: analysis.MediaRating{
			OriginCountry: "United States",
			OriginRating:  "R",
			USMPARating:   "R",
			SuggestedAge:  age,
			Explanation:   "test",
		},
		ContentWarnings:   []analysis.ContentWarning{},
		Controversies:     []string{},
		OverallAssessment: "test",
	}
}

func TestRecordAndList(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first, err := store.Record(ctx, "the matrix", sampleReport("The Matrix", "18+"))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated entry id")
	}
	if _, err := store.Record(ctx, "spirited away", sampleReport("Spirited Away", "All Ages")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Spirited Away" {
		t.Fatalf("expected newest first, got %q", entries[0].Title)
	}
	if entries[1].Report == nil || entries[1].Report.Ratings.SuggestedAge != "18+" {
		t.Fatalf("expected full report round-trip, got %+v", entries[1].Report)
	}
}

func TestListHonorsLimit(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		if _, err := store.Record(ctx, title, sampleReport(title, "13+")); err != nil {
			t.Fatalf("Record %s: %v", title, err)
		}
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestRecordRequiresReport(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := store.Record(context.Background(), "query", nil); err == nil {
		t.Fatal("expected error for nil report")
	}
}

func TestOpenIsReentrant(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), "q", sampleReport("T", "13+")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %d", len(entries))
	}
}
