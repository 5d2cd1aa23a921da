package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/logsentry/internal/models"
)

func newTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	h, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func testAnalysisRecord(id string, createdAt time.Time) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		ID:            id,
		Query:         "database timeout",
		Origin:        models.Origin{Zone: "us-east", Client: "acme", App: "payments", Version: "v2"},
		RCA:           "# Troubleshooting Results",
		ExactMatches:  2,
		SimilarErrors: 0,
		Solutions:     1,
		TotalErrors:   3,
		CreatedAt:     createdAt,
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	record := testAnalysisRecord("run-1", time.Now())
	if err := h.SaveAnalysis(ctx, record); err != nil {
		t.Fatal(err)
	}

	got, err := h.GetAnalysis(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Query != record.Query {
		t.Errorf("Query=%q", got.Query)
	}
	if got.Origin != record.Origin {
		t.Errorf("Origin=%+v", got.Origin)
	}
	if got.ExactMatches != 2 || got.Solutions != 1 || got.TotalErrors != 3 {
		t.Errorf("counts: %+v", got)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	h := newTestHistory(t)
	if _, err := h.GetAnalysis(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing analysis")
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		record := testAnalysisRecord(id, base.Add(time.Duration(i)*time.Minute))
		if err := h.SaveAnalysis(ctx, record); err != nil {
			t.Fatal(err)
		}
	}

	records, err := h.ListAnalyses(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("listed %d records, want 3", len(records))
	}
	if records[0].ID != "new" || records[2].ID != "old" {
		t.Errorf("order: %s, %s, %s", records[0].ID, records[1].ID, records[2].ID)
	}

	page, err := h.ListAnalyses(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].ID != "mid" {
		t.Errorf("pagination: %+v", page)
	}
}

func TestCountAnalyses(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	count, err := h.CountAnalyses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("empty count=%d", count)
	}
	_ = h.SaveAnalysis(ctx, testAnalysisRecord("a", time.Now()))
	_ = h.SaveAnalysis(ctx, testAnalysisRecord("b", time.Now()))
	count, _ = h.CountAnalyses(ctx)
	if count != 2 {
		t.Errorf("count=%d, want 2", count)
	}
}

func TestSaveSetsCreatedAt(t *testing.T) {
	h := newTestHistory(t)
	record := testAnalysisRecord("ts", time.Time{})
	if err := h.SaveAnalysis(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt not defaulted")
	}
}
