package kb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/logsentry/internal/embedding"
	"github.com/hyperjump/logsentry/internal/vector"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	index, err := vector.NewFlexibleStore(dir, "kb_test", embedding.NewHashEmbedder(32), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "kb.json")
	store, err := NewStore(context.Background(), path, index, nil)
	if err != nil {
		t.Fatal(err)
	}
	return store, path
}

func TestStoreSeedsDefaults(t *testing.T) {
	store, path := newTestStore(t)
	entries := store.Entries()
	if len(entries) != 3 {
		t.Fatalf("seeded %d entries, want 3", len(entries))
	}
	if entries[0].Issue != "Database connection timeout" {
		t.Errorf("first entry=%q", entries[0].Issue)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("seed file not written: %v", err)
	}
}

func TestStoreLoadIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.json")
	ctx := context.Background()

	index1, _ := vector.NewFlexibleStore(dir, "kb_a", embedding.NewHashEmbedder(32), "", nil)
	first, err := NewStore(ctx, path, index1, nil)
	if err != nil {
		t.Fatal(err)
	}

	index2, _ := vector.NewFlexibleStore(dir, "kb_b", embedding.NewHashEmbedder(32), "", nil)
	second, err := NewStore(ctx, path, index2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Entries()) != len(first.Entries()) {
		t.Errorf("entry count changed across loads: %d != %d", len(second.Entries()), len(first.Entries()))
	}
	if index2.Size() != len(second.Entries()) {
		t.Errorf("index size %d, want %d", index2.Size(), len(second.Entries()))
	}
}

func TestSearchSolutionsCodeTablePrecedence(t *testing.T) {
	store, _ := newTestStore(t)
	solutions, err := store.SearchSolutions(context.Background(), "ERR-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(solutions) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(solutions))
	}
	if solutions[0].ErrorType != "Database Connection Timeout" {
		t.Errorf("ErrorType=%q", solutions[0].ErrorType)
	}
	if solutions[0].Component != "Database" {
		t.Errorf("Component=%q", solutions[0].Component)
	}
	if len(solutions[0].SolutionSteps) != 4 {
		t.Errorf("SolutionSteps=%v", solutions[0].SolutionSteps)
	}
}

func TestSearchSolutionsFallback(t *testing.T) {
	store, _ := newTestStore(t)
	solutions, err := store.SearchSolutions(context.Background(), "UNKNOWN_CODE")
	if err != nil {
		t.Fatal(err)
	}
	if len(solutions) == 0 {
		t.Fatal("expected similarity fallback solutions")
	}
	for _, sol := range solutions {
		if sol.Confidence != "High" && sol.Confidence != "Medium" && sol.Confidence != "Low" {
			t.Errorf("unexpected confidence %q", sol.Confidence)
		}
		if len(sol.SolutionSteps) == 0 {
			t.Errorf("solution %q has no steps", sol.ErrorType)
		}
	}
}

func TestSearchSimilarIssues(t *testing.T) {
	store, _ := newTestStore(t)
	matches, err := store.SearchSimilarIssues(context.Background(), "database connection timeout", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Issue != "Database connection timeout" {
		t.Errorf("top match=%q", matches[0].Issue)
	}
	if len(matches[0].AffectedComponents) == 0 {
		t.Error("affected components lost in metadata round trip")
	}
}

func TestAddFixPersistsAndReindexes(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	err := store.AddFix(ctx, "Cache stampede on cold start",
		"Thundering herd after cache flush",
		"Add jitter to TTLs. Enable request coalescing.",
		[]string{"Cache"}, []string{"cache"})
	if err != nil {
		t.Fatal(err)
	}
	if len(store.Entries()) != 4 {
		t.Fatalf("entries=%d, want 4", len(store.Entries()))
	}

	// Reload from disk to confirm persistence.
	dir := t.TempDir()
	index, _ := vector.NewFlexibleStore(dir, "kb_reload", embedding.NewHashEmbedder(32), "", nil)
	reloaded, err := NewStore(ctx, path, index, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Entries()) != 4 {
		t.Fatalf("reloaded entries=%d, want 4", len(reloaded.Entries()))
	}

	matches, err := reloaded.SearchSimilarIssues(ctx, "cache stampede cold start", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Issue != "Cache stampede on cold start" {
		t.Errorf("new entry not searchable: %v", matches)
	}
}

func TestSearchByComponent(t *testing.T) {
	store, _ := newTestStore(t)
	if got := store.SearchByComponent("Database"); len(got) == 0 {
		t.Error("expected curated Database solutions")
	}
	if got := store.SearchByComponent("Nonexistent"); got != nil {
		t.Errorf("unknown component returned %v", got)
	}
}

func TestSuggestCode(t *testing.T) {
	store, _ := newTestStore(t)
	if got := store.SuggestCode("ERR-01"); got != "ERR-001" {
		t.Errorf("SuggestCode(ERR-01)=%q, want ERR-001", got)
	}
	if got := store.SuggestCode("COMPLETELY_DIFFERENT"); got != "" {
		t.Errorf("SuggestCode far code=%q, want empty", got)
	}
}

func TestConfidenceBucket(t *testing.T) {
	tests := []struct {
		similarity float64
		want       string
	}{
		{0.95, "High"},
		{0.81, "High"},
		{0.8, "Medium"},
		{0.61, "Medium"},
		{0.6, "Low"},
		{0.1, "Low"},
		{0, "Low"},
	}
	for _, tt := range tests {
		if got := ConfidenceBucket(tt.similarity); got != tt.want {
			t.Errorf("ConfidenceBucket(%f)=%q, want %q", tt.similarity, got, tt.want)
		}
	}
}

func TestSplitSteps(t *testing.T) {
	steps := splitSteps("Do this. Then that. ")
	if len(steps) != 2 || steps[0] != "Do this" || steps[1] != "Then that" {
		t.Errorf("splitSteps=%v", steps)
	}
	if got := splitSteps(""); got != nil {
		t.Errorf("splitSteps empty=%v", got)
	}
}
