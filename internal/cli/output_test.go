package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/logsentry/internal/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		RCA:           "# Troubleshooting Results",
		ExactMatches:  []string{"line one", "line two"},
		SimilarErrors: []string{},
		Solutions: []models.SolutionRef{
			{Error: "Database Connection Timeout", Solution: "Restart the pool", ExactMatch: true},
		},
		Stats: models.LogStats{TotalErrors: 3, FileCount: 1, UniqueComponents: 2, QueryMatches: 2},
	}
}

func TestWriteAnalysisResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysisResult(&buf, sampleResult(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "# Troubleshooting Results") {
		t.Errorf("missing narrative: %q", out)
	}
	if !strings.Contains(out, "Exact matches: 2 | Similar errors: 0 | Solutions: 1") {
		t.Errorf("missing counts line: %q", out)
	}
	if !strings.Contains(out, "3 error lines across 1 files, 2 components") {
		t.Errorf("missing corpus line: %q", out)
	}
}

func TestWriteAnalysisResultTextError(t *testing.T) {
	var buf bytes.Buffer
	result := &models.AnalysisResult{Error: "No log data available"}
	if err := WriteAnalysisResult(&buf, result, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No log data available") {
		t.Errorf("missing error: %q", out)
	}
	if strings.Contains(out, "Exact matches") {
		t.Errorf("counts printed for error result: %q", out)
	}
}

func TestWriteAnalysisResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysisResult(&buf, sampleResult(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.AnalysisResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.ExactMatches) != 2 || decoded.Stats.TotalErrors != 3 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestWriteKnowledgeEntriesText(t *testing.T) {
	entries := []models.KnowledgeEntry{
		{
			Issue:              "Database Connection Timeout",
			RootCause:          "Connection pool exhausted",
			Solution:           "Increase the pool size",
			AffectedComponents: []string{"Database", "ConnectionPool"},
		},
	}
	var buf bytes.Buffer
	if err := WriteKnowledgeEntries(&buf, entries, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "1 knowledge base entries") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "1. Database Connection Timeout") {
		t.Errorf("missing entry: %q", out)
	}
	if !strings.Contains(out, "Components: Database, ConnectionPool") {
		t.Errorf("missing components: %q", out)
	}
}

func TestWriteLogHits(t *testing.T) {
	hits := []*models.LogSearchHit{
		{ID: "us-east/acme/payments#0", Score: 1.2345, Raw: "2025-12-18T01:59:40Z - ERROR - timeout"},
	}
	var buf bytes.Buffer
	if err := WriteLogHits(&buf, hits, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Found 1 matching log lines") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "[1.2345]") {
		t.Errorf("missing score: %q", out)
	}
}

func TestWriteStructureText(t *testing.T) {
	structure := map[string]map[string]map[string][]string{
		"us-east": {
			"acme": {
				"payments": {"v1", "v2"},
				"auth":     nil,
			},
		},
	}
	var buf bytes.Buffer
	if err := WriteStructure(&buf, structure, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"us-east\n", "  acme\n", "    payments (v1, v2)\n", "    auth\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteHistoryText(t *testing.T) {
	records := []*models.AnalysisRecord{
		{
			ID:           "run-1",
			Query:        "database timeout",
			Origin:       models.Origin{Zone: "us-east", Client: "acme", App: "payments"},
			ExactMatches: 2,
			Solutions:    1,
			CreatedAt:    time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		},
	}
	var buf bytes.Buffer
	if err := WriteHistory(&buf, records, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "1 analysis runs") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "2026-08-30 10:30:00  run-1") {
		t.Errorf("missing record line: %q", out)
	}
	if !strings.Contains(out, "logs: us-east/acme/payments | exact: 2") {
		t.Errorf("missing detail line: %q", out)
	}
}
