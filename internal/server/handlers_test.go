package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/logsentry/internal/config"
	"github.com/hyperjump/logsentry/internal/embedding"
	"github.com/hyperjump/logsentry/internal/kb"
	"github.com/hyperjump/logsentry/internal/keyword"
	"github.com/hyperjump/logsentry/internal/logsource"
	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/internal/rca"
	"github.com/hyperjump/logsentry/internal/storage"
	"github.com/hyperjump/logsentry/internal/vector"
	"go.uber.org/zap"
)

const serverTestLog = `2025-12-18T01:59:40.205469Z - INFO - Component=Gateway - Message=request accepted
2025-12-18T01:59:41.105469Z - ERROR - Component=Database - Code=ERR-001 - Message=connection timeout after 30s
2025-12-18T01:59:42.005469Z - ERROR - Component=Database - Code=ERR-001 - Message=connection timeout retry exhausted
2025-12-18T01:59:43.905469Z - WARN - Component=Cache - Message=eviction pressure high
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	ctx := context.Background()

	var cfg config.Config
	config.ApplyDefaults(&cfg)
	cfg.Paths.LogRoot = filepath.Join(dir, "logs")
	cfg.Paths.VectorStore = filepath.Join(dir, "vectors")
	cfg.Paths.KnowledgeBase = filepath.Join(dir, "kb.json")
	cfg.Paths.DatabasePath = filepath.Join(dir, "history.db")
	cfg.Paths.BleveIndexPath = filepath.Join(dir, "bleve")

	embedder := embedding.NewHashEmbedder(64)
	kbIndex, err := vector.NewFlexibleStore(cfg.Paths.VectorStore, "kb_index", embedder, "", logger)
	if err != nil {
		t.Fatal(err)
	}
	logIndex, err := vector.NewFlexibleStore(cfg.Paths.VectorStore, "log_index", embedder, "", logger)
	if err != nil {
		t.Fatal(err)
	}
	kbStore, err := kb.NewStore(ctx, cfg.Paths.KnowledgeBase, kbIndex, logger)
	if err != nil {
		t.Fatal(err)
	}
	keywords, err := keyword.NewBleveIndex(cfg.Paths.BleveIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { keywords.Close() })
	history, err := storage.NewSQLiteHistory(cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { history.Close() })

	reader := logsource.NewReader(cfg.Paths.LogRoot, logger)
	engine := rca.NewEngine(kbStore, logIndex, &cfg.Analysis, logger)
	return NewServer(engine, reader, kbStore, keywords, history, &cfg, logger)
}

func writeTestLogs(t *testing.T, s *Server) {
	t.Helper()
	dir := filepath.Join(s.config.Paths.LogRoot, "us-east", "acme", "payments", "v2")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.log"), []byte(serverTestLog), 0o644); err != nil {
		t.Fatal(err)
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestHandleAnalyze(t *testing.T) {
	s := newTestServer(t)
	writeTestLogs(t, s)

	w := postJSON(t, s.handleAnalyze, "/api/v1/analyze", models.AnalysisRequest{
		Query:       "connection timeout",
		Coordinates: models.Coordinates{Zone: "us-east", Client: "acme", App: "payments", Version: "v2"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["analysis_id"] == "" || body["analysis_id"] == nil {
		t.Error("missing analysis_id")
	}
	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("missing result: %v", body)
	}
	rcaText, _ := result["rca"].(string)
	if !strings.Contains(rcaText, "Troubleshooting Results") {
		t.Errorf("rca = %q", rcaText)
	}
	matches, _ := result["exact_matches"].([]any)
	if len(matches) != 2 {
		t.Errorf("exact_matches = %v", matches)
	}

	// The run must land in history.
	count, err := s.history.CountAnalyses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("history count=%d", count)
	}
}

func TestHandleAnalyzeMissingQuery(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s.handleAnalyze, "/api/v1/analyze", models.AnalysisRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d", w.Code)
	}
}

func TestHandleAnalyzeUnknownLocation(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s.handleAnalyze, "/api/v1/analyze", models.AnalysisRequest{
		Query:       "timeout",
		Coordinates: models.Coordinates{Zone: "nowhere", Client: "x", App: "y"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "No log data available" {
		t.Errorf("body=%v", body)
	}
}

func TestHandleLogStructure(t *testing.T) {
	s := newTestServer(t)
	writeTestLogs(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/structure", nil)
	w := httptest.NewRecorder()
	s.handleLogStructure(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	zones, ok := body["zones"].(map[string]any)
	if !ok {
		t.Fatalf("missing zones: %v", body)
	}
	if _, ok := zones["us-east"]; !ok {
		t.Errorf("zones=%v", zones)
	}
}

func TestHandleLogSearch(t *testing.T) {
	s := newTestServer(t)
	writeTestLogs(t, s)

	// Analyze first so the keyword explorer has documents.
	postJSON(t, s.handleAnalyze, "/api/v1/analyze", models.AnalysisRequest{
		Query:       "timeout",
		Coordinates: models.Coordinates{Zone: "us-east", Client: "acme", App: "payments", Version: "v2"},
	})

	w := postJSON(t, s.handleLogSearch, "/api/v1/logs/search", logSearchRequest{Query: "timeout"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if count, _ := body["count"].(float64); count < 1 {
		t.Errorf("count=%v", body["count"])
	}
}

func TestHandleLogSearchMissingQuery(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s.handleLogSearch, "/api/v1/logs/search", logSearchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d", w.Code)
	}
}

func TestHandleKBFixes(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kb/fixes", nil)
	w := httptest.NewRecorder()
	s.handleListFixes(w, req)
	body := decodeBody(t, w)
	fixes, _ := body["fixes"].([]any)
	if len(fixes) != 3 {
		t.Fatalf("seed fixes=%d", len(fixes))
	}

	w2 := postJSON(t, s.handleAddFix, "/api/v1/kb/fixes", addFixRequest{
		Issue:     "Disk Full On Ingest Node",
		RootCause: "Retention job stopped",
		Solution:  "Restart the retention job and purge stale segments",
	})
	if w2.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w2.Code, w2.Body.String())
	}
	if len(s.kb.Entries()) != 4 {
		t.Errorf("entries=%d after add", len(s.kb.Entries()))
	}
}

func TestHandleAddFixValidation(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s.handleAddFix, "/api/v1/kb/fixes", addFixRequest{Issue: "no solution"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d", w.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	s := newTestServer(t)
	writeTestLogs(t, s)
	postJSON(t, s.handleAnalyze, "/api/v1/analyze", models.AnalysisRequest{
		Query:       "timeout",
		Coordinates: models.Coordinates{Zone: "us-east", Client: "acme", App: "payments", Version: "v2"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=10", nil)
	w := httptest.NewRecorder()
	s.handleHistory(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	if total, _ := body["total"].(float64); total != 1 {
		t.Errorf("total=%v", body["total"])
	}
	analyses, _ := body["analyses"].([]any)
	if len(analyses) != 1 {
		t.Errorf("analyses=%v", analyses)
	}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	s.handleStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	if fixes, _ := body["knowledge_base_fixes"].(float64); fixes != 3 {
		t.Errorf("knowledge_base_fixes=%v", body["knowledge_base_fixes"])
	}
	if body["vector_backend"] != "flat" {
		t.Errorf("vector_backend=%v", body["vector_backend"])
	}
	if _, ok := body["config"].(map[string]any); !ok {
		t.Errorf("missing config block: %v", body)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("body=%v", body)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=5&bad=abc&neg=-2", nil)
	if got := queryInt(req, "limit", 20); got != 5 {
		t.Errorf("limit=%d", got)
	}
	if got := queryInt(req, "missing", 20); got != 20 {
		t.Errorf("missing=%d", got)
	}
	if got := queryInt(req, "bad", 20); got != 20 {
		t.Errorf("bad=%d", got)
	}
	if got := queryInt(req, "neg", 20); got != 20 {
		t.Errorf("neg=%d", got)
	}
}
