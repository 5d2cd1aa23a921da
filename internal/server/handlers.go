package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/hyperjump/logsentry/internal/logsource"
	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("analyze request",
		zap.String("query", req.Query),
		zap.String("zone", req.Coordinates.Zone),
		zap.String("client", req.Coordinates.Client),
		zap.String("app", req.Coordinates.App),
	)

	ctx := r.Context()
	bundle, err := s.reader.Read(req.Coordinates)
	if err != nil {
		if errors.Is(err, logsource.ErrPathNotFound) || errors.Is(err, logsource.ErrNoLogFiles) {
			s.respondJSON(w, http.StatusOK, &models.AnalysisResult{Error: "No log data available"})
			return
		}
		s.logger.Error("log read failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.engine.IndexBundle(ctx, bundle); err != nil {
		s.logger.Error("log indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.indexRecords(ctx, bundle)

	result, err := s.engine.ProcessQuery(ctx, req.Query, bundle)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record := &models.AnalysisRecord{
		ID:            uuid.NewString(),
		Query:         req.Query,
		Origin:        bundle.Origin,
		RCA:           result.RCA,
		ExactMatches:  len(result.ExactMatches),
		SimilarErrors: len(result.SimilarErrors),
		Solutions:     len(result.Solutions),
		TotalErrors:   result.Stats.TotalErrors,
	}
	if err := s.history.SaveAnalysis(ctx, record); err != nil {
		s.logger.Warn("failed to persist analysis", zap.Error(err))
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"analysis_id": record.ID,
		"result":      result,
	})
}

// indexRecords feeds the structured records into the keyword explorer. Failures
// are logged and skipped; the explorer is auxiliary to the analysis itself.
func (s *Server) indexRecords(ctx context.Context, bundle *models.LogBundle) {
	if s.keywords == nil {
		return
	}
	for i, record := range bundle.Records {
		id := fmt.Sprintf("%s#%d", bundle.Origin.Path(), i)
		if err := s.keywords.Index(ctx, id, record); err != nil {
			s.logger.Warn("keyword indexing failed", zap.String("id", id), zap.Error(err))
			return
		}
	}
}

func (s *Server) handleLogStructure(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"zones": s.reader.Structure()})
}

type logSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleLogSearch(w http.ResponseWriter, r *http.Request) {
	if s.keywords == nil {
		s.respondError(w, http.StatusNotImplemented, "keyword index not enabled")
		return
	}
	var req logSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	hits, err := s.keywords.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.logger.Error("log search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"hits": hits, "count": len(hits)})
}

func (s *Server) handleListFixes(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"fixes": s.kb.Entries()})
}

type addFixRequest struct {
	Issue              string   `json:"issue"`
	RootCause          string   `json:"root_cause"`
	Solution           string   `json:"solution"`
	AffectedComponents []string `json:"affected_components,omitempty"`
	Tags               []string `json:"tags,omitempty"`
}

func (s *Server) handleAddFix(w http.ResponseWriter, r *http.Request) {
	var req addFixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Issue == "" || req.Solution == "" {
		s.respondError(w, http.StatusBadRequest, "issue and solution are required")
		return
	}
	if err := s.kb.AddFix(r.Context(), req.Issue, req.RootCause, req.Solution, req.AffectedComponents, req.Tags); err != nil {
		s.logger.Error("add fix failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"issue": req.Issue, "status": "added"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 20)
	records, err := s.history.ListAnalyses(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("history list failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.history.CountAnalyses(r.Context())
	if err != nil {
		s.logger.Error("history count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"analyses": records, "total": total})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	total, err := s.history.CountAnalyses(r.Context())
	if err != nil {
		s.logger.Error("status: count analyses failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"analyses":             total,
		"knowledge_base_fixes": len(s.kb.Entries()),
		"log_index_size":       s.engine.LogIndexSize(),
		"vector_backend":       s.engine.LogIndexBackend(),
	}
	if s.keywords != nil {
		if count, err := s.keywords.DocCount(); err == nil {
			resp["keyword_index_docs"] = count
		}
	}
	resp["config"] = map[string]any{
		"log_root":             s.config.Paths.LogRoot,
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"chunk_size":           s.config.Analysis.ChunkSize,
		"chunk_overlap":        s.config.Analysis.ChunkOverlap,
		"database_path":        s.config.Paths.DatabasePath,
		"bleve_index_path":     s.config.Paths.BleveIndexPath,
	}

	diskBytes, err := storage.DiskUsageBytes(
		s.config.Paths.DatabasePath,
		s.config.Paths.BleveIndexPath,
		s.config.Paths.VectorStore,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
