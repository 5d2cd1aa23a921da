// Package rca orchestrates root-cause analysis: exact log matching, similarity
// fallback, knowledge-base solution lookup, and report assembly.
package rca

import (
	"context"
	"strings"

	"github.com/hyperjump/logsentry/internal/config"
	"github.com/hyperjump/logsentry/internal/kb"
	"github.com/hyperjump/logsentry/internal/logparse"
	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/internal/vector"
	"github.com/hyperjump/logsentry/pkg/utils"
	"go.uber.org/zap"
)

// fallbackKeywords drive the similarity fallback when the query itself
// matches nothing.
var fallbackKeywords = []string{"connection", "timeout", "failed", "error", "drop", "crash"}

const errorMarker = "ERROR"

// Engine runs the analysis pipeline for one query at a time. It owns no
// persistent state beyond references to the knowledge base and the log
// vector index.
type Engine struct {
	kb       *kb.Store
	logIndex *vector.FlexibleStore
	chunker  *logparse.Chunker
	config   *config.AnalysisConfig
	logger   *zap.Logger
}

// NewEngine creates an engine with the given dependencies.
func NewEngine(kbStore *kb.Store, logIndex *vector.FlexibleStore, cfg *config.AnalysisConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		kb:       kbStore,
		logIndex: logIndex,
		chunker:  logparse.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		config:   cfg,
		logger:   logger,
	}
}

// FindExactMatches returns every log line containing both the literal ERROR
// marker and the query as a case-insensitive substring.
func (e *Engine) FindExactMatches(query, logText string) []string {
	queryLower := strings.ToLower(query)
	var matches []string
	for _, line := range strings.Split(logText, "\n") {
		if strings.Contains(line, errorMarker) && strings.Contains(strings.ToLower(line), queryLower) {
			matches = append(matches, line)
		}
	}
	return matches
}

// FindSimilarErrors is the fallback when no exact match exists: ERROR lines
// where any query token or fixed keyword longer than 3 characters appears as a
// substring. Duplicates are removed keeping first occurrence, so the result
// order is deterministic.
func (e *Engine) FindSimilarErrors(query, logText string) []string {
	words := append(strings.Fields(strings.ToLower(query)), fallbackKeywords...)

	var similar []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(logText, "\n") {
		if !strings.Contains(line, errorMarker) {
			continue
		}
		lineLower := strings.ToLower(line)
		for _, word := range words {
			if len(word) > 3 && strings.Contains(lineLower, word) {
				if _, dup := seen[line]; !dup {
					seen[line] = struct{}{}
					similar = append(similar, line)
				}
				break
			}
		}
	}
	return similar
}

// RelevantSolutions looks up knowledge-base solutions for the matched lines:
// the first few lines are scanned for error codes, each distinct code queried
// against the code table first and the similarity index second.
func (e *Engine) RelevantSolutions(ctx context.Context, errorLines []string) ([]models.SolutionRef, error) {
	var solutions []models.SolutionRef
	seen := make(map[string]struct{})

	for _, line := range utils.FirstN(errorLines, e.config.SolutionLineLimit) {
		code := logparse.ExtractCode(line)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		sourceLine := utils.Truncate(line, 100)
		kbSolutions, err := e.kb.SearchSolutions(ctx, code)
		if err != nil {
			return nil, err
		}
		if len(kbSolutions) > 0 {
			sol := kbSolutions[0]
			solutions = append(solutions, models.SolutionRef{
				Error:      sol.ErrorType,
				Solution:   strings.Join(sol.SolutionSteps, "\n"),
				ExactMatch: true,
				SourceLine: sourceLine,
			})
			continue
		}
		matches, err := e.kb.SearchSimilarIssues(ctx, code, 1)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			solutions = append(solutions, models.SolutionRef{
				Error:      matches[0].Issue,
				Solution:   matches[0].Solution,
				ExactMatch: false,
				SourceLine: sourceLine,
			})
		}
	}
	return solutions, nil
}

// ProcessQuery runs the full pipeline: exact match, similarity fallback when
// exact finds nothing, solution lookup, corpus statistics, and the narrative
// report. Absence of log data short-circuits into a structured "no data"
// result rather than an error.
func (e *Engine) ProcessQuery(ctx context.Context, query string, bundle *models.LogBundle) (*models.AnalysisResult, error) {
	if bundle == nil || bundle.Raw == "" {
		return &models.AnalysisResult{Error: "No log data available"}, nil
	}

	exactMatches := e.FindExactMatches(query, bundle.Raw)
	errorLines := exactMatches
	var similarErrors []string
	if len(exactMatches) == 0 {
		similarErrors = e.FindSimilarErrors(query, bundle.Raw)
		errorLines = similarErrors
	}

	solutions, err := e.RelevantSolutions(ctx, errorLines)
	if err != nil {
		return nil, err
	}

	stats := e.corpusStats(bundle, len(errorLines))
	rca := e.buildNarrative(query, bundle, errorLines, solutions)

	e.logger.Debug("query processed",
		zap.String("query", query),
		zap.Int("exact", len(exactMatches)),
		zap.Int("similar", len(similarErrors)),
		zap.Int("solutions", len(solutions)),
	)
	return &models.AnalysisResult{
		RCA:           rca,
		ExactMatches:  exactMatches,
		SimilarErrors: similarErrors,
		Solutions:     solutions,
		Stats:         stats,
	}, nil
}

// corpusStats aggregates counts over the whole corpus, not just the matches.
// Reporting only; never used for ranking.
func (e *Engine) corpusStats(bundle *models.LogBundle, queryMatches int) models.LogStats {
	components := make(map[string]struct{})
	totalErrors := 0
	for _, line := range strings.Split(bundle.Raw, "\n") {
		if !strings.Contains(line, errorMarker) {
			continue
		}
		totalErrors++
		if component := logparse.ExtractComponent(line); component != "" {
			components[component] = struct{}{}
		}
	}
	return models.LogStats{
		TotalErrors:      totalErrors,
		FileCount:        bundle.FileCount,
		UniqueComponents: len(components),
		QueryMatches:     queryMatches,
	}
}

// IndexBundle replaces the session log index with chunks of the bundle's raw
// text, enabling similarity lookups over the current corpus. Records are
// session-scoped, so the previous session's chunks are dropped first.
func (e *Engine) IndexBundle(ctx context.Context, bundle *models.LogBundle) error {
	if bundle == nil || bundle.Raw == "" {
		return nil
	}
	if err := e.logIndex.Reset(); err != nil {
		return err
	}
	chunks := e.chunker.ChunkBySize(bundle.Raw)
	metadatas := make([]map[string]any, len(chunks))
	for i := range chunks {
		metadatas[i] = map[string]any{
			"zone":    bundle.Origin.Zone,
			"client":  bundle.Origin.Client,
			"app":     bundle.Origin.App,
			"version": bundle.Origin.Version,
			"chunk":   i,
			"type":    "log_chunk",
		}
	}
	return e.logIndex.AddDocuments(ctx, chunks, metadatas)
}

// SimilarLogContext returns log chunks from the session index most similar to
// the query, for display alongside the matched lines.
func (e *Engine) SimilarLogContext(ctx context.Context, query string, topK int) ([]vector.SearchResult, error) {
	return e.logIndex.Search(ctx, query, topK, map[string]any{"type": "log_chunk"})
}

// LogIndexSize returns the session log index document count.
func (e *Engine) LogIndexSize() int {
	return e.logIndex.Size()
}

// LogIndexBackend returns the active vector backend tag.
func (e *Engine) LogIndexBackend() vector.BackendTag {
	return e.logIndex.Backend()
}
