// Package kb holds the curated knowledge base of issue/root-cause/solution
// records, indexed for similarity lookup through the vector store.
package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/logsentry/internal/keyword"
	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/internal/vector"
	"go.uber.org/zap"
)

// Store manages knowledge entries: a JSON file on disk plus a vector index
// over the rendered entry texts. Entries are only ever appended.
type Store struct {
	path    string
	entries []models.KnowledgeEntry
	index   *vector.FlexibleStore
	logger  *zap.Logger
}

// NewStore loads the knowledge base at path, seeding default entries (and an
// immediate write-back) when the file does not exist, then indexes every entry
// into the vector index.
func NewStore(ctx context.Context, path string, index *vector.FlexibleStore, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, index: index, logger: logger}

	if err := s.load(); err != nil {
		return nil, err
	}
	if err := s.reindex(ctx); err != nil {
		return nil, err
	}
	logger.Info("knowledge base ready",
		zap.Int("entries", len(s.entries)),
		zap.Int("indexed", index.Size()),
	)
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = defaultEntries()
			return s.save()
		}
		return fmt.Errorf("read knowledge base: %w", err)
	}
	var entries []models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse knowledge base: %w", err)
	}
	s.entries = entries
	return nil
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create knowledge base dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal knowledge base: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	return nil
}

// reindex rebuilds the vector index over all entries from scratch. The KB is
// small, so a full re-index beats incremental bookkeeping.
func (s *Store) reindex(ctx context.Context) error {
	if err := s.index.Reset(); err != nil {
		return fmt.Errorf("reset kb index: %w", err)
	}
	texts := make([]string, len(s.entries))
	metadatas := make([]map[string]any, len(s.entries))
	for i, entry := range s.entries {
		texts[i] = renderEntry(entry)
		metadatas[i] = map[string]any{
			"id":                  i,
			"issue":               entry.Issue,
			"root_cause":          entry.RootCause,
			"solution":            entry.Solution,
			"affected_components": entry.AffectedComponents,
			"tags":                entry.Tags,
			"type":                "kb_fix",
		}
	}
	return s.index.AddDocuments(ctx, texts, metadatas)
}

// renderEntry builds the single descriptive text each entry is embedded as.
func renderEntry(entry models.KnowledgeEntry) string {
	return fmt.Sprintf("Issue: %s\nRoot Cause: %s\nSolution: %s", entry.Issue, entry.RootCause, entry.Solution)
}

// Entries returns the current entry list.
func (s *Store) Entries() []models.KnowledgeEntry {
	return s.entries
}

// AddFix appends a new entry, persists the store, and re-indexes everything.
func (s *Store) AddFix(ctx context.Context, issue, rootCause, solution string, affectedComponents, tags []string) error {
	s.entries = append(s.entries, models.KnowledgeEntry{
		Issue:              issue,
		RootCause:          rootCause,
		Solution:           solution,
		AffectedComponents: affectedComponents,
		Tags:               tags,
		Confidence:         1.0,
	})
	if err := s.save(); err != nil {
		return err
	}
	return s.reindex(ctx)
}

// SearchSimilarIssues runs a similarity search over the indexed entries.
func (s *Store) SearchSimilarIssues(ctx context.Context, query string, topK int) ([]models.IssueMatch, error) {
	results, err := s.index.Search(ctx, query, topK, nil)
	if err != nil {
		return nil, err
	}
	matches := make([]models.IssueMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, models.IssueMatch{
			Similarity:         r.Similarity,
			Issue:              metaString(r.Metadata, "issue"),
			RootCause:          metaString(r.Metadata, "root_cause"),
			Solution:           metaString(r.Metadata, "solution"),
			AffectedComponents: metaStrings(r.Metadata, "affected_components"),
			Confidence:         ConfidenceBucket(r.Similarity),
		})
	}
	return matches, nil
}

// SearchSolutions looks up solutions for an error code: the static code table
// takes precedence, then a similarity search with the code string as query.
func (s *Store) SearchSolutions(ctx context.Context, errorCode string) ([]models.Solution, error) {
	if solutions, ok := codeSolutions[errorCode]; ok {
		return solutions, nil
	}

	matches, err := s.SearchSimilarIssues(ctx, errorCode, 2)
	if err != nil {
		return nil, err
	}
	solutions := make([]models.Solution, 0, len(matches))
	for _, m := range matches {
		component := "Unknown"
		if len(m.AffectedComponents) > 0 {
			component = m.AffectedComponents[0]
		}
		solutions = append(solutions, models.Solution{
			ErrorType:     m.Issue,
			Component:     component,
			Confidence:    m.Confidence,
			RootCause:     m.RootCause,
			SolutionSteps: splitSteps(m.Solution),
			Prevention:    "Regular monitoring and maintenance",
			Resources:     []string{"Knowledge Base Entry"},
		})
	}
	return solutions, nil
}

// SearchByComponent returns curated solutions for a component name.
func (s *Store) SearchByComponent(component string) []models.Solution {
	return componentSolutions[component]
}

// SuggestCode returns the known error code closest to code by edit distance,
// or "" when nothing is within two edits. Helps operators with typoed codes.
func (s *Store) SuggestCode(code string) string {
	best := ""
	bestDist := 3
	for known := range codeSolutions {
		if d := keyword.LevenshteinDistance(code, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

// ConfidenceBucket maps a similarity score to its confidence label. Scores are
// backend-local; the buckets are the only cross-backend interpretation allowed.
func ConfidenceBucket(similarity float64) string {
	switch {
	case similarity > 0.8:
		return "High"
	case similarity > 0.6:
		return "Medium"
	default:
		return "Low"
	}
}

func splitSteps(solution string) []string {
	var steps []string
	for _, part := range strings.Split(solution, ".") {
		if step := strings.TrimSpace(part); step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metaStrings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
