// Package cli provides CLI output helpers for LogSentry.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnalysisResult writes an analysis result to w in the given format.
func WriteAnalysisResult(w io.Writer, result *models.AnalysisResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		writeAnalysisText(w, result)
		return nil
	}
}

func writeAnalysisText(w io.Writer, result *models.AnalysisResult) {
	if result.Error != "" {
		fmt.Fprintf(w, "\n%s\n", result.Error)
		return
	}
	fmt.Fprintf(w, "\n%s\n", result.RCA)
	fmt.Fprintf(w, "Exact matches: %d | Similar errors: %d | Solutions: %d\n",
		len(result.ExactMatches), len(result.SimilarErrors), len(result.Solutions))
	fmt.Fprintf(w, "Corpus: %d error lines across %d files, %d components\n",
		result.Stats.TotalErrors, result.Stats.FileCount, result.Stats.UniqueComponents)
}

// WriteKnowledgeEntries writes knowledge-base entries to w in the given format.
func WriteKnowledgeEntries(w io.Writer, entries []models.KnowledgeEntry, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		fmt.Fprintf(w, "\n%d knowledge base entries\n\n", len(entries))
		for i, entry := range entries {
			fmt.Fprintf(w, "%d. %s\n", i+1, entry.Issue)
			fmt.Fprintf(w, "   Root cause: %s\n", entry.RootCause)
			fmt.Fprintf(w, "   Fix: %s\n", utils.Truncate(entry.Solution, 120))
			if len(entry.AffectedComponents) > 0 {
				fmt.Fprintf(w, "   Components: %s\n", strings.Join(entry.AffectedComponents, ", "))
			}
			fmt.Fprintln(w)
		}
		return nil
	}
}

// WriteLogHits writes keyword search hits to w in the given format.
func WriteLogHits(w io.Writer, hits []*models.LogSearchHit, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	default:
		fmt.Fprintf(w, "\nFound %d matching log lines\n\n", len(hits))
		for _, hit := range hits {
			fmt.Fprintf(w, "[%.4f] %s\n", hit.Score, utils.Truncate(hit.Raw, 160))
		}
		return nil
	}
}

// WriteStructure writes the zone/client/app layout as an indented tree.
func WriteStructure(w io.Writer, structure map[string]map[string]map[string][]string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(structure)
	}
	for zone, clients := range structure {
		fmt.Fprintf(w, "%s\n", zone)
		for client, apps := range clients {
			fmt.Fprintf(w, "  %s\n", client)
			for app, versions := range apps {
				fmt.Fprintf(w, "    %s", app)
				if len(versions) > 0 {
					fmt.Fprintf(w, " (%s)", strings.Join(versions, ", "))
				}
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

// WriteHistory writes persisted analysis runs.
func WriteHistory(w io.Writer, records []*models.AnalysisRecord, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	fmt.Fprintf(w, "\n%d analysis runs\n\n", len(records))
	for _, record := range records {
		fmt.Fprintf(w, "%s  %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"), record.ID)
		fmt.Fprintf(w, "  query: %s\n", record.Query)
		fmt.Fprintf(w, "  logs: %s | exact: %d | similar: %d | solutions: %d\n",
			record.Origin.Path(), record.ExactMatches, record.SimilarErrors, record.Solutions)
		fmt.Fprintln(w)
	}
	return nil
}
