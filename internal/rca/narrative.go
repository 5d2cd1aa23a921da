package rca

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/pkg/utils"
)

// buildNarrative renders the markdown troubleshooting report. The template is
// fixed: query, match counts, the first few matched lines, and the
// recommended fixes.
func (e *Engine) buildNarrative(query string, bundle *models.LogBundle, errorLines []string, solutions []models.SolutionRef) string {
	var b strings.Builder

	b.WriteString("# Troubleshooting Results\n\n")
	fmt.Fprintf(&b, "## Query\n\"%s\"\n\n", query)

	b.WriteString("## Findings\n")
	fmt.Fprintf(&b, "- Logs analyzed: %s (%d files)\n", bundle.Origin.Path(), bundle.FileCount)
	fmt.Fprintf(&b, "- Matching error lines: %d\n\n", len(errorLines))

	if len(errorLines) > 0 {
		b.WriteString("## Errors Found\n")
		for i, line := range utils.FirstN(errorLines, e.config.NarrativeLines) {
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, utils.Truncate(strings.TrimSpace(line), e.config.LineTruncate))
		}
		if extra := len(errorLines) - e.config.NarrativeLines; extra > 0 {
			fmt.Fprintf(&b, "... and %d more\n", extra)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## Errors Found\nNo matching error lines.\n\n")
	}

	if len(solutions) > 0 {
		b.WriteString("## Recommended Fixes\n")
		for _, sol := range solutions {
			fmt.Fprintf(&b, "### %s\n", sol.Error)
			for _, step := range strings.Split(sol.Solution, "\n") {
				if step = strings.TrimSpace(step); step != "" {
					fmt.Fprintf(&b, "- %s\n", step)
				}
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("## Recommended Fixes\nNo known fixes matched. Review the error lines above manually.\n\n")
	}

	fmt.Fprintf(&b, "---\nAnalyzed at %s\n", time.Now().Format("15:04:05"))
	return b.String()
}
