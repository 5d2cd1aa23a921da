// Package logparse turns raw log lines into structured records and extracts
// recurring field patterns from log text.
package logparse

import (
	"regexp"
	"strings"

	"github.com/hyperjump/logsentry/internal/models"
)

// Line grammar: ISO-8601 UTC timestamp, " - ", level token, " - ", free-form
// key=value tail, e.g.
// 2025-12-18T01:59:40.205469Z - ERROR - Component=LogIngestor - Code=E_DB_FAIL - Message=disk full
var (
	lineRe      = regexp.MustCompile(`^([\d\-T:.]+Z)\s+-\s+(\w+)\s+-\s+(.+)$`)
	componentRe = regexp.MustCompile(`Component=([A-Za-z]+)`)
	codeRe      = regexp.MustCompile(`Code=([A-Z][A-Z0-9_-]*)`)
	messageRe   = regexp.MustCompile(`Message=([^-]+)`)
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T[\d:.]+Z`)
	traceRe     = regexp.MustCompile(`TraceID=([\w-]+)`)
	severityRe  = regexp.MustCompile(`Severity=([A-Z]+)`)
	retryRe     = regexp.MustCompile(`RetryCount=(\d+)`)
)

// ParseLine parses one raw line into a LogRecord. Lines that do not match the
// top-level grammar return nil: malformed and blank lines are skipped, never
// errors. Missing sub-fields default (component "Unknown", no error code,
// message = whole tail).
func ParseLine(line string, origin models.Origin) *models.LogRecord {
	m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil
	}
	tail := m[3]

	component := "Unknown"
	if cm := componentRe.FindStringSubmatch(tail); cm != nil {
		component = cm[1]
	}
	errorCode := ""
	if cm := codeRe.FindStringSubmatch(tail); cm != nil {
		errorCode = cm[1]
	}
	message := tail
	if mm := messageRe.FindStringSubmatch(tail); mm != nil {
		message = strings.TrimSpace(mm[1])
	}

	return &models.LogRecord{
		Timestamp: m[1],
		Level:     m[2],
		Component: component,
		ErrorCode: errorCode,
		Message:   message,
		Origin:    origin,
		RawLine:   strings.TrimSpace(line),
	}
}

// ExtractCode returns the Code= token from a line, or "" if absent.
func ExtractCode(line string) string {
	if m := codeRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// ExtractComponent returns the Component= token from a line, or "" if absent.
func ExtractComponent(line string) string {
	if m := componentRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// Patterns are the recognized field occurrences across a body of log text.
type Patterns struct {
	ErrorCodes  []string
	Components  []string
	Timestamps  []string
	TraceIDs    []string
	Severities  []string
	RetryCounts []string
	Messages    []string
}

// ExtractPatterns scans text for every recognized field occurrence.
func ExtractPatterns(text string) Patterns {
	return Patterns{
		ErrorCodes:  submatches(codeRe, text),
		Components:  submatches(componentRe, text),
		Timestamps:  timestampRe.FindAllString(text, -1),
		TraceIDs:    submatches(traceRe, text),
		Severities:  submatches(severityRe, text),
		RetryCounts: submatches(retryRe, text),
		Messages:    submatches(messageRe, text),
	}
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
