// Package models defines core data structures for log records, knowledge entries, and analysis results.
package models

import "strings"

// Coordinates identify a log location in the deployment tree.
type Coordinates struct {
	Zone       string `json:"zone"`
	Client     string `json:"client"`
	App        string `json:"app"`
	Version    string `json:"version"`
	SubVersion string `json:"sub_version"`
}

// Origin returns the origin attached to parsed records: the version folds in the sub-version.
func (c Coordinates) Origin() Origin {
	version := c.Version
	if c.SubVersion != "" {
		version = c.Version + "/" + c.SubVersion
	}
	return Origin{Zone: c.Zone, Client: c.Client, App: c.App, Version: version}
}

// Origin is the deployment origin of a log record.
type Origin struct {
	Zone    string `json:"zone"`
	Client  string `json:"client"`
	App     string `json:"app"`
	Version string `json:"version"`
}

// Path renders the origin as a slash-separated location for display.
func (o Origin) Path() string {
	parts := []string{o.Zone, o.Client, o.App}
	if o.Version != "" {
		parts = append(parts, o.Version)
	}
	return strings.Join(parts, "/")
}

// LogRecord is a structured log line. Records are immutable once parsed and live
// only for the duration of one analysis session.
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message"`
	Origin    Origin `json:"origin"`
	RawLine   string `json:"raw"`
}

// LogBundle is the unit handed to the analysis engine: concatenated raw text plus
// the parallel structured records parsed from it.
type LogBundle struct {
	Raw       string      `json:"raw"`
	Records   []*LogRecord `json:"structured"`
	FileCount int         `json:"file_count"`
	Origin    Origin      `json:"origin"`
}
