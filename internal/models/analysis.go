package models

import "time"

// AnalysisRequest asks the engine to analyze a query against a log location.
type AnalysisRequest struct {
	Query       string      `json:"query"`
	Coordinates Coordinates `json:"coordinates"`
}

// LogStats are aggregate counts over the full corpus, used for reporting only.
type LogStats struct {
	TotalErrors      int `json:"total_errors"`
	FileCount        int `json:"file_count"`
	UniqueComponents int `json:"unique_components"`
	QueryMatches     int `json:"query_matches"`
}

// AnalysisResult is the engine's answer to one query. When no log data was
// available, Error carries the reason and the other fields are empty.
type AnalysisResult struct {
	RCA           string        `json:"rca,omitempty"`
	ExactMatches  []string      `json:"exact_matches"`
	SimilarErrors []string      `json:"similar_errors"`
	Solutions     []SolutionRef `json:"solutions"`
	Stats         LogStats      `json:"log_stats"`
	Error         string        `json:"error,omitempty"`
}

// AnalysisRecord is a persisted analysis run, listable from history.
type AnalysisRecord struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Origin        Origin    `json:"origin"`
	RCA           string    `json:"rca"`
	ExactMatches  int       `json:"exact_matches"`
	SimilarErrors int       `json:"similar_errors"`
	Solutions     int       `json:"solutions"`
	TotalErrors   int       `json:"total_errors"`
	CreatedAt     time.Time `json:"created_at"`
}

// LogSearchHit is a keyword-explorer hit over indexed log records.
type LogSearchHit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Raw   string  `json:"raw"`
}
