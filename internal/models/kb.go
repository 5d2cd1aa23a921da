package models

// KnowledgeEntry is one curated fix in the knowledge base.
type KnowledgeEntry struct {
	Issue              string   `json:"issue"`
	RootCause          string   `json:"root_cause"`
	Solution           string   `json:"solution"`
	AffectedComponents []string `json:"affected_components"`
	Tags               []string `json:"tags"`
	Confidence         float64  `json:"confidence"`
}

// IssueMatch is a knowledge-base hit from a similarity search, with the raw
// similarity score bucketed into a confidence label.
type IssueMatch struct {
	Similarity         float64  `json:"similarity"`
	Issue              string   `json:"issue"`
	RootCause          string   `json:"root_cause"`
	Solution           string   `json:"solution"`
	AffectedComponents []string `json:"affected_components"`
	Confidence         string   `json:"confidence"`
}

// Solution is a structured fix record returned by code or component lookups.
type Solution struct {
	ErrorType     string   `json:"error_type"`
	Component     string   `json:"component"`
	Confidence    string   `json:"confidence"`
	RootCause     string   `json:"root_cause"`
	SolutionSteps []string `json:"solution_steps"`
	Prevention    string   `json:"prevention,omitempty"`
	Resources     []string `json:"resources,omitempty"`
}

// SolutionRef ties a solution to the log line that triggered its lookup.
type SolutionRef struct {
	Error      string `json:"error"`
	Solution   string `json:"solution"`
	ExactMatch bool   `json:"exact_match"`
	SourceLine string `json:"source_line"`
}
