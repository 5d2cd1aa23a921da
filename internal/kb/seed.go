package kb

import "github.com/hyperjump/logsentry/internal/models"

// defaultEntries seed the knowledge base on first run, covering the common
// failure classes seen across deployments.
func defaultEntries() []models.KnowledgeEntry {
	return []models.KnowledgeEntry{
		{
			Issue:              "Database connection timeout",
			RootCause:          "Connection pool exhausted or network latency",
			Solution:           "Increase connection pool size, check network connectivity",
			AffectedComponents: []string{"Database", "API"},
			Tags:               []string{"database", "timeout", "connection"},
			Confidence:         1.0,
		},
		{
			Issue:              "API 500 Internal Server Error",
			RootCause:          "Application code error or missing dependency",
			Solution:           "Check application logs, verify dependencies, restart service",
			AffectedComponents: []string{"API", "Application Server"},
			Tags:               []string{"api", "500", "server"},
			Confidence:         1.0,
		},
		{
			Issue:              "Configuration mismatch",
			RootCause:          "Version mismatch between services or incorrect settings",
			Solution:           "Verify configuration files, ensure version compatibility",
			AffectedComponents: []string{"All"},
			Tags:               []string{"config", "version", "settings"},
			Confidence:         1.0,
		},
	}
}

// codeSolutions maps known error codes to curated solutions. Checked before
// any similarity search.
var codeSolutions = map[string][]models.Solution{
	"ERR-001": {
		{
			ErrorType:  "Database Connection Timeout",
			Component:  "Database",
			Confidence: "High",
			RootCause:  "Connection pool exhaustion or network latency",
			SolutionSteps: []string{
				"Increase connection pool size in application.properties",
				"Check database server resources",
				"Verify network connectivity",
				"Add connection timeout retry logic",
			},
			Prevention: "Monitor connection pool metrics regularly",
			Resources:  []string{"DB Connection Guide", "Troubleshooting Handbook"},
		},
	},
	"ERR-002": {
		{
			ErrorType:  "Memory Overflow",
			Component:  "JVM",
			Confidence: "Medium",
			RootCause:  "Memory leak in application code",
			SolutionSteps: []string{
				"Increase heap size with -Xmx parameter",
				"Run memory profiler to identify leaks",
				"Check for infinite loops",
				"Review recent code changes",
			},
			Prevention: "Regular memory profiling and code reviews",
			Resources:  []string{"JVM Tuning Guide", "Memory Management"},
		},
	},
}

// componentSolutions maps component names to curated solutions.
var componentSolutions = map[string][]models.Solution{
	"Database": {
		{
			ErrorType:  "Connection Issues",
			Component:  "Database",
			Confidence: "High",
			RootCause:  "Connection pool configuration",
			SolutionSteps: []string{
				"Check database connection string",
				"Verify database credentials",
				"Test network connectivity",
				"Review connection pool settings",
			},
		},
	},
	"API": {
		{
			ErrorType:  "Rate Limiting",
			Component:  "API",
			Confidence: "Medium",
			RootCause:  "Too many requests to external service",
			SolutionSteps: []string{
				"Implement request throttling",
				"Add circuit breaker pattern",
				"Cache API responses",
				"Contact API provider for quota increase",
			},
		},
	},
}
