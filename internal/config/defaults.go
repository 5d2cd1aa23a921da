package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Paths.LogRoot == "" {
		cfg.Paths.LogRoot = "/usr/local/var/logsentry/logs"
	}
	if cfg.Paths.VectorStore == "" {
		cfg.Paths.VectorStore = "/usr/local/var/logsentry/data/vector_store"
	}
	if cfg.Paths.KnowledgeBase == "" {
		cfg.Paths.KnowledgeBase = "/usr/local/var/logsentry/data/kb/fixes.json"
	}
	if cfg.Paths.DatabasePath == "" {
		cfg.Paths.DatabasePath = "/usr/local/var/logsentry/data/db/history.db"
	}
	if cfg.Paths.BleveIndexPath == "" {
		cfg.Paths.BleveIndexPath = "/usr/local/var/logsentry/data/indices/bleve"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Vector.IndexName == "" {
		cfg.Vector.IndexName = "log_index"
	}
	if cfg.Analysis.SolutionLineLimit == 0 {
		cfg.Analysis.SolutionLineLimit = 5
	}
	if cfg.Analysis.NarrativeLines == 0 {
		cfg.Analysis.NarrativeLines = 3
	}
	if cfg.Analysis.LineTruncate == 0 {
		cfg.Analysis.LineTruncate = 80
	}
	if cfg.Analysis.ChunkSize == 0 {
		cfg.Analysis.ChunkSize = 500
	}
	if cfg.Analysis.ChunkOverlap == 0 {
		cfg.Analysis.ChunkOverlap = 5
	}
}
