// Package config provides configuration loading and structs for the LogSentry server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// PathsConfig holds the log root and on-disk artifact locations.
type PathsConfig struct {
	LogRoot        string `yaml:"log_root"`
	VectorStore    string `yaml:"vector_store"`
	KnowledgeBase  string `yaml:"knowledge_base"`
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// EmbeddingConfig holds embedder settings. When ModelPath is empty the
// deterministic hash embedder is used instead of ONNX.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// VectorConfig holds vector index settings. Backend may pin one of
// flat, tree, neighbors, linear; empty means probe in priority order.
type VectorConfig struct {
	Backend   string `yaml:"backend"`
	IndexName string `yaml:"index_name"`
}

// AnalysisConfig holds RCA engine limits.
type AnalysisConfig struct {
	SolutionLineLimit int `yaml:"solution_line_limit"`
	NarrativeLines    int `yaml:"narrative_lines"`
	LineTruncate      int `yaml:"line_truncate"`
	ChunkSize         int `yaml:"chunk_size"`
	ChunkOverlap      int `yaml:"chunk_overlap"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Paths.LogRoot = expandPath(cfg.Paths.LogRoot, configDir)
	cfg.Paths.VectorStore = expandPath(cfg.Paths.VectorStore, configDir)
	cfg.Paths.KnowledgeBase = expandPath(cfg.Paths.KnowledgeBase, configDir)
	cfg.Paths.DatabasePath = expandPath(cfg.Paths.DatabasePath, configDir)
	cfg.Paths.BleveIndexPath = expandPath(cfg.Paths.BleveIndexPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
