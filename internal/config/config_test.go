package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
paths:
  log_root: "/var/log/deployments"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Paths.LogRoot != "/var/log/deployments" {
		t.Errorf("LogRoot=%q", cfg.Paths.LogRoot)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port=%d, want 8080", cfg.Server.Port)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("default dimensions=%d, want 384", cfg.Embedding.Dimensions)
	}
	if cfg.Vector.IndexName != "log_index" {
		t.Errorf("default index name=%q", cfg.Vector.IndexName)
	}
	if cfg.Analysis.SolutionLineLimit != 5 || cfg.Analysis.NarrativeLines != 3 || cfg.Analysis.LineTruncate != 80 {
		t.Errorf("analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Analysis.ChunkSize != 500 || cfg.Analysis.ChunkOverlap != 5 {
		t.Errorf("chunk defaults: %+v", cfg.Analysis)
	}
	if cfg.Vector.Backend != "" {
		t.Errorf("backend should default to empty (probe), got %q", cfg.Vector.Backend)
	}
}

func TestLoadExpandPathRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
paths:
  log_root: "./dev/logs"
  knowledge_base: "./data/kb/fixes.json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "dev", "logs"); cfg.Paths.LogRoot != want {
		t.Errorf("LogRoot=%q, want %q", cfg.Paths.LogRoot, want)
	}
	if want := filepath.Join(dir, "data", "kb", "fixes.json"); cfg.Paths.KnowledgeBase != want {
		t.Errorf("KnowledgeBase=%q, want %q", cfg.Paths.KnowledgeBase, want)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Vector.Backend = "tree"
	if err := Save(path, &cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Vector.Backend != "tree" {
		t.Errorf("Backend=%q after round trip", loaded.Vector.Backend)
	}
	if loaded.Server.Port != cfg.Server.Port {
		t.Errorf("Port=%d, want %d", loaded.Server.Port, cfg.Server.Port)
	}
}
