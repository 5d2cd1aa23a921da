// Package main is the LogSentry CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/logsentry/internal/cli"
	"github.com/hyperjump/logsentry/internal/config"
	"github.com/hyperjump/logsentry/internal/embedding"
	"github.com/hyperjump/logsentry/internal/kb"
	"github.com/hyperjump/logsentry/internal/keyword"
	"github.com/hyperjump/logsentry/internal/logsource"
	"github.com/hyperjump/logsentry/internal/models"
	"github.com/hyperjump/logsentry/internal/rca"
	"github.com/hyperjump/logsentry/internal/server"
	"github.com/hyperjump/logsentry/internal/storage"
	"github.com/hyperjump/logsentry/internal/vector"
	"github.com/hyperjump/logsentry/internal/watcher"
	"github.com/hyperjump/logsentry/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/logsentry/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "search":
		runSearch()
	case "kb":
		runKB()
	case "structure":
		runStructure()
	case "history":
		runHistory()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("logsentry version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	reader := components.Reader
	watchSvc := watcher.New(cfg.Paths.LogRoot, logsource.IsLogFile, func(path string) {
		logger.Debug("log tree changed", zap.String("path", path))
		reader.Invalidate()
	}, logger)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Warn("log watcher unavailable", zap.Error(err))
	}

	srv := server.NewServer(
		components.Engine,
		components.Reader,
		components.KB,
		components.KeywordIndex,
		components.History,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchSvc.Stop()
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseFormat(raw string) (cli.OutputFormat, error) {
	switch raw {
	case "json":
		return cli.OutputJSON, nil
	case "text", "":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", raw)
	}
}

func runAnalyze() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = run analysis locally)")
	zone := fs.String("zone", "", "deployment zone")
	client := fs.String("client", "", "client name")
	app := fs.String("app", "", "application name")
	appVersion := fs.String("app-version", "", "application version (optional)")
	subVersion := fs.String("sub-version", "", "application sub-version (optional)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printAnalyzeUsage(fs) }
	_ = fs.Parse(args)

	query := buildQuery(fs.Args())
	if query == "" || *zone == "" || *client == "" || *app == "" {
		printAnalyzeUsage(fs)
		os.Exit(1)
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &models.AnalysisRequest{
		Query: query,
		Coordinates: models.Coordinates{
			Zone:       *zone,
			Client:     *client,
			App:        *app,
			Version:    *appVersion,
			SubVersion: *subVersion,
		},
	}

	if *serverURL != "" {
		result, err := analyzeViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnalysisResult(os.Stdout, result, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	result, err := analyzeLocally(ctx, components, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnalysisResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// analyzeLocally runs the full pipeline without a server: read logs, index the
// session corpus, process the query, and record the run in history.
func analyzeLocally(ctx context.Context, components *Components, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	bundle, err := components.Reader.Read(req.Coordinates)
	if err != nil {
		if errors.Is(err, logsource.ErrPathNotFound) || errors.Is(err, logsource.ErrNoLogFiles) {
			return &models.AnalysisResult{Error: "No log data available"}, nil
		}
		return nil, err
	}
	if err := components.Engine.IndexBundle(ctx, bundle); err != nil {
		return nil, err
	}
	result, err := components.Engine.ProcessQuery(ctx, req.Query, bundle)
	if err != nil {
		return nil, err
	}
	record := &models.AnalysisRecord{
		ID:            uuid.NewString(),
		Query:         req.Query,
		Origin:        bundle.Origin,
		RCA:           result.RCA,
		ExactMatches:  len(result.ExactMatches),
		SimilarErrors: len(result.SimilarErrors),
		Solutions:     len(result.Solutions),
		TotalErrors:   result.Stats.TotalErrors,
	}
	if err := components.History.SaveAnalysis(ctx, record); err != nil {
		return nil, err
	}
	return result, nil
}

func analyzeViaHTTP(serverURL string, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		AnalysisID string                 `json:"analysis_id"`
		Result     *models.AnalysisResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Result, nil
}

func printAnalyzeUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: logsentry analyze -zone <zone> -client <client> -app <app> [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  logsentry analyze -zone us-east -client acme -app payments database timeout
  logsentry analyze -zone us-east -client acme -app payments -app-version v2.1 "API failure"
  logsentry analyze -zone us-east -client acme -app payments -output json crash
`)
}

func runSearch() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use local index)")
	limit := fs.Int("limit", 20, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: logsentry search [flags] <query>")
		os.Exit(1)
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serverURL != "" {
		hits, err := logSearchViaHTTP(*serverURL, query, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteLogHits(os.Stdout, hits, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	hits, err := components.KeywordIndex.Search(context.Background(), query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteLogHits(os.Stdout, hits, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func logSearchViaHTTP(serverURL, query string, limit int) ([]*models.LogSearchHit, error) {
	body, _ := json.Marshal(map[string]any{"query": query, "limit": limit})
	resp, err := http.Post(serverURL+"/api/v1/logs/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Hits []*models.LogSearchHit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Hits, nil
}

func runKB() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: logsentry kb <list|add> [flags]")
		fmt.Println("  logsentry kb list                List knowledge base fixes")
		fmt.Println("  logsentry kb add [flags]         Add a fix to the knowledge base")
		os.Exit(1)
	}
	sub := os.Args[2]
	switch sub {
	case "list":
		runKBList()
	case "add":
		runKBAdd()
	default:
		fmt.Printf("Unknown kb subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runKBList() {
	fs := flag.NewFlagSet("kb list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[3:])

	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	components := mustInitialize(*configPath)
	defer components.Close()

	if err := cli.WriteKnowledgeEntries(os.Stdout, components.KB.Entries(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runKBAdd() {
	fs := flag.NewFlagSet("kb add", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	issue := fs.String("issue", "", "short issue description")
	rootCause := fs.String("root-cause", "", "root cause")
	solution := fs.String("solution", "", "fix steps, separated by periods")
	components := fs.String("components", "", "affected components, comma-separated")
	tags := fs.String("tags", "", "tags, comma-separated")
	_ = fs.Parse(os.Args[3:])

	if *issue == "" || *solution == "" {
		fmt.Println("Usage: logsentry kb add -issue <issue> -solution <solution> [-root-cause ...] [-components a,b] [-tags x,y]")
		os.Exit(1)
	}
	comps := mustInitialize(*configPath)
	defer comps.Close()

	err := comps.KB.AddFix(context.Background(), *issue, *rootCause, *solution,
		splitCSV(*components), splitCSV(*tags))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Added: %s\n", *issue)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runStructure() {
	fs := flag.NewFlagSet("structure", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	reader := logsource.NewReader(cfg.Paths.LogRoot, logger)
	if err := cli.WriteStructure(os.Stdout, reader.Structure(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to show")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	history, err := storage.NewSQLiteHistory(cfg.Paths.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	records, err := history.ListAnalyses(context.Background(), 0, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHistory(os.Stdout, records, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use local state)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/status")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var status map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
		return
	}

	components := mustInitialize(*configPath)
	defer components.Close()

	ctx := context.Background()
	total, err := components.History.CountAnalyses(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count analyses failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("analyses:             %d\n", total)
	fmt.Printf("knowledge_base_fixes: %d\n", len(components.KB.Entries()))
	fmt.Printf("log_index_size:       %d\n", components.Engine.LogIndexSize())
	fmt.Printf("vector_backend:       %s\n", components.Engine.LogIndexBackend())
	if count, err := components.KeywordIndex.DocCount(); err == nil {
		fmt.Printf("keyword_index_docs:   %d\n", count)
	}
}

func mustInitialize(configPath string) *Components {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components
}

// Components holds initialized services.
type Components struct {
	History      storage.History
	Embedder     embedding.Embedder
	KBIndex      *vector.FlexibleStore
	LogIndex     *vector.FlexibleStore
	KeywordIndex keyword.KeywordIndex
	KB           *kb.Store
	Reader       *logsource.Reader
	Engine       *rca.Engine
}

func (c *Components) Close() {
	if c.History != nil {
		_ = c.History.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	history, err := storage.NewSQLiteHistory(cfg.Paths.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	embedder, err := embedding.NewEmbedder(embedding.Options{
		ModelPath:  cfg.Embedding.ModelPath,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	backend := vector.BackendTag(cfg.Vector.Backend)
	kbIndex, err := vector.NewFlexibleStore(cfg.Paths.VectorStore, "kb_index", embedder, backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kb vector index: %w", err)
	}
	logIndex, err := vector.NewFlexibleStore(cfg.Paths.VectorStore, cfg.Vector.IndexName, embedder, backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log vector index: %w", err)
	}
	logger.Info("vector indexes initialized",
		zap.String("backend", string(kbIndex.Backend())),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	kbStore, err := kb.NewStore(context.Background(), cfg.Paths.KnowledgeBase, kbIndex, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize knowledge base: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Paths.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	reader := logsource.NewReader(cfg.Paths.LogRoot, logger)
	engine := rca.NewEngine(kbStore, logIndex, &cfg.Analysis, logger)

	return &Components{
		History:      history,
		Embedder:     embedder,
		KBIndex:      kbIndex,
		LogIndex:     logIndex,
		KeywordIndex: keywordIndex,
		KB:           kbStore,
		Reader:       reader,
		Engine:       engine,
	}, nil
}

func printUsage() {
	fmt.Println(`logsentry - Log troubleshooting assistant

Usage:
  logsentry server [flags]                  Start the HTTP server
  logsentry analyze [flags] <query>         Analyze logs for a failure query
  logsentry search [flags] <query>          Keyword search over indexed log lines
  logsentry kb <list|add> [flags]           Inspect or extend the knowledge base
  logsentry structure [flags]               Show the zone/client/app log layout
  logsentry history [flags]                 List past analysis runs
  logsentry status [flags]                  Show index and storage status
  logsentry version                         Show version
  logsentry help                            Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/logsentry/config.yaml)
  --debug            Enable debug logging

Analyze Flags:
  --config string       Config file path
  --server string       Server URL (empty = run locally, default)
  --zone string         Deployment zone (required)
  --client string       Client name (required)
  --app string          Application name (required)
  --app-version string  Application version (optional)
  --sub-version string  Application sub-version (optional)
  --output string       Output format: text or json (default: text)

Examples:
  logsentry server
  logsentry analyze -zone us-east -client acme -app payments database timeout
  logsentry search "connection refused"
  logsentry kb add -issue "Cache stampede" -solution "Add jitter. Enable request coalescing."
  logsentry structure
  logsentry history -limit 10
  logsentry status`)
}
