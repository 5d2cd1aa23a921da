// Package server provides the HTTP API for LogSentry.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/logsentry/internal/config"
	"github.com/hyperjump/logsentry/internal/kb"
	"github.com/hyperjump/logsentry/internal/keyword"
	"github.com/hyperjump/logsentry/internal/logsource"
	"github.com/hyperjump/logsentry/internal/rca"
	"github.com/hyperjump/logsentry/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the LogSentry API.
type Server struct {
	engine   *rca.Engine
	reader   *logsource.Reader
	kb       *kb.Store
	keywords keyword.KeywordIndex
	history  storage.History
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *rca.Engine,
	reader *logsource.Reader,
	kbStore *kb.Store,
	keywords keyword.KeywordIndex,
	history storage.History,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		reader:   reader,
		kb:       kbStore,
		keywords: keywords,
		history:  history,
		config:   cfg,
		logger:   logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/logs/structure", s.handleLogStructure)
	r.Post("/api/v1/logs/search", s.handleLogSearch)
	r.Get("/api/v1/kb/fixes", s.handleListFixes)
	r.Post("/api/v1/kb/fixes", s.handleAddFix)
	r.Get("/api/v1/history", s.handleHistory)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
