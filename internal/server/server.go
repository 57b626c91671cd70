// Package server provides the HTTP API for clinscribe.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/clinscribe/clinscribe/internal/config"
	"github.com/clinscribe/clinscribe/internal/export"
	"github.com/clinscribe/clinscribe/internal/ingest"
	"github.com/clinscribe/clinscribe/internal/runindex"
	"github.com/clinscribe/clinscribe/internal/storage"
)

// WatchService is the subset of the intake watcher the API needs.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the clinscribe API.
type Server struct {
	ingest    *ingest.Service
	storage   storage.Storage
	index     runindex.Index
	suggester *runindex.Suggester
	exporter  *export.Writer
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server

	// Watch wiring is optional; nil when the server runs without intake
	// directories.
	watch      WatchService
	fullConfig *config.Config
	configPath string
	fullCfgMu  sync.Mutex
}

// NewServer creates a server with the given dependencies. suggester and
// exporter may be nil; the matching endpoints then degrade gracefully.
func NewServer(
	svc *ingest.Service,
	store storage.Storage,
	idx runindex.Index,
	suggester *runindex.Suggester,
	exporter *export.Writer,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		ingest:    svc,
		storage:   store,
		index:     idx,
		suggester: suggester,
		exporter:  exporter,
		config:    cfg,
		logger:    logger,
	}
}

// SetWatch wires the intake watcher and the config used to persist watch
// directory changes.
func (s *Server) SetWatch(w WatchService, fullConfig *config.Config, configPath string) {
	s.watch = w
	s.fullConfig = fullConfig
	s.configPath = configPath
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/transcripts", s.handleProcessTranscript)
	r.Get("/api/v1/runs", s.handleListRuns)
	r.Get("/api/v1/runs/{id}", s.handleGetRun)
	r.Get("/api/v1/runs/{id}/soap", s.handleGetSOAP)
	r.Delete("/api/v1/runs/{id}", s.handleDeleteRun)
	r.Get("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/export", s.handleExport)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)

	return r
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
