// Package server provides the HTTP API for Shirushi.
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

	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/library"
	"github.com/hyperjump/shirushi/internal/storage"
)

// WatchService is the part of the directory watcher the API manages.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, scanExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the Shirushi API.
type Server struct {
	library *library.Library
	store   storage.Store
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server

	// watch is nil when directory watching is disabled. configPath, when
	// set together with appConfig, is where watch-root changes persist.
	watch      WatchService
	configPath string
	appConfig  *config.Config
	configMu   sync.Mutex
}

// NewServer creates a server with the given dependencies. watch may be nil
// (watch endpoints answer 501); configPath and appConfig may be empty/nil
// when watch-root changes should not be written back to a config file.
func NewServer(
	lib *library.Library,
	store storage.Store,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	watch WatchService,
	configPath string,
	appConfig *config.Config,
) *Server {
	return &Server{
		library:    lib,
		store:      store,
		config:     cfg,
		logger:     logger,
		watch:      watch,
		configPath: configPath,
		appConfig:  appConfig,
	}
}

// routes builds the HTTP handler tree.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/documents", s.handleOpenDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleRemoveDocument)
	r.Get("/api/v1/documents/{id}/pages/{index}", s.handleGetPage)
	r.Post("/api/v1/highlights", s.handleFindHighlight)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)
	return r
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

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
