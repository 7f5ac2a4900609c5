package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/library"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

type openDocumentRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleOpenDocument(w http.ResponseWriter, r *http.Request) {
	var req openDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	s.logger.Debug("open document request", zap.String("path", req.Path))
	doc, err := s.library.Open(r.Context(), req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.logger.Error("open document failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.library.Documents()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.library.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not open")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.library.Get(id); err != nil {
		s.respondError(w, http.StatusNotFound, "document not open")
		return
	}
	s.logger.Debug("remove document request", zap.String("id", id))
	if err := s.library.Remove(r.Context(), id); err != nil {
		s.logger.Error("remove document failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid page index")
		return
	}
	pages, err := s.library.Pages(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not open")
		return
	}
	if index < 0 || index >= len(pages) {
		s.respondError(w, http.StatusNotFound, "page not found")
		return
	}
	page := pages[index]
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"page_index":     page.PageIndex,
		"full_text":      page.FullText,
		"fragment_count": len(page.Fragments),
	})
}

type highlightRequest struct {
	DocumentID string `json:"document_id"`
	Phrase     string `json:"phrase"`
	ID         string `json:"id,omitempty"`
	PageHint   *int   `json:"page_hint,omitempty"`
	AutoHint   bool   `json:"auto_hint,omitempty"`
}

func (s *Server) handleFindHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" {
		s.respondError(w, http.StatusBadRequest, "document_id is required")
		return
	}
	if req.Phrase == "" {
		s.respondError(w, http.StatusBadRequest, "phrase is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	s.logger.Debug("highlight request",
		zap.String("document_id", req.DocumentID),
		zap.String("phrase", req.Phrase),
		zap.Bool("auto_hint", req.AutoHint))

	query := &models.PhraseQuery{
		Phrase:   req.Phrase,
		ID:       req.ID,
		PageHint: req.PageHint,
	}
	hl, err := s.library.FindPhrase(req.DocumentID, query, req.AutoHint)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrUnknownDocument):
			s.respondError(w, http.StatusNotFound, "document not open")
		case errors.Is(err, highlight.ErrNotFound):
			// An expected outcome: the phrase is not in the document.
			s.respondError(w, http.StatusNotFound, "phrase not found")
		default:
			s.logger.Error("highlight failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, hl)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cached, err := s.store.CountDocuments(r.Context())
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	openPages := 0
	for _, doc := range s.library.Documents() {
		openPages += doc.PageCount
	}
	resp := map[string]interface{}{
		"open_documents":   s.library.OpenCount(),
		"open_pages":       openPages,
		"cached_documents": cached,
	}
	if s.appConfig != nil {
		resp["config"] = map[string]interface{}{
			"database_path": s.appConfig.Storage.DatabasePath,
		}
		if size, err := storage.DatabaseSizeBytes(s.appConfig.Storage.DatabasePath); err == nil {
			resp["database_size_bytes"] = size
		}
	}
	if s.watch != nil {
		resp["watch_directories"] = s.watch.Directories()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Scan *bool  `json:"scan,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	scanExisting := true
	if req.Scan != nil {
		scanExisting = *req.Scan
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("scan_existing", scanExisting))
	if err := s.watch.AddDirectory(abs, scanExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current watch roots back to the config
// file so they survive a restart. Failure to persist is logged, not fatal.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.appConfig == nil {
		return
	}
	s.configMu.Lock()
	s.appConfig.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.appConfig)
	s.configMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
