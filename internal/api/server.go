package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/engine"
	"mesh-retriever/internal/resources"
)

// Server is the thin HTTP surface over the fan-out query engine.
type Server struct {
	provider           *resources.Provider
	defaultCollections []string
	searchTimeout      time.Duration
	log                *zap.Logger
}

func NewServer(provider *resources.Provider, defaultCollections []string, searchTimeout time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		provider:           provider,
		defaultCollections: defaultCollections,
		searchTimeout:      searchTimeout,
		log:                log,
	}
}

// Handler returns the route table for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	var req domain.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query text is required"})
		return
	}
	if req.Limit == 0 {
		req.Limit = 1
	}
	if req.Limit < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be positive"})
		return
	}
	if len(req.Collections) == 0 {
		req.Collections = s.defaultCollections
	}

	embedder, store, err := s.provider.Acquire(r.Context())
	if err != nil {
		s.log.Error("resource initialization failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	eng := engine.New(embedder, store, s.searchTimeout, s.log)
	start := time.Now()
	hits, err := eng.Search(r.Context(), req.Query, req.Collections, req.Limit)
	if err != nil {
		if errors.Is(err, engine.ErrAllCollectionsFailed) {
			s.log.Error("search failed for every collection", zap.Error(err))
		} else {
			s.log.Error("search failed", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.log.Info("search served",
		zap.String("query", req.Query),
		zap.Int("limit", req.Limit),
		zap.Strings("collections", req.Collections),
		zap.Int("hits", len(hits)),
		zap.Duration("elapsed", time.Since(start)))
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}
