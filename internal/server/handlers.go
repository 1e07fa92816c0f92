package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/hari2309s/recommend-a-book-sub000/internal/errors"
	"github.com/hari2309s/recommend-a-book-sub000/internal/graph"
	"github.com/hari2309s/recommend-a-book-sub000/internal/history"
)

type recommendRequest struct {
	Query  string `json:"query"`
	TopK   int    `json:"top_k"`
	UserID string `json:"user_id"`
}

type recommendResponse struct {
	Recommendations any    `json:"recommendations"`
	UserID          string `json:"user_id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.InvalidInput("request body must be JSON"))
		return
	}

	results, err := s.service.Recommend(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeError(w, err)
		return
	}

	// Anonymous requests get a fresh user ID so history still accrues.
	userID, parseErr := uuid.Parse(strings.TrimSpace(req.UserID))
	if parseErr != nil {
		userID = uuid.New()
	}

	// History is best effort. A broken store must not fail the request.
	if s.store != nil {
		if err := s.store.Save(r.Context(), userID, strings.TrimSpace(req.Query), results); err != nil {
			s.logger.Warn("failed to save search history", "user_id", userID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Recommendations: results,
		UserID:          userID.String(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, apierrors.New(apierrors.ErrCodeHistoryQuery, "search history is not configured"))
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, apierrors.InvalidInput("user_id must be a valid UUID"))
		return
	}
	limit := intParam(r, "limit", history.DefaultListLimit)

	entries, err := s.store.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (s *Server) handlePrewarm(w http.ResponseWriter, r *http.Request) {
	performed, err := s.service.Prewarm(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	status := "already warm"
	if performed {
		status = "warmed"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"caches": s.service.CacheStats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"caches": s.service.CacheStats(),
	})
}

func (s *Server) handleGraphBook(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.graphReader(w)
	if !ok {
		return
	}
	bookID := r.URL.Query().Get("book_id")
	if bookID == "" {
		writeError(w, apierrors.InvalidInput("book_id is required"))
		return
	}
	neighborhood, err := reader.Neighborhood(r.Context(), bookID, intParam(r, "depth", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neighborhood)
}

func (s *Server) handleGraphSimilar(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.graphReader(w)
	if !ok {
		return
	}
	bookID := r.URL.Query().Get("book_id")
	if bookID == "" {
		writeError(w, apierrors.InvalidInput("book_id is required"))
		return
	}
	books, err := reader.SimilarBooks(r.Context(), bookID, intParam(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleGraphSearch(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.graphReader(w)
	if !ok {
		return
	}
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, apierrors.InvalidInput("title is required"))
		return
	}
	books, err := reader.SearchBooks(r.Context(), title, intParam(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.graphReader(w)
	if !ok {
		return
	}
	stats, err := reader.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) graphReader(w http.ResponseWriter) (graph.Reader, bool) {
	if s.graph == nil {
		writeError(w, apierrors.New(apierrors.ErrCodeGraphQuery, "book graph is not configured"))
		return nil, false
	}
	return s.graph, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apierrors.HTTPStatus(err), errorResponse{
		Error: err.Error(),
		Code:  apierrors.GetCode(err),
	})
}

func intParam(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
