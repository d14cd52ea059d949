package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

const (
	defaultArticlesLimit = 50
	maxArticlesLimit     = 200
	defaultRankingsLimit = 100
)

// statusHandler returns server status with article count
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountArticles(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := map[string]interface{}{
		"status":   "ok",
		"version":  s.version,
		"articles": count,
		"time":     time.Now().UTC(),
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// articlesHandler returns stored articles, optionally filtered by category
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !domain.Category(category).Valid() {
		RenderError(w, r, fmt.Errorf("unknown category %q", category), http.StatusBadRequest)
		return
	}

	limit := defaultArticlesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			RenderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxArticlesLimit)
	}

	articles, err := s.store.GetArticles(r.Context(), domain.Category(category), limit)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(articles),
		"articles": articles,
	})
}

// rankingsHandler returns the current writer ranking table
func (s *Server) rankingsHandler(w http.ResponseWriter, r *http.Request) {
	rankings, err := s.store.GetRankings(r.Context(), defaultRankingsLimit)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(rankings),
		"rankings": rankings,
	})
}

// syncNewsHandler triggers a full feed ingestion cycle. The cycle never fails
// as a whole, per-feed failures are reported inside the stats.
func (s *Server) syncNewsHandler(w http.ResponseWriter, r *http.Request) {
	lgr.Printf("[INFO] news sync triggered via api")
	stats := s.ingester.Sync(r.Context())

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("synced %d feeds, %d articles stored", stats.SuccessfulFeeds, stats.TotalArticles),
		"stats":   stats,
	})
}

// syncEarningsHandler triggers an earnings scoring cycle
func (s *Server) syncEarningsHandler(w http.ResponseWriter, r *http.Request) {
	lgr.Printf("[INFO] earnings cycle triggered via api")
	processed, err := s.processor.ProcessEarnings(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": processed,
		"message":   fmt.Sprintf("processed earnings for %d posts", processed),
	})
}

// syncRankingsHandler triggers a writer ranking recompute
func (s *Server) syncRankingsHandler(w http.ResponseWriter, r *http.Request) {
	lgr.Printf("[INFO] ranking recompute triggered via api")
	processed, err := s.processor.RecomputeRankings(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": processed,
		"message":   fmt.Sprintf("ranked %d writers", processed),
	})
}
