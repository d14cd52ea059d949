package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Store
	ingester  Ingester
	processor Processor
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Store is the read side used by the API handlers
type Store interface {
	GetArticles(ctx context.Context, category domain.Category, limit int) ([]domain.Article, error)
	CountArticles(ctx context.Context) (int64, error)
	GetRankings(ctx context.Context, limit int) ([]domain.WriterRanking, error)
}

// Ingester runs a full feed sync cycle on demand
type Ingester interface {
	Sync(ctx context.Context) domain.SyncStats
}

// Processor runs the scoring cycles on demand
type Processor interface {
	ProcessEarnings(ctx context.Context) (int, error)
	RecomputeRankings(ctx context.Context) (int, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, store Store, ingester Ingester, processor Processor, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		store:     store,
		ingester:  ingester,
		processor: processor,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("sportpulse", "sportpulse", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(corsMiddleware)
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /rankings", s.rankingsHandler)

		r.HandleFunc("POST /sync/news", s.syncNewsHandler)
		r.HandleFunc("POST /sync/earnings", s.syncEarningsHandler)
		r.HandleFunc("POST /sync/rankings", s.syncRankingsHandler)
	})
}

// corsMiddleware allows the mobile and web clients to call the trigger
// endpoints cross-origin, answering preflight requests directly
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]interface{}{"success": false, "error": errMsg})
}
