// Package http serves the dashboard UI and the payment endpoints.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MarcoIannucci/spotify-tracking/internal/cache"
	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	applog "github.com/MarcoIannucci/spotify-tracking/internal/log"
	"github.com/MarcoIannucci/spotify-tracking/internal/services"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
	appweb "github.com/MarcoIannucci/spotify-tracking/web"
)

type Server struct {
	http.Server
	templates *template.Template

	store      storage.Store
	reconciler *services.Reconciler
	payments   *services.Payments
	reports    *services.Reports

	rateLimiter *rateLimiter

	// Merged month views, keyed by month. Any write purges the cache: the
	// dataset is tiny and rebuilding a view is one roster read away.
	rowsCache    *cache.LRUCache[[]core.MonthRow]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store storage.Store, reconciler *services.Reconciler, payments *services.Payments, reports *services.Reports) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        store,
		reconciler:   reconciler,
		payments:     payments,
		reports:      reports,
		rateLimiter:  newRateLimiter(),
		rowsCache:    cache.NewLRUCache[[]core.MonthRow](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.rowsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/ui/month-view", s.withSecurityHeaders(s.handleMonthView))
	mux.HandleFunc("/payments", s.withSecurityHeaders(s.handleRecordPayment))
	mux.HandleFunc("/participants", s.withSecurityHeaders(s.handleParticipants))
	mux.HandleFunc("/participants/save", s.withSecurityHeaders(s.handleSaveParticipant))
	mux.HandleFunc("/participants/delete", s.withSecurityHeaders(s.handleDeleteParticipant))
	mux.HandleFunc("/participants/statement.csv", s.withSecurityHeaders(s.handleStatementCSV))
	mux.HandleFunc("/reports", s.withSecurityHeaders(s.handleReports))
	mux.HandleFunc("/ui/reports", s.withSecurityHeaders(s.handleReportsView))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Every request carries an http-scoped logger in its context; handlers
	// retrieve it with applog.FromContext.
	httpLogger := applog.New(applog.Config{
		Component: applog.ComponentHTTP,
		Handler:   slog.Default().Handler(),
	})
	s.Server.Handler = applog.Middleware(httpLogger)(mux)

	return s
}

// Shutdown stops the background cleanup goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging to every handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := r.Context()
		logger := applog.FromContext(ctx)

		logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		observeRequest(r.Method, r.URL.Path, rw.statusCode)
		logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// loadMonthRows returns the merged month view, from cache when possible.
func (s *Server) loadMonthRows(ctx context.Context, month core.MonthKey) ([]core.MonthRow, error) {
	key := month.Key()
	if rows, found := s.rowsCache.Get(key); found {
		slog.DebugContext(ctx, "Month view cache hit", "month", key)
		return rows, nil
	}

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	charges, err := s.store.ChargesForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list charges for %s: %w", key, err)
	}

	rows := core.MergeMonth(participants, charges)
	s.rowsCache.Set(key, rows)
	return rows, nil
}

// invalidateViews drops all cached month views. Roster edits cascade into
// any month, so a targeted delete is not worth the bookkeeping.
func (s *Server) invalidateViews() {
	s.rowsCache.Purge()
}
