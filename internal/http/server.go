package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"umore/internal/cache"
	"umore/internal/core"
	"umore/internal/live"
	applog "umore/internal/log"
	"umore/internal/services"
)

// Server exposes the journal over a JSON API plus server-sent event
// streams for the live queries. It owns the single-slot undo state
// for deleted entries and a TTL cache for the stats endpoints.
type Server struct {
	http.Server
	moods   *services.MoodColorService
	entries *services.EntryService

	logs        *applog.StructuredLogger
	rateLimiter *rateLimiter
	statsCache  *cache.LRUCache[[]byte]
	cacheSub    *live.Subscription

	// Last hard-deleted entry, available to exactly one restore.
	undoMu      sync.Mutex
	lastDeleted *core.Entry

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run
// server. statsTTL bounds staleness of cached stats responses; the
// cache is also flushed eagerly whenever the store reports a change.
func NewServer(addr string, moods *services.MoodColorService, entries *services.EntryService, changes *live.Hub, statsTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		moods:       moods,
		entries:     entries,
		logs:        applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)),
		rateLimiter: newRateLimiter(60),
		statsCache:  cache.NewLRUCache[[]byte](64, statsTTL),
		cacheSub:    changes.Subscribe(),
	}

	go s.invalidateOnChange()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/moods", s.withMiddleware(s.handleMoods))
	mux.HandleFunc("/api/moods/rename", s.withMiddleware(s.handleMoodRename))
	mux.HandleFunc("/api/moods/recolor", s.withMiddleware(s.handleMoodRecolor))
	mux.HandleFunc("/api/moods/delete", s.withMiddleware(s.handleMoodDelete))
	mux.HandleFunc("/api/moods/watch", s.withMiddleware(s.handleMoodWatch))

	mux.HandleFunc("/api/entries", s.withMiddleware(s.handleEntries))
	mux.HandleFunc("/api/entries/delete", s.withMiddleware(s.handleEntryDelete))
	mux.HandleFunc("/api/entries/restore", s.withMiddleware(s.handleEntryRestore))
	mux.HandleFunc("/api/entries/watch", s.withMiddleware(s.handleEntryWatch))

	mux.HandleFunc("/api/stats/total", s.withMiddleware(s.handleStatsTotal))
	mux.HandleFunc("/api/stats/moods", s.withMiddleware(s.handleStatsMoods))
	mux.HandleFunc("/api/stats/monthly", s.withMiddleware(s.handleStatsMonthly))

	return s
}

// invalidateOnChange flushes the stats cache on every store change.
// Cached responses may otherwise outlive the data they summarise for
// up to the TTL.
func (s *Server) invalidateOnChange() {
	for range s.cacheSub.Changes() {
		s.statsCache.Flush()
	}
}

// withMiddleware adds request logging, rate limiting on mutations,
// and security headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logs.LogHTTPStart(ctx, r, ip)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		applySecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logs.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so SSE streaming works
// through the status-capturing wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheSub.Cancel()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
