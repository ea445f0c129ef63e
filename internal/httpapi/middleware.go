package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"surfsup-server/internal/cache"
)

const (
	RequestIDHeader = "X-Request-ID"
	CacheHeader     = "X-Cache"

	maxRequestIDLen = 128
)

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by the request id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// requestID echoes a sane incoming X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyRecorder tees the response so a 200 can be stored after the handler
// returns.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(p []byte) (int, error) {
	br.body.Write(p)
	return br.ResponseWriter.Write(p)
}

// responseCache serves successful GET responses under /api/ from c. Cache
// errors are logged and the request falls through to next.
func responseCache(c cache.Cache, ttl time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		// The mux routes on the escaped path, so "a%2Fb" and "a/b" reach
		// different handlers and must not share an entry.
		key := r.URL.EscapedPath()

		data, ok, err := c.Get(r.Context(), key)
		if err != nil {
			slog.Warn("response cache get failed", "key", key, "error", err)
		}
		if ok {
			var cached cachedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set(CacheHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				if _, err := w.Write(cached.Body); err != nil {
					slog.Error("failed to write cached response", "error", err)
				}
				return
			}
			slog.Warn("response cache entry corrupt", "key", key)
		}

		w.Header().Set(CacheHeader, "MISS")
		br := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(br, r)
		if br.status != http.StatusOK {
			return
		}

		entry, err := json.Marshal(cachedResponse{
			ContentType: br.Header().Get("Content-Type"),
			Body:        br.body.Bytes(),
		})
		if err != nil {
			slog.Warn("response cache encode failed", "key", key, "error", err)
			return
		}
		if err := c.Set(r.Context(), key, entry, ttl); err != nil {
			slog.Warn("response cache set failed", "key", key, "error", err)
		}
	})
}
