package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

// CacheStore подмножество *redis.Client, нужное кешу ответов
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ResponseCache кеширует успешные GET ответы публичных справочников
type ResponseCache struct {
	store        CacheStore
	prefix       string
	ttl          time.Duration
	maxBodyBytes int
	logger       Logger
}

func NewResponseCache(store CacheStore, prefix string, ttl time.Duration, maxBodyBytes int, logger Logger) *ResponseCache {
	return &ResponseCache{
		store:        store,
		prefix:       prefix,
		ttl:          ttl,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// bodyRecorder копирует тело ответа, пока оно не превышает лимит
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(p []byte) (int, error) {
	if !r.overflow {
		if r.buf.Len()+len(p) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(p)
		}
	}
	return r.ResponseWriter.Write(p)
}

// Middleware отдает ответ из redis (X-Cache: HIT) или сохраняет ответ 200 (X-Cache: MISS)
func (c *ResponseCache) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if c == nil || c.store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := c.prefix + ":" + r.URL.RequestURI()
			cached, err := c.store.Get(r.Context(), key).Bytes()
			switch {
			case err == nil:
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			case !errors.Is(err, redis.Nil):
				c.logger.Warn("Cache: get key=%s failed: %v", key, err)
			}

			w.Header().Set("X-Cache", "MISS")
			rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK, limit: c.maxBodyBytes}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK || rec.overflow || rec.buf.Len() == 0 {
				return
			}
			if err := c.store.Set(r.Context(), key, rec.buf.Bytes(), c.ttl).Err(); err != nil {
				c.logger.Warn("Cache: set key=%s failed: %v", key, err)
			}
		})
	}
}
