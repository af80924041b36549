package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
)

const msgTooManyRequests = "Too many requests, please try again later"

// tokenBucket атомарно пополняет корзину и забирает один токен.
// Возвращает {allowed, remaining, retry_after_ms}
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimitConfig параметры корзины
type RateLimitConfig struct {
	Prefix         string
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

// RateLimiter ограничитель запросов на redis. При недоступности redis запросы пропускаются
type RateLimiter struct {
	rdb    redis.Scripter
	cfg    RateLimitConfig
	logger Logger
	now    func() time.Time
}

func NewRateLimiter(rdb redis.Scripter, cfg RateLimitConfig, logger Logger) *RateLimiter {
	return &RateLimiter{rdb: rdb, cfg: cfg, logger: logger, now: time.Now}
}

// Limit middleware с отдельной корзиной scope вместимостью capacity на пользователя (или IP для анонимных)
func (l *RateLimiter) Limit(scope string, capacity int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if l == nil || l.rdb == nil || capacity <= 0 {
			return next
		}

		refill := l.cfg.RefillTokens
		if refill <= 0 || refill > capacity {
			refill = capacity
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := l.key(scope, r)
			args := []interface{}{
				l.now().UnixMilli(),
				capacity,
				refill,
				l.cfg.RefillInterval.Milliseconds(),
				int64(math.Max(1, l.cfg.TTL.Seconds())),
			}

			vals, err := tokenBucket.Run(r.Context(), l.rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(vals) != 3 {
				l.logger.Warn("RateLimit: redis unavailable for key=%s, request allowed: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				l.logger.Warn("RateLimit: %s blocked, retry in %dms", key, retryMs)
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) key(scope string, r *http.Request) string {
	subject := "ip:" + ClientIP(r)
	if userID, ok := GetUserID(r.Context()); ok {
		subject = "user:" + userID.String()
	}
	return strings.Join([]string{l.cfg.Prefix, scope, subject}, ":")
}

// String для логов при старте
func (c RateLimitConfig) String() string {
	return fmt.Sprintf("prefix=%s refill=%d/%s ttl=%s", c.Prefix, c.RefillTokens, c.RefillInterval, c.TTL)
}
