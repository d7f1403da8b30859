package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenBucket keeps one bucket per client key in this process. Buckets that
// have refilled completely are dropped, since a fresh bucket is identical.
type TokenBucket struct {
	rps       int
	burst     int
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
	now       func() time.Time
}

type bucket struct {
	tokens int
	last   time.Time
}

func NewTokenBucket(rps, burst int) *TokenBucket {
	return &TokenBucket{rps: rps, burst: burst, buckets: make(map[string]*bucket), lastPrune: time.Now(), now: time.Now}
}

func (b *TokenBucket) Allow(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.lastPrune) > time.Minute {
		b.pruneLocked(now)
	}

	bk, ok := b.buckets[key]
	if !ok {
		bk = &bucket{tokens: b.burst, last: now}
		b.buckets[key] = bk
	}
	add := int(now.Sub(bk.last).Seconds() * float64(b.rps))
	if add > 0 {
		bk.tokens += add
		if bk.tokens > b.burst {
			bk.tokens = b.burst
		}
		bk.last = now
	}
	if bk.tokens <= 0 {
		return false, nil
	}
	bk.tokens--
	return true, nil
}

func (b *TokenBucket) pruneLocked(now time.Time) {
	b.lastPrune = now
	if b.rps <= 0 {
		return
	}
	refill := time.Duration(float64(b.burst) / float64(b.rps) * float64(time.Second))
	for key, bk := range b.buckets {
		if now.Sub(bk.last) >= refill {
			delete(b.buckets, key)
		}
	}
}

// RedisWindow counts requests per client in fixed one-second windows shared
// by every replica. It has no burst allowance.
type RedisWindow struct {
	client *redis.Client
	limit  int
	prefix string
	now    func() time.Time
}

func NewRedisWindow(client *redis.Client, limit int) *RedisWindow {
	return &RedisWindow{client: client, limit: limit, prefix: "cardiocheck:ratelimit:", now: time.Now}
}

func (l *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s%s:%d", l.prefix, key, l.now().Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

// RateLimit rejects requests the limiter refuses. Limiter errors let the
// request through.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.Log.WithError(err).Warn("Rate limiter unavailable")
				allowed = true
			}
			if !allowed {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
