package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTokenBucketRefills(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	b := NewTokenBucket(1, 2)
	b.lastPrune = clock
	b.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		if ok, _ := b.Allow(context.Background(), "10.0.0.1"); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	if ok, _ := b.Allow(context.Background(), "10.0.0.1"); ok {
		t.Fatal("bucket should be empty")
	}

	clock = clock.Add(1500 * time.Millisecond)
	if ok, _ := b.Allow(context.Background(), "10.0.0.1"); !ok {
		t.Fatal("bucket should have refilled one token")
	}
}

func TestTokenBucketIsPerClient(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	b := NewTokenBucket(1, 1)
	b.lastPrune = clock
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	if ok, _ := b.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := b.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("second request from the same client should be refused")
	}
	if ok, _ := b.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatal("other clients have their own bucket")
	}
}

func TestTokenBucketPrunesRefilledBuckets(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	b := NewTokenBucket(10, 20)
	b.lastPrune = clock
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	b.Allow(ctx, "10.0.0.1")
	b.Allow(ctx, "10.0.0.2")
	if len(b.buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(b.buckets))
	}

	clock = clock.Add(2 * time.Minute)
	b.Allow(ctx, "10.0.0.3")
	if len(b.buckets) != 1 {
		t.Fatalf("idle buckets should be dropped, got %d", len(b.buckets))
	}
}

func TestRedisWindowLimitsPerClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisWindow(client, 2)
	fixed := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: expected allow, got %v %v", i, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("third request in window should be refused")
	}
	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatal("other clients have their own window")
	}

	fixed = fixed.Add(time.Second)
	if ok, _ := l.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("new window should allow again")
	}

	key := "cardiocheck:ratelimit:10.0.0.1:1700000000"
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected window key to expire, ttl %s", ttl)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

func TestRateLimitMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	RateLimit(denyLimiter{})(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RateLimit(failingLimiter{})(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected limiter errors to fail open, got %d", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:51234"
	if got := clientKey(req); got != "192.168.1.5" {
		t.Fatalf("expected host only, got %q", got)
	}
	req.RemoteAddr = "pipe"
	if got := clientKey(req); got != "pipe" {
		t.Fatalf("expected raw addr, got %q", got)
	}
}
