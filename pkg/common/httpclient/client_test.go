package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewAppliesTimeout(t *testing.T) {
	client := New(3 * time.Second)
	if client.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)) {
		t.Fatal("expected wrapped deadline to be a timeout")
	}
	if IsTimeout(errors.New("connection refused")) {
		t.Fatal("plain error should not be a timeout")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := New(20 * time.Millisecond).Get(server.URL)
	if err == nil {
		t.Fatal("expected client timeout")
	}
	if !IsTimeout(err) {
		t.Fatalf("expected timeout classification for %v", err)
	}
}
