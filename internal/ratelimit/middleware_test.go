package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLoginKeyPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := LoginKey(req); got != "login:203.0.113.7" {
		t.Fatalf("unexpected key: %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "192.0.2.4:51234"
	if got := LoginKey(req); got != "login:192.0.2.4" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestHandlerMiddlewareEnforcesLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "ratelimit:", Window: time.Second, Max: 1},
		Key:     func(*http.Request) string { return "static" },
	}

	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", rr2.Code)
	}
	if rr2.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("unexpected limit header: %q", rr2.Header().Get("X-RateLimit-Limit"))
	}
}

func TestHandlerMiddlewareOnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "ratelimit:", Window: time.Second, Max: 1},
		Key:     func(*http.Request) string { return "err" },
	}

	called := false
	handler.OnError = func(error) { called = true }

	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	counted.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected handler to proceed on error, got %d", rr.Code)
	}
	if !called {
		t.Fatal("expected OnError callback to be invoked")
	}
	_ = client.Close()
}
