package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLimiter_Burst(t *testing.T) {
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	l := New(1, 3)
	l.now = func() time.Time { return now }

	for range 3 {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "budgets are per client")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestLimiter_Evict(t *testing.T) {
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(10 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.evict(now, 5*time.Minute))
	assert.Equal(t, 1, l.Len())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "203.0.113.7", ClientIP(r))

	r.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", ClientIP(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientIP(r))
}

func TestMiddleware(t *testing.T) {
	l := New(0.001, 1)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	bypass := func(r *http.Request) bool { return r.Header.Get("X-Service-Token") == "secret" }
	h := Middleware(l, bypass)(ok)

	do := func(token string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Service-Token", token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do(""))
	assert.Equal(t, http.StatusTooManyRequests, do(""))
	assert.Equal(t, http.StatusNoContent, do("secret"))
}

func TestMiddleware_RetryAfter(t *testing.T) {
	h := Middleware(New(0.001, 1), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/reader/1/events", nil))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reader/1/events", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestLimiter_RunStopsOnCancel(t *testing.T) {
	l := New(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
