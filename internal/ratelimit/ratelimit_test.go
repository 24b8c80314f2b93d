package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func hit(h http.Handler, addr string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/normalize/convert", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestLimiterBlocksOverBurst(t *testing.T) {
	h := New(3).Middleware(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234"), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234"), "other clients have their own bucket")
}

func TestLimiterDisabled(t *testing.T) {
	h := New(0).Middleware(okHandler())
	for i := 0; i < 100; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1"))
	}
}

func TestSweep(t *testing.T) {
	l := New(5)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.get("a")
	now = now.Add(10 * time.Minute)
	l.get("b")
	l.Sweep()

	assert.NotContains(t, l.limiters, "a")
	assert.Contains(t, l.limiters, "b")
}
