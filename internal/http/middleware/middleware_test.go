package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/http/middleware"
	"github.com/shrimpy8/family-activity-finder/internal/modules/ratelimit"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine(middleware.RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) { seen = middleware.GetRequestID(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := w.Header().Get(middleware.RequestIDHeader); got == "" || got != seen {
		t.Fatalf("minted id = %q, handler saw %q", got, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Errorf("incoming id not echoed, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	for _, debug := range []bool{false, true} {
		r := newEngine(middleware.Recovery(zerolog.Nop(), debug))
		r.GET("/panic", func(c *gin.Context) { panic(errors.New("db password leaked")) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("debug=%v: status = %d", debug, w.Code)
		}
		body := w.Body.String()
		if strings.Contains(body, "password leaked") {
			t.Errorf("debug=%v: body leaks secret: %s", debug, body)
		}
		if !debug && !strings.Contains(body, "An unexpected error occurred. Please try again.") {
			t.Errorf("body = %s", body)
		}
		if debug && !strings.Contains(body, "*errors.errorString") {
			t.Errorf("debug body should carry the error type, got %s", body)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(middleware.SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	for k, v := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := w.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(middleware.BodyLimit(16))
	r.POST("/x", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": middleware.ErrBodyTooLarge})
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		body   string
		chunk  bool
		status int
	}{
		{"small", `{"a":1}`, false, http.StatusOK},
		{"declared too large", strings.Repeat("x", 32), false, http.StatusRequestEntityTooLarge},
		{"streamed too large", strings.Repeat("x", 32), true, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			if tt.chunk {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

type stubLimiter struct {
	d   ratelimit.Decision
	err error
}

func (s stubLimiter) Allow(context.Context, string) (ratelimit.Decision, error) { return s.d, s.err }

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    ratelimit.Limiter
		status     int
		remaining  string
		wantHeader bool
	}{
		{"allowed", stubLimiter{d: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9, ResetAfter: 900 * time.Second}}, http.StatusOK, "9", true},
		{"rejected", stubLimiter{d: ratelimit.Decision{Allowed: false, Limit: 10, Remaining: 0, ResetAfter: 1500 * time.Millisecond, Window: 15 * time.Minute}}, http.StatusTooManyRequests, "0", true},
		{"limiter down", stubLimiter{err: errors.New("redis: connection refused")}, http.StatusOK, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(middleware.RateLimit(tt.limiter, zerolog.Nop()))
			r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if got := w.Header().Get("RateLimit-Remaining"); got != tt.remaining {
				t.Errorf("RateLimit-Remaining = %q, want %q", got, tt.remaining)
			}
			if tt.wantHeader && w.Header().Get("RateLimit-Limit") != "10" {
				t.Error("missing RateLimit-Limit")
			}
			if w.Header().Get("X-RateLimit-Limit") != "" {
				t.Error("legacy headers must not be sent")
			}
			if tt.status == http.StatusTooManyRequests {
				if got := w.Header().Get("RateLimit-Reset"); got != "2" {
					t.Errorf("RateLimit-Reset = %q, want 2", got)
				}
				if !strings.Contains(w.Body.String(), "Too many requests from this IP, please try again after 15 minutes.") {
					t.Errorf("body = %s", w.Body.String())
				}
			}
		})
	}
}

func TestRateLimitMessage(t *testing.T) {
	tests := []struct {
		window time.Duration
		want   string
	}{
		{15 * time.Minute, "after 15 minutes."},
		{time.Minute, "after 1 minute."},
		{2 * time.Hour, "after 2 hours."},
		{90 * time.Second, "after 90 seconds."},
		{1500 * time.Millisecond, "after 1.5s."},
		{0, "after 15 minutes."},
	}
	for _, tt := range tests {
		if got := middleware.RateLimitMessage(tt.window); !strings.HasSuffix(got, tt.want) {
			t.Errorf("RateLimitMessage(%s) = %q, want suffix %q", tt.window, got, tt.want)
		}
	}
}

func TestRateLimit_MemoryStoreEndToEnd(t *testing.T) {
	store := ratelimit.NewMemoryStore(ratelimit.Config{Max: 2, Window: time.Minute})
	r := newEngine(middleware.RateLimit(store, zerolog.Nop()))
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		codes[i] = w.Code
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != 429 {
		t.Fatalf("codes = %v", codes)
	}
}

func TestRateLimit_MessageFollowsWindow(t *testing.T) {
	store := ratelimit.NewMemoryStore(ratelimit.Config{Max: 1, Window: time.Hour})
	r := newEngine(middleware.RateLimit(store, zerolog.Nop()))
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	}
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "please try again after 1 hour.") {
		t.Errorf("body = %s", w.Body.String())
	}
	if got := w.Header().Get("RateLimit-Reset"); got != "3600" {
		t.Errorf("RateLimit-Reset = %q, want 3600", got)
	}
}

func TestLogging(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)
	r := newEngine(middleware.RequestID(), middleware.Logging(log))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/x"`, `"status":418`, `"level":"warn"`, `"request_id":"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}
