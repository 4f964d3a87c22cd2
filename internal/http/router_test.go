package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/modules/ratelimit"
	"github.com/shrimpy8/family-activity-finder/internal/service"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

type nopRecommender struct{}

func (nopRecommender) Recommend(context.Context, types.ProviderID, activity.SearchCriteria) (service.Result, error) {
	return service.Result{}, nil
}
func (nopRecommender) RecommendAll(context.Context, activity.SearchCriteria) ([]activity.ProviderResult, error) {
	return nil, nil
}
func (nopRecommender) Providers(context.Context) []service.ProviderInfo { return nil }

func newTestRouter(max int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Recommender:     nopRecommender{},
		Limiter:         ratelimit.NewMemoryStore(ratelimit.Config{Max: max, Window: 15 * time.Minute}),
		AllowedOrigins:  []string{"http://localhost:5173"},
		BodyLimit:       64,
		DefaultProvider: types.ProviderAnthropic,
		Build:           "test",
		Log:             zerolog.Nop(),
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_RateLimitOnlyOnAPI(t *testing.T) {
	r := newTestRouter(2)

	for i := 0; i < 5; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
			t.Fatalf("health %d: status %d", i, w.Code)
		}
	}

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(r, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("3rd api call status = %d, want 429", last.Code)
	}
	if last.Header().Get("RateLimit-Limit") != "2" {
		t.Errorf("RateLimit-Limit = %q", last.Header().Get("RateLimit-Limit"))
	}
}

func TestRouter_CommonHeaders(t *testing.T) {
	w := serve(newTestRouter(10), httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter(10)

	req := httptest.NewRequest(http.MethodOptions, "/api/recommend", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials should be allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}

func TestRouter_BodyLimit(t *testing.T) {
	body := `{"city":"` + strings.Repeat("a", 200) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if w := serve(newTestRouter(10), req); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(10)
	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics status = %d", w.Code)
	}
}
