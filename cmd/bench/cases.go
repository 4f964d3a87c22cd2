// README: Smoke cases for the recommendation API; covers validation, provider selection, headers, metrics and rate limiting.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	statusPass    = "PASS"
	statusFail    = "FAIL"
	statusPending = "PENDING"
	statusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

// validSearch returns a request body that passes validation for tomorrow.
func validSearch(provider string) map[string]any {
	body := map[string]any{
		"city":     "San Francisco",
		"state":    "CA",
		"ages":     []int{5, 8},
		"date":     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"timeSlot": "afternoon",
		"distance": 10,
	}
	if provider != "" {
		body["provider"] = provider
	}
	return body
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Redis connect",
			Focus: "shared rate-limit store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured; server uses the in-memory limiter"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		httpCaseMethod("Health: GET /health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCaseMethod("Health: GET /version", http.MethodGet, base+"/version", nil, []int{200}, nil),
		httpCaseMethod("Metrics: GET /metrics", http.MethodGet, base+"/metrics", nil, []int{200}, nil),
		{
			Name:  "Headers: security + request id",
			Focus: "common response headers",
			Run: func(ctx context.Context, r *Runner) Result {
				resp, latency, err := r.do(ctx, http.MethodGet, base+"/health", nil, nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, h := range []string{"X-Request-ID", "X-Content-Type-Options", "X-Frame-Options"} {
					if resp.Header.Get(h) == "" {
						return Result{Status: statusFail, Latency: latency, Note: "missing " + h}
					}
				}
				return Result{Status: statusPass, Latency: latency}
			},
		},
		{
			Name:  "CORS: allowed origin",
			Focus: "configured frontend origin is echoed",
			Run: func(ctx context.Context, r *Runner) Result {
				resp, latency, err := r.do(ctx, http.MethodGet, base+"/health", nil, map[string]string{"Origin": r.cfg.Origin})
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				got := resp.Header.Get("Access-Control-Allow-Origin")
				if got != r.cfg.Origin && got != "*" {
					return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("allow-origin=%q", got)}
				}
				return Result{Status: statusPass, Latency: latency}
			},
		},
		httpCaseMethod("Providers: GET /api/providers", http.MethodGet, base+"/api/providers", nil, []int{200}, nil),
		httpCase("Recommend: missing fields -> 400", base+"/api/recommend", map[string]any{"city": "Austin"}, []int{400}, nil),
		httpCase("Recommend: unknown provider -> 400", base+"/api/recommend", validSearch("openai"), []int{400}, nil),
		httpCase("Recommend: bad state -> 400", base+"/api/recommend", func() map[string]any {
			b := validSearch("")
			b["state"] = "ZZ"
			return b
		}(), []int{400}, nil),
		httpCase("Recommend: oversized body -> 413", base+"/api/recommend", map[string]any{
			"city":        "Austin",
			"preferences": strings.Repeat("x", 64*1024),
		}, []int{413}, nil),
		{
			Name:  "Recommend: live default provider",
			Focus: "end-to-end upstream call",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Live {
					return Result{Status: statusSkip, Note: "live=false"}
				}
				return httpCase("", base+"/api/recommend", validSearch(""), []int{200}, []int{502, 503, 504}).Run(ctx, r)
			},
		},
		{
			Name:  "Perf: GET /health load",
			Focus: "throughput outside the rate-limited group",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/health")
			},
		},
		{
			Name:  "RateLimit: burst on /api -> 429",
			Focus: "per-IP window enforced",
			Run: func(ctx context.Context, r *Runner) Result {
				return burstLimit(ctx, r, base+"/api/providers")
			},
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, headers map[string]string) (*http.Response, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp, time.Since(start), nil
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			resp, latency, err := r.do(ctx, method, url, body, nil)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", resp.StatusCode)
			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: statusPass, Latency: latency, Note: note}
			}
			if contains(pendingStatuses, resp.StatusCode) {
				return Result{Status: statusPending, Latency: latency, Note: note}
			}
			return Result{Status: statusFail, Latency: latency, Note: note}
		},
	}
}

// burstLimit fires one more request than the window allows and expects at
// least one 429 carrying the RateLimit headers.
func burstLimit(ctx context.Context, r *Runner, url string) Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		limited int
		headers bool
	)
	for i := 0; i <= r.cfg.RateMax; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _, err := r.do(ctx, http.MethodGet, url, nil, nil)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch resp.StatusCode {
			case http.StatusOK:
				ok++
			case http.StatusTooManyRequests:
				limited++
				headers = resp.Header.Get("RateLimit-Reset") != ""
			}
		}()
	}
	wg.Wait()

	note := fmt.Sprintf("ok=%d limited=%d", ok, limited)
	if limited == 0 {
		return Result{Status: statusFail, Note: note}
	}
	if !headers {
		return Result{Status: statusFail, Note: note + " (missing RateLimit-Reset)"}
	}
	return Result{Status: statusPass, Note: note}
}

// perfLoad hammers url from Concurrency workers; a positive RPS paces all
// workers through one shared limiter.
func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	pace := rate.NewLimiter(rate.Inf, 0)
	if r.cfg.RPS > 0 {
		pace = rate.NewLimiter(rate.Limit(r.cfg.RPS), 1)
	}
	var (
		count    int64
		errCount int64
		mu       sync.Mutex
		wg       sync.WaitGroup
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				if err := pace.Wait(ctx); err != nil {
					return
				}
				_, _, err := r.do(ctx, http.MethodGet, url, nil, nil)
				mu.Lock()
				if err != nil {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
