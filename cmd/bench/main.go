// README: Smoke/benchmark runner against a running API; executes HTTP and Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, pending, skipped := 0, 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusPending:
			pending++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d PENDING=%d SKIP=%d\n", pass, fail, pending, skipped)

	if fail > 0 || (cfg.Strict && pending > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	RedisAddr   string
	Origin      string
	Live        bool
	Strict      bool
	RateMax     int
	Timeout     time.Duration
	Concurrency int
	RPS         float64
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("FAF_BENCH_BASE_URL", "http://localhost:3001"), "API base URL")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("REDIS_ADDR", ""), "Redis address backing the rate limiter (optional)")
	flag.StringVar(&cfg.Origin, "origin", envOrDefault("FAF_BENCH_ORIGIN", "http://localhost:5173"), "Origin header for the CORS check")
	flag.BoolVar(&cfg.Live, "live", envOrDefaultBool("FAF_BENCH_LIVE", false), "Run a real recommendation against the default provider")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("FAF_BENCH_STRICT", false), "Fail on pending tests")
	flag.IntVar(&cfg.RateMax, "rate-max", envOrDefaultInt("RATE_LIMIT_MAX", 10), "Configured requests per window on /api")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("FAF_BENCH_TIMEOUT", 3*time.Minute), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("FAF_BENCH_CONCURRENCY", 20), "Concurrency for perf tests")
	flag.Float64Var(&cfg.RPS, "rps", envOrDefaultFloat("FAF_BENCH_RPS", 0), "Request rate cap for perf tests (0 = unpaced)")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("FAF_BENCH_DURATION", 5*time.Second), "Duration for perf tests")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f >= 0 {
		return f
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
