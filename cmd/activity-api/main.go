// README: Entry point; loads config, wires providers and the rate limiter, starts the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/ai"
	"github.com/shrimpy8/family-activity-finder/internal/config"
	httptransport "github.com/shrimpy8/family-activity-finder/internal/http"
	"github.com/shrimpy8/family-activity-finder/internal/infra"
	"github.com/shrimpy8/family-activity-finder/internal/metrics"
	"github.com/shrimpy8/family-activity-finder/internal/modules/ratelimit"
	"github.com/shrimpy8/family-activity-finder/internal/service"
)

// build is stamped with -ldflags "-X main.build=...".
var build = "dev"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := infra.NewLogger(os.Stdout, cfg.Log.Level, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limits := ratelimit.Config{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window}
	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init")
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisStore(redisClient, limits)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiting backed by redis")
	} else {
		limiter = ratelimit.NewMemoryStore(limits)
		log.Info().Msg("rate limiting in process memory")
	}

	registry := ai.NewRegistry(cfg.Providers, log)
	available := registry.ListAvailable()
	if len(available) == 0 {
		log.Warn().Msg("no provider API keys configured; recommendation requests will fail")
	} else {
		log.Info().Interface("providers", available).Msg("providers configured")
	}

	providerMetrics, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics init")
	}

	recommender := service.NewRecommender(registry, providerMetrics, cfg.Recommend.ProviderTimeout, cfg.Debug, log)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Recommender:     recommender,
		Limiter:         limiter,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		BodyLimit:       cfg.HTTP.BodyLimit,
		DefaultProvider: cfg.Recommend.DefaultProvider,
		Debug:           cfg.Debug,
		Build:           build,
		Log:             log,
	})

	if err := httptransport.NewServer(cfg.HTTP.Addr, router, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
}
