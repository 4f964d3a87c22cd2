// README: HTTP router registration and middleware chain.
package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/shrimpy8/family-activity-finder/internal/http/handlers"
	"github.com/shrimpy8/family-activity-finder/internal/http/middleware"
	"github.com/shrimpy8/family-activity-finder/internal/modules/ratelimit"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

type RouterDeps struct {
	Recommender     handlers.Recommender
	Limiter         ratelimit.Limiter
	AllowedOrigins  []string
	BodyLimit       int64
	DefaultProvider types.ProviderID
	Debug           bool
	Build           string
	Log             zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Log),
		middleware.Recovery(deps.Log, deps.Debug),
		middleware.SecurityHeaders(),
		cors.New(corsConfig(deps.AllowedOrigins)),
		middleware.BodyLimit(deps.BodyLimit),
	)

	p := ginprometheus.NewPrometheus("gin")
	router.Use(p.HandlerFunc())
	h := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))
	router.GET(p.MetricsPath, func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	})

	router.GET("/health", handlers.Health)
	router.GET("/version", handlers.Version(deps.Build))

	rec := handlers.NewRecommendHandler(deps.Recommender, deps.DefaultProvider, deps.Debug, deps.Log)
	api := router.Group("/api")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter, deps.Log))
	}
	api.GET("/providers", rec.Providers)
	api.POST("/recommend", rec.Recommend)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders(middleware.RequestIDHeader)
	cfg.AddExposeHeaders(middleware.RequestIDHeader, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset")
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	cfg.AllowOrigins = origins
	return cfg
}
