// README: Config loader with env defaults for HTTP, rate limiting, Redis, logging, and LLM providers.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// Provider holds one upstream's credentials and model settings.
type Provider struct {
	APIKey    string
	APIModel  string
	ModelName string
	BaseURL   string
	// LogRaw logs full upstream responses at debug level. Set from DEBUG_LOGGING.
	LogRaw bool
}

// Configured reports whether an API key is present.
func (p Provider) Configured() bool {
	return p.APIKey != ""
}

type Providers struct {
	Anthropic  Provider
	Perplexity Provider
	Gemini     Provider
}

// For returns the settings of id. ok is false for ids that name no provider.
func (p Providers) For(id types.ProviderID) (Provider, bool) {
	switch id {
	case types.ProviderAnthropic:
		return p.Anthropic, true
	case types.ProviderPerplexity:
		return p.Perplexity, true
	case types.ProviderGemini:
		return p.Gemini, true
	}
	return Provider{}, false
}

type Config struct {
	HTTP struct {
		Addr           string
		AllowedOrigins []string
		BodyLimit      int64
	}
	Redis struct {
		Addr string
	}
	RateLimit struct {
		Max    int
		Window time.Duration
	}
	Log struct {
		Level string
	}
	// Debug turns on raw upstream logging and error type names in client errors.
	Debug     bool
	Recommend struct {
		ProviderTimeout time.Duration
		DefaultProvider types.ProviderID
	}
	Providers Providers
}

const (
	DefaultAnthropicModel      = "claude-sonnet-4-5-20250929"
	DefaultAnthropicModelName  = "Claude Sonnet 4.5"
	DefaultPerplexityModel     = "sonar"
	DefaultPerplexityModelName = "Perplexity Sonar"
	DefaultPerplexityBaseURL   = "https://api.perplexity.ai"
	DefaultGeminiModel         = "gemini-2.5-flash"
	DefaultGeminiModelName     = "Gemini 2.0 Flash"
)

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = ":" + envOrDefault("PORT", "3001")
	cfg.HTTP.AllowedOrigins = splitList(envOrDefault("FRONTEND_URL", "http://localhost:5173,http://localhost:5174"))
	cfg.HTTP.BodyLimit = int64(envOrDefaultInt("BODY_LIMIT_BYTES", 10*1024))
	cfg.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RateLimit.Max = envOrDefaultInt("RATE_LIMIT_MAX", 10)
	cfg.RateLimit.Window = envOrDefaultDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	cfg.Log.Level = envOrDefault("LOG_LEVEL", "info")
	cfg.Debug = envOrDefaultBool("DEBUG_LOGGING", false)
	cfg.Recommend.ProviderTimeout = envOrDefaultDuration("PROVIDER_TIMEOUT", 60*time.Second)
	cfg.Recommend.DefaultProvider = types.ProviderID(strings.ToLower(envOrDefault("DEFAULT_PROVIDER", string(types.ProviderAnthropic))))

	cfg.Providers.Anthropic = Provider{
		APIKey:    strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		APIModel:  envOrDefault("ANTHROPIC_API_MODEL", DefaultAnthropicModel),
		ModelName: envOrDefault("ANTHROPIC_MODEL_NAME", DefaultAnthropicModelName),
		BaseURL:   strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")),
	}
	cfg.Providers.Perplexity = Provider{
		APIKey:    strings.TrimSpace(os.Getenv("PERPLEXITY_API_KEY")),
		APIModel:  envOrDefault("PERPLEXITY_API_MODEL", DefaultPerplexityModel),
		ModelName: envOrDefault("PERPLEXITY_MODEL_NAME", DefaultPerplexityModelName),
		BaseURL:   envOrDefault("PERPLEXITY_BASE_URL", DefaultPerplexityBaseURL),
	}
	cfg.Providers.Gemini = Provider{
		APIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		APIModel:  envOrDefault("GEMINI_API_MODEL", DefaultGeminiModel),
		ModelName: envOrDefault("GEMINI_MODEL_NAME", DefaultGeminiModelName),
	}

	cfg.Providers.Anthropic.LogRaw = cfg.Debug
	cfg.Providers.Perplexity.LogRaw = cfg.Debug
	cfg.Providers.Gemini.LogRaw = cfg.Debug

	if cfg.RateLimit.Window <= 0 {
		return cfg, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimit.Window)
	}
	if cfg.Recommend.ProviderTimeout <= 0 {
		return cfg, fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", cfg.Recommend.ProviderTimeout)
	}
	if !cfg.Recommend.DefaultProvider.Selectable() {
		return cfg, fmt.Errorf("DEFAULT_PROVIDER %q is not a known provider", cfg.Recommend.DefaultProvider)
	}
	return cfg, nil
}

// envOrDefault trims the value; blank counts as unset.
func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// envOrDefaultDuration accepts Go durations ("90s") or a bare number of milliseconds.
func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
