package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/config"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// Registry builds providers from configuration. A provider is available when
// its API key is configured; construction happens per call.
type Registry struct {
	cfg           config.Providers
	log           zerolog.Logger
	anthropicOpts []option.RequestOption
}

type RegistryOption func(*Registry)

// WithAnthropicOptions appends SDK request options to every Anthropic client
// the registry builds, e.g. retry or HTTP client overrides.
func WithAnthropicOptions(opts ...option.RequestOption) RegistryOption {
	return func(r *Registry) {
		r.anthropicOpts = append(r.anthropicOpts, opts...)
	}
}

func NewRegistry(cfg config.Providers, log zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create returns a fresh adapter for id. Providers that hold connections also
// implement io.Closer.
func (r *Registry) Create(ctx context.Context, id types.ProviderID) (Provider, error) {
	pc, ok := r.cfg.For(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	switch id {
	case types.ProviderAnthropic:
		return NewAnthropicProvider(pc, r.log, r.anthropicOpts...)
	case types.ProviderPerplexity:
		return NewPerplexityProvider(pc, r.log)
	default:
		return NewGeminiProvider(ctx, pc, r.log)
	}
}

// IsAvailable reports whether id names a provider whose credentials are set.
func (r *Registry) IsAvailable(id types.ProviderID) bool {
	pc, ok := r.cfg.For(id)
	return ok && pc.Configured()
}

// ListAvailable returns the available providers in declaration order.
func (r *Registry) ListAvailable() []types.ProviderID {
	var out []types.ProviderID
	for _, id := range types.Providers() {
		if r.IsAvailable(id) {
			out = append(out, id)
		}
	}
	return out
}
