package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shrimpy8/family-activity-finder/internal/ai"
	"github.com/shrimpy8/family-activity-finder/internal/metrics"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/sanitize"
	"github.com/shrimpy8/family-activity-finder/internal/timeout"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// ModelNameUnavailable labels a fan-out slot whose adapter could not be built.
const ModelNameUnavailable = "Model name unavailable"

// ProviderFactory builds adapters and lists which ones are usable.
type ProviderFactory interface {
	Create(ctx context.Context, id types.ProviderID) (ai.Provider, error)
	ListAvailable() []types.ProviderID
}

// Observer records the outcome of each provider call.
type Observer interface {
	Observe(id types.ProviderID, outcome metrics.Outcome, elapsed time.Duration)
}

// Result is a successful single-provider answer.
type Result struct {
	Provider        types.ProviderID          `json:"provider"`
	ModelName       string                    `json:"modelName"`
	Recommendations []activity.Recommendation `json:"recommendations"`
}

// ProviderInfo describes one available provider.
type ProviderInfo struct {
	Provider          types.ProviderID `json:"provider"`
	ModelName         string           `json:"modelName"`
	SupportsWebSearch bool             `json:"supportsWebSearch"`
}

// Recommender runs searches against one provider or all of them.
type Recommender struct {
	factory  ProviderFactory
	observer Observer
	timeout  time.Duration
	debug    bool
	log      zerolog.Logger
}

// NewRecommender wires the factory and metrics. debug adds error type names to
// sanitized fan-out errors.
func NewRecommender(factory ProviderFactory, observer Observer, perProvider time.Duration, debug bool, log zerolog.Logger) *Recommender {
	if perProvider <= 0 {
		perProvider = timeout.DefaultDuration
	}
	return &Recommender{
		factory:  factory,
		observer: observer,
		timeout:  perProvider,
		debug:    debug,
		log:      log,
	}
}

// Recommend runs criteria against a single provider.
func (r *Recommender) Recommend(ctx context.Context, id types.ProviderID, criteria activity.SearchCriteria) (Result, error) {
	if !id.Known() {
		return Result{}, fmt.Errorf("%w: %s", ai.ErrUnknownProvider, id)
	}
	p, err := r.factory.Create(ctx, id)
	if err != nil {
		r.observe(id, err, 0)
		return Result{}, err
	}

	recs, err := r.generate(ctx, p, criteria)
	if err != nil {
		return Result{}, err
	}
	return Result{Provider: id, ModelName: p.ModelName(), Recommendations: recs}, nil
}

// RecommendAll queries every available provider concurrently and returns one
// slot per provider in availability order. Slot failures never fail the call;
// only an empty provider set does.
func (r *Recommender) RecommendAll(ctx context.Context, criteria activity.SearchCriteria) ([]activity.ProviderResult, error) {
	ids := r.factory.ListAvailable()
	if len(ids) == 0 {
		return nil, ai.ErrNoProviders
	}

	results := make([]activity.ProviderResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = r.runSlot(ctx, id, criteria)
			return nil
		})
	}
	_ = g.Wait()

	ok := 0
	for _, res := range results {
		if res.Succeeded() {
			ok++
		}
	}
	r.log.Info().Int("providers", len(ids)).Int("succeeded", ok).Msg("fan-out finished")
	return results, nil
}

// Providers describes every available provider. A provider that fails to build
// is still listed, with the unavailable label.
func (r *Recommender) Providers(ctx context.Context) []ProviderInfo {
	ids := r.factory.ListAvailable()
	out := make([]ProviderInfo, 0, len(ids))
	for _, id := range ids {
		info := ProviderInfo{Provider: id, ModelName: ModelNameUnavailable}
		if p, err := r.factory.Create(ctx, id); err == nil {
			info.ModelName = p.ModelName()
			info.SupportsWebSearch = p.SupportsWebSearch()
			closeProvider(p)
		}
		out = append(out, info)
	}
	return out
}

func (r *Recommender) runSlot(ctx context.Context, id types.ProviderID, criteria activity.SearchCriteria) (res activity.ProviderResult) {
	res = activity.ProviderResult{Provider: id, ModelName: ModelNameUnavailable}
	defer func() {
		if v := recover(); v != nil {
			r.log.Error().Str("provider", string(id)).Interface("panic", v).Msg("provider slot panicked")
			res.Recommendations = nil
			res.Error = sanitize.ErrorMessage(fmt.Sprint(v), r.debug)
		}
	}()

	p, err := r.factory.Create(ctx, id)
	if err != nil {
		r.observe(id, err, 0)
		r.log.Warn().Err(err).Str("provider", string(id)).Msg("provider construction failed")
		res.Error = sanitize.ErrorMessage(err, r.debug)
		return res
	}
	res.ModelName = p.ModelName()

	recs, err := r.generate(ctx, p, criteria)
	if err != nil {
		res.Error = sanitize.ErrorMessage(err, r.debug)
		return res
	}
	res.Recommendations = recs
	return res
}

// generate runs one timed generation and records its outcome. The adapter is
// closed when its call returns, which for an abandoned call is after the race.
func (r *Recommender) generate(ctx context.Context, p ai.Provider, criteria activity.SearchCriteria) ([]activity.Recommendation, error) {
	id := p.ProviderID()
	msg := fmt.Sprintf("%s request timed out after %s", p.ModelName(), r.timeout)

	start := time.Now()
	recs, err := timeout.WithTimeout(ctx, r.timeout, msg, func(ctx context.Context) ([]activity.Recommendation, error) {
		defer closeProvider(p)
		return p.GenerateRecommendations(ctx, criteria)
	})
	elapsed := time.Since(start)
	r.observe(id, err, elapsed)

	if err != nil {
		r.log.Warn().Err(err).Str("provider", string(id)).Dur("elapsed", elapsed).Msg("provider call failed")
		return nil, err
	}
	r.log.Info().Str("provider", string(id)).Int("count", len(recs)).Dur("elapsed", elapsed).Msg("provider call succeeded")
	return recs, nil
}

func (r *Recommender) observe(id types.ProviderID, err error, elapsed time.Duration) {
	if r.observer == nil {
		return
	}
	r.observer.Observe(id, outcomeOf(err), elapsed)
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, timeout.ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, ai.ErrEmptyResponse):
		return metrics.OutcomeEmpty
	case errors.Is(err, ai.ErrUnparsableResponse):
		return metrics.OutcomeUnparsable
	case errors.Is(err, ai.ErrConfigurationMissing):
		return metrics.OutcomeConfig
	case errors.Is(err, ai.ErrUpstream):
		return metrics.OutcomeUpstream
	default:
		return metrics.OutcomeError
	}
}

// closeProvider releases adapters that hold connections.
func closeProvider(p ai.Provider) {
	if c, ok := p.(io.Closer); ok {
		_ = c.Close()
	}
}
