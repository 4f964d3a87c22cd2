package ai

import (
	"context"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// Provider turns one search into up to five recommendations using a single
// upstream LLM API. Implementations are safe for concurrent use.
type Provider interface {
	GenerateRecommendations(ctx context.Context, criteria activity.SearchCriteria) ([]activity.Recommendation, error)

	// SupportsWebSearch reports whether the upstream grounds its answer in live web results.
	SupportsWebSearch() bool

	// ModelName is the human-readable model label shown to users.
	ModelName() string

	ProviderID() types.ProviderID
}
