package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/config"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/prompt"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

const (
	anthropicMaxTokens     = 2048
	anthropicMaxSearchUses = 5
)

// AnthropicProvider asks Claude to research activities with the server-side
// web search tool before answering.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	modelName string
	log       zerolog.Logger
	logRaw    bool
}

// NewAnthropicProvider fails with ErrConfigurationMissing when no API key is set.
// Extra request options are appended after the configured ones.
func NewAnthropicProvider(cfg config.Provider, log zerolog.Logger, extra ...option.RequestOption) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey("ANTHROPIC_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     orDefault(cfg.APIModel, config.DefaultAnthropicModel),
		modelName: orDefault(cfg.ModelName, config.DefaultAnthropicModelName),
		log:       log.With().Str("provider", string(types.ProviderAnthropic)).Logger(),
		logRaw:    cfg.LogRaw,
	}, nil
}

func (p *AnthropicProvider) GenerateRecommendations(ctx context.Context, criteria activity.SearchCriteria) ([]activity.Recommendation, error) {
	text, err := prompt.Build(criteria, prompt.StyleMarkdown)
	if err != nil {
		return nil, err
	}

	p.log.Info().Str("model", p.model).Msg("calling Claude API with web search")
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				MaxUses: anthropic.Int(anthropicMaxSearchUses),
			}},
		},
	})
	if err != nil {
		p.log.Error().Err(err).Msg("Claude API call failed")
		return nil, anthropicError(err)
	}
	p.log.Info().Int("blocks", len(resp.Content)).Msg("Claude API response received")

	// Only text blocks carry the answer; search calls and results are traces.
	var parts []string
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, b.Text)
		}
	}

	return recommendationsFromText(p.log, "Claude", strings.Join(parts, "\n"), p.logRaw)
}

func (p *AnthropicProvider) SupportsWebSearch() bool { return true }

func (p *AnthropicProvider) ModelName() string { return p.modelName }

func (p *AnthropicProvider) ProviderID() types.ProviderID { return types.ProviderAnthropic }

func anthropicError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	ue := &UpstreamError{Provider: "Claude", Message: err.Error(), Err: err}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		ue.Status = apiErr.StatusCode
	}
	return ue
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
