package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/shrimpy8/family-activity-finder/internal/config"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/prompt"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// contentGenerator returns the concatenated text of one generation.
type contentGenerator func(ctx context.Context, prompt string) (string, error)

// GeminiProvider implements Provider using Google's Gemini models.
// It has no web search; answers come from the model's own knowledge.
type GeminiProvider struct {
	client    *genai.Client
	generate  contentGenerator
	model     string
	modelName string
	log       zerolog.Logger
	logRaw    bool
}

// NewGeminiProvider initializes a new Gemini client.
func NewGeminiProvider(ctx context.Context, cfg config.Provider, log zerolog.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey("GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	p := newGeminiProvider(cfg, log, nil)
	p.client = client
	model := client.GenerativeModel(p.model)
	p.generate = func(ctx context.Context, text string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(text))
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", nil
		}
		var out strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				out.WriteString(string(txt))
			}
		}
		return out.String(), nil
	}
	return p, nil
}

func newGeminiProvider(cfg config.Provider, log zerolog.Logger, gen contentGenerator) *GeminiProvider {
	return &GeminiProvider{
		generate:  gen,
		model:     orDefault(cfg.APIModel, config.DefaultGeminiModel),
		modelName: orDefault(cfg.ModelName, config.DefaultGeminiModelName),
		log:       log.With().Str("provider", string(types.ProviderGemini)).Logger(),
		logRaw:    cfg.LogRaw,
	}
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GeminiProvider) GenerateRecommendations(ctx context.Context, criteria activity.SearchCriteria) ([]activity.Recommendation, error) {
	text, err := prompt.Build(criteria, prompt.StylePlain)
	if err != nil {
		return nil, err
	}

	p.log.Info().Str("model", p.model).Msg("calling Gemini API")
	out, err := p.generate(ctx, text)
	if err != nil {
		p.log.Error().Err(err).Msg("Gemini API call failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &UpstreamError{Provider: "Gemini", Message: err.Error(), Err: err}
	}
	p.log.Info().Msg("Gemini API response received")

	return recommendationsFromText(p.log, "Gemini", out, p.logRaw)
}

func (p *GeminiProvider) SupportsWebSearch() bool { return false }

func (p *GeminiProvider) ModelName() string { return p.modelName }

func (p *GeminiProvider) ProviderID() types.ProviderID { return types.ProviderGemini }
