package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/config"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/prompt"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

const (
	perplexityTemperature = 0.7
	perplexityMaxTokens   = 2048
)

// perplexityHTTPClient bounds stalled connections; callers still cancel through ctx.
var perplexityHTTPClient = &http.Client{Timeout: 2 * time.Minute}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// PerplexityProvider calls a search-grounded chat completions model over plain HTTP.
type PerplexityProvider struct {
	apiKey    string
	endpoint  string
	model     string
	modelName string
	client    *http.Client
	log       zerolog.Logger
	logRaw    bool
}

func NewPerplexityProvider(cfg config.Provider, log zerolog.Logger) (*PerplexityProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey("PERPLEXITY_API_KEY")
	}
	base := strings.TrimRight(orDefault(cfg.BaseURL, config.DefaultPerplexityBaseURL), "/")
	return &PerplexityProvider{
		apiKey:    cfg.APIKey,
		endpoint:  base + "/chat/completions",
		model:     orDefault(cfg.APIModel, config.DefaultPerplexityModel),
		modelName: orDefault(cfg.ModelName, config.DefaultPerplexityModelName),
		client:    perplexityHTTPClient,
		log:       log.With().Str("provider", string(types.ProviderPerplexity)).Logger(),
		logRaw:    cfg.LogRaw,
	}, nil
}

func (p *PerplexityProvider) GenerateRecommendations(ctx context.Context, criteria activity.SearchCriteria) ([]activity.Recommendation, error) {
	text, err := prompt.Build(criteria, prompt.StylePlain)
	if err != nil {
		return nil, err
	}

	p.log.Info().Str("model", p.model).Msg("calling Perplexity API")
	content, err := p.complete(ctx, text)
	if err != nil {
		p.log.Error().Err(err).Msg("Perplexity API call failed")
		return nil, err
	}
	p.log.Info().Msg("Perplexity API response received")

	return recommendationsFromText(p.log, "Perplexity", content, p.logRaw)
}

// complete sends a single user message and returns the first choice's content.
func (p *PerplexityProvider) complete(ctx context.Context, message string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: message}},
		Temperature: perplexityTemperature,
		MaxTokens:   perplexityMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("perplexity: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("perplexity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UpstreamError{Provider: "Perplexity", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: "Perplexity", Status: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}

	var cr chatResponse
	jsonErr := json.Unmarshal(body, &cr)

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if jsonErr == nil && cr.Error != nil && cr.Error.Message != "" {
			msg = cr.Error.Message
		}
		return "", &UpstreamError{Provider: "Perplexity", Status: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil {
		return "", &UpstreamError{Provider: "Perplexity", Status: resp.StatusCode, Message: "malformed response body", Err: jsonErr}
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}

func (p *PerplexityProvider) SupportsWebSearch() bool { return true }

func (p *PerplexityProvider) ModelName() string { return p.modelName }

func (p *PerplexityProvider) ProviderID() types.ProviderID { return types.ProviderPerplexity }
