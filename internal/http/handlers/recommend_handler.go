// README: Recommendation endpoints (single provider, fan-out, provider listing).
package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/http/middleware"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/service"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// Recommender is the service surface the handler needs.
type Recommender interface {
	Recommend(ctx context.Context, id types.ProviderID, criteria activity.SearchCriteria) (service.Result, error)
	RecommendAll(ctx context.Context, criteria activity.SearchCriteria) ([]activity.ProviderResult, error)
	Providers(ctx context.Context) []service.ProviderInfo
}

type RecommendHandler struct {
	svc             Recommender
	defaultProvider types.ProviderID
	debug           bool
	log             zerolog.Logger
	now             func() time.Time
}

func NewRecommendHandler(svc Recommender, defaultProvider types.ProviderID, debug bool, log zerolog.Logger) *RecommendHandler {
	return &RecommendHandler{
		svc:             svc,
		defaultProvider: defaultProvider,
		debug:           debug,
		log:             log,
		now:             time.Now,
	}
}

// recommendReq mirrors the JSON body. Ages decode as float64 so that
// non-integers can be rejected with a specific message.
type recommendReq struct {
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zipCode"`
	Ages        []float64 `json:"ages"`
	Date        string    `json:"date"`
	TimeSlot    string    `json:"timeSlot"`
	Distance    float64   `json:"distance"`
	Preferences string    `json:"preferences"`
	Provider    string    `json:"provider"`
}

func (r recommendReq) criteria() (activity.SearchCriteria, error) {
	var ages []int
	for _, a := range r.Ages {
		if a != math.Trunc(a) {
			return activity.SearchCriteria{}, &activity.ValidationError{Field: "ages", Message: "All ages must be integers"}
		}
		ages = append(ages, int(a))
	}
	return activity.SearchCriteria{
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		Ages:        ages,
		Date:        r.Date,
		TimeSlot:    activity.TimeSlot(r.TimeSlot),
		Distance:    r.Distance,
		Preferences: r.Preferences,
		Provider:    types.ProviderID(strings.ToLower(strings.TrimSpace(r.Provider))),
	}, nil
}

type fanOutResponse struct {
	Results []activity.ProviderResult `json:"results"`
}

// Recommend handles POST /api/recommend.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, middleware.ErrBodyTooLarge)
			return
		}
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	criteria, err := req.criteria()
	if err != nil {
		writeRecommendError(c, err, h.debug)
		return
	}
	if err := criteria.Validate(h.now()); err != nil {
		writeRecommendError(c, err, h.debug)
		return
	}

	provider := criteria.Provider
	if provider == "" {
		provider = h.defaultProvider
	}
	if !provider.Selectable() {
		writeError(c, http.StatusBadRequest, "Provider must be one of: anthropic, perplexity, gemini, all")
		return
	}

	h.log.Info().
		Str("request_id", middleware.GetRequestID(c)).
		Str("provider", string(provider)).
		Str("location", criteria.Location()).
		Str("date", criteria.Date).
		Msg("recommendation request")

	ctx := c.Request.Context()
	if provider == types.ProviderAll {
		results, err := h.svc.RecommendAll(ctx, criteria)
		if err != nil {
			writeRecommendError(c, err, h.debug)
			return
		}
		writeJSON(c, http.StatusOK, fanOutResponse{Results: results})
		return
	}

	res, err := h.svc.Recommend(ctx, provider, criteria)
	if err != nil {
		h.log.Error().Err(err).Str("provider", string(provider)).Msg("recommendation failed")
		writeRecommendError(c, err, h.debug)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Providers handles GET /api/providers.
func (h *RecommendHandler) Providers(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"providers": h.svc.Providers(c.Request.Context())})
}
