// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shrimpy8/family-activity-finder/internal/ai"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/sanitize"
	"github.com/shrimpy8/family-activity-finder/internal/timeout"
)

const (
	msgInvalidBody = "Invalid request body"
	msgUnparsable  = "Unable to process recommendations. Please try again with different search criteria."
	msgUpstream    = "Unable to fetch activity recommendations. Please try again later."
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRecommendError(c *gin.Context, err error, debug bool) {
	var verr *activity.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ai.ErrUnknownProvider):
		writeError(c, http.StatusBadRequest, sanitize.ErrorMessage(err, debug))
	case errors.Is(err, ai.ErrConfigurationMissing), errors.Is(err, ai.ErrNoProviders):
		writeError(c, http.StatusServiceUnavailable, sanitize.ErrorMessage(err, debug))
	case errors.Is(err, timeout.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, sanitize.ErrorMessage(err, false))
	case errors.Is(err, ai.ErrUnparsableResponse):
		writeError(c, http.StatusBadGateway, msgUnparsable)
	case errors.Is(err, ai.ErrEmptyResponse), errors.Is(err, ai.ErrUpstream):
		writeError(c, http.StatusBadGateway, msgUpstream)
	default:
		writeError(c, http.StatusInternalServerError, sanitize.DefaultErrorMessage)
	}
}
