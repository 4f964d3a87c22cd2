// README: Recovery middleware; turns panics into a sanitized JSON 500.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/sanitize"
)

// Recovery logs the panic and answers 500. Only debug mode echoes the
// sanitized panic value to the client.
func Recovery(log zerolog.Logger, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				log.Error().
					Interface("panic", v).
					Str("path", c.Request.URL.Path).
					Str("request_id", GetRequestID(c)).
					Msg("panic recovered")

				msg := sanitize.DefaultErrorMessage
				if debug {
					msg = sanitize.ErrorMessage(v, true)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
			}
		}()
		c.Next()
	}
}
