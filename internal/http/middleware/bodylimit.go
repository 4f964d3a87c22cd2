// README: Request body size cap.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ErrBodyTooLarge = "Request body too large"

// BodyLimit rejects declared oversize bodies up front and caps the rest while
// they are read; handlers see *http.MaxBytesError from the bind.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": ErrBodyTooLarge})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
