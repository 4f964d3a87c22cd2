// README: Liveness and build version endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type versionResp struct {
	BuildVersion string `json:"build,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
}

// Health handles GET /health.
func Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, healthResp{Status: "ok", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// Version returns a handler for GET /version reporting build.
func Version(build string) gin.HandlerFunc {
	if build == "" {
		build = "unknown"
	}
	return func(c *gin.Context) {
		writeJSON(c, http.StatusOK, versionResp{BuildVersion: build, GoVersion: runtime.Version()})
	}
}
