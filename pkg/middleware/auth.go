package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/gin-gonic/gin"
)

// APIAuth guards session-mutating routes with a bearer token. With auth
// disabled every request passes.
func APIAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) == 1 {
				c.Next()
				return
			}
		}

		c.Header("WWW-Authenticate", `Bearer realm="flight-tracker"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized: a valid bearer token is required",
		})
	}
}
