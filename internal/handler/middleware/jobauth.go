package middleware

import (
	"crypto/subtle"
	"net/http"

	"couponkeeper/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const jobSecretHeader = "X-Job-Secret"

// JobAuth guards the internal job endpoints with a shared secret known to the
// external scheduler.
func JobAuth(cfg config.JobConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(jobSecretHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid job secret",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
