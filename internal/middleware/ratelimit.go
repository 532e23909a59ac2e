package middleware

import (
	"net/http"
	"strings"

	"linkadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// ConfigureTrustedProxies makes gin read the client address from
// CF-Connecting-IP, X-Forwarded-For or X-Real-IP, but only when the direct
// peer is one of proxies. With no proxies every forwarding header is ignored.
func ConfigureTrustedProxies(r *gin.Engine, proxies []string) error {
	var trusted []string
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			trusted = append(trusted, p)
		}
	}
	r.RemoteIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}
	return r.SetTrustedProxies(trusted)
}

// ClientIP is the address used for rate limiting and audit entries.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}

func RateLimit(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := limiter.GetLimiter(ClientIP(c))
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
