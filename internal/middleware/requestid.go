package middleware

import (
	"linkadmin/internal/apiclient"
	"linkadmin/pkg/utils"

	"github.com/gin-gonic/gin"
)

const RequestIDKey = "request_id"

// RequestID tags every request with an id, reusing a well-formed inbound
// X-Request-ID, and exposes it to upstream API calls through the request
// context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(apiclient.HeaderRequestID)
		if !utils.IsRequestID(id) {
			id = utils.NewRequestID()
		}

		c.Set(RequestIDKey, id)
		c.Header(apiclient.HeaderRequestID, id)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
