package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
)

// maxInboundRequestIDLen bounds IDs accepted from the edge proxy so a
// hostile client cannot stuff the access log.
const maxInboundRequestIDLen = 64

// RequestID tags every request with a correlation ID. An inbound
// X-Request-ID from the edge proxy is trusted if it is reasonably sized;
// otherwise a fresh UUID is minted. The ID is echoed on the response so
// support tickets can quote it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" || len(rid) > maxInboundRequestIDLen {
			rid = uuid.NewString()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
