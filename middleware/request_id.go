package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextRequestIDKey is the gin context key carrying the request id.
const ContextRequestIDKey = "request_id"

// RequestID assigns each request a uuid, honoring an incoming X-Request-Id
// header so upstream proxies can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(ContextRequestIDKey, rid)
		ctx.Writer.Header().Set("X-Request-Id", rid)
		ctx.Next()
	}
}
