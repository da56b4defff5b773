package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botanika/portal/utils"
)

const (
	// PVTotalKey accumulates all page views; daily keys expire after 30 days.
	PVTotalKey     = "pv:total"
	PVDailyPrefix  = "pv:day:"
	pvDailyRetain  = 30 * 24 * time.Hour
	pvWriteTimeout = 2 * time.Second
)

// PageViewRecorder counts successful page and API hits in redis. Static
// assets are skipped. Counting is best-effort and never blocks the response.
func PageViewRecorder() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if ctx.Request.Method != "GET" || ctx.Writer.Status() >= 400 {
			return
		}
		if strings.HasPrefix(ctx.Request.URL.Path, "/static/") {
			return
		}

		go func(day string) {
			defer func() { _ = recover() }()
			rc := utils.GetRedis()
			if rc == nil {
				return
			}
			c, cancel := context.WithTimeout(context.Background(), pvWriteTimeout)
			defer cancel()
			pipe := rc.Pipeline()
			pipe.Incr(c, PVTotalKey)
			dailyKey := PVDailyPrefix + day
			pipe.Incr(c, dailyKey)
			pipe.Expire(c, dailyKey, pvDailyRetain)
			_, _ = pipe.Exec(c)
		}(time.Now().Format("2006-01-02"))
	}
}
