package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botanika/portal/middleware"
	"github.com/botanika/portal/utils"
)

// StatsController reports portal traffic counters collected by the
// page-view middleware.
type StatsController struct{}

// NewStatsController creates a StatsController.
func NewStatsController() *StatsController {
	return &StatsController{}
}

// GetStats returns total and today's page views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	rc := utils.GetRedis()
	if rc == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "stats backend unavailable")
		return
	}
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	total, err := rc.Get(c, middleware.PVTotalKey).Int64()
	if err != nil {
		total = 0
	}
	today, err := rc.Get(c, middleware.PVDailyPrefix+time.Now().Format("2006-01-02")).Int64()
	if err != nil {
		today = 0
	}

	utils.Success(ctx, gin.H{
		"page_views_total": total,
		"page_views_today": today,
	})
}
