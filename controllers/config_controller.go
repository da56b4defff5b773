package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/botanika/portal/config"
	"github.com/botanika/portal/utils"
)

// ConfigController exposes display configuration for the portal shell.
type ConfigController struct{}

// NewConfigController creates a ConfigController.
func NewConfigController() *ConfigController {
	return &ConfigController{}
}

// GetFooter returns the portal identity block rendered in the header/footer.
func (c *ConfigController) GetFooter(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"name":    cfg.PortalName,
		"tagline": cfg.PortalTagline,
		"address": cfg.PortalAddress,
		"phone":   cfg.PortalPhone,
		"email":   cfg.PortalEmail,
	})
}

// GetNotice returns the notice bar content; empty fields hide the bar.
func (c *ConfigController) GetNotice(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": cfg.NoticeTitle,
		"html":  cfg.NoticeHTML,
	})
}
