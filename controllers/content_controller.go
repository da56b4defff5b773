package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/botanika/portal/content"
	"github.com/botanika/portal/utils"
)

// ContentController serves the portal's static tabs: district news, the
// events calendar and the infrastructure directory.
type ContentController struct {
	lib *content.Library
}

// NewContentController creates a controller over the loaded content library.
func NewContentController(lib *content.Library) *ContentController {
	return &ContentController{lib: lib}
}

// News returns the district news feed.
func (c *ContentController) News(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": c.lib.News})
}

// Events returns the events calendar.
func (c *ContentController) Events(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": c.lib.Events})
}

// Places returns the infrastructure directory.
func (c *ContentController) Places(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": c.lib.Places})
}
