package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botanika/portal/board"
	"github.com/botanika/portal/models"
	"github.com/botanika/portal/store"
	"github.com/botanika/portal/utils"
)

const listCachePrefix = "cache:ann:list:"

// AnnouncementController fronts the remote announcement store for the
// residents' board: filtered listing and moderated submission.
type AnnouncementController struct {
	store board.Store
}

// NewAnnouncementController creates a controller backed by the given store.
func NewAnnouncementController(s board.Store) *AnnouncementController {
	return &AnnouncementController{store: s}
}

// List returns announcements for the requested category and search query.
// Both filters are optional; when present together the store applies them as
// an AND. Responses without a search term are cached.
func (a *AnnouncementController) List(ctx *gin.Context) {
	category := strings.TrimSpace(ctx.Query("category"))
	if category == "" {
		category = models.CategoryAll
	}
	if category != models.CategoryAll && !models.ValidCategory(category) {
		utils.Error(ctx, http.StatusBadRequest, 40010, "unknown category")
		return
	}
	search := strings.TrimSpace(ctx.Query("search"))

	// Cache only searchless listings to avoid cache key explosion
	cacheKey := fmt.Sprintf("%scat=%s", listCachePrefix, category)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	items, err := a.store.List(ctx.Request.Context(), category, search)
	if err != nil {
		utils.Sugar.Errorw("announcement list failed",
			"category", category, "search", search, "error", err)
		utils.Error(ctx, http.StatusBadGateway, 50201, "announcement store unavailable")
		return
	}

	payload := gin.H{"items": items}
	if search == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	}
	utils.Success(ctx, payload)
}

// Create submits a new announcement for moderation. Required fields are
// validated after sanitization and trimming; an invalid submission never
// reaches the store.
func (a *AnnouncementController) Create(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Author   string `json:"author" binding:"required"`
		Text     string `json:"text" binding:"required"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	draft := models.Draft{
		Title:      strings.TrimSpace(utils.Sanitize(req.Title)),
		AuthorName: strings.TrimSpace(utils.Sanitize(req.Author)),
		Text:       strings.TrimSpace(utils.Sanitize(req.Text)),
		Category:   req.Category,
	}
	if draft.Title == "" || draft.AuthorName == "" || draft.Text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "title, author and text are required")
		return
	}
	if draft.Category == "" {
		draft.Category = models.CategoryOther
	}
	if !models.ValidCategory(draft.Category) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "unknown category")
		return
	}

	if err := a.store.Create(ctx.Request.Context(), draft); err != nil {
		var rej *store.RejectedError
		if errors.As(err, &rej) {
			utils.Sugar.Warnw("announcement rejected by store",
				"status", rej.Status, "message", rej.Message)
			utils.Error(ctx, http.StatusUnprocessableEntity, 42201, "announcement rejected by store")
			return
		}
		utils.Sugar.Errorw("announcement submission failed", "error", err)
		utils.Error(ctx, http.StatusBadGateway, 50202, "announcement store unavailable")
		return
	}

	// New items may appear in any listing once approved
	utils.InvalidateByPrefix(listCachePrefix)

	utils.Success(ctx, gin.H{"message": "announcement queued for moderation"})
}
