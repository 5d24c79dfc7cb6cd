package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardfolio-backend/internal/domains/feed/model"
	"cardfolio-backend/internal/domains/feed/service"
	"cardfolio-backend/internal/shared/response"
)

// =====================================================
// FEED HANDLER (PUBLIC, NO AUTH)
// =====================================================
type FeedHandler struct {
	feedService service.FeedService
}

func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// RegisterRoutes registers the public gallery routes
func (h *FeedHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/feed", h.GetFeed)               // GET /v1/feed?sort=popular&cursor=42_...&limit=12
	router.GET("/themes", h.ListThemes)          // GET /v1/themes
	router.GET("/gallery/:theme", h.GetGallery)  // GET /v1/gallery/:theme
	router.GET("/p/:slug", h.GetPublicCard)      // GET /v1/p/:slug
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	var req model.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.feedService.GetFeed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// GetGallery is the themed slice of the feed.
func (h *FeedHandler) GetGallery(c *gin.Context) {
	var req model.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return
	}
	req.Theme = c.Param("theme")

	result, err := h.feedService.GetFeed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *FeedHandler) ListThemes(c *gin.Context) {
	themes, err := h.feedService.ListThemes(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", themes)
}

func (h *FeedHandler) GetPublicCard(c *gin.Context) {
	card, err := h.feedService.GetPublicCard(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, model.ErrCardNotFound) {
			response.Error(c, http.StatusNotFound, "Card not found", map[string]string{
				"code": model.ErrCodeCardNotFound,
			})
			return
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", card)
}
