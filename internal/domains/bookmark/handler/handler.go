package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/bookmark/model"
	"cardfolio-backend/internal/domains/bookmark/service"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/internal/shared/response"
)

type BookmarkHandler struct {
	bookmarkService service.BookmarkService
}

func NewBookmarkHandler(bookmarkService service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
	}
}

// RegisterRoutes registers bookmark routes (auth middleware applied by caller)
func (h *BookmarkHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/bookmarks")
	{
		routes.POST("/:cardId", h.Toggle) // POST /v1/bookmarks/:cardId
		routes.GET("", h.ListOwn)         // GET /v1/bookmarks
	}
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card ID", nil)
		return
	}

	result, err := h.bookmarkService.Toggle(c.Request.Context(), actor, cardID)
	if err != nil {
		if errors.Is(err, model.ErrCardNotFound) {
			response.Error(c, http.StatusNotFound, "Published card not found", map[string]string{
				"code": model.ErrCodeCardNotFound,
			})
			return
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *BookmarkHandler) ListOwn(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	result, err := h.bookmarkService.ListOwn(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}
