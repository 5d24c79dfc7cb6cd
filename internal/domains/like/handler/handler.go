package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/like/model"
	"cardfolio-backend/internal/domains/like/service"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/internal/shared/response"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

// RegisterRoutes registers like routes (auth middleware applied by caller)
func (h *LikeHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/likes")
	{
		routes.PUT("/:cardId", h.Like)      // PUT /v1/likes/:cardId
		routes.DELETE("/:cardId", h.Unlike) // DELETE /v1/likes/:cardId
	}
}

func (h *LikeHandler) Like(c *gin.Context) {
	h.mutate(c, h.likeService.Like)
}

func (h *LikeHandler) Unlike(c *gin.Context) {
	h.mutate(c, h.likeService.Unlike)
}

func (h *LikeHandler) mutate(
	c *gin.Context,
	op func(ctx context.Context, actor authz.AuthContext, id uuid.UUID) (*model.LikeResponse, error),
) {
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

	result, err := op(c.Request.Context(), actor, cardID)
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
