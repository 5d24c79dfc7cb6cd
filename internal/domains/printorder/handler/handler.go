package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardfolio-backend/internal/domains/printorder/model"
	"cardfolio-backend/internal/domains/printorder/service"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/internal/shared/response"
)

type PrintOrderHandler struct {
	printService service.PrintOrderService
}

func NewPrintOrderHandler(printService service.PrintOrderService) *PrintOrderHandler {
	return &PrintOrderHandler{
		printService: printService,
	}
}

// RegisterRoutes registers print order routes (auth middleware applied by caller)
func (h *PrintOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/print-orders")
	{
		routes.POST("", h.Create) // POST /v1/print-orders
		routes.GET("", h.ListOwn) // GET /v1/print-orders
	}
}

func (h *PrintOrderHandler) Create(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req model.CreatePrintOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.printService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Print order created", result)
}

func (h *PrintOrderHandler) ListOwn(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	result, err := h.printService.ListOwn(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *PrintOrderHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCardNotFound):
		response.Error(c, http.StatusNotFound, "Card request not found", map[string]string{
			"code": model.ErrCodeCardNotFound,
		})
	case errors.Is(err, model.ErrNotDeliverable):
		response.Error(c, http.StatusUnprocessableEntity, "Card request has not been delivered", map[string]string{
			"code": model.ErrCodeNotDeliverable,
		})
	default:
		response.Error(c, http.StatusBadRequest, "Invalid print order request", map[string]string{
			"code":  model.ErrCodeInvalidRequest,
			"error": err.Error(),
		})
	}
}
