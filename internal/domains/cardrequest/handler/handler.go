package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/domains/cardrequest/service"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/internal/shared/response"
)

// =====================================================
// CARD REQUEST HANDLER
// =====================================================
type CardRequestHandler struct {
	cardService service.CardRequestService
}

// NewCardRequestHandler creates a new card request handler
func NewCardRequestHandler(cardService service.CardRequestService) *CardRequestHandler {
	return &CardRequestHandler{
		cardService: cardService,
	}
}

// =====================================================
// ROUTES REGISTRATION
// =====================================================

// RegisterRoutes registers owner-facing routes (auth middleware applied by caller)
func (h *CardRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/card-requests")
	{
		routes.POST("", h.Create)                              // POST /v1/card-requests
		routes.GET("", h.ListOwn)                              // GET /v1/card-requests
		routes.GET("/:id", h.GetDetail)                        // GET /v1/card-requests/:id
		routes.PATCH("/:id", h.Update)                         // PATCH /v1/card-requests/:id
		routes.PATCH("/:id/cancel", h.Cancel)                  // PATCH /v1/card-requests/:id/cancel
		routes.PUT("/:id/visibility", h.SetVisibility)         // PUT /v1/card-requests/:id/visibility
		routes.POST("/:id/illustration", h.UploadIllustration) // POST /v1/card-requests/:id/illustration
	}
}

// RegisterAdminRoutes registers admin routes (admin middleware applied by caller)
func (h *CardRequestHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	routes := router.Group("/admin/card-requests")
	{
		routes.GET("", h.List)                        // GET /v1/admin/card-requests?page=1&limit=20&status=submitted
		routes.GET("/export", h.Export)               // GET /v1/admin/card-requests/export
		routes.PATCH("/:id/status", h.UpdateStatus)   // PATCH /v1/admin/card-requests/:id/status
		routes.POST("/bulk-publish", h.BulkPublish)   // POST /v1/admin/card-requests/bulk-publish
	}
}

// =====================================================
// OWNER OPERATIONS
// =====================================================

func (h *CardRequestHandler) Create(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req model.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Card request created successfully", result)
}

func (h *CardRequestHandler) ListOwn(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	result, err := h.cardService.ListOwn(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *CardRequestHandler) GetDetail(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	result, err := h.cardService.GetDetail(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *CardRequestHandler) Update(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	var req model.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Card request updated successfully", result)
}

func (h *CardRequestHandler) Cancel(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	var req model.CancelCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.Cancel(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Card request cancelled", result)
}

func (h *CardRequestHandler) SetVisibility(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	var req model.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.SetVisibility(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Visibility updated", result)
}

const maxIllustrationUpload = 5 << 20 // matches storage.ImageProcessor

func (h *CardRequestHandler) UploadIllustration(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	fileHeader, err := c.FormFile("illustration")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Missing illustration file", nil)
		return
	}
	if fileHeader.Size > maxIllustrationUpload {
		response.Error(c, http.StatusRequestEntityTooLarge, "Illustration exceeds 5MB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Cannot read illustration file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Cannot read illustration file", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.cardService.UploadIllustration(c.Request.Context(), actor, id, data, contentType)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Illustration uploaded", result)
}

// =====================================================
// ADMIN OPERATIONS
// =====================================================

func (h *CardRequestHandler) List(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req model.ListCardRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.List(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

func (h *CardRequestHandler) UpdateStatus(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid card request ID", nil)
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", map[string]string{
			"error": err.Error(),
		})
		return
	}

	result, err := h.cardService.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Status updated", result)
}

func (h *CardRequestHandler) BulkPublish(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	result, err := h.cardService.BulkPublish(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bulk publish completed", result)
}

func (h *CardRequestHandler) Export(c *gin.Context) {
	actor, err := authz.FromGin(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req model.ListCardRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return
	}

	f, err := h.cardService.ExportToExcel(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	fileName := service.ExportFileName(time.Now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	if err := f.Write(c.Writer); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to write export file", nil)
	}
}

// =====================================================
// ERROR HANDLING
// =====================================================

func (h *CardRequestHandler) handleServiceError(c *gin.Context, err error) {
	var cardErr *model.CardError
	if errors.As(err, &cardErr) {
		statusCode := getHTTPStatusFromErrorCode(cardErr.Code)
		response.Error(c, statusCode, cardErr.Message, map[string]string{
			"code": cardErr.Code,
		})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Card request not found", map[string]string{
			"code": model.ErrCodeNotFound,
		})
		return
	}

	if errors.Is(err, model.ErrVersionMismatch) {
		response.Error(c, http.StatusConflict, "Concurrent modification detected. Please refresh and try again.", map[string]string{
			"code": model.ErrCodeVersionMismatch,
		})
		return
	}

	if errors.Is(err, model.ErrForbidden) {
		response.Error(c, http.StatusForbidden, "Forbidden", map[string]string{
			"code": model.ErrCodeForbidden,
		})
		return
	}

	response.Error(c, http.StatusInternalServerError, "Internal server error", map[string]string{
		"error": err.Error(),
	})
}

func getHTTPStatusFromErrorCode(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidTransition, model.ErrCodeInvalidState, model.ErrCodeNotEditable:
		return http.StatusUnprocessableEntity
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeVersionMismatch:
		return http.StatusConflict
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidImage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}
