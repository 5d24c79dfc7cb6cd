package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PRINT ORDER
// =====================================================

const (
	StatusCreated   = "created"
	StatusSubmitted = "submitted"
)

type PrintOrder struct {
	ID            uuid.UUID       `json:"id"`
	CardRequestID uuid.UUID       `json:"card_request_id"`
	OwnerEmail    string          `json:"owner_email"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	GatewayRef    *string         `json:"gateway_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// =====================================================
// DTO
// =====================================================

type CreatePrintOrderRequest struct {
	CardRequestID string `json:"card_request_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
}

func (req CreatePrintOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.CardRequestID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodeCardNotFound   = "PRT001"
	ErrCodeNotDeliverable = "PRT002"
	ErrCodeInvalidRequest = "PRT003"
)

var (
	ErrCardNotFound = errors.New("card request not found")
	// ErrNotDeliverable rejects print orders for cards that have not been
	// delivered yet.
	ErrNotDeliverable = errors.New("card request has not been delivered")
)
