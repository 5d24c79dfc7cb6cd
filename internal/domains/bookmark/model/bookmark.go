package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	feedModel "cardfolio-backend/internal/domains/feed/model"
)

// Bookmark links a caller to a published card.
type Bookmark struct {
	ID            uuid.UUID `json:"id"`
	CardRequestID uuid.UUID `json:"card_request_id"`
	UserEmail     string    `json:"user_email"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookmarkedCard is a feed summary plus when the caller saved it.
type BookmarkedCard struct {
	feedModel.CardSummary
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

type ToggleResponse struct {
	CardRequestID uuid.UUID `json:"card_request_id"`
	Bookmarked    bool      `json:"bookmarked"`
}

const (
	ErrCodeCardNotFound = "BMK001"
)

// ErrCardNotFound covers both an absent card and an unpublished one.
var ErrCardNotFound = errors.New("published card not found")
