package model

import (
	"errors"

	"github.com/google/uuid"
)

// LikeResponse reports the state after a like or unlike. The returned count
// is the value the mutation left behind, not a separate read.
type LikeResponse struct {
	CardRequestID uuid.UUID `json:"card_request_id"`
	Liked         bool      `json:"liked"`
	LikeCount     int64     `json:"like_count"`
}

const (
	ErrCodeCardNotFound = "LIK001"
)

// ErrCardNotFound covers both an absent card and an unpublished one.
var ErrCardNotFound = errors.New("published card not found")
