package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// SORT MODES
// =====================================================
type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortPopular SortMode = "popular"
)

// ParseSortMode falls back to newest for anything it does not recognize.
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortPopular {
		return SortPopular
	}
	return SortNewest
}

// =====================================================
// PUBLIC CARD PROJECTIONS
// =====================================================

// CardSummary is the public feed projection of a card. Contact details and
// the owner identity stay off the feed.
type CardSummary struct {
	ID           uuid.UUID `json:"id"`
	DisplayName  string    `json:"display_name"`
	JobTitle     *string   `json:"job_title,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Theme        string    `json:"theme"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	ShareSlug    string    `json:"share_slug"`
	LikeCount    int64     `json:"like_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// PublicCard is the full link-in-bio view served at the share slug.
type PublicCard struct {
	ID              uuid.UUID `json:"id"`
	DisplayName     string    `json:"display_name"`
	JobTitle        *string   `json:"job_title,omitempty"`
	Company         *string   `json:"company,omitempty"`
	ContactEmail    *string   `json:"contact_email,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Website         *string   `json:"website,omitempty"`
	Links           []string  `json:"links,omitempty"`
	Theme           string    `json:"theme"`
	IllustrationURL *string   `json:"illustration_url,omitempty"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	ShareSlug       string    `json:"share_slug"`
	LikeCount       int64     `json:"like_count"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// =====================================================
// REQUEST / RESPONSE
// =====================================================

type FeedRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
	Sort   string `form:"sort"`
	Theme  string `form:"theme"`
}

type FeedResponse struct {
	Items      []CardSummary `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodeCardNotFound = "FED001"
)

var ErrCardNotFound = errors.New("public card not found")
