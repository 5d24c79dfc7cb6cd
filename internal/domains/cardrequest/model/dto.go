package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// =====================================================
// CREATE CARD REQUEST
// =====================================================
type CreateCardRequest struct {
	DisplayName  string   `json:"display_name" binding:"required"`
	JobTitle     *string  `json:"job_title,omitempty"`
	Company      *string  `json:"company,omitempty"`
	ContactEmail *string  `json:"contact_email,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Links        []string `json:"links,omitempty"`
	Theme        string   `json:"theme" binding:"required"`
	Note         *string  `json:"note,omitempty"`
}

func (req CreateCardRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DisplayName, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Theme, validation.Required, validation.Length(1, 60)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.Website, is.URL),
		validation.Field(&req.Links, validation.Length(0, 10)),
		validation.Field(&req.Note, validation.Length(0, 2000)),
	)
}

// =====================================================
// UPDATE CARD CONTENT (OWNER, EDITABLE STATUSES ONLY)
// =====================================================
type UpdateCardRequest struct {
	DisplayName  *string  `json:"display_name,omitempty"`
	JobTitle     *string  `json:"job_title,omitempty"`
	Company      *string  `json:"company,omitempty"`
	ContactEmail *string  `json:"contact_email,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Links        []string `json:"links,omitempty"`
	Theme        *string  `json:"theme,omitempty"`
	Note         *string  `json:"note,omitempty"`
	Version      int      `json:"version"`
}

func (req UpdateCardRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DisplayName, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&req.Theme, validation.NilOrNotEmpty, validation.Length(1, 60)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.Website, is.URL),
		validation.Field(&req.Links, validation.Length(0, 10)),
		validation.Field(&req.Note, validation.Length(0, 2000)),
		validation.Field(&req.Version, validation.Min(0)),
	)
}

// =====================================================
// CANCEL (OWNER)
// =====================================================
type CancelCardRequest struct {
	Version int `json:"version"`
}

func (req CancelCardRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Version, validation.Min(0)),
	)
}

// =====================================================
// STATUS UPDATE (ADMIN)
// =====================================================
type UpdateStatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Note    *string `json:"note,omitempty"`
	Version int     `json:"version"`
}

func (req UpdateStatusRequest) Validate() error {
	statuses := make([]interface{}, len(AllStatuses))
	for i, s := range AllStatuses {
		statuses[i] = string(s)
	}
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required, validation.In(statuses...)),
		validation.Field(&req.Note, validation.Length(0, 2000)),
		validation.Field(&req.Version, validation.Min(0)),
	)
}

// =====================================================
// VISIBILITY
// =====================================================
type SetVisibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

type VisibilityResponse struct {
	IsPublic bool    `json:"is_public"`
	ShareURL *string `json:"share_url,omitempty"`
}

// =====================================================
// RESPONSES
// =====================================================
type TransitionResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

type StatusHistoryEntry struct {
	FromStatus *Status   `json:"from_status,omitempty"`
	ToStatus   Status    `json:"to_status"`
	ChangedBy  *string   `json:"changed_by,omitempty"`
	Note       *string   `json:"note,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

type CardRequestDetailResponse struct {
	CardRequest CardRequest          `json:"card_request"`
	History     []StatusHistoryEntry `json:"history"`
	ShareURL    *string              `json:"share_url,omitempty"`
}

// =====================================================
// ADMIN LISTING (OFFSET-PAGED ADMIN SCREENS)
// =====================================================
type ListCardRequestsRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

func (req ListCardRequestsRequest) Validate() error {
	var statuses []interface{}
	for _, s := range AllStatuses {
		statuses = append(statuses, string(s))
	}
	return validation.ValidateStruct(&req,
		validation.Field(&req.Page, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(0), validation.Max(100)),
		validation.Field(&req.Status, validation.In(statuses...)),
	)
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListCardRequestsResponse struct {
	CardRequests []CardRequest  `json:"card_requests"`
	Pagination   PaginationMeta `json:"pagination"`
}

// =====================================================
// BULK PUBLISH
// =====================================================
type BulkPublishResponse struct {
	UpdatedCount int `json:"updated_count"`
}
