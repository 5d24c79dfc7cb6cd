package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ENTITY: CardRequest
// =====================================================
type CardRequest struct {
	ID         uuid.UUID `json:"id"`
	OwnerEmail string    `json:"owner_email"`

	// Card content, editable only while the status is editable.
	DisplayName  string   `json:"display_name"`
	JobTitle     *string  `json:"job_title,omitempty"`
	Company      *string  `json:"company,omitempty"`
	ContactEmail *string  `json:"contact_email,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Links        []string `json:"links,omitempty"`
	Theme        string   `json:"theme"`
	Note         *string  `json:"note,omitempty"`

	// Illustration assets, admin-supplied.
	IllustrationURL *string `json:"illustration_url,omitempty"`
	ThumbnailURL    *string `json:"thumbnail_url,omitempty"`

	// Publication state. Mutated only through the visibility gate.
	IsPublic  bool   `json:"is_public"`
	ShareSlug string `json:"share_slug"`

	// Maintained by the like collaborator; read-only here.
	LikeCount int64 `json:"like_count"`

	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// IllustrationPresent reports whether an admin-supplied illustration asset
// exists for this request.
func (r *CardRequest) IllustrationPresent() bool {
	return r.IllustrationURL != nil && *r.IllustrationURL != ""
}

// CanBeCancelled checks if the request can be withdrawn by its owner.
func (r *CardRequest) CanBeCancelled() bool {
	return IsCancellable(r.Status)
}

// CanBeEdited checks if card content may still be changed by the owner.
func (r *CardRequest) CanBeEdited() bool {
	return IsEditable(r.Status)
}

// BulkPublishEligible is the predicate behind the administrative
// bulk-publication sweep: illustrated, in a publishable status, and not yet
// public. Re-running the sweep matches zero rows once all eligible rows are
// public.
func (r *CardRequest) BulkPublishEligible() bool {
	return r.IllustrationPresent() && IsPublishable(r.Status) && !r.IsPublic
}

// =====================================================
// ENTITY: StatusHistory
// =====================================================

// StatusHistory is one row of the append-only transition log. The creation
// entry has a nil FromStatus; every later entry records an adjacent-valid
// edge of the transition table. Rows are never updated or deleted.
type StatusHistory struct {
	ID            uuid.UUID `json:"id"`
	CardRequestID uuid.UUID `json:"card_request_id"`
	FromStatus    *Status   `json:"from_status,omitempty"`
	ToStatus      Status    `json:"to_status"`
	ChangedBy     *string   `json:"changed_by,omitempty"`
	Note          *string   `json:"note,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}
