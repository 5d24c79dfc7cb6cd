package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cardfolio-backend/internal/domains/cardrequest/model"
)

// CardRequestRepository defines data access for card requests.
type CardRequestRepository interface {
	// ====== TRANSACTION MANAGEMENT ======
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// ====== CARD REQUEST OPERATIONS ======
	CreateWithTx(ctx context.Context, tx pgx.Tx, card *model.CardRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardRequest, error)
	GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerEmail string) (*model.CardRequest, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.CardRequest, error)
	List(ctx context.Context, status *model.Status, page, limit int) ([]model.CardRequest, int64, error)

	// UpdateStatusWithTx sets the new status with an optimistic-locking
	// check on (id, version). When clearPublic is true the row is also
	// unpublished in the same statement. Returns model.ErrVersionMismatch
	// when no row matched.
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.Status, version int, clearPublic bool) (*model.CardRequest, error)

	// UpdateContentWithTx rewrites the editable card fields, optionally
	// moving the row to newStatus in the same statement (implicit resubmit).
	UpdateContentWithTx(ctx context.Context, tx pgx.Tx, card *model.CardRequest, version int, newStatus *model.Status) (*model.CardRequest, error)

	// SetVisibility flips is_public. When requirePublishable is true the
	// update only matches rows whose current status allows publication,
	// so the gate is re-checked atomically.
	SetVisibility(ctx context.Context, id uuid.UUID, isPublic, requirePublishable bool) (int64, error)

	// BulkPublish publishes every eligible unpublished card in one
	// statement and returns the number of rows updated.
	BulkPublish(ctx context.Context) (int64, error)

	SetIllustration(ctx context.Context, id uuid.UUID, illustrationURL string) error
	SetThumbnail(ctx context.Context, id uuid.UUID, thumbnailURL string) error

	// ListAbandonedIllustrations returns cards that still hold artwork but
	// ended in cancelled or rejected before the cutoff. Their stored
	// objects are reclaimed by the weekly cleanup job.
	ListAbandonedIllustrations(ctx context.Context, before time.Time) ([]model.CardRequest, error)
	ClearIllustration(ctx context.Context, id uuid.UUID) error
	IncrementLikeCount(ctx context.Context, id uuid.UUID, delta int) (int64, error)

	// ====== STATUS HISTORY ======
	CreateHistoryWithTx(ctx context.Context, tx pgx.Tx, entry *model.StatusHistory) error
	GetHistory(ctx context.Context, cardRequestID uuid.UUID) ([]model.StatusHistory, error)
}
