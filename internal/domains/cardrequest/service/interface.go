package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/shared/authz"
)

// ObjectStorage is the slice of the storage layer this service needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// IllustrationService runs inside the worker and derives the display
// variants for an uploaded illustration.
type IllustrationService interface {
	ProcessIllustration(ctx context.Context, cardRequestID uuid.UUID, objectKey string) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CardRequestService defines card request business operations.
type CardRequestService interface {
	Create(ctx context.Context, actor authz.AuthContext, req model.CreateCardRequest) (*model.CardRequestDetailResponse, error)
	GetDetail(ctx context.Context, actor authz.AuthContext, id uuid.UUID) (*model.CardRequestDetailResponse, error)
	ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.CardRequest, error)
	Update(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.UpdateCardRequest) (*model.CardRequestDetailResponse, error)
	Cancel(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.CancelCardRequest) (*model.TransitionResponse, error)
	UpdateStatus(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.UpdateStatusRequest) (*model.TransitionResponse, error)
	SetVisibility(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.SetVisibilityRequest) (*model.VisibilityResponse, error)
	BulkPublish(ctx context.Context, actor authz.AuthContext) (*model.BulkPublishResponse, error)
	UploadIllustration(ctx context.Context, actor authz.AuthContext, id uuid.UUID, data []byte, contentType string) (*model.CardRequestDetailResponse, error)
	List(ctx context.Context, actor authz.AuthContext, req model.ListCardRequestsRequest) (*model.ListCardRequestsResponse, error)
	ExportToExcel(ctx context.Context, actor authz.AuthContext, req model.ListCardRequestsRequest) (*excelize.File, error)
}
