package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/domains/cardrequest/repository"
	"cardfolio-backend/internal/infrastructure/storage"
	"cardfolio-backend/internal/shared"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/internal/shared/utils"
	"cardfolio-backend/pkg/logger"
)

// =====================================================
// CARD REQUEST SERVICE
// =====================================================
type cardRequestService struct {
	cardRepo  repository.CardRequestRepository
	storage   ObjectStorage
	processor *storage.ImageProcessor
	enqueuer  TaskEnqueuer
	baseURL   string
}

func NewCardRequestService(
	cardRepo repository.CardRequestRepository,
	objectStorage ObjectStorage,
	processor *storage.ImageProcessor,
	enqueuer TaskEnqueuer,
	baseURL string,
) CardRequestService {
	return &cardRequestService{
		cardRepo:  cardRepo,
		storage:   objectStorage,
		processor: processor,
		enqueuer:  enqueuer,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *cardRequestService) Create(ctx context.Context, actor authz.AuthContext, req model.CreateCardRequest) (*model.CardRequestDetailResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Invalid card request", err)
	}

	// 2. Build entity. New requests always start in submitted.
	id := uuid.New()
	card := &model.CardRequest{
		ID:           id,
		OwnerEmail:   actor.ActorEmail,
		DisplayName:  req.DisplayName,
		JobTitle:     req.JobTitle,
		Company:      req.Company,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Website:      req.Website,
		Links:        req.Links,
		Theme:        req.Theme,
		Note:         req.Note,
		IsPublic:     false,
		ShareSlug:    utils.GenerateShareSlug(req.DisplayName, id),
		Status:       model.StatusSubmitted,
		Version:      1,
	}

	// 3. Insert card + initial history row in one transaction
	tx, err := s.cardRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cardRepo.RollbackTx(ctx, tx)

	if err := s.cardRepo.CreateWithTx(ctx, tx, card); err != nil {
		return nil, err
	}

	history := &model.StatusHistory{
		ID:            uuid.New(),
		CardRequestID: card.ID,
		FromStatus:    nil,
		ToStatus:      model.StatusSubmitted,
		ChangedBy:     &actor.ActorEmail,
	}
	if err := s.cardRepo.CreateHistoryWithTx(ctx, tx, history); err != nil {
		return nil, err
	}

	if err := s.cardRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.buildDetailResponse(card, []model.StatusHistory{*history}), nil
}

// =====================================================
// READ
// =====================================================

func (s *cardRequestService) GetDetail(ctx context.Context, actor authz.AuthContext, id uuid.UUID) (*model.CardRequestDetailResponse, error) {
	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	history, err := s.cardRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildDetailResponse(card, history), nil
}

func (s *cardRequestService) ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.CardRequest, error) {
	return s.cardRepo.ListByOwner(ctx, actor.ActorEmail)
}

// =====================================================
// UPDATE CONTENT (IMPLICIT RESUBMIT)
// =====================================================

func (s *cardRequestService) Update(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.UpdateCardRequest) (*model.CardRequestDetailResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Invalid update request", err)
	}

	// 2. Fetch and verify access
	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// 3. Business rule: content is only editable in submitted / revision_requested
	if !card.CanBeEdited() {
		return nil, model.NewCardError(
			model.ErrCodeNotEditable,
			fmt.Sprintf("Card request with status '%s' cannot be edited", card.Status),
			model.ErrNotEditable,
		)
	}

	// 4. Apply partial update onto the entity
	applyContentUpdate(card, req)

	// 5. Editing a revision_requested card resubmits it. The status change
	// rides the same UPDATE as the content, so there is no window where
	// the new content exists under the old status.
	var newStatus *model.Status
	if card.Status == model.StatusRevisionRequested {
		resubmitted := model.StatusSubmitted
		newStatus = &resubmitted
	}

	tx, err := s.cardRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cardRepo.RollbackTx(ctx, tx)

	fromStatus := card.Status
	updated, err := s.cardRepo.UpdateContentWithTx(ctx, tx, card, req.Version, newStatus)
	if err != nil {
		return nil, err
	}

	if newStatus != nil {
		history := &model.StatusHistory{
			ID:            uuid.New(),
			CardRequestID: card.ID,
			FromStatus:    &fromStatus,
			ToStatus:      *newStatus,
			ChangedBy:     &actor.ActorEmail,
		}
		if err := s.cardRepo.CreateHistoryWithTx(ctx, tx, history); err != nil {
			return nil, err
		}
	}

	if err := s.cardRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	history, err := s.cardRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildDetailResponse(updated, history), nil
}

// =====================================================
// CANCEL (OWNER)
// =====================================================

func (s *cardRequestService) Cancel(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.CancelCardRequest) (*model.TransitionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Invalid cancel request", err)
	}

	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !card.CanBeCancelled() {
		return nil, model.NewCardError(
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("Card request with status '%s' cannot be cancelled", card.Status),
			model.ErrInvalidTransition,
		)
	}

	return s.transition(ctx, actor, card, model.StatusCancelled, nil, req.Version)
}

// =====================================================
// STATUS UPDATE
// =====================================================

func (s *cardRequestService) UpdateStatus(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.UpdateStatusRequest) (*model.TransitionResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Invalid status update request", err)
	}

	// The DTO already constrains the value, but ParseStatus is the one
	// place that owns the closed set.
	newStatus, err := model.ParseStatus(req.Status)
	if err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Unknown status", err)
	}

	// 2. Fetch and verify access
	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// 3. Validate the transition against the table
	if !model.CanTransition(card.Status, newStatus) {
		return nil, model.NewCardError(
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot transition from '%s' to '%s'", card.Status, newStatus),
			model.ErrInvalidTransition,
		)
	}

	// 4. Non-admin actors only get the owner-facing edges
	if !actor.IsAdmin && !model.IsOwnerTransition(card.Status, newStatus) {
		return nil, model.NewCardError(
			model.ErrCodeForbidden,
			fmt.Sprintf("Transition from '%s' to '%s' requires admin", card.Status, newStatus),
			model.ErrForbidden,
		)
	}

	resp, err := s.transition(ctx, actor, card, newStatus, req.Note, req.Version)
	if err != nil {
		return nil, err
	}

	// 5. Notify the owner after commit. A lost notification is not worth
	// failing the transition for.
	s.enqueueStatusEmail(card, newStatus, req.Note)

	return resp, nil
}

// transition applies a validated status change atomically: the status CAS,
// the auto-unpublish when the new status is not publishable, and the
// history row all commit together.
func (s *cardRequestService) transition(
	ctx context.Context,
	actor authz.AuthContext,
	card *model.CardRequest,
	newStatus model.Status,
	note *string,
	version int,
) (*model.TransitionResponse, error) {
	tx, err := s.cardRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cardRepo.RollbackTx(ctx, tx)

	clearPublic := !model.IsPublishable(newStatus)
	updated, err := s.cardRepo.UpdateStatusWithTx(ctx, tx, card.ID, newStatus, version, clearPublic)
	if err != nil {
		return nil, err
	}

	fromStatus := card.Status
	history := &model.StatusHistory{
		ID:            uuid.New(),
		CardRequestID: card.ID,
		FromStatus:    &fromStatus,
		ToStatus:      newStatus,
		ChangedBy:     &actor.ActorEmail,
		Note:          note,
	}
	if err := s.cardRepo.CreateHistoryWithTx(ctx, tx, history); err != nil {
		return nil, err
	}

	if err := s.cardRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &model.TransitionResponse{
		ID:        updated.ID,
		Status:    updated.Status,
		UpdatedAt: updated.UpdatedAt,
		Version:   updated.Version,
	}, nil
}

// =====================================================
// VISIBILITY
// =====================================================

func (s *cardRequestService) SetVisibility(ctx context.Context, actor authz.AuthContext, id uuid.UUID, req model.SetVisibilityRequest) (*model.VisibilityResponse, error) {
	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// Owners may only publish from a publishable status; admins may set
	// visibility regardless of status. For owners the same predicate is
	// re-checked inside the UPDATE so a concurrent transition cannot
	// slip a non-publishable card into the public set.
	requirePublishable := req.IsPublic && !actor.IsAdmin
	if requirePublishable && !model.IsPublishable(card.Status) {
		return nil, model.NewCardError(
			model.ErrCodeInvalidState,
			fmt.Sprintf("Card request with status '%s' cannot be published", card.Status),
			model.ErrInvalidState,
		)
	}

	rows, err := s.cardRepo.SetVisibility(ctx, id, req.IsPublic, requirePublishable)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The status changed between the read and the update.
		return nil, model.NewCardError(
			model.ErrCodeInvalidState,
			"Card request status changed, publication refused",
			model.ErrInvalidState,
		)
	}

	resp := &model.VisibilityResponse{IsPublic: req.IsPublic}
	if req.IsPublic {
		shareURL := s.shareURL(card.ShareSlug)
		resp.ShareURL = &shareURL
	}

	return resp, nil
}

func (s *cardRequestService) BulkPublish(ctx context.Context, actor authz.AuthContext) (*model.BulkPublishResponse, error) {
	if !actor.IsAdmin {
		return nil, model.NewCardError(model.ErrCodeForbidden, "Bulk publish requires admin", model.ErrForbidden)
	}

	count, err := s.cardRepo.BulkPublish(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Bulk publish sweep completed", map[string]interface{}{
		"updated_count": count,
		"changed_by":    actor.ActorEmail,
	})

	return &model.BulkPublishResponse{UpdatedCount: int(count)}, nil
}

// =====================================================
// ILLUSTRATION UPLOAD
// =====================================================

func (s *cardRequestService) UploadIllustration(ctx context.Context, actor authz.AuthContext, id uuid.UUID, data []byte, contentType string) (*model.CardRequestDetailResponse, error) {
	card, err := s.fetchForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// Owners may only swap artwork while the request is still editable.
	// Admins attach the final illustration during processing.
	if !actor.IsAdmin && !card.CanBeEdited() {
		return nil, model.NewCardError(
			model.ErrCodeNotEditable,
			fmt.Sprintf("Card request with status '%s' cannot accept a new illustration", card.Status),
			model.ErrNotEditable,
		)
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidImage, "Invalid illustration image", err)
	}

	key := fmt.Sprintf("cards/%s/illustration%s", card.ID, extensionFor(contentType))
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload illustration: %w", err)
	}

	if err := s.cardRepo.SetIllustration(ctx, card.ID, url); err != nil {
		return nil, err
	}
	card.IllustrationURL = &url

	// Thumbnail generation happens in the worker.
	payload := shared.ProcessIllustrationPayload{
		CardRequestID: card.ID.String(),
		ObjectKey:     key,
	}
	if b, err := json.Marshal(payload); err == nil {
		task := asynq.NewTask(shared.TypeProcessIllustration, b)
		if _, err := s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueHigh), asynq.MaxRetry(3)); err != nil {
			logger.Error("Failed to enqueue illustration processing task", err)
		}
	}

	history, err := s.cardRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildDetailResponse(card, history), nil
}

// =====================================================
// ADMIN LISTING
// =====================================================

func (s *cardRequestService) List(ctx context.Context, actor authz.AuthContext, req model.ListCardRequestsRequest) (*model.ListCardRequestsResponse, error) {
	if !actor.IsAdmin {
		return nil, model.NewCardError(model.ErrCodeForbidden, "Listing all card requests requires admin", model.ErrForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Invalid list request", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	var statusFilter *model.Status
	if req.Status != "" {
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			return nil, model.NewCardError(model.ErrCodeInvalidRequest, "Unknown status filter", err)
		}
		statusFilter = &status
	}

	cards, total, err := s.cardRepo.List(ctx, statusFilter, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &model.ListCardRequestsResponse{
		CardRequests: cards,
		Pagination: model.PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

// fetchForActor loads a card for a mutating or detail request. Non-admin
// actors go through the owner-scoped query, so a foreign card is
// indistinguishable from a missing one.
func (s *cardRequestService) fetchForActor(ctx context.Context, actor authz.AuthContext, id uuid.UUID) (*model.CardRequest, error) {
	if actor.IsAdmin {
		return s.cardRepo.GetByID(ctx, id)
	}
	return s.cardRepo.GetByIDAndOwner(ctx, id, actor.ActorEmail)
}

func (s *cardRequestService) shareURL(slug string) string {
	return fmt.Sprintf("%s/cards/%s", s.baseURL, slug)
}

func (s *cardRequestService) buildDetailResponse(card *model.CardRequest, history []model.StatusHistory) *model.CardRequestDetailResponse {
	entries := make([]model.StatusHistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, model.StatusHistoryEntry{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
			ChangedAt:  h.ChangedAt,
		})
	}

	resp := &model.CardRequestDetailResponse{
		CardRequest: *card,
		History:     entries,
	}
	if card.IsPublic {
		shareURL := s.shareURL(card.ShareSlug)
		resp.ShareURL = &shareURL
	}

	return resp
}

func (s *cardRequestService) enqueueStatusEmail(card *model.CardRequest, newStatus model.Status, note *string) {
	payload := shared.StatusEmailPayload{
		CardRequestID: card.ID.String(),
		OwnerEmail:    card.OwnerEmail,
		NewStatus:     string(newStatus),
	}
	if note != nil {
		payload.Note = *note
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	task := asynq.NewTask(shared.TypeStatusEmail, b)
	if _, err := s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueDefault)); err != nil {
		logger.Error("Failed to enqueue status email task", err)
	}
}

func applyContentUpdate(card *model.CardRequest, req model.UpdateCardRequest) {
	if req.DisplayName != nil {
		card.DisplayName = *req.DisplayName
	}
	if req.JobTitle != nil {
		card.JobTitle = req.JobTitle
	}
	if req.Company != nil {
		card.Company = req.Company
	}
	if req.ContactEmail != nil {
		card.ContactEmail = req.ContactEmail
	}
	if req.Phone != nil {
		card.Phone = req.Phone
	}
	if req.Website != nil {
		card.Website = req.Website
	}
	if req.Links != nil {
		card.Links = req.Links
	}
	if req.Theme != nil {
		card.Theme = *req.Theme
	}
	if req.Note != nil {
		card.Note = req.Note
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
