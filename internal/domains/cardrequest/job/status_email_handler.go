package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/infrastructure/email"
	"cardfolio-backend/internal/shared"
)

// CardNameReader is the slice of the card request repository the email
// handler needs.
type CardNameReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardRequest, error)
}

// StatusEmailHandler notifies a card owner about a status change.
type StatusEmailHandler struct {
	cardRepo     CardNameReader
	emailService email.EmailService
}

func NewStatusEmailHandler(cardRepo CardNameReader, emailService email.EmailService) *StatusEmailHandler {
	return &StatusEmailHandler{
		cardRepo:     cardRepo,
		emailService: emailService,
	}
}

func (h *StatusEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.StatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal StatusEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	cardName := "your card"
	if id, err := uuid.Parse(payload.CardRequestID); err == nil {
		if card, err := h.cardRepo.GetByID(ctx, id); err == nil {
			cardName = card.DisplayName
		}
	}

	data := email.StatusChangeData{
		Email:     payload.OwnerEmail,
		CardName:  cardName,
		NewStatus: payload.NewStatus,
		Note:      payload.Note,
	}

	if err := h.emailService.SendStatusChangeEmail(ctx, data); err != nil {
		log.Error().
			Err(err).
			Str("email", payload.OwnerEmail).
			Str("new_status", payload.NewStatus).
			Msg("Failed to send status change email")
		return fmt.Errorf("send status change email: %w", err)
	}

	log.Info().
		Str("email", payload.OwnerEmail).
		Str("new_status", payload.NewStatus).
		Msg("Status change email sent")

	return nil
}
