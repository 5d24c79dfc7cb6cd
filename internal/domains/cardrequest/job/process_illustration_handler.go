package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	cardService "cardfolio-backend/internal/domains/cardrequest/service"
	"cardfolio-backend/internal/shared"
)

// ProcessIllustrationHandler renders display variants for an uploaded
// illustration.
type ProcessIllustrationHandler struct {
	illustrationService cardService.IllustrationService
}

func NewProcessIllustrationHandler(illustrationService cardService.IllustrationService) *ProcessIllustrationHandler {
	return &ProcessIllustrationHandler{
		illustrationService: illustrationService,
	}
}

func (h *ProcessIllustrationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessIllustrationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessIllustration payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	cardRequestID, err := uuid.Parse(payload.CardRequestID)
	if err != nil {
		log.Error().Err(err).Str("card_request_id", payload.CardRequestID).Msg("Invalid card request ID in payload")
		return fmt.Errorf("parse card request id: %w", err)
	}

	log.Info().
		Str("card_request_id", payload.CardRequestID).
		Str("object_key", payload.ObjectKey).
		Msg("Processing illustration variants")

	if err := h.illustrationService.ProcessIllustration(ctx, cardRequestID, payload.ObjectKey); err != nil {
		log.Error().
			Err(err).
			Str("card_request_id", payload.CardRequestID).
			Msg("Failed to process illustration")
		return fmt.Errorf("process illustration: %w", err)
	}

	log.Info().
		Str("card_request_id", payload.CardRequestID).
		Msg("Illustration processed successfully")

	return nil
}
