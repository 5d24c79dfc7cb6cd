package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cardfolio-backend/internal/domains/cardrequest/model"
)

// abandonedRetention is how long cancelled and rejected cards keep their
// artwork before the weekly sweep reclaims the storage.
const abandonedRetention = 90 * 24 * time.Hour

// PrefixDeleter is the slice of the storage layer the cleanup needs.
type PrefixDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// AbandonedCardStore is the slice of the card request repository the
// cleanup needs.
type AbandonedCardStore interface {
	ListAbandonedIllustrations(ctx context.Context, before time.Time) ([]model.CardRequest, error)
	ClearIllustration(ctx context.Context, id uuid.UUID) error
}

// CleanupIllustrationsHandler reclaims stored artwork for cards that ended
// in cancelled or rejected.
type CleanupIllustrationsHandler struct {
	cardRepo AbandonedCardStore
	storage  PrefixDeleter
}

func NewCleanupIllustrationsHandler(cardRepo AbandonedCardStore, storage PrefixDeleter) *CleanupIllustrationsHandler {
	return &CleanupIllustrationsHandler{
		cardRepo: cardRepo,
		storage:  storage,
	}
}

func (h *CleanupIllustrationsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().Add(-abandonedRetention)

	cards, err := h.cardRepo.ListAbandonedIllustrations(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list abandoned illustrations")
		return fmt.Errorf("list abandoned illustrations: %w", err)
	}

	cleaned := 0
	for _, card := range cards {
		prefix := fmt.Sprintf("cards/%s/", card.ID)
		if err := h.storage.DeleteByPrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("card_request_id", card.ID.String()).Msg("Failed to delete stored artwork, skipping")
			continue
		}
		if err := h.cardRepo.ClearIllustration(ctx, card.ID); err != nil {
			log.Warn().Err(err).Str("card_request_id", card.ID.String()).Msg("Failed to clear illustration URLs")
			continue
		}
		cleaned++
	}

	log.Info().
		Int("candidates", len(cards)).
		Int("cleaned", cleaned).
		Msg("Illustration cleanup completed")

	return nil
}
