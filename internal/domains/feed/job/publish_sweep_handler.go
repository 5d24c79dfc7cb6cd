package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cardfolio-backend/pkg/cache"
)

// BulkPublisher is the slice of the card request repository the sweep needs.
type BulkPublisher interface {
	BulkPublish(ctx context.Context) (int64, error)
}

// PublishSweepHandler publishes every eligible card in one pass. The
// scheduler runs it nightly; admins can also trigger the same sweep over
// the API.
type PublishSweepHandler struct {
	publisher BulkPublisher
	cache     cache.Cache
}

func NewPublishSweepHandler(publisher BulkPublisher, cacheClient cache.Cache) *PublishSweepHandler {
	return &PublishSweepHandler{
		publisher: publisher,
		cache:     cacheClient,
	}
}

func (h *PublishSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	count, err := h.publisher.BulkPublish(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Publish sweep failed")
		return err
	}

	// New cards entered the feed, drop the cached first pages.
	if count > 0 && h.cache != nil {
		if err := h.cache.DeletePattern(ctx, "feed:*"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate feed cache after sweep")
		}
	}

	log.Info().
		Int64("published_count", count).
		Msg("Publish sweep completed")

	return nil
}
