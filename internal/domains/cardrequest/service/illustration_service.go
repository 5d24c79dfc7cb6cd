package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/cardrequest/repository"
	"cardfolio-backend/internal/infrastructure/storage"
	"cardfolio-backend/pkg/logger"
)

type illustrationService struct {
	cardRepo  repository.CardRequestRepository
	storage   ObjectStorage
	processor *storage.ImageProcessor
}

func NewIllustrationService(
	cardRepo repository.CardRequestRepository,
	objectStorage ObjectStorage,
	processor *storage.ImageProcessor,
) IllustrationService {
	return &illustrationService{
		cardRepo:  cardRepo,
		storage:   objectStorage,
		processor: processor,
	}
}

// ProcessIllustration downloads the original upload, renders the display
// variants and records the thumbnail URL. Re-running the task for the same
// key just overwrites the variants, so retries are safe.
func (s *illustrationService) ProcessIllustration(ctx context.Context, cardRequestID uuid.UUID, objectKey string) error {
	data, err := s.storage.Download(ctx, objectKey)
	if err != nil {
		return fmt.Errorf("download original illustration: %w", err)
	}

	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return fmt.Errorf("process illustration: %w", err)
	}

	var thumbnailURL string
	for name, variant := range variants {
		key := fmt.Sprintf("cards/%s/%s.jpg", cardRequestID, name)
		url, err := s.storage.Upload(ctx, key, variant, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		if name == "thumbnail" {
			thumbnailURL = url
		}
	}

	if thumbnailURL != "" {
		if err := s.cardRepo.SetThumbnail(ctx, cardRequestID, thumbnailURL); err != nil {
			return fmt.Errorf("record thumbnail url: %w", err)
		}
	}

	logger.Info("Illustration variants generated", map[string]interface{}{
		"card_request_id": cardRequestID.String(),
		"variants":        len(variants),
	})

	return nil
}
