package service

import (
	"context"

	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/bookmark/model"
	"cardfolio-backend/internal/domains/bookmark/repository"
	"cardfolio-backend/internal/shared/authz"
)

// BookmarkService toggles and lists saved cards.
type BookmarkService interface {
	Toggle(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.ToggleResponse, error)
	ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.BookmarkedCard, error)
}

type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
	}
}

func (s *bookmarkService) Toggle(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.ToggleResponse, error) {
	added, err := s.bookmarkRepo.Add(ctx, cardRequestID, actor.ActorEmail)
	if err != nil {
		return nil, err
	}
	if added {
		return &model.ToggleResponse{CardRequestID: cardRequestID, Bookmarked: true}, nil
	}

	// The insert was a no-op: either the bookmark already exists (toggle
	// off) or the card is not published (reject).
	removed, err := s.bookmarkRepo.Remove(ctx, cardRequestID, actor.ActorEmail)
	if err != nil {
		return nil, err
	}
	if removed {
		return &model.ToggleResponse{CardRequestID: cardRequestID, Bookmarked: false}, nil
	}

	return nil, model.ErrCardNotFound
}

func (s *bookmarkService) ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.BookmarkedCard, error) {
	return s.bookmarkRepo.ListByUser(ctx, actor.ActorEmail)
}
