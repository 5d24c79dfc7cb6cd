package service

import (
	"context"

	"github.com/google/uuid"

	"cardfolio-backend/internal/domains/like/model"
	"cardfolio-backend/internal/domains/like/repository"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/pkg/cache"
	"cardfolio-backend/pkg/logger"
)

// LikeService records likes on published cards. Popularity ordering reads
// the counter this service maintains.
type LikeService interface {
	Like(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.LikeResponse, error)
	Unlike(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.LikeResponse, error)
}

type likeService struct {
	likeRepo repository.LikeRepository
	cache    cache.Cache
}

func NewLikeService(likeRepo repository.LikeRepository, cacheClient cache.Cache) LikeService {
	return &likeService{
		likeRepo: likeRepo,
		cache:    cacheClient,
	}
}

func (s *likeService) Like(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.LikeResponse, error) {
	resp, err := s.likeRepo.Like(ctx, cardRequestID, actor.ActorEmail)
	if err != nil {
		return nil, err
	}

	s.invalidatePopularFeed(ctx)
	return resp, nil
}

func (s *likeService) Unlike(ctx context.Context, actor authz.AuthContext, cardRequestID uuid.UUID) (*model.LikeResponse, error) {
	resp, err := s.likeRepo.Unlike(ctx, cardRequestID, actor.ActorEmail)
	if err != nil {
		return nil, err
	}

	s.invalidatePopularFeed(ctx)
	return resp, nil
}

// invalidatePopularFeed drops the cached popular first pages so the new
// count shows up promptly. Newest-ordered pages are unaffected by likes.
func (s *likeService) invalidatePopularFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "feed:first:popular:*"); err != nil {
		logger.Debug("Failed to invalidate popular feed cache: " + err.Error())
	}
}
