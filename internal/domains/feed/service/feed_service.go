package service

import (
	"context"
	"fmt"
	"time"

	"cardfolio-backend/internal/domains/feed/model"
	"cardfolio-backend/internal/domains/feed/repository"
	"cardfolio-backend/pkg/cache"
	"cardfolio-backend/pkg/logger"
)

// FeedService serves the public gallery surfaces.
type FeedService interface {
	GetFeed(ctx context.Context, req model.FeedRequest) (*model.FeedResponse, error)
	GetPublicCard(ctx context.Context, slug string) (*model.PublicCard, error)
	ListThemes(ctx context.Context) ([]string, error)
}

type feedService struct {
	feedRepo repository.FeedRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewFeedService(feedRepo repository.FeedRepository, cacheClient cache.Cache, cacheTTL time.Duration) FeedService {
	return &feedService{
		feedRepo: feedRepo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
	}
}

// =====================================================
// FEED
// =====================================================

func (s *feedService) GetFeed(ctx context.Context, req model.FeedRequest) (*model.FeedResponse, error) {
	q := model.PlanPage(req)

	// Only the first page is cached. Cursor pages fan out too widely to be
	// worth keeping, and the first page is where nearly all traffic lands.
	cacheKey := ""
	if q.IsFirstPage() && s.cache != nil {
		cacheKey = firstPageCacheKey(q)
		var cached model.FeedResponse
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logger.Debug("Feed cache read failed: " + err.Error())
		} else if found {
			return &cached, nil
		}
	}

	items, err := s.feedRepo.ListPublished(ctx, q)
	if err != nil {
		return nil, err
	}

	resp := &model.FeedResponse{
		Items:   items,
		HasMore: len(items) == q.Limit,
	}
	if resp.HasMore {
		next := q.NextCursor(items[len(items)-1])
		resp.NextCursor = &next
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			logger.Debug("Feed cache write failed: " + err.Error())
		}
	}

	return resp, nil
}

func firstPageCacheKey(q model.PageQuery) string {
	return fmt.Sprintf("feed:first:%s:%s:%d", q.Sort, q.Theme, q.Limit)
}

// =====================================================
// PUBLIC CARD (LINK IN BIO)
// =====================================================

func (s *feedService) GetPublicCard(ctx context.Context, slug string) (*model.PublicCard, error) {
	return s.feedRepo.GetPublicBySlug(ctx, slug)
}

// =====================================================
// GALLERY THEMES
// =====================================================

func (s *feedService) ListThemes(ctx context.Context) ([]string, error) {
	cacheKey := "feed:themes"
	if s.cache != nil {
		var cached []string
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return cached, nil
		}
	}

	themes, err := s.feedRepo.ListThemes(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, themes, s.cacheTTL); err != nil {
			logger.Debug("Theme cache write failed: " + err.Error())
		}
	}

	return themes, nil
}
