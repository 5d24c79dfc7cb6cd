package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/domains/feed/model"
)

// =====================================================
// IN-MEMORY FAKES
// =====================================================

// fakeFeedRepo serves pages from an in-memory slice, applying the same
// ordering and resume predicates the SQL layer does.
type fakeFeedRepo struct {
	cards  []model.CardSummary
	themes []string
	calls  int
}

func (r *fakeFeedRepo) ListPublished(ctx context.Context, q model.PageQuery) ([]model.CardSummary, error) {
	r.calls++

	matching := make([]model.CardSummary, 0, len(r.cards))
	for _, c := range r.cards {
		if q.Theme != "" && c.Theme != q.Theme {
			continue
		}
		matching = append(matching, c)
	}

	if q.Sort == model.SortPopular {
		sort.Slice(matching, func(i, j int) bool {
			if matching[i].LikeCount != matching[j].LikeCount {
				return matching[i].LikeCount > matching[j].LikeCount
			}
			return matching[i].ID.String() > matching[j].ID.String()
		})
	} else {
		sort.Slice(matching, func(i, j int) bool {
			return matching[i].SubmittedAt.After(matching[j].SubmittedAt)
		})
	}

	page := make([]model.CardSummary, 0, q.Limit)
	for _, c := range matching {
		if q.NewestBefore != nil && !c.SubmittedAt.Before(*q.NewestBefore) {
			continue
		}
		if q.PopularAfter != nil {
			after := c.LikeCount < q.PopularAfter.LikeCount ||
				(c.LikeCount == q.PopularAfter.LikeCount && c.ID.String() < q.PopularAfter.ID.String())
			if !after {
				continue
			}
		}
		page = append(page, c)
		if len(page) == q.Limit {
			break
		}
	}
	return page, nil
}

func (r *fakeFeedRepo) GetPublicBySlug(ctx context.Context, slug string) (*model.PublicCard, error) {
	for _, c := range r.cards {
		if c.ShareSlug == slug {
			return &model.PublicCard{
				ID:          c.ID,
				DisplayName: c.DisplayName,
				Theme:       c.Theme,
				ShareSlug:   c.ShareSlug,
				LikeCount:   c.LikeCount,
				SubmittedAt: c.SubmittedAt,
			}, nil
		}
	}
	return nil, model.ErrCardNotFound
}

func (r *fakeFeedRepo) ListThemes(ctx context.Context) ([]string, error) {
	return r.themes, nil
}

// fakeCache is a JSON-backed map, mirroring the Redis cache contract.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

// =====================================================
// FIXTURES
// =====================================================

// seedCards builds n published cards with distinct submission times and a
// deliberately skewed like distribution (ties included).
func seedCards(n int) []model.CardSummary {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	cards := make([]model.CardSummary, 0, n)
	for i := 0; i < n; i++ {
		theme := "minimal"
		if i%3 == 0 {
			theme = "retro"
		}
		cards = append(cards, model.CardSummary{
			ID:          uuid.New(),
			DisplayName: fmt.Sprintf("Card %02d", i),
			Theme:       theme,
			ShareSlug:   fmt.Sprintf("card-%02d", i),
			LikeCount:   int64(i / 4), // runs of four share a like count
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return cards
}

// =====================================================
// FEED PAGINATION
// =====================================================

func TestGetFeedFirstPageNewest(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(30)}
	svc := NewFeedService(repo, nil, time.Minute)

	resp, err := svc.GetFeed(context.Background(), model.FeedRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Items, model.DefaultPageSize)
	assert.True(t, resp.HasMore)
	require.NotNil(t, resp.NextCursor)

	// Newest first.
	for i := 1; i < len(resp.Items); i++ {
		assert.True(t, resp.Items[i-1].SubmittedAt.After(resp.Items[i].SubmittedAt))
	}
}

func TestGetFeedLastPage(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(5)}
	svc := NewFeedService(repo, nil, time.Minute)

	resp, err := svc.GetFeed(context.Background(), model.FeedRequest{Limit: 12})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 5)
	assert.False(t, resp.HasMore, "short page means the feed is exhausted")
	assert.Nil(t, resp.NextCursor)
}

// walkFeed pages through the whole feed and returns every card seen.
func walkFeed(t *testing.T, svc FeedService, req model.FeedRequest) []model.CardSummary {
	t.Helper()

	var all []model.CardSummary
	for page := 0; ; page++ {
		require.Less(t, page, 100, "pagination must terminate")

		resp, err := svc.GetFeed(context.Background(), req)
		require.NoError(t, err)
		all = append(all, resp.Items...)

		if !resp.HasMore {
			return all
		}
		require.NotNil(t, resp.NextCursor)
		req.Cursor = *resp.NextCursor
	}
}

func TestGetFeedNewestWalkCoversEverything(t *testing.T) {
	cards := seedCards(25)
	repo := &fakeFeedRepo{cards: cards}
	svc := NewFeedService(repo, nil, time.Minute)

	all := walkFeed(t, svc, model.FeedRequest{Limit: 7})

	require.Len(t, all, len(cards))
	seen := make(map[uuid.UUID]bool)
	for _, c := range all {
		assert.False(t, seen[c.ID], "no card may appear twice")
		seen[c.ID] = true
	}
}

func TestGetFeedPopularWalk(t *testing.T) {
	cards := seedCards(26)
	repo := &fakeFeedRepo{cards: cards}
	svc := NewFeedService(repo, nil, time.Minute)

	all := walkFeed(t, svc, model.FeedRequest{Sort: "popular", Limit: 6})

	require.Len(t, all, len(cards))

	// Like count descending, id descending within a tie, across page
	// boundaries too.
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.LikeCount == cur.LikeCount {
			assert.Greater(t, prev.ID.String(), cur.ID.String(), "tie broken by id descending")
		} else {
			assert.Greater(t, prev.LikeCount, cur.LikeCount)
		}
	}
}

func TestGetFeedPopularTieOrder(t *testing.T) {
	lower := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	higher := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	repo := &fakeFeedRepo{cards: []model.CardSummary{
		{ID: lower, ShareSlug: "card-a", LikeCount: 5, SubmittedAt: at},
		{ID: higher, ShareSlug: "card-b", LikeCount: 5, SubmittedAt: at.Add(time.Minute)},
	}}
	svc := NewFeedService(repo, nil, time.Minute)

	page, err := svc.GetFeed(context.Background(), model.FeedRequest{Sort: "popular", Limit: 1})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, higher, page.Items[0].ID, "within a tie the higher id comes first")
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "5_"+higher.String(), *page.NextCursor)

	next, err := svc.GetFeed(context.Background(), model.FeedRequest{Sort: "popular", Limit: 1, Cursor: *page.NextCursor})
	require.NoError(t, err)

	require.Len(t, next.Items, 1)
	assert.Equal(t, lower, next.Items[0].ID, "resume continues below the cursor id")
}

func TestGetFeedThemeFilter(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(30)}
	svc := NewFeedService(repo, nil, time.Minute)

	all := walkFeed(t, svc, model.FeedRequest{Theme: "retro", Limit: 4})

	require.NotEmpty(t, all)
	for _, c := range all {
		assert.Equal(t, "retro", c.Theme)
	}
}

func TestGetFeedMalformedCursorServesFirstPage(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(20)}
	svc := NewFeedService(repo, nil, time.Minute)

	first, err := svc.GetFeed(context.Background(), model.FeedRequest{})
	require.NoError(t, err)

	garbled, err := svc.GetFeed(context.Background(), model.FeedRequest{Cursor: "%%%not-a-cursor%%%"})
	require.NoError(t, err, "malformed cursors never error")

	assert.Equal(t, first.Items, garbled.Items)
}

func TestGetFeedLimitClamp(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(80)}
	svc := NewFeedService(repo, nil, time.Minute)

	resp, err := svc.GetFeed(context.Background(), model.FeedRequest{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, resp.Items, model.MaxPageSize)

	resp, err = svc.GetFeed(context.Background(), model.FeedRequest{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, resp.Items, model.DefaultPageSize)
}

// =====================================================
// CACHING
// =====================================================

func TestGetFeedCachesFirstPageOnly(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(30)}
	cacheClient := newFakeCache()
	svc := NewFeedService(repo, cacheClient, time.Minute)

	first, err := svc.GetFeed(context.Background(), model.FeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	// Second read of the first page comes from cache.
	again, err := svc.GetFeed(context.Background(), model.FeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "first page served from cache")
	assert.Equal(t, first.Items, again.Items)

	// Cursor pages always hit the repository.
	require.NotNil(t, first.NextCursor)
	_, err = svc.GetFeed(context.Background(), model.FeedRequest{Cursor: *first.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	_, err = svc.GetFeed(context.Background(), model.FeedRequest{Cursor: *first.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls, "cursor pages are never cached")
}

func TestGetFeedCacheKeyVariesBySortThemeLimit(t *testing.T) {
	repo := &fakeFeedRepo{cards: seedCards(30)}
	cacheClient := newFakeCache()
	svc := NewFeedService(repo, cacheClient, time.Minute)

	_, err := svc.GetFeed(context.Background(), model.FeedRequest{})
	require.NoError(t, err)
	_, err = svc.GetFeed(context.Background(), model.FeedRequest{Sort: "popular"})
	require.NoError(t, err)
	_, err = svc.GetFeed(context.Background(), model.FeedRequest{Theme: "retro"})
	require.NoError(t, err)
	_, err = svc.GetFeed(context.Background(), model.FeedRequest{Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 4, repo.calls)
	assert.Len(t, cacheClient.entries, 4, "each sort/theme/limit combination caches separately")
}

// =====================================================
// PUBLIC CARD / THEMES
// =====================================================

func TestGetPublicCard(t *testing.T) {
	cards := seedCards(3)
	repo := &fakeFeedRepo{cards: cards}
	svc := NewFeedService(repo, nil, time.Minute)

	card, err := svc.GetPublicCard(context.Background(), cards[1].ShareSlug)
	require.NoError(t, err)
	assert.Equal(t, cards[1].ID, card.ID)

	_, err = svc.GetPublicCard(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}

func TestListThemesCached(t *testing.T) {
	repo := &fakeFeedRepo{themes: []string{"minimal", "retro"}}
	cacheClient := newFakeCache()
	svc := NewFeedService(repo, cacheClient, time.Minute)

	themes, err := svc.ListThemes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal", "retro"}, themes)

	// Mutate the repo; the cached value must win.
	repo.themes = []string{"changed"}
	themes, err = svc.ListThemes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal", "retro"}, themes)
}
