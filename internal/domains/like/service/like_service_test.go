package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/domains/like/model"
	"cardfolio-backend/internal/shared/authz"
)

// fakeLikeRepo mirrors the transactional contract: the like row and the
// counter change together, and both operations are idempotent.
type fakeLikeRepo struct {
	published map[uuid.UUID]bool
	counts    map[uuid.UUID]int64
	likes     map[string]bool // cardID|email
}

func newFakeLikeRepo(published ...uuid.UUID) *fakeLikeRepo {
	r := &fakeLikeRepo{
		published: make(map[uuid.UUID]bool),
		counts:    make(map[uuid.UUID]int64),
		likes:     make(map[string]bool),
	}
	for _, id := range published {
		r.published[id] = true
	}
	return r
}

func likeKey(cardRequestID uuid.UUID, userEmail string) string {
	return cardRequestID.String() + "|" + userEmail
}

func (r *fakeLikeRepo) Like(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error) {
	if !r.published[cardRequestID] {
		return nil, model.ErrCardNotFound
	}
	k := likeKey(cardRequestID, userEmail)
	if !r.likes[k] {
		r.likes[k] = true
		r.counts[cardRequestID]++
	}
	return &model.LikeResponse{CardRequestID: cardRequestID, Liked: true, LikeCount: r.counts[cardRequestID]}, nil
}

func (r *fakeLikeRepo) Unlike(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error) {
	if !r.published[cardRequestID] {
		return nil, model.ErrCardNotFound
	}
	k := likeKey(cardRequestID, userEmail)
	if r.likes[k] {
		delete(r.likes, k)
		if r.counts[cardRequestID] > 0 {
			r.counts[cardRequestID]--
		}
	}
	return &model.LikeResponse{CardRequestID: cardRequestID, Liked: false, LikeCount: r.counts[cardRequestID]}, nil
}

func (r *fakeLikeRepo) HasLiked(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	return r.likes[likeKey(cardRequestID, userEmail)], nil
}

// recordingCache tracks pattern invalidations.
type recordingCache struct {
	patterns []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (c *recordingCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}
func (c *recordingCache) Ping(ctx context.Context) error { return nil }

func TestLikeUnlike(t *testing.T) {
	card := uuid.New()
	repo := newFakeLikeRepo(card)
	svc := NewLikeService(repo, nil)
	alice := authz.AuthContext{ActorEmail: "alice@example.com"}
	bob := authz.AuthContext{ActorEmail: "bob@example.com"}

	resp, err := svc.Like(context.Background(), alice, card)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, int64(1), resp.LikeCount)

	// Liking twice is idempotent.
	resp, err = svc.Like(context.Background(), alice, card)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, int64(1), resp.LikeCount)

	resp, err = svc.Like(context.Background(), bob, card)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.LikeCount)

	resp, err = svc.Unlike(context.Background(), alice, card)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Equal(t, int64(1), resp.LikeCount)

	// Unliking without a prior like is idempotent too.
	resp, err = svc.Unlike(context.Background(), alice, card)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.LikeCount)
}

func TestLikeUnpublishedCard(t *testing.T) {
	repo := newFakeLikeRepo()
	svc := NewLikeService(repo, nil)
	actor := authz.AuthContext{ActorEmail: "alice@example.com"}

	_, err := svc.Like(context.Background(), actor, uuid.New())
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}

func TestLikeInvalidatesPopularFeedCache(t *testing.T) {
	card := uuid.New()
	repo := newFakeLikeRepo(card)
	cacheClient := &recordingCache{}
	svc := NewLikeService(repo, cacheClient)
	actor := authz.AuthContext{ActorEmail: "alice@example.com"}

	_, err := svc.Like(context.Background(), actor, card)
	require.NoError(t, err)
	_, err = svc.Unlike(context.Background(), actor, card)
	require.NoError(t, err)

	assert.Equal(t, []string{"feed:first:popular:*", "feed:first:popular:*"}, cacheClient.patterns)
}

func TestFailedLikeDoesNotInvalidateCache(t *testing.T) {
	repo := newFakeLikeRepo()
	cacheClient := &recordingCache{}
	svc := NewLikeService(repo, cacheClient)
	actor := authz.AuthContext{ActorEmail: "alice@example.com"}

	_, err := svc.Like(context.Background(), actor, uuid.New())
	require.Error(t, err)
	assert.Empty(t, cacheClient.patterns)
}
