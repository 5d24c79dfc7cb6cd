package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/domains/bookmark/model"
	feedModel "cardfolio-backend/internal/domains/feed/model"
	"cardfolio-backend/internal/shared/authz"
)

// fakeBookmarkRepo mimics the conditional-insert contract: adding only
// succeeds for published cards, and adding twice is a no-op.
type fakeBookmarkRepo struct {
	published map[uuid.UUID]bool
	saved     map[string]time.Time // key: cardID + "|" + email
}

func newFakeBookmarkRepo(published ...uuid.UUID) *fakeBookmarkRepo {
	r := &fakeBookmarkRepo{
		published: make(map[uuid.UUID]bool),
		saved:     make(map[string]time.Time),
	}
	for _, id := range published {
		r.published[id] = true
	}
	return r
}

func key(cardRequestID uuid.UUID, userEmail string) string {
	return cardRequestID.String() + "|" + userEmail
}

func (r *fakeBookmarkRepo) Add(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	if !r.published[cardRequestID] {
		return false, nil
	}
	k := key(cardRequestID, userEmail)
	if _, ok := r.saved[k]; ok {
		return false, nil
	}
	r.saved[k] = time.Now()
	return true, nil
}

func (r *fakeBookmarkRepo) Remove(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	k := key(cardRequestID, userEmail)
	if _, ok := r.saved[k]; !ok {
		return false, nil
	}
	delete(r.saved, k)
	return true, nil
}

func (r *fakeBookmarkRepo) Exists(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	_, ok := r.saved[key(cardRequestID, userEmail)]
	return ok, nil
}

func (r *fakeBookmarkRepo) CardPublished(ctx context.Context, cardRequestID uuid.UUID) (bool, error) {
	return r.published[cardRequestID], nil
}

func (r *fakeBookmarkRepo) ListByUser(ctx context.Context, userEmail string) ([]model.BookmarkedCard, error) {
	var out []model.BookmarkedCard
	for k, at := range r.saved {
		id := uuid.MustParse(k[:36])
		if k[37:] != userEmail || !r.published[id] {
			continue
		}
		out = append(out, model.BookmarkedCard{
			CardSummary:  feedModel.CardSummary{ID: id},
			BookmarkedAt: at,
		})
	}
	return out, nil
}

func TestToggle(t *testing.T) {
	published := uuid.New()
	unpublished := uuid.New()
	repo := newFakeBookmarkRepo(published)
	svc := NewBookmarkService(repo)
	actor := authz.AuthContext{ActorEmail: "reader@example.com"}

	t.Run("first toggle bookmarks", func(t *testing.T) {
		resp, err := svc.Toggle(context.Background(), actor, published)
		require.NoError(t, err)
		assert.True(t, resp.Bookmarked)
		assert.Equal(t, published, resp.CardRequestID)
	})

	t.Run("second toggle removes", func(t *testing.T) {
		resp, err := svc.Toggle(context.Background(), actor, published)
		require.NoError(t, err)
		assert.False(t, resp.Bookmarked)
	})

	t.Run("third toggle bookmarks again", func(t *testing.T) {
		resp, err := svc.Toggle(context.Background(), actor, published)
		require.NoError(t, err)
		assert.True(t, resp.Bookmarked)
	})

	t.Run("unpublished card rejected", func(t *testing.T) {
		_, err := svc.Toggle(context.Background(), actor, unpublished)
		assert.ErrorIs(t, err, model.ErrCardNotFound)
	})

	t.Run("bookmarks are per user", func(t *testing.T) {
		other := authz.AuthContext{ActorEmail: "someone-else@example.com"}
		resp, err := svc.Toggle(context.Background(), other, published)
		require.NoError(t, err)
		assert.True(t, resp.Bookmarked, "another user's toggle starts fresh")
	})
}

func TestListOwn(t *testing.T) {
	cardA := uuid.New()
	cardB := uuid.New()
	repo := newFakeBookmarkRepo(cardA, cardB)
	svc := NewBookmarkService(repo)
	actor := authz.AuthContext{ActorEmail: "reader@example.com"}

	_, err := svc.Toggle(context.Background(), actor, cardA)
	require.NoError(t, err)
	_, err = svc.Toggle(context.Background(), actor, cardB)
	require.NoError(t, err)

	list, err := svc.ListOwn(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// A card that leaves the public set drops out of the list.
	repo.published[cardB] = false
	list, err = svc.ListOwn(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cardA, list[0].ID)
}
