package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultPageSize},
		{"negative uses default", -3, DefaultPageSize},
		{"minimum passes through", 1, 1},
		{"middle passes through", 25, 25},
		{"maximum passes through", 50, 50},
		{"above maximum clamps", 51, MaxPageSize},
		{"far above maximum clamps", 10000, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.limit))
		})
	}
}

func TestNewestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.FixedZone("ICT", 7*3600))

	cursor := EncodeNewestCursor(at)
	decoded := DecodeNewestCursor(cursor)

	require.NotNil(t, decoded)
	assert.True(t, decoded.Equal(at), "round trip must preserve the instant")
}

func TestDecodeNewestCursorMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-time", "2026-03-14", "1710408413"} {
		assert.Nil(t, DecodeNewestCursor(raw), "cursor %q", raw)
	}
}

func TestPopularCursorRoundTrip(t *testing.T) {
	id := uuid.New()

	cursor := EncodePopularCursor(42, id)
	decoded := DecodePopularCursor(cursor)

	require.NotNil(t, decoded)
	assert.Equal(t, int64(42), decoded.LikeCount)
	assert.Equal(t, id, decoded.ID)
}

func TestDecodePopularCursorMalformed(t *testing.T) {
	id := uuid.New()

	for _, raw := range []string{
		"",
		"   ",
		"justoneword",
		"abc_" + id.String(),
		"5_",
		"_" + id.String(),
		"5_not-a-uuid",
		"-1_" + id.String(),
	} {
		assert.Nil(t, DecodePopularCursor(raw), "cursor %q", raw)
	}
}

func TestDecodePopularCursorZeroLikes(t *testing.T) {
	id := uuid.New()

	decoded := DecodePopularCursor("0_" + id.String())

	require.NotNil(t, decoded)
	assert.Equal(t, int64(0), decoded.LikeCount)
}

func TestPlanPage(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("newest cursor decodes into NewestBefore", func(t *testing.T) {
		q := PlanPage(FeedRequest{Cursor: EncodeNewestCursor(at), Limit: 20})

		assert.Equal(t, SortNewest, q.Sort)
		assert.Equal(t, 20, q.Limit)
		require.NotNil(t, q.NewestBefore)
		assert.True(t, q.NewestBefore.Equal(at))
		assert.Nil(t, q.PopularAfter)
		assert.False(t, q.IsFirstPage())
	})

	t.Run("popular cursor decodes into PopularAfter", func(t *testing.T) {
		q := PlanPage(FeedRequest{Sort: "popular", Cursor: EncodePopularCursor(7, id)})

		assert.Equal(t, SortPopular, q.Sort)
		assert.Equal(t, DefaultPageSize, q.Limit)
		require.NotNil(t, q.PopularAfter)
		assert.Equal(t, int64(7), q.PopularAfter.LikeCount)
		assert.Equal(t, id, q.PopularAfter.ID)
		assert.Nil(t, q.NewestBefore)
	})

	t.Run("malformed cursor degrades to first page", func(t *testing.T) {
		for _, sort := range []string{"", "newest", "popular"} {
			q := PlanPage(FeedRequest{Sort: sort, Cursor: "garbage"})
			assert.True(t, q.IsFirstPage(), "sort %q", sort)
		}
	})

	t.Run("newest cursor handed to popular sort degrades to first page", func(t *testing.T) {
		q := PlanPage(FeedRequest{Sort: "popular", Cursor: EncodeNewestCursor(at)})
		assert.True(t, q.IsFirstPage())
	})

	t.Run("unknown sort falls back to newest", func(t *testing.T) {
		q := PlanPage(FeedRequest{Sort: "trending"})
		assert.Equal(t, SortNewest, q.Sort)
	})

	t.Run("theme is trimmed", func(t *testing.T) {
		q := PlanPage(FeedRequest{Theme: "  minimal  "})
		assert.Equal(t, "minimal", q.Theme)
	})
}

func TestNextCursor(t *testing.T) {
	last := CardSummary{
		ID:          uuid.New(),
		LikeCount:   9,
		SubmittedAt: time.Date(2026, 5, 6, 7, 8, 9, 123456789, time.UTC),
	}

	t.Run("newest", func(t *testing.T) {
		q := PageQuery{Sort: SortNewest}
		decoded := DecodeNewestCursor(q.NextCursor(last))
		require.NotNil(t, decoded)
		assert.True(t, decoded.Equal(last.SubmittedAt))
	})

	t.Run("popular", func(t *testing.T) {
		q := PageQuery{Sort: SortPopular}
		decoded := DecodePopularCursor(q.NextCursor(last))
		require.NotNil(t, decoded)
		assert.Equal(t, last.LikeCount, decoded.LikeCount)
		assert.Equal(t, last.ID, decoded.ID)
	})
}
