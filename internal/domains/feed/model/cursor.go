package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 12
	MinPageSize     = 1
	MaxPageSize     = 50

	popularCursorSeparator = "_"
)

// ClampLimit maps any requested page size into [MinPageSize, MaxPageSize].
// Zero or negative means "use the default".
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// =====================================================
// NEWEST CURSOR (submitted_at, descending)
// =====================================================

// EncodeNewestCursor renders the submission timestamp of the last row on a
// page. RFC3339Nano keeps full precision, so the resume predicate never
// skips or repeats rows as long as timestamps are unique.
func EncodeNewestCursor(submittedAt time.Time) string {
	return submittedAt.UTC().Format(time.RFC3339Nano)
}

// DecodeNewestCursor returns nil for anything it cannot parse. A malformed
// cursor silently restarts the feed from the first page.
func DecodeNewestCursor(cursor string) *time.Time {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return nil
	}
	return &ts
}

// =====================================================
// POPULAR CURSOR (like_count desc, id desc)
// =====================================================

// PopularCursor is the composite resume point for the popularity ordering.
// The descending id tiebreak keeps the order total when many cards share a
// like count; resuming continues at ids below the cursor's.
type PopularCursor struct {
	LikeCount int64
	ID        uuid.UUID
}

func EncodePopularCursor(likeCount int64, id uuid.UUID) string {
	return fmt.Sprintf("%d%s%s", likeCount, popularCursorSeparator, id)
}

// DecodePopularCursor returns nil for anything malformed, same contract as
// DecodeNewestCursor.
func DecodePopularCursor(cursor string) *PopularCursor {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil
	}
	parts := strings.SplitN(cursor, popularCursorSeparator, 2)
	if len(parts) != 2 {
		return nil
	}
	likeCount, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || likeCount < 0 {
		return nil
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil
	}
	return &PopularCursor{LikeCount: likeCount, ID: id}
}

// =====================================================
// PAGE QUERY
// =====================================================

// PageQuery is the planned form of a feed request: limit clamped, sort
// resolved, cursor decoded. The repository turns it into SQL.
type PageQuery struct {
	Sort  SortMode
	Theme string
	Limit int

	// NewestBefore is set for the newest ordering when resuming.
	NewestBefore *time.Time
	// PopularAfter is set for the popular ordering when resuming.
	PopularAfter *PopularCursor
}

// PlanPage normalizes a raw feed request. Malformed cursors degrade to the
// first page rather than erroring.
func PlanPage(req FeedRequest) PageQuery {
	q := PageQuery{
		Sort:  ParseSortMode(req.Sort),
		Theme: strings.TrimSpace(req.Theme),
		Limit: ClampLimit(req.Limit),
	}

	switch q.Sort {
	case SortPopular:
		q.PopularAfter = DecodePopularCursor(req.Cursor)
	default:
		q.NewestBefore = DecodeNewestCursor(req.Cursor)
	}

	return q
}

// IsFirstPage reports whether the query resumes from the top of the feed.
func (q PageQuery) IsFirstPage() bool {
	return q.NewestBefore == nil && q.PopularAfter == nil
}

// NextCursor derives the resume cursor from the last row of a full page.
func (q PageQuery) NextCursor(last CardSummary) string {
	if q.Sort == SortPopular {
		return EncodePopularCursor(last.LikeCount, last.ID)
	}
	return EncodeNewestCursor(last.SubmittedAt)
}
