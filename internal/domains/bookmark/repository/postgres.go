package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"cardfolio-backend/internal/domains/bookmark/model"
	cardModel "cardfolio-backend/internal/domains/cardrequest/model"
)

// BookmarkRepository stores per-user saved cards.
type BookmarkRepository interface {
	// Add inserts a bookmark for a published card. Returns false when the
	// bookmark already existed or the card is not published.
	Add(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error)

	// Remove deletes a bookmark. Returns false when there was nothing to
	// remove.
	Remove(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error)

	Exists(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error)

	// CardPublished reports whether the card is currently in the public set.
	CardPublished(ctx context.Context, cardRequestID uuid.UUID) (bool, error)

	// ListByUser returns the caller's bookmarked cards, most recently saved
	// first. Cards that have since left the public set drop out of the list.
	ListByUser(ctx context.Context, userEmail string) ([]model.BookmarkedCard, error)
}

type postgresBookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookmarkRepository(pool *pgxpool.Pool) BookmarkRepository {
	return &postgresBookmarkRepository{
		pool: pool,
	}
}

// listableStatuses mirrors the feed's read predicate: public and not
// cancelled or rejected.
func listableStatuses() []string {
	statuses := make([]string, 0, len(cardModel.AllStatuses))
	for _, s := range cardModel.AllStatuses {
		if cardModel.IsListable(s) {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}

func (r *postgresBookmarkRepository) Add(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	// The published check rides the INSERT, so an unpublished card can
	// never pick up a bookmark through a race.
	query := `
		INSERT INTO bookmarks (id, card_request_id, user_email)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM card_requests
			WHERE id = $2 AND is_public = TRUE AND status = ANY($4)
		)
		ON CONFLICT (card_request_id, user_email) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, uuid.New(), cardRequestID, userEmail, pq.Array(listableStatuses()))
	if err != nil {
		return false, fmt.Errorf("failed to add bookmark: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresBookmarkRepository) Remove(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	query := `
		DELETE FROM bookmarks
		WHERE card_request_id = $1 AND user_email = $2
	`

	result, err := r.pool.Exec(ctx, query, cardRequestID, userEmail)
	if err != nil {
		return false, fmt.Errorf("failed to remove bookmark: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresBookmarkRepository) Exists(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks
			WHERE card_request_id = $1 AND user_email = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, cardRequestID, userEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	return exists, nil
}

func (r *postgresBookmarkRepository) CardPublished(ctx context.Context, cardRequestID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM card_requests
			WHERE id = $1 AND is_public = TRUE AND status = ANY($2)
		)
	`

	var published bool
	if err := r.pool.QueryRow(ctx, query, cardRequestID, pq.Array(listableStatuses())).Scan(&published); err != nil {
		return false, fmt.Errorf("failed to check card publication: %w", err)
	}

	return published, nil
}

func (r *postgresBookmarkRepository) ListByUser(ctx context.Context, userEmail string) ([]model.BookmarkedCard, error) {
	query := `
		SELECT c.id, c.display_name, c.job_title, c.company, c.theme,
		       c.thumbnail_url, c.share_slug, c.like_count, c.submitted_at,
		       b.created_at
		FROM bookmarks b
		JOIN card_requests c ON c.id = b.card_request_id
		WHERE b.user_email = $1
		  AND c.is_public = TRUE
		  AND c.status = ANY($2)
		ORDER BY b.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userEmail, pq.Array(listableStatuses()))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	cards := make([]model.BookmarkedCard, 0)
	for rows.Next() {
		var card model.BookmarkedCard
		if err := rows.Scan(
			&card.ID, &card.DisplayName, &card.JobTitle, &card.Company, &card.Theme,
			&card.ThumbnailURL, &card.ShareSlug, &card.LikeCount, &card.SubmittedAt,
			&card.BookmarkedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bookmarked card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}
