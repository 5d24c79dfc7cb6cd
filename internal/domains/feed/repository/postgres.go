package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	cardModel "cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/domains/feed/model"
)

// =====================================================
// POSTGRES FEED REPOSITORY
// =====================================================
type postgresFeedRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFeedRepository(pool *pgxpool.Pool) FeedRepository {
	return &postgresFeedRepository{
		pool: pool,
	}
}

// listableStatuses is derived from the status predicate rather than spelled
// out here, so the feed can never drift from it. Listings show every public
// card that is not cancelled or rejected; whether the owner could publish it
// right now is the gate's concern, not the reader's.
func listableStatuses() []string {
	statuses := make([]string, 0, len(cardModel.AllStatuses))
	for _, s := range cardModel.AllStatuses {
		if cardModel.IsListable(s) {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}

func (r *postgresFeedRepository) ListPublished(ctx context.Context, q model.PageQuery) ([]model.CardSummary, error) {
	whereClauses := []string{
		"is_public = TRUE",
		"status = ANY($1)",
	}
	args := []interface{}{pq.Array(listableStatuses())}
	argIndex := 2

	if q.Theme != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("theme = $%d", argIndex))
		args = append(args, q.Theme)
		argIndex++
	}

	orderBy := "submitted_at DESC, id DESC"
	if q.Sort == model.SortPopular {
		orderBy = "like_count DESC, id DESC"
		if q.PopularAfter != nil {
			whereClauses = append(whereClauses, fmt.Sprintf(
				"(like_count < $%d OR (like_count = $%d AND id < $%d))",
				argIndex, argIndex, argIndex+1,
			))
			args = append(args, q.PopularAfter.LikeCount, q.PopularAfter.ID)
			argIndex += 2
		}
	} else if q.NewestBefore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("submitted_at < $%d", argIndex))
		args = append(args, *q.NewestBefore)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT id, display_name, job_title, company, theme,
		       thumbnail_url, share_slug, like_count, submitted_at
		FROM card_requests
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), orderBy, argIndex)
	args = append(args, q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list published cards: %w", err)
	}
	defer rows.Close()

	items := make([]model.CardSummary, 0, q.Limit)
	for rows.Next() {
		var item model.CardSummary
		if err := rows.Scan(
			&item.ID, &item.DisplayName, &item.JobTitle, &item.Company, &item.Theme,
			&item.ThumbnailURL, &item.ShareSlug, &item.LikeCount, &item.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *postgresFeedRepository) GetPublicBySlug(ctx context.Context, slug string) (*model.PublicCard, error) {
	query := `
		SELECT id, display_name, job_title, company, contact_email,
		       phone, website, links, theme,
		       illustration_url, thumbnail_url, share_slug, like_count, submitted_at
		FROM card_requests
		WHERE share_slug = $1
		  AND is_public = TRUE
		  AND status = ANY($2)
	`

	var card model.PublicCard
	err := r.pool.QueryRow(ctx, query, slug, pq.Array(listableStatuses())).Scan(
		&card.ID, &card.DisplayName, &card.JobTitle, &card.Company, &card.ContactEmail,
		&card.Phone, &card.Website, pq.Array(&card.Links), &card.Theme,
		&card.IllustrationURL, &card.ThumbnailURL, &card.ShareSlug, &card.LikeCount, &card.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get public card: %w", err)
	}

	return &card, nil
}

func (r *postgresFeedRepository) ListThemes(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT theme
		FROM card_requests
		WHERE is_public = TRUE AND status = ANY($1)
		ORDER BY theme ASC
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(listableStatuses()))
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer rows.Close()

	themes := make([]string, 0)
	for rows.Next() {
		var theme string
		if err := rows.Scan(&theme); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, theme)
	}

	return themes, rows.Err()
}
