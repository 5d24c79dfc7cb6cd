package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"cardfolio-backend/internal/domains/cardrequest/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresCardRequestRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCardRequestRepository(pool *pgxpool.Pool) CardRequestRepository {
	return &postgresCardRequestRepository{
		pool: pool,
	}
}

const cardRequestColumns = `
	id, owner_email, display_name, job_title, company, contact_email,
	phone, website, links, theme, note,
	illustration_url, thumbnail_url, is_public, share_slug, like_count,
	status, submitted_at, updated_at, version
`

func scanCardRequest(row pgx.Row) (*model.CardRequest, error) {
	var card model.CardRequest
	err := row.Scan(
		&card.ID, &card.OwnerEmail, &card.DisplayName, &card.JobTitle, &card.Company, &card.ContactEmail,
		&card.Phone, &card.Website, pq.Array(&card.Links), &card.Theme, &card.Note,
		&card.IllustrationURL, &card.ThumbnailURL, &card.IsPublic, &card.ShareSlug, &card.LikeCount,
		&card.Status, &card.SubmittedAt, &card.UpdatedAt, &card.Version,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresCardRequestRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresCardRequestRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresCardRequestRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// CREATE CARD REQUEST
// =====================================================

func (r *postgresCardRequestRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, card *model.CardRequest) error {
	query := `
		INSERT INTO card_requests (
			id, owner_email, display_name, job_title, company, contact_email,
			phone, website, links, theme, note,
			is_public, share_slug, status, version
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15
		)
		RETURNING submitted_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		card.ID,
		card.OwnerEmail,
		card.DisplayName,
		card.JobTitle,
		card.Company,
		card.ContactEmail,
		card.Phone,
		card.Website,
		pq.Array(card.Links),
		card.Theme,
		card.Note,
		card.IsPublic,
		card.ShareSlug,
		card.Status,
		card.Version,
	).Scan(&card.SubmittedAt, &card.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create card request: %w", err)
	}

	return nil
}

// =====================================================
// GET CARD REQUEST
// =====================================================

func (r *postgresCardRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardRequest, error) {
	query := `
		SELECT ` + cardRequestColumns + `
		FROM card_requests
		WHERE id = $1
	`

	card, err := scanCardRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card request: %w", err)
	}

	return card, nil
}

func (r *postgresCardRequestRepository) GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerEmail string) (*model.CardRequest, error) {
	query := `
		SELECT ` + cardRequestColumns + `
		FROM card_requests
		WHERE id = $1 AND owner_email = $2
	`

	card, err := scanCardRequest(r.pool.QueryRow(ctx, query, id, ownerEmail))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card request by owner: %w", err)
	}

	return card, nil
}

func (r *postgresCardRequestRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]model.CardRequest, error) {
	query := `
		SELECT ` + cardRequestColumns + `
		FROM card_requests
		WHERE owner_email = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list card requests by owner: %w", err)
	}
	defer rows.Close()

	cards := make([]model.CardRequest, 0)
	for rows.Next() {
		card, err := scanCardRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card request: %w", err)
		}
		cards = append(cards, *card)
	}

	return cards, rows.Err()
}

// =====================================================
// ADMIN LIST
// =====================================================

func (r *postgresCardRequestRepository) List(ctx context.Context, status *model.Status, page, limit int) ([]model.CardRequest, int64, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *status)
		argIndex++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM card_requests %s", whereSQL)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count card requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM card_requests
		%s
		ORDER BY submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, cardRequestColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list card requests: %w", err)
	}
	defer rows.Close()

	cards := make([]model.CardRequest, 0)
	for rows.Next() {
		card, err := scanCardRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan card request: %w", err)
		}
		cards = append(cards, *card)
	}

	return cards, total, rows.Err()
}

// =====================================================
// STATUS UPDATE (OPTIMISTIC LOCKING)
// =====================================================

func (r *postgresCardRequestRepository) UpdateStatusWithTx(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	status model.Status,
	version int,
	clearPublic bool,
) (*model.CardRequest, error) {
	setClauses := []string{
		"status = $1",
		"version = version + 1",
		"updated_at = NOW()",
	}
	if clearPublic {
		setClauses = append(setClauses, "is_public = FALSE")
	}

	query := fmt.Sprintf(`
		UPDATE card_requests
		SET %s
		WHERE id = $2 AND version = $3
		RETURNING %s
	`, strings.Join(setClauses, ", "), cardRequestColumns)

	card, err := scanCardRequest(tx.QueryRow(ctx, query, status, id, version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVersionMismatch
		}
		return nil, fmt.Errorf("failed to update card request status: %w", err)
	}

	return card, nil
}

// =====================================================
// CONTENT UPDATE
// =====================================================

func (r *postgresCardRequestRepository) UpdateContentWithTx(
	ctx context.Context,
	tx pgx.Tx,
	card *model.CardRequest,
	version int,
	newStatus *model.Status,
) (*model.CardRequest, error) {
	setClauses := []string{
		"display_name = $1",
		"job_title = $2",
		"company = $3",
		"contact_email = $4",
		"phone = $5",
		"website = $6",
		"links = $7",
		"theme = $8",
		"note = $9",
		"version = version + 1",
		"updated_at = NOW()",
	}
	args := []interface{}{
		card.DisplayName,
		card.JobTitle,
		card.Company,
		card.ContactEmail,
		card.Phone,
		card.Website,
		pq.Array(card.Links),
		card.Theme,
		card.Note,
	}
	argIndex := 10

	if newStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *newStatus)
		argIndex++
	}

	query := fmt.Sprintf(`
		UPDATE card_requests
		SET %s
		WHERE id = $%d AND version = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIndex, argIndex+1, cardRequestColumns)
	args = append(args, card.ID, version)

	updated, err := scanCardRequest(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVersionMismatch
		}
		return nil, fmt.Errorf("failed to update card request content: %w", err)
	}

	return updated, nil
}

// =====================================================
// VISIBILITY
// =====================================================

func (r *postgresCardRequestRepository) SetVisibility(ctx context.Context, id uuid.UUID, isPublic, requirePublishable bool) (int64, error) {
	query := `
		UPDATE card_requests
		SET is_public = $1, updated_at = NOW()
		WHERE id = $2
	`
	args := []interface{}{isPublic, id}

	if requirePublishable {
		query += ` AND status = ANY($3)`
		args = append(args, pq.Array(publishableStatuses()))
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to set card request visibility: %w", err)
	}

	return result.RowsAffected(), nil
}

func publishableStatuses() []string {
	statuses := make([]string, 0, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		if model.IsPublishable(s) {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}

// BulkPublish flips is_public on every card that has an illustration and a
// publishable status. Already-public rows are excluded, so re-running the
// sweep is a no-op.
func (r *postgresCardRequestRepository) BulkPublish(ctx context.Context) (int64, error) {
	query := `
		UPDATE card_requests
		SET is_public = TRUE, updated_at = NOW()
		WHERE illustration_url IS NOT NULL
		  AND illustration_url <> ''
		  AND status = ANY($1)
		  AND is_public = FALSE
	`

	result, err := r.pool.Exec(ctx, query, pq.Array(publishableStatuses()))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk publish card requests: %w", err)
	}

	return result.RowsAffected(), nil
}

// =====================================================
// ILLUSTRATION
// =====================================================

func (r *postgresCardRequestRepository) SetIllustration(ctx context.Context, id uuid.UUID, illustrationURL string) error {
	query := `
		UPDATE card_requests
		SET illustration_url = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, illustrationURL, id)
	if err != nil {
		return fmt.Errorf("failed to set illustration url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *postgresCardRequestRepository) SetThumbnail(ctx context.Context, id uuid.UUID, thumbnailURL string) error {
	query := `
		UPDATE card_requests
		SET thumbnail_url = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, thumbnailURL, id)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *postgresCardRequestRepository) ListAbandonedIllustrations(ctx context.Context, before time.Time) ([]model.CardRequest, error) {
	query := `
		SELECT ` + cardRequestColumns + `
		FROM card_requests
		WHERE illustration_url IS NOT NULL
		  AND status IN ($1, $2)
		  AND updated_at < $3
	`

	rows, err := r.pool.Query(ctx, query, model.StatusCancelled, model.StatusRejected, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list abandoned illustrations: %w", err)
	}
	defer rows.Close()

	cards := make([]model.CardRequest, 0)
	for rows.Next() {
		card, err := scanCardRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card request: %w", err)
		}
		cards = append(cards, *card)
	}

	return cards, rows.Err()
}

func (r *postgresCardRequestRepository) ClearIllustration(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE card_requests
		SET illustration_url = NULL, thumbnail_url = NULL, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear illustration: %w", err)
	}

	return nil
}

// =====================================================
// LIKE COUNT
// =====================================================

func (r *postgresCardRequestRepository) IncrementLikeCount(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	query := `
		UPDATE card_requests
		SET like_count = GREATEST(like_count + $1, 0)
		WHERE id = $2
		RETURNING like_count
	`

	var likeCount int64
	err := r.pool.QueryRow(ctx, query, delta, id).Scan(&likeCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("failed to update like count: %w", err)
	}

	return likeCount, nil
}

// =====================================================
// STATUS HISTORY
// =====================================================

func (r *postgresCardRequestRepository) CreateHistoryWithTx(ctx context.Context, tx pgx.Tx, entry *model.StatusHistory) error {
	query := `
		INSERT INTO card_request_status_history (
			id, card_request_id, from_status, to_status, changed_by, note
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING changed_at
	`

	err := tx.QueryRow(ctx, query,
		entry.ID,
		entry.CardRequestID,
		entry.FromStatus,
		entry.ToStatus,
		entry.ChangedBy,
		entry.Note,
	).Scan(&entry.ChangedAt)

	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return nil
}

func (r *postgresCardRequestRepository) GetHistory(ctx context.Context, cardRequestID uuid.UUID) ([]model.StatusHistory, error) {
	query := `
		SELECT id, card_request_id, from_status, to_status, changed_by, note, changed_at
		FROM card_request_status_history
		WHERE card_request_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.pool.Query(ctx, query, cardRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.StatusHistory, 0)
	for rows.Next() {
		var entry model.StatusHistory
		if err := rows.Scan(
			&entry.ID, &entry.CardRequestID, &entry.FromStatus,
			&entry.ToStatus, &entry.ChangedBy, &entry.Note, &entry.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
