package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	cardModel "cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/domains/like/model"
)

// LikeRepository maintains the per-user like rows and the denormalized
// like_count on card_requests. Both always change in the same transaction.
type LikeRepository interface {
	// Like records a like and bumps the counter. Idempotent: liking twice
	// leaves liked = true and the count unchanged.
	Like(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error)

	// Unlike removes a like and decrements the counter. Idempotent.
	Unlike(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error)

	HasLiked(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error)
}

type postgresLikeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &postgresLikeRepository{
		pool: pool,
	}
}

// listableStatuses mirrors the feed's read predicate: whatever is visible
// in a listing can be liked.
func listableStatuses() []string {
	statuses := make([]string, 0, len(cardModel.AllStatuses))
	for _, s := range cardModel.AllStatuses {
		if cardModel.IsListable(s) {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}

func (r *postgresLikeRepository) Like(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Only publicly listed cards can be liked; the check rides the INSERT.
	insertQuery := `
		INSERT INTO likes (id, card_request_id, user_email)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM card_requests
			WHERE id = $2 AND is_public = TRUE AND status = ANY($4)
		)
		ON CONFLICT (card_request_id, user_email) DO NOTHING
	`
	result, err := tx.Exec(ctx, insertQuery, uuid.New(), cardRequestID, userEmail, pq.Array(listableStatuses()))
	if err != nil {
		return nil, fmt.Errorf("failed to insert like: %w", err)
	}

	var likeCount int64
	if result.RowsAffected() > 0 {
		err = tx.QueryRow(ctx, `
			UPDATE card_requests
			SET like_count = like_count + 1
			WHERE id = $1
			RETURNING like_count
		`, cardRequestID).Scan(&likeCount)
	} else {
		// Either already liked or not published; the like row tells which.
		var liked bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM likes WHERE card_request_id = $1 AND user_email = $2
			)
		`, cardRequestID, userEmail).Scan(&liked); err != nil {
			return nil, fmt.Errorf("failed to check existing like: %w", err)
		}
		if !liked {
			return nil, model.ErrCardNotFound
		}
		err = tx.QueryRow(ctx, `
			SELECT like_count FROM card_requests WHERE id = $1
		`, cardRequestID).Scan(&likeCount)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &model.LikeResponse{
		CardRequestID: cardRequestID,
		Liked:         true,
		LikeCount:     likeCount,
	}, nil
}

func (r *postgresLikeRepository) Unlike(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (*model.LikeResponse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		DELETE FROM likes
		WHERE card_request_id = $1 AND user_email = $2
	`, cardRequestID, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to delete like: %w", err)
	}

	var likeCount int64
	if result.RowsAffected() > 0 {
		err = tx.QueryRow(ctx, `
			UPDATE card_requests
			SET like_count = GREATEST(like_count - 1, 0)
			WHERE id = $1
			RETURNING like_count
		`, cardRequestID).Scan(&likeCount)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT like_count FROM card_requests WHERE id = $1
		`, cardRequestID).Scan(&likeCount)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to read like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &model.LikeResponse{
		CardRequestID: cardRequestID,
		Liked:         false,
		LikeCount:     likeCount,
	}, nil
}

func (r *postgresLikeRepository) HasLiked(ctx context.Context, cardRequestID uuid.UUID, userEmail string) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE card_request_id = $1 AND user_email = $2
		)
	`, cardRequestID, userEmail).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}

	return liked, nil
}
