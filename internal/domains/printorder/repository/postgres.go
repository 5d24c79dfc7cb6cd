package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cardfolio-backend/internal/domains/printorder/model"
)

type PrintOrderRepository interface {
	Create(ctx context.Context, order *model.PrintOrder) error
	SetGatewayRef(ctx context.Context, order *model.PrintOrder) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.PrintOrder, error)
}

type postgresPrintOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPrintOrderRepository(pool *pgxpool.Pool) PrintOrderRepository {
	return &postgresPrintOrderRepository{
		pool: pool,
	}
}

func (r *postgresPrintOrderRepository) Create(ctx context.Context, order *model.PrintOrder) error {
	query := `
		INSERT INTO print_orders (
			id, card_request_id, owner_email, quantity, unit_price, total, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		order.ID,
		order.CardRequestID,
		order.OwnerEmail,
		order.Quantity,
		order.UnitPrice,
		order.Total,
		order.Status,
	).Scan(&order.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create print order: %w", err)
	}

	return nil
}

func (r *postgresPrintOrderRepository) SetGatewayRef(ctx context.Context, order *model.PrintOrder) error {
	query := `
		UPDATE print_orders
		SET gateway_ref = $1, status = $2
		WHERE id = $3
	`

	if _, err := r.pool.Exec(ctx, query, order.GatewayRef, order.Status, order.ID); err != nil {
		return fmt.Errorf("failed to set gateway reference: %w", err)
	}

	return nil
}

func (r *postgresPrintOrderRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]model.PrintOrder, error) {
	query := `
		SELECT id, card_request_id, owner_email, quantity, unit_price, total, status, gateway_ref, created_at
		FROM print_orders
		WHERE owner_email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list print orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.PrintOrder, 0)
	for rows.Next() {
		var order model.PrintOrder
		if err := rows.Scan(
			&order.ID, &order.CardRequestID, &order.OwnerEmail, &order.Quantity,
			&order.UnitPrice, &order.Total, &order.Status, &order.GatewayRef, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan print order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}
