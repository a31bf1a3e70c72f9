package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/trackbot/internal/domain"
)

// Orders persists customer orders keyed by Telegram user id.
type Orders struct {
	db *sqlx.DB
}

// NewOrders wires an order repository over the shared connection pool.
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

// ByUserID returns the customer order registered by the given user.
func (r *Orders) ByUserID(ctx context.Context, userID int64) (domain.CustomerOrder, error) {
	var order domain.CustomerOrder
	err := r.db.GetContext(ctx, &order,
		`SELECT user_id, order_id, order_date, is_paid, created_at
		   FROM customers WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CustomerOrder{}, ErrNotFound
	}
	if err != nil {
		return domain.CustomerOrder{}, fmt.Errorf("order by user id: %w", err)
	}
	return order, nil
}

// ByOrderID returns the customer order carrying the given order identifier.
func (r *Orders) ByOrderID(ctx context.Context, orderID string) (domain.CustomerOrder, error) {
	var order domain.CustomerOrder
	err := r.db.GetContext(ctx, &order,
		`SELECT user_id, order_id, order_date, is_paid, created_at
		   FROM customers WHERE order_id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CustomerOrder{}, ErrNotFound
	}
	if err != nil {
		return domain.CustomerOrder{}, fmt.Errorf("order by order id: %w", err)
	}
	return order, nil
}

// OrderIDExists reports whether the order identifier is already taken.
func (r *Orders) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE order_id = $1)`, orderID)
	if err != nil {
		return false, fmt.Errorf("order id exists: %w", err)
	}
	return exists, nil
}

// Upsert inserts the order or overwrites the existing row for the same user
// wholesale, matching re-registration semantics.
func (r *Orders) Upsert(ctx context.Context, order domain.CustomerOrder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (user_id, order_id, order_date, is_paid, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   order_id = EXCLUDED.order_id,
		   order_date = EXCLUDED.order_date,
		   is_paid = EXCLUDED.is_paid,
		   created_at = EXCLUDED.created_at`,
		order.UserID, order.OrderID, order.OrderDate, order.IsPaid, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// SetPaid updates the payment flag for the order with the given identifier.
func (r *Orders) SetPaid(ctx context.Context, orderID string, paid bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET is_paid = $1 WHERE order_id = $2`, paid, orderID)
	if err != nil {
		return fmt.Errorf("set paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set paid rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
