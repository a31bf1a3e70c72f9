package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/trackbot/core/logger"
	"github.com/m3rciful/trackbot/internal/domain"
	"log/slog"
)

const (
	componentOrders   = "service.orders"
	componentPayments = "service.payments"

	// orderIDLen is the length of generated order identifiers.
	orderIDLen = 8
	// maxTokenAttempts bounds collision retries; expected retries are O(1)
	// given the token space size.
	maxTokenAttempts = 100
)

// OrderStore is the persistence surface the order service depends on.
type OrderStore interface {
	ByUserID(ctx context.Context, userID int64) (domain.CustomerOrder, error)
	ByOrderID(ctx context.Context, orderID string) (domain.CustomerOrder, error)
	OrderIDExists(ctx context.Context, orderID string) (bool, error)
	Upsert(ctx context.Context, order domain.CustomerOrder) error
	SetPaid(ctx context.Context, orderID string, paid bool) error
}

// Orders registers customer orders and manages their payment flag.
type Orders struct {
	store    OrderStore
	now      func() time.Time
	newToken func() string
}

// NewOrders constructs the order service.
func NewOrders(store OrderStore) *Orders {
	return &Orders{
		store:    store,
		now:      time.Now,
		newToken: GenerateOrderID,
	}
}

// GenerateOrderID yields an 8-character uppercase order token.
func GenerateOrderID() string {
	return strings.ToUpper(uuid.NewString()[:orderIDLen])
}

// Register assigns a fresh unique order identifier and upserts the customer
// row. Registering marks the order paid unconditionally; callers needing
// different payment semantics must use SetPaid instead.
func (s *Orders) Register(ctx context.Context, userID int64, date domain.Date) (string, error) {
	var orderID string
	for attempt := 0; ; attempt++ {
		if attempt == maxTokenAttempts {
			return "", fmt.Errorf("register order: no free order id after %d attempts", maxTokenAttempts)
		}
		orderID = s.newToken()
		exists, err := s.store.OrderIDExists(ctx, orderID)
		if err != nil {
			return "", fmt.Errorf("register order: %w", err)
		}
		if !exists {
			break
		}
	}

	order := domain.CustomerOrder{
		UserID:    userID,
		OrderID:   orderID,
		OrderDate: date.String(),
		IsPaid:    true,
		CreatedAt: s.now().Format(domain.TimestampLayout),
	}
	if err := s.store.Upsert(ctx, order); err != nil {
		return "", fmt.Errorf("register order: %w", err)
	}

	logger.Info(ctx, componentOrders, "order.registered",
		slog.Int64("user_id", userID),
		slog.String("order_id", orderID),
		slog.String("order_date", order.OrderDate),
	)
	return orderID, nil
}

// CustomerByUserID returns the order registered by the given Telegram user.
func (s *Orders) CustomerByUserID(ctx context.Context, userID int64) (domain.CustomerOrder, error) {
	return s.store.ByUserID(ctx, userID)
}

// CustomerByOrderID returns the order carrying the given identifier.
// Lookups are case-insensitive: identifiers are uppercased on entry.
func (s *Orders) CustomerByOrderID(ctx context.Context, orderID string) (domain.CustomerOrder, error) {
	return s.store.ByOrderID(ctx, NormalizeOrderID(orderID))
}

// SetPaid flips the payment flag for the given order identifier. Setting the
// same value twice is a no-op, not an error.
func (s *Orders) SetPaid(ctx context.Context, orderID string, paid bool) error {
	id := NormalizeOrderID(orderID)
	if err := s.store.SetPaid(ctx, id, paid); err != nil {
		return err
	}
	logger.Info(ctx, componentPayments, "payment.updated",
		slog.String("order_id", id),
		slog.Bool("is_paid", paid),
	)
	return nil
}

// NormalizeOrderID canonicalizes user-supplied order identifiers.
func NormalizeOrderID(orderID string) string {
	return strings.ToUpper(strings.TrimSpace(orderID))
}
