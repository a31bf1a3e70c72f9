package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/repository"
)

type stubOrderStore struct {
	byUser map[int64]domain.CustomerOrder
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{byUser: make(map[int64]domain.CustomerOrder)}
}

func (s *stubOrderStore) ByUserID(_ context.Context, userID int64) (domain.CustomerOrder, error) {
	order, ok := s.byUser[userID]
	if !ok {
		return domain.CustomerOrder{}, repository.ErrNotFound
	}
	return order, nil
}

func (s *stubOrderStore) ByOrderID(_ context.Context, orderID string) (domain.CustomerOrder, error) {
	for _, order := range s.byUser {
		if order.OrderID == orderID {
			return order, nil
		}
	}
	return domain.CustomerOrder{}, repository.ErrNotFound
}

func (s *stubOrderStore) OrderIDExists(_ context.Context, orderID string) (bool, error) {
	for _, order := range s.byUser {
		if order.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubOrderStore) Upsert(_ context.Context, order domain.CustomerOrder) error {
	s.byUser[order.UserID] = order
	return nil
}

func (s *stubOrderStore) SetPaid(_ context.Context, orderID string, paid bool) error {
	for userID, order := range s.byUser {
		if order.OrderID == orderID {
			order.IsPaid = paid
			s.byUser[userID] = order
			return nil
		}
	}
	return repository.ErrNotFound
}

var orderIDPattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestGenerateOrderID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := GenerateOrderID()
		assert.Regexp(t, orderIDPattern, id)
		seen[id] = struct{}{}
	}
	// uuid-derived tokens should essentially never collide in 200 draws
	assert.Greater(t, len(seen), 195)
}

func TestRegisterAssignsTokenAndMarksPaid(t *testing.T) {
	store := newStubOrderStore()
	svc := NewOrders(store)
	ctx := context.Background()

	orderID, err := svc.Register(ctx, 42, mustDate(t, "25.11.2025"))
	require.NoError(t, err)
	assert.Regexp(t, orderIDPattern, orderID)

	order, err := svc.CustomerByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.OrderID)
	assert.Equal(t, "25.11.2025", order.OrderDate)
	assert.True(t, order.IsPaid)
	assert.NotEmpty(t, order.CreatedAt)
}

func TestRegisterRetriesOnTokenCollision(t *testing.T) {
	store := newStubOrderStore()
	store.byUser[1] = domain.CustomerOrder{UserID: 1, OrderID: "TAKEN111"}

	svc := NewOrders(store)
	tokens := []string{"TAKEN111", "TAKEN111", "FRESH222"}
	svc.newToken = func() string {
		tok := tokens[0]
		if len(tokens) > 1 {
			tokens = tokens[1:]
		}
		return tok
	}

	orderID, err := svc.Register(context.Background(), 2, mustDate(t, "01.11.2025"))
	require.NoError(t, err)
	assert.Equal(t, "FRESH222", orderID)
}

func TestRegisterGivesUpWhenTokenSpaceExhausted(t *testing.T) {
	store := newStubOrderStore()
	store.byUser[1] = domain.CustomerOrder{UserID: 1, OrderID: "TAKEN111"}

	svc := NewOrders(store)
	svc.newToken = func() string { return "TAKEN111" }

	_, err := svc.Register(context.Background(), 2, mustDate(t, "01.11.2025"))
	assert.Error(t, err)
	_, err = svc.CustomerByUserID(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegisterOverwritesExistingOrder(t *testing.T) {
	store := newStubOrderStore()
	svc := NewOrders(store)
	ctx := context.Background()

	first, err := svc.Register(ctx, 7, mustDate(t, "01.11.2025"))
	require.NoError(t, err)
	require.NoError(t, svc.SetPaid(ctx, first, false))

	second, err := svc.Register(ctx, 7, mustDate(t, "02.11.2025"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	order, err := svc.CustomerByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, second, order.OrderID)
	assert.Equal(t, "02.11.2025", order.OrderDate)
	assert.True(t, order.IsPaid, "re-registration resets the payment flag")
}

func TestRegisterStampsCreatedAt(t *testing.T) {
	store := newStubOrderStore()
	svc := NewOrders(store)
	fixed := time.Date(2025, 11, 25, 14, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Register(context.Background(), 9, mustDate(t, "25.11.2025"))
	require.NoError(t, err)

	order, err := svc.CustomerByUserID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "25.11.2025 14:30", order.CreatedAt)
}

func TestSetPaid(t *testing.T) {
	store := newStubOrderStore()
	svc := NewOrders(store)
	ctx := context.Background()

	orderID, err := svc.Register(ctx, 5, mustDate(t, "01.11.2025"))
	require.NoError(t, err)

	t.Run("case insensitive lookup", func(t *testing.T) {
		lower := " " + strings.ToLower(orderID) + " "
		require.NoError(t, svc.SetPaid(ctx, lower, false))
		order, err := svc.CustomerByOrderID(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, order.IsPaid)
	})

	t.Run("same value twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.SetPaid(ctx, orderID, false))
		require.NoError(t, svc.SetPaid(ctx, orderID, false))
	})

	t.Run("unknown order surfaces not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.SetPaid(ctx, "NOPE0000", true), repository.ErrNotFound)
	})
}

func TestNormalizeOrderID(t *testing.T) {
	assert.Equal(t, "AB12CD34", NormalizeOrderID("  ab12cd34  "))
	assert.Equal(t, "", NormalizeOrderID("   "))
}
