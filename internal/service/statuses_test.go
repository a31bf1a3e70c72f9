package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/repository"
)

type stubRangeStore struct {
	ranges   []domain.StatusRange
	nextID   int64
	inserted []domain.StatusRange
}

func (s *stubRangeStore) Insert(_ context.Context, rng domain.StatusRange) (int64, error) {
	s.nextID++
	rng.ID = s.nextID
	s.ranges = append(s.ranges, rng)
	s.inserted = append(s.inserted, rng)
	return rng.ID, nil
}

func (s *stubRangeStore) All(context.Context) ([]domain.StatusRange, error) {
	out := make([]domain.StatusRange, len(s.ranges))
	copy(out, s.ranges)
	return out, nil
}

func (s *stubRangeStore) Overlapping(_ context.Context, date domain.Date) ([]domain.StatusRange, error) {
	var out []domain.StatusRange
	for _, rng := range s.ranges {
		if rng.Contains(date) {
			out = append(out, rng)
		}
	}
	return out, nil
}

func (s *stubRangeStore) Delete(_ context.Context, id int64) error {
	for i, rng := range s.ranges {
		if rng.ID == id {
			s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestStatuses(t *testing.T, store *stubRangeStore) *Statuses {
	t.Helper()
	svc := NewStatuses(store)
	return svc
}

func TestResolveLatestRangeWins(t *testing.T) {
	store := &stubRangeStore{}
	svc := newTestStatuses(t, store)
	ctx := context.Background()

	_, err := svc.AddRange(ctx,
		mustDate(t, "01.11.2025"), mustDate(t, "10.11.2025"),
		domain.StatusWaiting, "first batch")
	require.NoError(t, err)
	_, err = svc.AddRange(ctx,
		mustDate(t, "05.11.2025"), mustDate(t, "15.11.2025"),
		domain.StatusInTransit, "second batch")
	require.NoError(t, err)

	t.Run("overlap resolves to newest range", func(t *testing.T) {
		rng, found, err := svc.Resolve(ctx, mustDate(t, "07.11.2025"))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, domain.StatusInTransit, rng.Status)
		assert.EqualValues(t, 2, rng.ID)
	})

	t.Run("older range still covers its own dates", func(t *testing.T) {
		rng, found, err := svc.Resolve(ctx, mustDate(t, "02.11.2025"))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, domain.StatusWaiting, rng.Status)
	})

	t.Run("uncovered date matches nothing", func(t *testing.T) {
		_, found, err := svc.Resolve(ctx, mustDate(t, "20.11.2025"))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestResolveIgnoresMalformedStoredRanges(t *testing.T) {
	store := &stubRangeStore{
		ranges: []domain.StatusRange{
			{ID: 1, DateFrom: "garbage", DateTo: "10.11.2025", Status: domain.StatusWaiting},
		},
		nextID: 1,
	}
	svc := newTestStatuses(t, store)

	_, found, err := svc.Resolve(context.Background(), mustDate(t, "05.11.2025"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddRangeRejectsUnknownStatus(t *testing.T) {
	store := &stubRangeStore{}
	svc := newTestStatuses(t, store)

	_, err := svc.AddRange(context.Background(),
		mustDate(t, "01.11.2025"), mustDate(t, "10.11.2025"),
		domain.StatusCode("shipped"), "")
	assert.Error(t, err)
	assert.Empty(t, store.inserted)
}

func TestAddRangeTruncatesInfo(t *testing.T) {
	store := &stubRangeStore{}
	svc := newTestStatuses(t, store)

	long := strings.Repeat("я", domain.InfoMaxLen+20)
	rng, err := svc.AddRange(context.Background(),
		mustDate(t, "01.11.2025"), mustDate(t, "10.11.2025"),
		domain.StatusDelivered, long)
	require.NoError(t, err)
	assert.Len(t, []rune(rng.Info), domain.InfoMaxLen)
}

func TestTruncateInfo(t *testing.T) {
	assert.Equal(t, "short note", TruncateInfo("  short note  "))
	assert.Equal(t, "", TruncateInfo("   "))

	capped := TruncateInfo(strings.Repeat("x", domain.InfoMaxLen+1))
	assert.Len(t, capped, domain.InfoMaxLen)
}

func TestDeleteRange(t *testing.T) {
	store := &stubRangeStore{}
	svc := newTestStatuses(t, store)
	ctx := context.Background()

	rng, err := svc.AddRange(ctx,
		mustDate(t, "01.11.2025"), mustDate(t, "10.11.2025"),
		domain.StatusWaiting, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRange(ctx, rng.ID))
	assert.ErrorIs(t, svc.DeleteRange(ctx, rng.ID), repository.ErrNotFound)
}
