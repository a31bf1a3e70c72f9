package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/trackbot/core/logger"
	"github.com/m3rciful/trackbot/internal/domain"
	"log/slog"
)

const componentStatuses = "service.statuses"

// RangeStore is the persistence surface the status service depends on.
type RangeStore interface {
	Insert(ctx context.Context, rng domain.StatusRange) (int64, error)
	All(ctx context.Context) ([]domain.StatusRange, error)
	Overlapping(ctx context.Context, date domain.Date) ([]domain.StatusRange, error)
	Delete(ctx context.Context, id int64) error
}

// Statuses resolves order dates against admin-declared status ranges and
// manages the ranges themselves.
type Statuses struct {
	store RangeStore
	now   func() time.Time
}

// NewStatuses constructs the status service.
func NewStatuses(store RangeStore) *Statuses {
	return &Statuses{store: store, now: time.Now}
}

// Resolve finds the status applicable to an order date. When several ranges
// cover the date, the most recently inserted one (highest id) wins. The
// second return value is false when no range matches.
func (s *Statuses) Resolve(ctx context.Context, date domain.Date) (domain.StatusRange, bool, error) {
	candidates, err := s.store.Overlapping(ctx, date)
	if err != nil {
		return domain.StatusRange{}, false, fmt.Errorf("resolve status: %w", err)
	}

	var (
		best  domain.StatusRange
		found bool
	)
	for _, rng := range candidates {
		if !rng.Contains(date) {
			continue
		}
		if !found || rng.ID > best.ID {
			best = rng
			found = true
		}
	}

	logger.Debug(ctx, componentStatuses, "status.resolve",
		slog.String("order_date", date.String()),
		slog.Int("count", len(candidates)),
		slog.Bool("matched", found),
	)
	return best, found, nil
}

// AddRange validates and appends a new status range, truncating the note to
// the persisted limit, and returns the stored row.
func (s *Statuses) AddRange(ctx context.Context, from, to domain.Date, status domain.StatusCode, info string) (domain.StatusRange, error) {
	if !status.Valid() {
		return domain.StatusRange{}, fmt.Errorf("add range: unknown status %q", status)
	}
	rng := domain.StatusRange{
		DateFrom:  from.String(),
		DateTo:    to.String(),
		Status:    status,
		Info:      TruncateInfo(info),
		CreatedAt: s.now().Format(domain.TimestampLayout),
	}
	id, err := s.store.Insert(ctx, rng)
	if err != nil {
		return domain.StatusRange{}, fmt.Errorf("add range: %w", err)
	}
	rng.ID = id

	logger.Info(ctx, componentStatuses, "range.added",
		slog.Int64("range_id", id),
		slog.String("status_code", string(status)),
	)
	return rng, nil
}

// ListRanges returns every declared range, newest first.
func (s *Statuses) ListRanges(ctx context.Context) ([]domain.StatusRange, error) {
	return s.store.All(ctx)
}

// DeleteRange removes a range by id. Missing ids surface as the store's
// not-found error so callers can report them distinctly.
func (s *Statuses) DeleteRange(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, componentStatuses, "range.deleted",
		slog.Int64("range_id", id),
	)
	return nil
}

// TruncateInfo trims the free-text note and caps it at the persisted limit,
// counted in runes so multi-byte text is not cut mid-character.
func TruncateInfo(info string) string {
	trimmed := []rune(strings.TrimSpace(info))
	if len(trimmed) > domain.InfoMaxLen {
		trimmed = trimmed[:domain.InfoMaxLen]
	}
	return string(trimmed)
}
