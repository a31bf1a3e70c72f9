package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/trackbot/internal/domain"
)

// StatusRanges persists admin-declared status announcements.
type StatusRanges struct {
	db *sqlx.DB
}

// NewStatusRanges wires a status range repository over the shared pool.
func NewStatusRanges(db *sqlx.DB) *StatusRanges {
	return &StatusRanges{db: db}
}

// Insert appends a new range and returns its assigned id.
func (r *StatusRanges) Insert(ctx context.Context, rng domain.StatusRange) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		`INSERT INTO status_ranges (date_from, date_to, status, info, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rng.DateFrom, rng.DateTo, string(rng.Status), rng.Info, rng.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert range: %w", err)
	}
	return id, nil
}

// All returns every range, newest first.
func (r *StatusRanges) All(ctx context.Context) ([]domain.StatusRange, error) {
	var ranges []domain.StatusRange
	err := r.db.SelectContext(ctx, &ranges,
		`SELECT id, date_from, date_to, status, info, created_at
		   FROM status_ranges ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ranges: %w", err)
	}
	return ranges, nil
}

// Overlapping returns ranges whose [date_from, date_to] interval contains the
// given date. Dates are stored as DD.MM.YYYY strings, so the comparison goes
// through to_date rather than string ordering.
func (r *StatusRanges) Overlapping(ctx context.Context, date domain.Date) ([]domain.StatusRange, error) {
	var ranges []domain.StatusRange
	err := r.db.SelectContext(ctx, &ranges,
		`SELECT id, date_from, date_to, status, info, created_at
		   FROM status_ranges
		  WHERE to_date(date_from, 'DD.MM.YYYY') <= $1
		    AND to_date(date_to, 'DD.MM.YYYY') >= $1
		  ORDER BY id DESC`, date.Time())
	if err != nil {
		return nil, fmt.Errorf("overlapping ranges: %w", err)
	}
	return ranges, nil
}

// Delete removes the range with the given id, reporting ErrNotFound when the
// id does not exist.
func (r *StatusRanges) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM status_ranges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete range: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete range rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
