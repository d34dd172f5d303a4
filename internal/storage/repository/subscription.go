package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/nutriplan/internal/models"
	"github.com/magabrotheeeer/nutriplan/internal/storage"
)

// GetSubscription returns the snapshot of userID or storage.ErrNotFound.
func (s *Storage) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, tier, status, start_date, end_date
			  FROM subscriptions WHERE user_uid = $1`

	var (
		sub        models.Subscription
		start, end sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&sub.UserID, &sub.Tier, &sub.Status, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.StartDate = timePtr(start)
	sub.EndDate = timePtr(end)
	return &sub, nil
}

// SaveSubscription overwrites the snapshot of sub.UserID and clears the reminder marker
// in the same transaction, so every new snapshot starts a fresh reminder cycle.
func (s *Storage) SaveSubscription(ctx context.Context, sub models.Subscription) (err error) {
	const op = "storage.SaveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `INSERT INTO subscriptions (user_uid, tier, status, start_date, end_date, updated_at)
			   VALUES ($1, $2, $3, $4, $5, NOW())
			   ON CONFLICT (user_uid) DO UPDATE
			   SET tier = EXCLUDED.tier, status = EXCLUDED.status,
			       start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			       updated_at = NOW()`
	if _, err = tx.ExecContext(ctx, upsert, sub.UserID, sub.Tier, sub.Status,
		nullTime(sub.StartDate), nullTime(sub.EndDate)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM renewal_reminders WHERE user_uid = $1`, sub.UserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetReminderMarker returns the end date the last reminder was delivered for, or nil.
func (s *Storage) GetReminderMarker(ctx context.Context, userID string) (*time.Time, error) {
	const op = "storage.GetReminderMarker"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var marker time.Time
	err := s.DB.QueryRowContext(ctx,
		`SELECT last_reminder_end_date FROM renewal_reminders WHERE user_uid = $1`, userID).Scan(&marker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	marker = marker.UTC()
	return &marker, nil
}

// SetReminderMarker records that a reminder went out for endDate.
func (s *Storage) SetReminderMarker(ctx context.Context, userID string, endDate time.Time) error {
	const op = "storage.SetReminderMarker"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO renewal_reminders (user_uid, last_reminder_end_date, sent_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET last_reminder_end_date = EXCLUDED.last_reminder_end_date, sent_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, userID, endDate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
