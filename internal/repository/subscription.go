package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// SubscriptionRepository manages subscription state and the daily counter
type SubscriptionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *pgxpool.Pool, logger *zap.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// FindByUserID retrieves the user's subscription row
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `
		SELECT user_id, is_premium, plan, trial_end_date,
		       daily_message_count, daily_message_limit, last_reset_date, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`

	var sub model.Subscription
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.IsPremium,
		&sub.Plan,
		&sub.TrialEndDate,
		&sub.DailyMessageCount,
		&sub.DailyMessageLimit,
		&sub.LastResetDate,
		&sub.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find subscription", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

// Upsert creates or replaces the user's subscription row
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, is_premium, plan, trial_end_date,
			daily_message_count, daily_message_limit, last_reset_date, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			is_premium = EXCLUDED.is_premium,
			plan = EXCLUDED.plan,
			trial_end_date = EXCLUDED.trial_end_date,
			daily_message_count = EXCLUDED.daily_message_count,
			daily_message_limit = EXCLUDED.daily_message_limit,
			last_reset_date = EXCLUDED.last_reset_date,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		sub.UserID,
		sub.IsPremium,
		sub.Plan,
		sub.TrialEndDate,
		sub.DailyMessageCount,
		sub.DailyMessageLimit,
		sub.LastResetDate,
	)

	if err != nil {
		r.logger.Error("failed to upsert subscription",
			zap.Error(err),
			zap.String("user_id", sub.UserID),
		)
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

// IncrementDailyCount atomically bumps the counter for today. If the
// stored reset date is older than today the counter restarts at one. The
// updated row is returned so callers see the post-increment state.
func (r *SubscriptionRepository) IncrementDailyCount(ctx context.Context, userID, today string) (*model.Subscription, error) {
	query := `
		UPDATE subscriptions SET
			daily_message_count = CASE WHEN last_reset_date = $2 THEN daily_message_count + 1 ELSE 1 END,
			last_reset_date = $2,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, is_premium, plan, trial_end_date,
		          daily_message_count, daily_message_limit, last_reset_date, updated_at
	`

	var sub model.Subscription
	err := r.db.QueryRow(ctx, query, userID, today).Scan(
		&sub.UserID,
		&sub.IsPremium,
		&sub.Plan,
		&sub.TrialEndDate,
		&sub.DailyMessageCount,
		&sub.DailyMessageLimit,
		&sub.LastResetDate,
		&sub.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to increment daily count", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to increment daily count: %w", err)
	}

	return &sub, nil
}

// DeleteByUserID removes the user's subscription row. Used by account deletion.
func (r *SubscriptionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM subscriptions WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete subscription", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}
