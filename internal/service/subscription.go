package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/cache"
	"github.com/saglikasistani/backend/internal/config"
	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/pkg/model"
)

// ErrMessageLimitReached is returned when a free user has used up the
// daily message allowance.
var ErrMessageLimitReached = fmt.Errorf("daily message limit reached")

// SubscriptionService resolves premium status, handles purchases and
// enforces the daily message counter.
type SubscriptionService struct {
	repo   *repository.SubscriptionRepository
	cache  *cache.Cache
	cfg    config.SubscriptionConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, c *cache.Cache, cfg config.SubscriptionConfig, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		cache:  c,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the user's subscription with trial expiry and the daily
// counter already resolved against the current date. Users with no row
// yet get a default free subscription.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	now := s.now()

	if s.cache != nil {
		var cached model.Subscription
		found, err := s.cache.Get(ctx, cache.SubscriptionKey(userID), &cached)
		if err != nil {
			s.logger.Warn("Subscription cache read failed", zap.Error(err))
		}
		if found {
			return resolveSubscription(&cached, now, s.cfg), nil
		}
	}

	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return s.defaultSubscription(userID, now), nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.SubscriptionKey(userID), sub); err != nil {
			s.logger.Warn("Subscription cache write failed", zap.Error(err))
		}
	}

	return resolveSubscription(sub, now, s.cfg), nil
}

// Update records a purchase, restore or plan change and invalidates the
// cached subscription.
func (s *SubscriptionService) Update(ctx context.Context, userID string, isPremium bool, plan string, trialEndDate *time.Time) (*model.Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	now := s.now()

	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if err != repository.ErrNotFound {
			return nil, fmt.Errorf("failed to load subscription: %w", err)
		}
		sub = s.defaultSubscription(userID, now)
	}

	sub.IsPremium = isPremium
	sub.Plan = plan
	sub.TrialEndDate = trialEndDate
	if isPremium {
		sub.DailyMessageLimit = s.cfg.PremiumDailyLimit
	} else {
		sub.DailyMessageLimit = s.cfg.FreeDailyLimit
	}
	sub.UpdatedAt = now

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.invalidate(ctx, userID)

	s.logger.Info("Subscription updated",
		zap.String("userId", userID),
		zap.Bool("premium", isPremium),
		zap.String("plan", plan))

	return resolveSubscription(sub, now, s.cfg), nil
}

// ConsumeMessage charges one message against the daily allowance and
// returns how many remain. Premium users are never charged. Returns
// ErrMessageLimitReached when the allowance is used up.
func (s *SubscriptionService) ConsumeMessage(ctx context.Context, userID string) (remaining int, premium bool, err error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	if sub.IsPremium {
		return 0, true, nil
	}

	today := s.now().Format("2006-01-02")
	if sub.LastResetDate == today && sub.DailyMessageCount >= sub.DailyMessageLimit {
		return 0, false, ErrMessageLimitReached
	}

	// Ensure a row exists before the atomic increment for users who
	// never touched the subscription endpoints.
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = s.now()
		if err := s.repo.Upsert(ctx, sub); err != nil {
			return 0, false, fmt.Errorf("failed to initialize subscription: %w", err)
		}
	}

	updated, err := s.repo.IncrementDailyCount(ctx, userID, today)
	if err != nil {
		return 0, false, fmt.Errorf("failed to update message counter: %w", err)
	}

	s.invalidate(ctx, userID)

	if updated.DailyMessageCount > updated.DailyMessageLimit {
		return 0, false, ErrMessageLimitReached
	}

	return updated.DailyMessageLimit - updated.DailyMessageCount, false, nil
}

// Delete removes the user's subscription row and cached copy.
func (s *SubscriptionService) Delete(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *SubscriptionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.SubscriptionKey(userID)); err != nil {
		s.logger.Warn("Subscription cache invalidation failed", zap.Error(err))
	}
}

func (s *SubscriptionService) defaultSubscription(userID string, now time.Time) *model.Subscription {
	return &model.Subscription{
		UserID:            userID,
		IsPremium:         false,
		Plan:              "free",
		DailyMessageCount: 0,
		DailyMessageLimit: s.cfg.FreeDailyLimit,
		LastResetDate:     now.Format("2006-01-02"),
	}
}

// resolveSubscription applies the two time-dependent rules without
// touching storage: an expired trial collapses to free, and a counter
// from an earlier day reads as zero.
func resolveSubscription(sub *model.Subscription, now time.Time, cfg config.SubscriptionConfig) *model.Subscription {
	resolved := *sub

	if resolved.IsPremium && resolved.TrialEndDate != nil && now.After(*resolved.TrialEndDate) {
		resolved.IsPremium = false
		resolved.Plan = "free"
		resolved.DailyMessageLimit = cfg.FreeDailyLimit
	}

	if resolved.LastResetDate != now.Format("2006-01-02") {
		resolved.DailyMessageCount = 0
	}

	return &resolved
}

// RemainingMessages reports how many free messages are left today. Nil
// means unlimited.
func RemainingMessages(sub *model.Subscription) *int {
	if sub.IsPremium {
		return nil
	}
	remaining := sub.DailyMessageLimit - sub.DailyMessageCount
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
