package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
)

// MetricsSummary aggregates a user's activity over a trailing window.
type MetricsSummary struct {
	Days          int
	MessageCount  int
	BySpecialty   map[string]int
	AdherenceRate float64
}

// MetricsService computes per-user usage summaries for the app's
// health overview screen.
type MetricsService struct {
	chats     *repository.ChatRepository
	reminders *ReminderService
	logger    *zap.Logger
	now       func() time.Time
}

func NewMetricsService(chats *repository.ChatRepository, reminders *ReminderService, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		chats:     chats,
		reminders: reminders,
		logger:    logger,
		now:       time.Now,
	}
}

// Summary returns message counts and adherence over the trailing N
// days.
func (s *MetricsService) Summary(ctx context.Context, userID string, days int) (*MetricsSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if days <= 0 {
		days = 7
	}

	since := s.now().AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	messageCount, err := s.chats.CountByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	bySpecialty, err := s.chats.CountBySpecialty(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages by specialty: %w", err)
	}

	adherence, err := s.reminders.Adherence(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	return &MetricsSummary{
		Days:          days,
		MessageCount:  messageCount,
		BySpecialty:   bySpecialty,
		AdherenceRate: adherence.Rate,
	}, nil
}
