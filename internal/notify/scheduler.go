package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/i18n"
)

// DueReminder is a reminder slot that has reached its scheduled time.
type DueReminder struct {
	UserID         string
	MedicationID   string
	MedicationName string
	Dosage         string
	Time           string
	SlotIndex      int
	Language       string
}

// ReminderSource finds reminder slots due at a given date and clock time.
type ReminderSource interface {
	FindDue(ctx context.Context, date, clock string) ([]DueReminder, error)
}

// Scheduler polls for due reminders once a minute and publishes a
// notification for each.
type Scheduler struct {
	source    ReminderSource
	publisher NotificationPublisher
	logger    *zap.Logger
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(source ReminderSource, publisher NotificationPublisher, logger *zap.Logger) *Scheduler {
	return &Scheduler{source: source, publisher: publisher, logger: logger}
}

// Run blocks until ctx is cancelled, checking for due reminders at the
// start of every minute.
func (s *Scheduler) Run(ctx context.Context) {
	s.tick(ctx, time.Now())

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	due, err := s.source.FindDue(ctx, date, clock)
	if err != nil {
		s.logger.Error("failed to find due reminders", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("publishing due reminders",
		zap.Int("count", len(due)),
		zap.String("time", clock),
	)

	for _, r := range due {
		notification := ReminderNotification{
			UserID:         r.UserID,
			MedicationID:   r.MedicationID,
			MedicationName: r.MedicationName,
			Dosage:         r.Dosage,
			Time:           r.Time,
			SlotIndex:      r.SlotIndex,
			Title:          i18n.T(r.Language, "reminder.notification.title"),
			Body:           fmt.Sprintf(i18n.T(r.Language, "reminder.notification.body"), r.MedicationName, r.Dosage),
		}
		if err := s.publisher.Publish(notification); err != nil {
			s.logger.Error("failed to publish reminder notification",
				zap.String("user_id", r.UserID),
				zap.String("medication_id", r.MedicationID),
				zap.Error(err),
			)
		}
	}
}
