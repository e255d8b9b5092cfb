package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/pkg/model"
)

// ReminderService maintains the per-day intake snapshot derived from the
// medication list and records taken/skipped marks against it.
type ReminderService struct {
	reminders *repository.ReminderRepository
	meds      *repository.MedicationRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewReminderService(reminders *repository.ReminderRepository, meds *repository.MedicationRepository, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		meds:      meds,
		logger:    logger,
		now:       time.Now,
	}
}

// ListForDate returns the reminders for the given date, regenerating
// today's snapshot from the active medication list first. Regeneration
// only refreshes name and time on existing rows, so marks survive it.
func (s *ReminderService) ListForDate(ctx context.Context, userID, date string) ([]model.Reminder, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	today := s.now().Format("2006-01-02")
	if date == "" {
		date = today
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date: %s", date)
	}

	if date == today {
		if err := s.regenerate(ctx, userID, date); err != nil {
			return nil, err
		}
	}

	reminders, err := s.reminders.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	return reminders, nil
}

// Take marks a reminder as taken, clearing any earlier skip.
func (s *ReminderService) Take(ctx context.Context, reminderID, userID string) error {
	if err := s.reminders.MarkTaken(ctx, reminderID, userID); err != nil {
		return err
	}
	s.logger.Info("Reminder marked taken", zap.String("reminderId", reminderID))
	return nil
}

// Skip marks a reminder as skipped with an optional reason.
func (s *ReminderService) Skip(ctx context.Context, reminderID, userID, reason string) error {
	if err := s.reminders.MarkSkipped(ctx, reminderID, userID, reason); err != nil {
		return err
	}
	s.logger.Info("Reminder marked skipped", zap.String("reminderId", reminderID))
	return nil
}

// AdherenceSummary aggregates intake over a trailing window. Days with
// no reminder rows do not count against the rate.
type AdherenceSummary struct {
	Days  int
	Taken int
	Total int
	Rate  float64
}

// Adherence computes the taken ratio over the trailing N days ending
// today.
func (s *ReminderService) Adherence(ctx context.Context, userID string, days int) (*AdherenceSummary, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	from := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	to := now.Format("2006-01-02")

	counts, err := s.reminders.AdherenceCounts(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load adherence counts: %w", err)
	}

	taken, total := sumAdherence(counts)
	summary := &AdherenceSummary{Days: days, Taken: taken, Total: total}
	if total > 0 {
		summary.Rate = float64(taken) / float64(total)
	}
	return summary, nil
}

// SyncMedication refreshes today's snapshot rows for one medication
// after a create or update. When the slot count shrank, the now
// out-of-range unmarked rows are removed.
func (s *ReminderService) SyncMedication(ctx context.Context, med *model.Medication) error {
	today := s.now().Format("2006-01-02")

	if !medicationActiveOn(med, today) {
		return s.reminders.DeleteByMedication(ctx, med.ID, today)
	}

	rows := buildDaySnapshot(med, today)
	if err := s.reminders.UpsertSnapshot(ctx, rows); err != nil {
		return fmt.Errorf("failed to write reminder snapshot: %w", err)
	}

	if err := s.reminders.DeleteSlotsFrom(ctx, med.ID, today, med.SlotCount); err != nil {
		return fmt.Errorf("failed to trim reminder slots: %w", err)
	}
	return nil
}

// RemoveMedication drops today's unmarked snapshot rows after a
// medication was deleted. Historical marks stay for adherence.
func (s *ReminderService) RemoveMedication(ctx context.Context, medicationID string) error {
	today := s.now().Format("2006-01-02")
	return s.reminders.DeleteByMedication(ctx, medicationID, today)
}

func (s *ReminderService) regenerate(ctx context.Context, userID, date string) error {
	meds, err := s.meds.FindActiveByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load medications: %w", err)
	}

	var rows []model.Reminder
	for i := range meds {
		if !medicationActiveOn(&meds[i], date) {
			continue
		}
		rows = append(rows, buildDaySnapshot(&meds[i], date)...)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.reminders.UpsertSnapshot(ctx, rows); err != nil {
		return fmt.Errorf("failed to write reminder snapshot: %w", err)
	}
	return nil
}

// buildDaySnapshot expands a medication into one reminder row per
// scheduled time, ordered by time then slot.
func buildDaySnapshot(med *model.Medication, date string) []model.Reminder {
	count := med.SlotCount
	if count > len(med.Times) {
		count = len(med.Times)
	}

	rows := make([]model.Reminder, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, model.Reminder{
			ID:             uuid.New().String(),
			UserID:         med.UserID,
			MedicationID:   med.ID,
			MedicationName: med.Name,
			Date:           date,
			Time:           med.Times[i],
			SlotIndex:      i,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Time != rows[j].Time {
			return rows[i].Time < rows[j].Time
		}
		return rows[i].SlotIndex < rows[j].SlotIndex
	})
	return rows
}

// medicationActiveOn reports whether a medication is scheduled on the
// given date.
func medicationActiveOn(med *model.Medication, date string) bool {
	if !med.Active {
		return false
	}
	if med.StartDate.Format("2006-01-02") > date {
		return false
	}
	if med.EndDate != nil && med.EndDate.Format("2006-01-02") < date {
		return false
	}
	return true
}

func sumAdherence(counts map[string][2]int) (taken, total int) {
	for _, c := range counts {
		taken += c[0]
		total += c[1]
	}
	return taken, total
}
