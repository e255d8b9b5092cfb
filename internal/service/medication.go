package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/pkg/model"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// defaultFrequencyTimes maps a frequency to its suggested intake times.
var defaultFrequencyTimes = map[string][]string{
	"1x": {"09:00"},
	"2x": {"09:00", "21:00"},
	"3x": {"08:00", "14:00", "20:00"},
}

// TimesForFrequency returns the default intake times for a frequency,
// or nil when the frequency has no preset.
func TimesForFrequency(frequency string) []string {
	preset, ok := defaultFrequencyTimes[frequency]
	if !ok {
		return nil
	}
	out := make([]string, len(preset))
	copy(out, preset)
	return out
}

// MedicationService manages the medication list and keeps the reminder
// snapshot in step with it.
type MedicationService struct {
	repo      *repository.MedicationRepository
	reminders *ReminderService
	logger    *zap.Logger
}

func NewMedicationService(repo *repository.MedicationRepository, reminders *ReminderService, logger *zap.Logger) *MedicationService {
	return &MedicationService{
		repo:      repo,
		reminders: reminders,
		logger:    logger,
	}
}

// MedicationInput carries the writable fields of a medication.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	Times     []string
	StartDate time.Time
	EndDate   *time.Time
	Notes     *string
	Color     string
	Icon      string
	Active    *bool
}

// Create adds a medication and writes today's reminder rows for it.
// When no times are given the frequency preset fills them in.
func (s *MedicationService) Create(ctx context.Context, userID string, input MedicationInput) (*model.Medication, error) {
	if userID == "" || input.Name == "" {
		return nil, fmt.Errorf("user ID and medication name are required")
	}

	times := input.Times
	if len(times) == 0 {
		times = TimesForFrequency(input.Frequency)
	}
	times, err := normalizeTimes(times)
	if err != nil {
		return nil, err
	}

	med := &model.Medication{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      input.Name,
		Dosage:    input.Dosage,
		Frequency: input.Frequency,
		Times:     times,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     input.Notes,
		Color:     defaultString(input.Color, "#4A90D9"),
		Icon:      defaultString(input.Icon, "pill"),
		SlotCount: len(times),
		Active:    true,
	}
	if med.StartDate.IsZero() {
		med.StartDate = time.Now()
	}

	if err := s.repo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	if err := s.reminders.SyncMedication(ctx, med); err != nil {
		s.logger.Error("Failed to sync reminders after create",
			zap.Error(err),
			zap.String("medicationId", med.ID))
	}

	s.logger.Info("Medication created",
		zap.String("medicationId", med.ID),
		zap.Int("slots", med.SlotCount))
	return med, nil
}

// List returns all of the user's medications, newest first.
func (s *MedicationService) List(ctx context.Context, userID string) ([]model.Medication, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Get returns one medication after checking ownership.
func (s *MedicationService) Get(ctx context.Context, medicationID, userID string) (*model.Medication, error) {
	med, err := s.repo.FindByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	if med.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return med, nil
}

// Update applies the changed fields and reconciles the reminder
// snapshot. Shrinking the schedule removes the dropped unmarked slots.
func (s *MedicationService) Update(ctx context.Context, medicationID, userID string, input MedicationInput) (*model.Medication, error) {
	med, err := s.Get(ctx, medicationID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		med.Name = input.Name
	}
	if input.Dosage != "" {
		med.Dosage = input.Dosage
	}
	if input.Frequency != "" && input.Frequency != med.Frequency {
		med.Frequency = input.Frequency
		if len(input.Times) == 0 {
			if preset := TimesForFrequency(input.Frequency); preset != nil {
				med.Times = preset
			}
		}
	}
	if len(input.Times) > 0 {
		med.Times = input.Times
	}
	med.Times, err = normalizeTimes(med.Times)
	if err != nil {
		return nil, err
	}
	med.SlotCount = len(med.Times)
	if input.EndDate != nil {
		med.EndDate = input.EndDate
	}
	if input.Notes != nil {
		med.Notes = input.Notes
	}
	if input.Active != nil {
		med.Active = *input.Active
	}

	if err := s.repo.Update(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	if err := s.reminders.SyncMedication(ctx, med); err != nil {
		s.logger.Error("Failed to sync reminders after update",
			zap.Error(err),
			zap.String("medicationId", med.ID))
	}

	return med, nil
}

// Delete removes a medication and today's unmarked reminder rows for
// it. Past marked rows stay for adherence history.
func (s *MedicationService) Delete(ctx context.Context, medicationID, userID string) error {
	if _, err := s.Get(ctx, medicationID, userID); err != nil {
		return err
	}

	if err := s.reminders.RemoveMedication(ctx, medicationID); err != nil {
		s.logger.Error("Failed to remove reminders",
			zap.Error(err),
			zap.String("medicationId", medicationID))
	}

	if err := s.repo.Delete(ctx, medicationID); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	s.logger.Info("Medication deleted", zap.String("medicationId", medicationID))
	return nil
}

// normalizeTimes validates HH:MM values and sorts them chronologically.
func normalizeTimes(times []string) ([]string, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("at least one intake time is required")
	}
	out := make([]string, len(times))
	for i, t := range times {
		if !clockPattern.MatchString(t) {
			return nil, fmt.Errorf("invalid time format: %s", t)
		}
		out[i] = t
	}
	sort.Strings(out)
	return out, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
