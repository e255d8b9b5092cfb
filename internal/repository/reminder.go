package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/notify"
	"github.com/saglikasistani/backend/pkg/model"
)

// ReminderRepository manages daily reminder snapshots and adherence marks
type ReminderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *pgxpool.Pool, logger *zap.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertSnapshot inserts the generated reminder rows for a date. Rows that
// already exist keep their taken/skipped marks untouched.
func (r *ReminderRepository) UpsertSnapshot(ctx context.Context, reminders []model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, user_id, medication_id, medication_name,
			date, time, slot_index, taken, skipped
		) VALUES ($1, $2, $3, $4, $5, $6, $7, false, false)
		ON CONFLICT (medication_id, date, slot_index) DO UPDATE SET
			time = EXCLUDED.time,
			medication_name = EXCLUDED.medication_name
	`

	for _, rem := range reminders {
		_, err := r.db.Exec(ctx, query,
			rem.ID,
			rem.UserID,
			rem.MedicationID,
			rem.MedicationName,
			rem.Date,
			rem.Time,
			rem.SlotIndex,
		)
		if err != nil {
			r.logger.Error("failed to upsert reminder",
				zap.Error(err),
				zap.String("medication_id", rem.MedicationID),
				zap.String("date", rem.Date),
				zap.Int("slot_index", rem.SlotIndex),
			)
			return fmt.Errorf("failed to upsert reminder: %w", err)
		}
	}

	return nil
}

// FindByUserAndDate retrieves the user's reminders for a date, sorted by
// clock time then slot index.
func (r *ReminderRepository) FindByUserAndDate(ctx context.Context, userID, date string) ([]model.Reminder, error) {
	query := `
		SELECT id, user_id, medication_id, medication_name,
		       date, time, slot_index, taken, taken_at, skipped, skipped_reason
		FROM reminders
		WHERE user_id = $1 AND date = $2
		ORDER BY time ASC, slot_index ASC
	`

	rows, err := r.db.Query(ctx, query, userID, date)
	if err != nil {
		r.logger.Error("failed to find reminders", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		var rem model.Reminder
		err := rows.Scan(
			&rem.ID,
			&rem.UserID,
			&rem.MedicationID,
			&rem.MedicationName,
			&rem.Date,
			&rem.Time,
			&rem.SlotIndex,
			&rem.Taken,
			&rem.TakenAt,
			&rem.Skipped,
			&rem.SkippedReason,
		)
		if err != nil {
			r.logger.Error("failed to scan reminder", zap.Error(err))
			continue
		}
		reminders = append(reminders, rem)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating reminders", zap.Error(err))
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}

// MarkTaken records that the user took the dose. Clears any skip mark.
func (r *ReminderRepository) MarkTaken(ctx context.Context, reminderID, userID string) error {
	query := `
		UPDATE reminders SET
			taken = true, taken_at = NOW(),
			skipped = false, skipped_reason = NULL
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, reminderID, userID)
	if err != nil {
		r.logger.Error("failed to mark reminder taken", zap.Error(err), zap.String("reminder_id", reminderID))
		return fmt.Errorf("failed to mark reminder taken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkSkipped records that the user skipped the dose. Clears any taken mark.
func (r *ReminderRepository) MarkSkipped(ctx context.Context, reminderID, userID, reason string) error {
	query := `
		UPDATE reminders SET
			skipped = true, skipped_reason = $3,
			taken = false, taken_at = NULL
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, reminderID, userID, reason)
	if err != nil {
		r.logger.Error("failed to mark reminder skipped", zap.Error(err), zap.String("reminder_id", reminderID))
		return fmt.Errorf("failed to mark reminder skipped: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AdherenceCounts returns per-day taken and total counts for the user in
// the inclusive date range. Days without any reminder rows are absent.
func (r *ReminderRepository) AdherenceCounts(ctx context.Context, userID, fromDate, toDate string) (map[string][2]int, error) {
	query := `
		SELECT date, COUNT(*) FILTER (WHERE taken), COUNT(*)
		FROM reminders
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY date
	`

	rows, err := r.db.Query(ctx, query, userID, fromDate, toDate)
	if err != nil {
		r.logger.Error("failed to query adherence", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to query adherence: %w", err)
	}
	defer rows.Close()

	counts := make(map[string][2]int)
	for rows.Next() {
		var date string
		var taken, total int
		if err := rows.Scan(&date, &taken, &total); err != nil {
			r.logger.Error("failed to scan adherence row", zap.Error(err))
			continue
		}
		counts[date] = [2]int{taken, total}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adherence rows: %w", err)
	}

	return counts, nil
}

// DeleteSlotsFrom removes snapshot rows of a medication on a date whose
// slot index is at or past the new slot count. Used when a schedule shrinks.
func (r *ReminderRepository) DeleteSlotsFrom(ctx context.Context, medicationID, date string, fromSlot int) error {
	query := `
		DELETE FROM reminders
		WHERE medication_id = $1 AND date = $2 AND slot_index >= $3
		  AND taken = false AND skipped = false
	`

	_, err := r.db.Exec(ctx, query, medicationID, date, fromSlot)
	if err != nil {
		r.logger.Error("failed to delete reminder slots",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		return fmt.Errorf("failed to delete reminder slots: %w", err)
	}

	return nil
}

// DeleteByMedication removes snapshot rows of a medication on a date. Used
// when a medication is deactivated or removed.
func (r *ReminderRepository) DeleteByMedication(ctx context.Context, medicationID, date string) error {
	query := `
		DELETE FROM reminders
		WHERE medication_id = $1 AND date = $2 AND taken = false AND skipped = false
	`

	_, err := r.db.Exec(ctx, query, medicationID, date)
	if err != nil {
		r.logger.Error("failed to delete medication reminders",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		return fmt.Errorf("failed to delete medication reminders: %w", err)
	}

	return nil
}

// DeleteByUserID removes all reminder rows of a user. Used by account deletion.
func (r *ReminderRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM reminders WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete reminders", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete reminders: %w", err)
	}

	return nil
}

// FindDue returns reminder slots scheduled at the given date and clock
// time that are still unmarked, joined with dosage and user language for
// notification rendering.
func (r *ReminderRepository) FindDue(ctx context.Context, date, clock string) ([]notify.DueReminder, error) {
	query := `
		SELECT rem.user_id, rem.medication_id, rem.medication_name,
		       med.dosage, rem.time, rem.slot_index, u.language
		FROM reminders rem
		JOIN medications med ON med.id = rem.medication_id
		JOIN users u ON u.id = rem.user_id
		WHERE rem.date = $1 AND rem.time = $2
		  AND rem.taken = false AND rem.skipped = false
		  AND u.deleted_at IS NULL
	`

	rows, err := r.db.Query(ctx, query, date, clock)
	if err != nil {
		r.logger.Error("failed to find due reminders", zap.Error(err))
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	defer rows.Close()

	var due []notify.DueReminder
	for rows.Next() {
		var d notify.DueReminder
		if err := rows.Scan(&d.UserID, &d.MedicationID, &d.MedicationName, &d.Dosage, &d.Time, &d.SlotIndex, &d.Language); err != nil {
			r.logger.Error("failed to scan due reminder", zap.Error(err))
			continue
		}
		due = append(due, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due reminders: %w", err)
	}

	return due, nil
}

// Ensure ReminderRepository satisfies the scheduler's source interface.
var _ notify.ReminderSource = (*ReminderRepository)(nil)
