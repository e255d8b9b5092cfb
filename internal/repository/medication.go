package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// MedicationRepository manages medication data
type MedicationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewMedicationRepository creates a new MedicationRepository
func NewMedicationRepository(db *pgxpool.Pool, logger *zap.Logger) *MedicationRepository {
	return &MedicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new medication record
func (r *MedicationRepository) Create(ctx context.Context, med *model.Medication) error {
	query := `
		INSERT INTO medications (
			id, user_id, name, dosage, frequency, times,
			start_date, end_date, notes, color, icon,
			slot_count, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		med.ID,
		med.UserID,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.Times,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.Color,
		med.Icon,
		med.SlotCount,
		med.Active,
	)

	if err != nil {
		r.logger.Error("failed to create medication",
			zap.Error(err),
			zap.String("medication_id", med.ID),
			zap.String("user_id", med.UserID),
		)
		return fmt.Errorf("failed to create medication: %w", err)
	}

	return nil
}

// FindByUserID retrieves all medications for a user, sorted by start date
func (r *MedicationRepository) FindByUserID(ctx context.Context, userID string) ([]model.Medication, error) {
	query := `
		SELECT
			id, user_id, name, dosage, frequency, times,
			start_date, end_date, notes, color, icon,
			slot_count, active, created_at, updated_at
		FROM medications
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find medications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find medications: %w", err)
	}
	defer rows.Close()

	var medications []model.Medication
	for rows.Next() {
		var med model.Medication
		err := rows.Scan(
			&med.ID,
			&med.UserID,
			&med.Name,
			&med.Dosage,
			&med.Frequency,
			&med.Times,
			&med.StartDate,
			&med.EndDate,
			&med.Notes,
			&med.Color,
			&med.Icon,
			&med.SlotCount,
			&med.Active,
			&med.CreatedAt,
			&med.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan medication", zap.Error(err))
			continue
		}
		medications = append(medications, med)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating medications", zap.Error(err))
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return medications, nil
}

// FindActiveByUserID retrieves the user's active medications
func (r *MedicationRepository) FindActiveByUserID(ctx context.Context, userID string) ([]model.Medication, error) {
	query := `
		SELECT
			id, user_id, name, dosage, frequency, times,
			start_date, end_date, notes, color, icon,
			slot_count, active, created_at, updated_at
		FROM medications
		WHERE user_id = $1 AND active = true
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find active medications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find active medications: %w", err)
	}
	defer rows.Close()

	var medications []model.Medication
	for rows.Next() {
		var med model.Medication
		err := rows.Scan(
			&med.ID,
			&med.UserID,
			&med.Name,
			&med.Dosage,
			&med.Frequency,
			&med.Times,
			&med.StartDate,
			&med.EndDate,
			&med.Notes,
			&med.Color,
			&med.Icon,
			&med.SlotCount,
			&med.Active,
			&med.CreatedAt,
			&med.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan medication", zap.Error(err))
			continue
		}
		medications = append(medications, med)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating medications", zap.Error(err))
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return medications, nil
}

// FindByID retrieves a medication by ID
func (r *MedicationRepository) FindByID(ctx context.Context, medicationID string) (*model.Medication, error) {
	query := `
		SELECT
			id, user_id, name, dosage, frequency, times,
			start_date, end_date, notes, color, icon,
			slot_count, active, created_at, updated_at
		FROM medications
		WHERE id = $1
	`

	var med model.Medication
	err := r.db.QueryRow(ctx, query, medicationID).Scan(
		&med.ID,
		&med.UserID,
		&med.Name,
		&med.Dosage,
		&med.Frequency,
		&med.Times,
		&med.StartDate,
		&med.EndDate,
		&med.Notes,
		&med.Color,
		&med.Icon,
		&med.SlotCount,
		&med.Active,
		&med.CreatedAt,
		&med.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find medication", zap.Error(err), zap.String("medication_id", medicationID))
		return nil, fmt.Errorf("failed to find medication: %w", err)
	}

	return &med, nil
}

// Update persists changes to a medication record
func (r *MedicationRepository) Update(ctx context.Context, med *model.Medication) error {
	query := `
		UPDATE medications SET
			name = $2,
			dosage = $3,
			frequency = $4,
			times = $5,
			end_date = $6,
			notes = $7,
			slot_count = $8,
			active = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		med.ID,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.Times,
		med.EndDate,
		med.Notes,
		med.SlotCount,
		med.Active,
	)

	if err != nil {
		r.logger.Error("failed to update medication",
			zap.Error(err),
			zap.String("medication_id", med.ID),
		)
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a medication record
func (r *MedicationRepository) Delete(ctx context.Context, medicationID string) error {
	query := `DELETE FROM medications WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, medicationID)
	if err != nil {
		r.logger.Error("failed to delete medication", zap.Error(err), zap.String("medication_id", medicationID))
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByUserID removes all medications of a user. Used by account deletion.
func (r *MedicationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM medications WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete medications", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete medications: %w", err)
	}

	return nil
}
