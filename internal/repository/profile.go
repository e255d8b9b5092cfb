package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// ProfileRepository manages health profile data
type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces the user's health profile
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.HealthProfile) error {
	query := `
		INSERT INTO health_profiles (
			user_id, birth_date, gender, important_diseases, medications,
			had_surgery, surgeries, surgery_detail,
			height, weight, blood_type, allergies,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			birth_date = EXCLUDED.birth_date,
			gender = EXCLUDED.gender,
			important_diseases = EXCLUDED.important_diseases,
			medications = EXCLUDED.medications,
			had_surgery = EXCLUDED.had_surgery,
			surgeries = EXCLUDED.surgeries,
			surgery_detail = EXCLUDED.surgery_detail,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			blood_type = EXCLUDED.blood_type,
			allergies = EXCLUDED.allergies,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.BirthDate,
		profile.Gender,
		profile.ImportantDiseases,
		profile.Medications,
		profile.HadSurgery,
		profile.Surgeries,
		profile.SurgeryDetail,
		profile.Height,
		profile.Weight,
		profile.BloodType,
		profile.Allergies,
	)

	if err != nil {
		r.logger.Error("failed to upsert health profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID),
		)
		return fmt.Errorf("failed to upsert health profile: %w", err)
	}

	return nil
}

// FindByUserID retrieves a user's health profile
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.HealthProfile, error) {
	query := `
		SELECT
			user_id, birth_date, gender, important_diseases, medications,
			had_surgery, surgeries, surgery_detail,
			height, weight, blood_type, allergies,
			created_at, updated_at
		FROM health_profiles
		WHERE user_id = $1
	`

	var profile model.HealthProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.BirthDate,
		&profile.Gender,
		&profile.ImportantDiseases,
		&profile.Medications,
		&profile.HadSurgery,
		&profile.Surgeries,
		&profile.SurgeryDetail,
		&profile.Height,
		&profile.Weight,
		&profile.BloodType,
		&profile.Allergies,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find health profile", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find health profile: %w", err)
	}

	return &profile, nil
}

// Delete removes the user's health profile
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM health_profiles WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete health profile", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete health profile: %w", err)
	}

	return nil
}
