package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// UserRepository manages account data
type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user record
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, name, email, password_hash, user_type,
			social_provider, social_subject, language,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Type,
		user.SocialProvider,
		user.SocialSubject,
		user.Language,
	)

	if err != nil {
		r.logger.Error("failed to create user",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID, excluding deleted accounts
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT
			id, name, email, password_hash, user_type,
			social_provider, social_subject, photo_path, language,
			created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var user model.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Type,
		&user.SocialProvider,
		&user.SocialSubject,
		&user.PhotoPath,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByEmail retrieves a user by email, excluding deleted accounts
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT
			id, name, email, password_hash, user_type,
			social_provider, social_subject, photo_path, language,
			created_at, updated_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	var user model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Type,
		&user.SocialProvider,
		&user.SocialSubject,
		&user.PhotoPath,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// FindBySocial retrieves a user by provider and provider subject ID
func (r *UserRepository) FindBySocial(ctx context.Context, provider, subject string) (*model.User, error) {
	query := `
		SELECT
			id, name, email, password_hash, user_type,
			social_provider, social_subject, photo_path, language,
			created_at, updated_at
		FROM users
		WHERE social_provider = $1 AND social_subject = $2 AND deleted_at IS NULL
	`

	var user model.User
	err := r.db.QueryRow(ctx, query, provider, subject).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Type,
		&user.SocialProvider,
		&user.SocialSubject,
		&user.PhotoPath,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find social user", zap.Error(err))
		return nil, fmt.Errorf("failed to find social user: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		r.logger.Error("failed to update password", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePhotoPath stores the blob path of the user's profile photo
func (r *UserRepository) UpdatePhotoPath(ctx context.Context, userID, photoPath string) error {
	query := `UPDATE users SET photo_path = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, userID, photoPath)
	if err != nil {
		r.logger.Error("failed to update photo path", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to update photo path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SoftDelete anonymizes the account and marks it deleted. Personal fields
// are blanked so the row satisfies erasure requests while foreign keys
// stay valid for aggregate statistics.
func (r *UserRepository) SoftDelete(ctx context.Context, userID string) error {
	query := `
		UPDATE users SET
			name = 'Deleted User',
			email = 'deleted-' || id || '@invalid',
			password_hash = '',
			social_provider = NULL,
			social_subject = NULL,
			photo_path = NULL,
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveResetCode stores a password reset code with its expiry, replacing
// any previous code for the user.
func (r *UserRepository) SaveResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_codes (user_id, code, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			code = EXCLUDED.code,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, userID, code, expiresAt)
	if err != nil {
		r.logger.Error("failed to save reset code", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to save reset code: %w", err)
	}

	return nil
}

// ConsumeResetCode validates a reset code and deletes it if valid.
func (r *UserRepository) ConsumeResetCode(ctx context.Context, userID, code string) error {
	query := `
		DELETE FROM password_reset_codes
		WHERE user_id = $1 AND code = $2 AND expires_at > NOW()
	`

	tag, err := r.db.Exec(ctx, query, userID, code)
	if err != nil {
		r.logger.Error("failed to consume reset code", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to consume reset code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invalid or expired reset code")
	}

	return nil
}
