package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// SessionRepository manages onboarding session state
type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new onboarding session
func (r *SessionRepository) Create(ctx context.Context, session *model.OnboardingSession) error {
	query := `
		INSERT INTO onboarding_sessions (
			id, user_id, current_step, answers, status,
			started_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.CurrentStep,
		session.Answers,
		session.Status,
	)

	if err != nil {
		r.logger.Error("failed to create onboarding session",
			zap.Error(err),
			zap.String("session_id", session.ID),
			zap.String("user_id", session.UserID),
		)
		return fmt.Errorf("failed to create onboarding session: %w", err)
	}

	return nil
}

// FindByID retrieves a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, sessionID string) (*model.OnboardingSession, error) {
	query := `
		SELECT id, user_id, current_step, answers, status,
		       started_at, completed_at, updated_at
		FROM onboarding_sessions
		WHERE id = $1
	`

	var session model.OnboardingSession
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.CurrentStep,
		&session.Answers,
		&session.Status,
		&session.StartedAt,
		&session.CompletedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find onboarding session", zap.Error(err), zap.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to find onboarding session: %w", err)
	}

	return &session, nil
}

// FindActiveByUserID retrieves the user's active session, if any
func (r *SessionRepository) FindActiveByUserID(ctx context.Context, userID string) (*model.OnboardingSession, error) {
	query := `
		SELECT id, user_id, current_step, answers, status,
		       started_at, completed_at, updated_at
		FROM onboarding_sessions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`

	var session model.OnboardingSession
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.CurrentStep,
		&session.Answers,
		&session.Status,
		&session.StartedAt,
		&session.CompletedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find active session", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}

	return &session, nil
}

// Update persists the session's current step and answers
func (r *SessionRepository) Update(ctx context.Context, session *model.OnboardingSession) error {
	query := `
		UPDATE onboarding_sessions SET
			current_step = $2,
			answers = $3,
			status = $4,
			completed_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		session.ID,
		session.CurrentStep,
		session.Answers,
		session.Status,
		session.CompletedAt,
	)

	if err != nil {
		r.logger.Error("failed to update onboarding session",
			zap.Error(err),
			zap.String("session_id", session.ID),
		)
		return fmt.Errorf("failed to update onboarding session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AbandonActive marks any active session of the user as abandoned. Used
// when a new session is started so at most one session stays active.
func (r *SessionRepository) AbandonActive(ctx context.Context, userID string) error {
	query := `
		UPDATE onboarding_sessions SET status = 'abandoned', updated_at = NOW()
		WHERE user_id = $1 AND status = 'active'
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to abandon sessions", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to abandon sessions: %w", err)
	}

	return nil
}

// DeleteByUserID removes all sessions of a user. Used by account deletion.
func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM onboarding_sessions WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete sessions", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	return nil
}
