package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// ChatRepository manages conversation history
type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a chat message
func (r *ChatRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			id, user_id, specialty, role, content,
			image_path, analysis, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Specialty,
		msg.Role,
		msg.Content,
		msg.ImagePath,
		msg.Analysis,
	)

	if err != nil {
		r.logger.Error("failed to insert chat message",
			zap.Error(err),
			zap.String("message_id", msg.ID),
			zap.String("user_id", msg.UserID),
		)
		return fmt.Errorf("failed to insert chat message: %w", err)
	}

	return nil
}

// Exists reports whether a message with this ID is already stored. Used
// for idempotent retries from the client.
func (r *ChatRepository) Exists(ctx context.Context, messageID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chat_messages WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, messageID).Scan(&exists); err != nil {
		r.logger.Error("failed to check message existence", zap.Error(err), zap.String("message_id", messageID))
		return false, fmt.Errorf("failed to check message existence: %w", err)
	}

	return exists, nil
}

// FindByUser retrieves the user's full history, oldest first
func (r *ChatRepository) FindByUser(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, specialty, role, content, image_path, analysis, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	return r.queryMessages(ctx, query, userID, limit)
}

// FindByUserAndSpecialty retrieves one specialty conversation, oldest first
func (r *ChatRepository) FindByUserAndSpecialty(ctx context.Context, userID, specialty string, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, specialty, role, content, image_path, analysis, created_at
		FROM chat_messages
		WHERE user_id = $1 AND specialty = $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	return r.queryMessages(ctx, query, userID, specialty, limit)
}

func (r *ChatRepository) queryMessages(ctx context.Context, query string, args ...any) ([]model.ChatMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query chat messages", zap.Error(err))
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Specialty,
			&msg.Role,
			&msg.Content,
			&msg.ImagePath,
			&msg.Analysis,
			&msg.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan chat message", zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating chat messages", zap.Error(err))
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}

// CountByUserSince counts the user's own messages created on or after a date
func (r *ChatRepository) CountByUserSince(ctx context.Context, userID string, sinceDate string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_messages
		WHERE user_id = $1 AND role = 'user' AND created_at::date >= $2::date
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, sinceDate).Scan(&count); err != nil {
		r.logger.Error("failed to count chat messages", zap.Error(err), zap.String("user_id", userID))
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}

	return count, nil
}

// CountBySpecialty returns the user's message counts per specialty
func (r *ChatRepository) CountBySpecialty(ctx context.Context, userID string, sinceDate string) (map[string]int, error) {
	query := `
		SELECT specialty, COUNT(*)
		FROM chat_messages
		WHERE user_id = $1 AND role = 'user' AND created_at::date >= $2::date
		GROUP BY specialty
	`

	rows, err := r.db.Query(ctx, query, userID, sinceDate)
	if err != nil {
		r.logger.Error("failed to count by specialty", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to count by specialty: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var specialty string
		var count int
		if err := rows.Scan(&specialty, &count); err != nil {
			r.logger.Error("failed to scan specialty count", zap.Error(err))
			continue
		}
		counts[specialty] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating specialty counts: %w", err)
	}

	return counts, nil
}

// DeleteByUserID removes all chat history of a user. Used by account deletion.
func (r *ChatRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM chat_messages WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete chat messages", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}

	return nil
}
