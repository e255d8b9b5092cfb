package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationRead   OperationType = "READ"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceUser          ResourceType = "user"
	ResourceHealthProfile ResourceType = "health_profile"
	ResourceChatMessage   ResourceType = "chat_message"
	ResourceAnalysisImage ResourceType = "analysis_image"
	ResourceMedication    ResourceType = "medication"
	ResourceReminder      ResourceType = "reminder"
	ResourceSubscription  ResourceType = "subscription"
	ResourceSOSEvent      ResourceType = "sos_event"
	ResourceEmergencyInfo ResourceType = "emergency_info"
)

// Entry represents an audit log entry
type Entry struct {
	ID             string
	UserID         string
	OperationType  OperationType
	ResourceType   ResourceType
	ResourceID     string
	Timestamp      time.Time
	IPAddress      string
	UserAgent      string
	AdditionalData map[string]interface{}
}

// Logger writes audit entries to the database and the structured log.
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{db: db, logger: logger}
}

// Log creates an audit log entry
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.logger.Info("Audit log entry",
		zap.String("user_id", entry.UserID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	query := `
		INSERT INTO audit_logs (
			user_id, operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := l.db.Exec(ctx, query,
		entry.UserID,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.AdditionalData,
	)
	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return err
	}

	return nil
}

// LogCreate logs a CREATE operation
func (l *Logger) LogCreate(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationCreate,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogUpdate logs an UPDATE operation
func (l *Logger) LogUpdate(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationUpdate,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogDelete logs a DELETE operation
func (l *Logger) LogDelete(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationDelete,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// GetUserLogs retrieves the most recent audit entries for a user.
func (l *Logger) GetUserLogs(ctx context.Context, userID string, limit int) ([]Entry, error) {
	query := `
		SELECT user_id, operation_type, resource_type, resource_id,
		       timestamp, ip_address, user_agent
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := l.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.UserID,
			&e.OperationType,
			&e.ResourceType,
			&e.ResourceID,
			&e.Timestamp,
			&e.IPAddress,
			&e.UserAgent,
		)
		if err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		logs = append(logs, e)
	}

	return logs, nil
}
