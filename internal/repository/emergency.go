package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// EmergencyRepository manages SOS contacts, emergency info and event records
type EmergencyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewEmergencyRepository creates a new EmergencyRepository
func NewEmergencyRepository(db *pgxpool.Pool, logger *zap.Logger) *EmergencyRepository {
	return &EmergencyRepository{
		db:     db,
		logger: logger,
	}
}

// CreateContact inserts an SOS contact
func (r *EmergencyRepository) CreateContact(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (id, user_id, name, phone, relation, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Relation,
	)

	if err != nil {
		r.logger.Error("failed to create emergency contact",
			zap.Error(err),
			zap.String("user_id", contact.UserID),
		)
		return fmt.Errorf("failed to create emergency contact: %w", err)
	}

	return nil
}

// FindContactsByUserID retrieves the user's SOS contacts
func (r *EmergencyRepository) FindContactsByUserID(ctx context.Context, userID string) ([]model.EmergencyContact, error) {
	query := `
		SELECT id, user_id, name, phone, relation, created_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find emergency contacts", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find emergency contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.EmergencyContact
	for rows.Next() {
		var c model.EmergencyContact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relation, &c.CreatedAt); err != nil {
			r.logger.Error("failed to scan emergency contact", zap.Error(err))
			continue
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emergency contacts: %w", err)
	}

	return contacts, nil
}

// DeleteContact removes one SOS contact owned by the user
func (r *EmergencyRepository) DeleteContact(ctx context.Context, contactID, userID string) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, contactID, userID)
	if err != nil {
		r.logger.Error("failed to delete emergency contact", zap.Error(err), zap.String("contact_id", contactID))
		return fmt.Errorf("failed to delete emergency contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpsertInfo creates or replaces the user's emergency medical info
func (r *EmergencyRepository) UpsertInfo(ctx context.Context, info *model.EmergencyInfo) error {
	query := `
		INSERT INTO emergency_info (user_id, blood_type, allergies, conditions, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			blood_type = EXCLUDED.blood_type,
			allergies = EXCLUDED.allergies,
			conditions = EXCLUDED.conditions,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		info.UserID,
		info.BloodType,
		info.Allergies,
		info.Conditions,
		info.Notes,
	)

	if err != nil {
		r.logger.Error("failed to upsert emergency info", zap.Error(err), zap.String("user_id", info.UserID))
		return fmt.Errorf("failed to upsert emergency info: %w", err)
	}

	return nil
}

// FindInfoByUserID retrieves the user's emergency medical info
func (r *EmergencyRepository) FindInfoByUserID(ctx context.Context, userID string) (*model.EmergencyInfo, error) {
	query := `
		SELECT user_id, blood_type, allergies, conditions, notes, updated_at
		FROM emergency_info
		WHERE user_id = $1
	`

	var info model.EmergencyInfo
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&info.UserID,
		&info.BloodType,
		&info.Allergies,
		&info.Conditions,
		&info.Notes,
		&info.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to find emergency info", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find emergency info: %w", err)
	}

	return &info, nil
}

// RecordEvent stores an SOS trigger or emergency call record
func (r *EmergencyRepository) RecordEvent(ctx context.Context, event *model.SOSEvent) error {
	query := `
		INSERT INTO sos_events (id, user_id, event_type, latitude, longitude, number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Type,
		event.Latitude,
		event.Longitude,
		event.Number,
	)

	if err != nil {
		r.logger.Error("failed to record sos event",
			zap.Error(err),
			zap.String("user_id", event.UserID),
			zap.String("event_type", string(event.Type)),
		)
		return fmt.Errorf("failed to record sos event: %w", err)
	}

	return nil
}

// FindEventsByUserID retrieves the user's recent SOS events
func (r *EmergencyRepository) FindEventsByUserID(ctx context.Context, userID string, limit int) ([]model.SOSEvent, error) {
	query := `
		SELECT id, user_id, event_type, latitude, longitude, number, created_at
		FROM sos_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to find sos events", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find sos events: %w", err)
	}
	defer rows.Close()

	var events []model.SOSEvent
	for rows.Next() {
		var e model.SOSEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Latitude, &e.Longitude, &e.Number, &e.CreatedAt); err != nil {
			r.logger.Error("failed to scan sos event", zap.Error(err))
			continue
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sos events: %w", err)
	}

	return events, nil
}

// DeleteByUserID removes all emergency data of a user. Used by account deletion.
func (r *EmergencyRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for _, query := range []string{
		`DELETE FROM emergency_contacts WHERE user_id = $1`,
		`DELETE FROM emergency_info WHERE user_id = $1`,
		`DELETE FROM sos_events WHERE user_id = $1`,
	} {
		if _, err := r.db.Exec(ctx, query, userID); err != nil {
			r.logger.Error("failed to delete emergency data", zap.Error(err), zap.String("user_id", userID))
			return fmt.Errorf("failed to delete emergency data: %w", err)
		}
	}

	return nil
}
