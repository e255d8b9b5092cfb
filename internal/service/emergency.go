package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/pkg/model"
)

const maxEmergencyContacts = 5

// EmergencyService manages SOS contacts, the emergency info card and
// the event log of SOS triggers and emergency calls.
type EmergencyService struct {
	repo   *repository.EmergencyRepository
	logger *zap.Logger
}

func NewEmergencyService(repo *repository.EmergencyRepository, logger *zap.Logger) *EmergencyService {
	return &EmergencyService{repo: repo, logger: logger}
}

// AddContact saves an SOS contact. The list is capped so the SOS screen
// stays usable.
func (s *EmergencyService) AddContact(ctx context.Context, userID, name, phone, relation string) (*model.EmergencyContact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if userID == "" || name == "" || phone == "" {
		return nil, fmt.Errorf("user ID, name and phone are required")
	}

	existing, err := s.repo.FindContactsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	if len(existing) >= maxEmergencyContacts {
		return nil, fmt.Errorf("at most %d emergency contacts are allowed", maxEmergencyContacts)
	}

	contact := &model.EmergencyContact{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     name,
		Phone:    phone,
		Relation: strings.TrimSpace(relation),
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	s.logger.Info("Emergency contact added", zap.String("userId", userID))
	return contact, nil
}

// Contacts lists the user's SOS contacts.
func (s *EmergencyService) Contacts(ctx context.Context, userID string) ([]model.EmergencyContact, error) {
	return s.repo.FindContactsByUserID(ctx, userID)
}

// RemoveContact deletes one contact after an ownership check.
func (s *EmergencyService) RemoveContact(ctx context.Context, contactID, userID string) error {
	return s.repo.DeleteContact(ctx, contactID, userID)
}

// SaveInfo stores the medical info shown on the SOS screen.
func (s *EmergencyService) SaveInfo(ctx context.Context, userID string, info model.EmergencyInfo) (*model.EmergencyInfo, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	info.UserID = userID
	info.UpdatedAt = time.Now()

	if err := s.repo.UpsertInfo(ctx, &info); err != nil {
		return nil, fmt.Errorf("failed to save emergency info: %w", err)
	}
	return &info, nil
}

// Info returns the emergency info card, or an empty card when none was
// saved yet.
func (s *EmergencyService) Info(ctx context.Context, userID string) (*model.EmergencyInfo, error) {
	info, err := s.repo.FindInfoByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return &model.EmergencyInfo{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to load emergency info: %w", err)
	}
	return info, nil
}

// RecordSOS logs an SOS trigger with its location when one was shared.
func (s *EmergencyService) RecordSOS(ctx context.Context, userID string, latitude, longitude *float64) (*model.SOSEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	event := &model.SOSEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      model.SOSEventSOS,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: time.Now(),
	}
	if err := s.repo.RecordEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record SOS event: %w", err)
	}

	s.logger.Warn("SOS triggered", zap.String("userId", userID))
	return event, nil
}

// RecordCall logs an emergency call placed from the app.
func (s *EmergencyService) RecordCall(ctx context.Context, userID, number string) (*model.SOSEvent, error) {
	number = strings.TrimSpace(number)
	if userID == "" || number == "" {
		return nil, fmt.Errorf("user ID and number are required")
	}

	event := &model.SOSEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      model.SOSEventCall,
		Number:    &number,
		CreatedAt: time.Now(),
	}
	if err := s.repo.RecordEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record call event: %w", err)
	}

	s.logger.Info("Emergency call recorded", zap.String("userId", userID))
	return event, nil
}

// Events lists the user's recent SOS events, newest first.
func (s *EmergencyService) Events(ctx context.Context, userID string, limit int) ([]model.SOSEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindEventsByUserID(ctx, userID, limit)
}
