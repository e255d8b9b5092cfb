// Package api defines the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/saglikasistani/backend/pkg/model"
)

// ErrorResponse is the error envelope returned by every endpoint.
// Success is always false so older clients keyed on the success flag
// keep working.
type ErrorResponse struct {
	Success bool    `json:"success"`
	Code    string  `json:"code"`
	Message string  `json:"error"`
	Details *string `json:"details,omitempty"`
}

// Error codes used across handlers.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeLimitReached    = "LIMIT_REACHED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Auth

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Language string `json:"language"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SocialLoginRequest struct {
	Provider  string `json:"provider" binding:"required"`
	SubjectID string `json:"subject_id" binding:"required"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

type GuestLoginRequest struct {
	Language string `json:"language"`
}

type AuthResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	UserType string `json:"user_type"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// Onboarding

type OnboardingStartResponse struct {
	Success   bool           `json:"success"`
	SessionID string         `json:"session_id"`
	Step      StepDescriptor `json:"step"`
	StepIndex int            `json:"step_index"`
	StepCount int            `json:"step_count"`
}

type OnboardingAnswerRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Field     string `json:"field" binding:"required"`
	Value     string `json:"value"`
}

type OnboardingNavRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type OnboardingStateResponse struct {
	Success   bool              `json:"success"`
	SessionID string            `json:"session_id"`
	Step      StepDescriptor    `json:"step"`
	StepIndex int               `json:"step_index"`
	StepCount int               `json:"step_count"`
	Completed bool              `json:"completed"`
	Answers   map[string]string `json:"answers"`
}

// StepDescriptor mirrors one entry of the computed step list.
type StepDescriptor struct {
	Field     string   `json:"field"`
	Type      string   `json:"type"`
	TitleKey  string   `json:"title_key"`
	Optional  bool     `json:"optional"`
	Options   []string `json:"options,omitempty"`
	Suggested []string `json:"suggested,omitempty"`
}

type CompleteOnboardingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Profile

type ProfileResponse struct {
	Success bool                 `json:"success"`
	Profile *model.HealthProfile `json:"profile,omitempty"`
}

type SaveProfileRequest struct {
	BirthDate         *types.Date `json:"birth_date,omitempty"`
	Gender            *string     `json:"gender,omitempty"`
	ImportantDiseases *string     `json:"important_diseases,omitempty"`
	Medications       *string     `json:"medications,omitempty"`
	Height            *string     `json:"height,omitempty"`
	Weight            *string     `json:"weight,omitempty"`
	BloodType         *string     `json:"blood_type,omitempty"`
	Allergies         *string     `json:"allergies,omitempty"`
}

// Chat / analysis

type SendMessageRequest struct {
	MessageID string `json:"message_id"`
	Specialty string `json:"specialty"`
	Content   string `json:"content" binding:"required"`
}

type ChatResponse struct {
	Success   bool              `json:"success"`
	Message   model.ChatMessage `json:"message"`
	Remaining *int              `json:"remaining_messages,omitempty"`
}

type HistoryResponse struct {
	Success  bool                `json:"success"`
	Messages []model.ChatMessage `json:"messages"`
}

// Medications

type CreateMedicationRequest struct {
	Name      string      `json:"name" binding:"required"`
	Dosage    string      `json:"dosage" binding:"required"`
	Frequency string      `json:"frequency" binding:"required"`
	Times     []string    `json:"times"`
	StartDate types.Date  `json:"start_date" binding:"required"`
	EndDate   *types.Date `json:"end_date,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
	Color     string      `json:"color"`
	Icon      string      `json:"icon"`
}

type UpdateMedicationRequest struct {
	Name      *string     `json:"name,omitempty"`
	Dosage    *string     `json:"dosage,omitempty"`
	Frequency *string     `json:"frequency,omitempty"`
	Times     []string    `json:"times,omitempty"`
	EndDate   *types.Date `json:"end_date,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
	Active    *bool       `json:"active,omitempty"`
}

type MedicationResponse struct {
	Success    bool             `json:"success"`
	Medication model.Medication `json:"medication"`
}

type MedicationListResponse struct {
	Success     bool               `json:"success"`
	Medications []model.Medication `json:"medications"`
}

// Reminders

type ReminderListResponse struct {
	Success   bool             `json:"success"`
	Date      string           `json:"date"`
	Reminders []model.Reminder `json:"reminders"`
}

type SkipReminderRequest struct {
	Reason string `json:"reason"`
}

type AdherenceResponse struct {
	Success bool    `json:"success"`
	Days    int     `json:"days"`
	Taken   int     `json:"taken"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// Subscription

type SubscriptionResponse struct {
	Success      bool               `json:"success"`
	Subscription model.Subscription `json:"subscription"`
}

type UpdateSubscriptionRequest struct {
	IsPremium    bool       `json:"is_premium"`
	Plan         string     `json:"plan"`
	TrialEndDate *time.Time `json:"trial_end_date,omitempty"`
	Receipt      string     `json:"receipt"`
}

// Emergency

type CreateContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Relation string `json:"relation"`
}

type ContactListResponse struct {
	Success  bool                     `json:"success"`
	Contacts []model.EmergencyContact `json:"contacts"`
}

type SaveEmergencyInfoRequest struct {
	BloodType  string `json:"blood_type"`
	Allergies  string `json:"allergies"`
	Conditions string `json:"conditions"`
	Notes      string `json:"notes"`
}

type EmergencyInfoResponse struct {
	Success bool                 `json:"success"`
	Info    *model.EmergencyInfo `json:"info,omitempty"`
}

type RecordSOSRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type RecordCallRequest struct {
	Number string `json:"number" binding:"required"`
}

// Pharmacy / hospitals

type PharmacyListResponse struct {
	Success    bool             `json:"success"`
	City       string           `json:"city"`
	District   string           `json:"district,omitempty"`
	Pharmacies []model.Pharmacy `json:"pharmacies"`
}

type HospitalListResponse struct {
	Success   bool             `json:"success"`
	Hospitals []model.Hospital `json:"hospitals"`
}

// Metrics

type MetricsSummaryResponse struct {
	Success       bool           `json:"success"`
	Period        string         `json:"period"`
	MessageCount  int            `json:"message_count"`
	AdherenceRate float64        `json:"adherence_rate"`
	BySpecialty   map[string]int `json:"by_specialty"`
}

// OKResponse is the minimal success envelope for write operations.
type OKResponse struct {
	Success bool `json:"success"`
}
