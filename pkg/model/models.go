package model

import "time"

// UserType distinguishes how an account was created
type UserType string

const (
	UserTypeRegistered UserType = "registered"
	UserTypeGuest      UserType = "guest"
	UserTypeSocial     UserType = "social"
)

// User represents an account in the system
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Type           UserType   `json:"user_type"`
	SocialProvider *string    `json:"social_provider,omitempty"`
	SocialSubject  *string    `json:"-"`
	PhotoPath      *string    `json:"photo_path,omitempty"`
	Language       string     `json:"language"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// HealthProfile holds the baseline survey answers collected during onboarding.
// List-typed answers are stored comma-joined, matching the submission format.
type HealthProfile struct {
	UserID            string     `json:"user_id"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Gender            string     `json:"gender"`
	ImportantDiseases string     `json:"important_diseases"`
	Medications       string     `json:"medications"`
	HadSurgery        bool       `json:"had_surgery"`
	Surgeries         string     `json:"surgeries"`
	SurgeryDetail     string     `json:"surgery_detail"`
	Height            string     `json:"height"`
	Weight            string     `json:"weight"`
	BloodType         string     `json:"blood_type"`
	Allergies         string     `json:"allergies"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SessionStatus represents the status of an onboarding session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// OnboardingSession tracks a user's progress through the survey step flow
type OnboardingSession struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	CurrentStep int               `json:"current_step"`
	Answers     map[string]string `json:"answers"`
	Status      SessionStatus     `json:"status"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Medication represents a medication record
type Medication struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	Times     []string   `json:"times"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Color     string     `json:"color"`
	Icon      string     `json:"icon"`
	SlotCount int        `json:"slot_count"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Reminder is a date-scoped instance of a medication's scheduled intake time,
// distinct from the medication definition itself.
type Reminder struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	MedicationID   string     `json:"medication_id"`
	MedicationName string     `json:"medication_name"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Time           string     `json:"time"` // HH:MM
	SlotIndex      int        `json:"slot_index"`
	Taken          bool       `json:"taken"`
	TakenAt        *time.Time `json:"taken_at,omitempty"`
	Skipped        bool       `json:"skipped"`
	SkippedReason  *string    `json:"skipped_reason,omitempty"`
}

// MessageRole represents the role of a chat message sender
type MessageRole string

const (
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleUser      MessageRole = "user"
)

// ChatMessage represents one entry in a specialty-scoped conversation
type ChatMessage struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Specialty string      `json:"specialty"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	ImagePath *string     `json:"image_path,omitempty"`
	Analysis  *Analysis   `json:"analysis,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Analysis is the structured result the model returns for chat, lab and
// imaging requests. When parsing fails the raw text travels instead.
type Analysis struct {
	Summary         string   `json:"summary"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
	References      []string `json:"references"`
	UrgencyLevel    string   `json:"urgency_level"` // low, medium, high
}

// Subscription holds premium/trial state and the daily message counter
type Subscription struct {
	UserID            string     `json:"user_id"`
	IsPremium         bool       `json:"is_premium"`
	Plan              string     `json:"plan"`
	TrialEndDate      *time.Time `json:"trial_end_date,omitempty"`
	DailyMessageCount int        `json:"daily_message_count"`
	DailyMessageLimit int        `json:"daily_message_limit"`
	LastResetDate     string     `json:"last_reset_date"` // YYYY-MM-DD
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EmergencyContact is an SOS contact
type EmergencyContact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"created_at"`
}

// EmergencyInfo is the structured medical info shown on the SOS screen
type EmergencyInfo struct {
	UserID     string    `json:"user_id"`
	BloodType  string    `json:"blood_type"`
	Allergies  string    `json:"allergies"`
	Conditions string    `json:"conditions"`
	Notes      string    `json:"notes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SOSEventType distinguishes recorded emergency events
type SOSEventType string

const (
	SOSEventSOS  SOSEventType = "sos"
	SOSEventCall SOSEventType = "emergency_call"
)

// SOSEvent records an SOS trigger or an emergency call placed from the app
type SOSEvent struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Type      SOSEventType `json:"type"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	Number    *string      `json:"number,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Pharmacy is an on-duty pharmacy returned by the upstream directory
type Pharmacy struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	City      string  `json:"city"`
	District  string  `json:"district"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hospital is a nearby hospital returned by the upstream directory
type Hospital struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_km"`
}
