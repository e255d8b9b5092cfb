package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/pkg/model"
)

// OnboardingService drives the survey step flow. Flow state lives in an
// onboarding session row; the step list itself is recomputed from the
// answers on every transition.
type OnboardingService struct {
	sessions *repository.SessionRepository
	profiles *ProfileService
	logger   *zap.Logger
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(sessions *repository.SessionRepository, profiles *ProfileService, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		sessions: sessions,
		profiles: profiles,
		logger:   logger,
	}
}

// FlowState is the engine's view of a session after a transition.
type FlowState struct {
	Session   *model.OnboardingSession
	Steps     []Step
	Step      Step
	Completed bool
}

// Start opens a fresh session for the user, abandoning any previous
// active one so at most one flow is in progress.
func (s *OnboardingService) Start(ctx context.Context, userID string) (*FlowState, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	if err := s.sessions.AbandonActive(ctx, userID); err != nil {
		return nil, err
	}

	session := &model.OnboardingSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		CurrentStep: 0,
		Answers:     make(map[string]string),
		Status:      model.SessionStatusActive,
		StartedAt:   time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("onboarding session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)

	return s.state(session), nil
}

// State returns the current flow state of a session.
func (s *OnboardingService) State(ctx context.Context, sessionID, userID string) (*FlowState, error) {
	session, err := s.loadActive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.state(session), nil
}

// Answer records the value for the current step's field, validates it,
// and advances the cursor. On the last step the cursor stays put and the
// caller proceeds to Complete.
func (s *OnboardingService) Answer(ctx context.Context, sessionID, userID, field, value string) (*FlowState, error) {
	session, err := s.loadActive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	steps := ComputeSteps(session.Answers)
	current := steps[session.CurrentStep]
	if current.Field != field {
		return nil, flowErrorf("expected answer for field %s, got %s", current.Field, field)
	}

	session.Answers[field] = value

	// The step list may have grown or shrunk under the cursor.
	steps = ComputeSteps(session.Answers)
	session.CurrentStep = ClampStep(session.CurrentStep, len(steps))
	current = steps[session.CurrentStep]

	if err := ValidateStep(current, session.Answers); err != nil {
		// Persist the answer anyway so partial input survives, but stay put.
		if uerr := s.sessions.Update(ctx, session); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}

	if session.CurrentStep < len(steps)-1 {
		session.CurrentStep++
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.state(session), nil
}

// Back moves the cursor one step back. Never validates.
func (s *OnboardingService) Back(ctx context.Context, sessionID, userID string) (*FlowState, error) {
	session, err := s.loadActive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	steps := ComputeSteps(session.Answers)
	session.CurrentStep = ClampStep(session.CurrentStep-1, len(steps))

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.state(session), nil
}

// Skip advances past the current step without validation. Only optional,
// non-last steps can be skipped.
func (s *OnboardingService) Skip(ctx context.Context, sessionID, userID string) (*FlowState, error) {
	session, err := s.loadActive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	steps := ComputeSteps(session.Answers)
	current := steps[session.CurrentStep]
	if !current.Optional {
		return nil, flowErrorf("step %s cannot be skipped", current.Field)
	}
	if session.CurrentStep >= len(steps)-1 {
		return nil, flowErrorf("the last step cannot be skipped")
	}

	session.CurrentStep++

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.state(session), nil
}

// Complete validates every non-optional step, submits the aggregate as a
// single health profile, and closes the session. On failure the session
// stays active so the client can retry.
func (s *OnboardingService) Complete(ctx context.Context, sessionID, userID string) (*FlowState, error) {
	session, err := s.loadActive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	steps := ComputeSteps(session.Answers)
	for _, step := range steps {
		if err := ValidateStep(step, session.Answers); err != nil {
			return nil, fmt.Errorf("onboarding incomplete: %w", err)
		}
	}

	profile, err := s.buildProfile(userID, session.Answers)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = model.SessionStatusCompleted
	session.CompletedAt = &now
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("onboarding completed",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)

	state := s.state(session)
	state.Completed = true
	return state, nil
}

func (s *OnboardingService) loadActive(ctx context.Context, sessionID, userID string) (*model.OnboardingSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if session.Status != model.SessionStatusActive {
		return nil, fmt.Errorf("session %s is not active", sessionID)
	}
	if session.Answers == nil {
		session.Answers = make(map[string]string)
	}
	return session, nil
}

func (s *OnboardingService) state(session *model.OnboardingSession) *FlowState {
	steps := ComputeSteps(session.Answers)
	session.CurrentStep = ClampStep(session.CurrentStep, len(steps))
	return &FlowState{
		Session: session,
		Steps:   steps,
		Step:    steps[session.CurrentStep],
	}
}

func (s *OnboardingService) buildProfile(userID string, answers map[string]string) (*model.HealthProfile, error) {
	profile := &model.HealthProfile{
		UserID:            userID,
		Gender:            answers[FieldGender],
		ImportantDiseases: JoinList(SplitList(answers[FieldDiseases])),
		Medications:       JoinList(SplitList(answers[FieldMedications])),
		HadSurgery:        answers[FieldHadSurgery] == "true",
		Surgeries:         JoinList(SplitList(answers[FieldSurgeries])),
		SurgeryDetail:     answers[FieldSurgeryDetail],
		Height:            answers[FieldHeight],
		Weight:            answers[FieldWeight],
		BloodType:         answers[FieldBloodType],
		Allergies:         answers[FieldAllergies],
	}

	if v := answers[FieldBirthDate]; v != "" {
		birthDate, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid birth date: %w", err)
		}
		profile.BirthDate = &birthDate
	}

	return profile, nil
}
