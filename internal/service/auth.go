package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/audit"
	"github.com/saglikasistani/backend/internal/i18n"
	"github.com/saglikasistani/backend/internal/mail"
	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/security"
	"github.com/saglikasistani/backend/internal/storage"
	"github.com/saglikasistani/backend/internal/token"
	"github.com/saglikasistani/backend/pkg/model"
)

const resetCodeTTL = 30 * time.Minute

var (
	// ErrEmailTaken is returned when a signup email already has an account.
	ErrEmailTaken = fmt.Errorf("email already registered")
	// ErrInvalidLogin is returned for a wrong email or password. The two
	// cases are deliberately indistinguishable.
	ErrInvalidLogin = fmt.Errorf("invalid email or password")
	// ErrGuestForbidden is returned when a guest account attempts an
	// operation that requires a registered account.
	ErrGuestForbidden = fmt.Errorf("operation not available for guest accounts")
)

// AuthResult is a successful authentication outcome.
type AuthResult struct {
	Token string
	User  *model.User
}

// AuthService handles account lifecycle: signup, the three login paths,
// password reset and full account deletion.
type AuthService struct {
	users    *repository.UserRepository
	data     *UserDataRepos
	tokens   token.Maker
	mailer   mail.Sender
	blobs    storage.BlobStorage
	audit    *audit.Logger
	logger   *zap.Logger
}

// UserDataRepos bundles the per-user repositories the delete cascade
// touches.
type UserDataRepos struct {
	Profiles      *repository.ProfileRepository
	Sessions      *repository.SessionRepository
	Medications   *repository.MedicationRepository
	Reminders     *repository.ReminderRepository
	Chats         *repository.ChatRepository
	Subscriptions *SubscriptionService
	Emergency     *repository.EmergencyRepository
}

func NewAuthService(users *repository.UserRepository, cascade *UserDataRepos, tokens token.Maker, mailer mail.Sender, blobs storage.BlobStorage, auditLog *audit.Logger, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		data:     cascade,
		tokens:   tokens,
		mailer:   mailer,
		blobs:    blobs,
		audit:    auditLog,
		logger:   logger,
	}
}

// Signup creates a registered account with an email and password.
func (s *AuthService) Signup(ctx context.Context, name, email, password, language string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || len(password) < 6 {
		return nil, fmt.Errorf("name, email and a password of at least 6 characters are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Type:         model.UserTypeRegistered,
		Language:     defaultLanguage(language),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User signed up", zap.String("userId", user.ID))
	return s.issue(user)
}

// Login authenticates an email/password account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidLogin
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Type != model.UserTypeRegistered || user.PasswordHash == "" {
		return nil, ErrInvalidLogin
	}
	if err := security.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidLogin
	}

	return s.issue(user)
}

// SocialLogin signs a user in via an external identity provider,
// creating the account on first contact.
func (s *AuthService) SocialLogin(ctx context.Context, provider, subject, email, name, language string) (*AuthResult, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || subject == "" {
		return nil, fmt.Errorf("provider and subject are required")
	}

	user, err := s.users.FindBySocial(ctx, provider, subject)
	if err == nil {
		return s.issue(user)
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user = &model.User{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(name),
		Email:          normalizeEmail(email),
		Type:           model.UserTypeSocial,
		SocialProvider: &provider,
		SocialSubject:  &subject,
		Language:       defaultLanguage(language),
	}
	if user.Name == "" {
		user.Name = "User"
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Social account created",
		zap.String("userId", user.ID),
		zap.String("provider", provider))
	return s.issue(user)
}

// GuestLogin creates an anonymous account so the app is usable without
// registration.
func (s *AuthService) GuestLogin(ctx context.Context, language string) (*AuthResult, error) {
	user := &model.User{
		ID:       uuid.New().String(),
		Name:     "Guest",
		Type:     model.UserTypeGuest,
		Language: defaultLanguage(language),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create guest user: %w", err)
	}

	s.logger.Info("Guest account created", zap.String("userId", user.ID))
	return s.issue(user)
}

// ForgotPassword generates a reset code and mails it to the account.
// Unknown emails return success so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.Type != model.UserTypeRegistered {
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	if err := s.users.SaveResetCode(ctx, user.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		return fmt.Errorf("failed to save reset code: %w", err)
	}

	lang := defaultLanguage(user.Language)
	subject := i18n.T(lang, "mail.forgot_password.subject")
	body := fmt.Sprintf(i18n.T(lang, "mail.forgot_password.body"), user.Name, code)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	s.logger.Info("Password reset code sent", zap.String("userId", user.ID))
	return nil
}

// ResetPassword consumes a valid reset code and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" || len(newPassword) < 6 {
		return fmt.Errorf("email, code and a password of at least 6 characters are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrInvalidLogin
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.users.ConsumeResetCode(ctx, user.ID, code); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", zap.String("userId", user.ID))
	return nil
}

// DeleteAccount removes every trace of a user: chat history,
// medications, reminders, onboarding sessions, emergency data,
// subscription, profile, uploaded blobs, then anonymizes the account
// row itself.
func (s *AuthService) DeleteAccount(ctx context.Context, userID, ipAddress, userAgent string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"chat messages", func() error { return s.data.Chats.DeleteByUserID(ctx, userID) }},
		{"reminders", func() error { return s.data.Reminders.DeleteByUserID(ctx, userID) }},
		{"medications", func() error { return s.data.Medications.DeleteByUserID(ctx, userID) }},
		{"onboarding sessions", func() error { return s.data.Sessions.DeleteByUserID(ctx, userID) }},
		{"emergency data", func() error { return s.data.Emergency.DeleteByUserID(ctx, userID) }},
		{"subscription", func() error { return s.data.Subscriptions.Delete(ctx, userID) }},
		{"health profile", func() error { return s.data.Profiles.Delete(ctx, userID) }},
		{"blobs", func() error { return s.blobs.DeleteUserBlobs(ctx, userID) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.name, err)
		}
	}

	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if err := s.audit.LogDelete(ctx, userID, audit.ResourceUser, userID, ipAddress, userAgent); err != nil {
		s.logger.Warn("Audit log write failed", zap.Error(err))
	}

	s.logger.Info("Account deleted", zap.String("userId", userID))
	return nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	tok, err := s.tokens.Generate(user.ID, string(user.Type))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: tok, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultLanguage(language string) string {
	if i18n.Supported(language) {
		return language
	}
	return i18n.DefaultLanguage
}

// generateResetCode returns a random six digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
