package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/cache"
	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/security"
	"github.com/saglikasistani/backend/internal/storage"
	"github.com/saglikasistani/backend/pkg/model"
)

// ProfileService handles health profile storage. The disease, medication
// and allergy answers are encrypted before they reach the database.
type ProfileService struct {
	repo      *repository.ProfileRepository
	users     *repository.UserRepository
	encryptor *security.Encryptor
	cache     *cache.Cache
	blobs     storage.BlobStorage
	logger    *zap.Logger
}

// NewProfileService creates a new ProfileService. The cache is optional.
func NewProfileService(
	repo *repository.ProfileRepository,
	users *repository.UserRepository,
	encryptor *security.Encryptor,
	c *cache.Cache,
	blobs storage.BlobStorage,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		repo:      repo,
		users:     users,
		encryptor: encryptor,
		cache:     c,
		blobs:     blobs,
		logger:    logger,
	}
}

// GetProfile retrieves the user's decrypted health profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.HealthProfile, error) {
	if s.cache != nil {
		var cached model.HealthProfile
		found, err := s.cache.Get(ctx, cache.ProfileKey(userID), &cached)
		if err != nil {
			s.logger.Warn("profile cache read failed", zap.Error(err), zap.String("user_id", userID))
		} else if found {
			return &cached, nil
		}
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.decryptProfile(profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ProfileKey(userID), profile); err != nil {
			s.logger.Warn("profile cache write failed", zap.Error(err), zap.String("user_id", userID))
		}
	}

	return profile, nil
}

// SaveProfile encrypts sensitive answers and upserts the profile.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *model.HealthProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("user ID is required")
	}

	stored := *profile
	if err := s.encryptProfile(&stored); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, &stored); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cache.ProfileKey(profile.UserID)); err != nil {
			s.logger.Warn("profile cache invalidation failed", zap.Error(err), zap.String("user_id", profile.UserID))
		}
	}

	s.logger.Info("health profile saved", zap.String("user_id", profile.UserID))
	return nil
}

// UploadPhoto stores the user's profile photo and records its blob path.
func (s *ProfileService) UploadPhoto(ctx context.Context, userID, contentType string, photo io.Reader) (string, error) {
	blobName, err := s.blobs.UploadProfilePhoto(ctx, userID, contentType, photo)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := s.users.UpdatePhotoPath(ctx, userID, blobName); err != nil {
		return "", err
	}

	return blobName, nil
}

func (s *ProfileService) encryptProfile(p *model.HealthProfile) error {
	fields, err := s.encryptor.EncryptFields(map[string]string{
		"important_diseases": p.ImportantDiseases,
		"medications":        p.Medications,
		"allergies":          p.Allergies,
	})
	if err != nil {
		return fmt.Errorf("failed to encrypt profile fields: %w", err)
	}
	p.ImportantDiseases = fields["important_diseases"]
	p.Medications = fields["medications"]
	p.Allergies = fields["allergies"]
	return nil
}

func (s *ProfileService) decryptProfile(p *model.HealthProfile) error {
	fields, err := s.encryptor.DecryptFields(map[string]string{
		"important_diseases": p.ImportantDiseases,
		"medications":        p.Medications,
		"allergies":          p.Allergies,
	})
	if err != nil {
		return fmt.Errorf("failed to decrypt profile fields: %w", err)
	}
	p.ImportantDiseases = fields["important_diseases"]
	p.Medications = fields["medications"]
	p.Allergies = fields["allergies"]
	return nil
}
