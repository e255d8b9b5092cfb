package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/cache"
	"github.com/saglikasistani/backend/internal/directory"
	"github.com/saglikasistani/backend/pkg/model"
)

// Duty lists change at most daily; hospital locations barely at all.
const (
	pharmacyCacheTTL = 30 * time.Minute
	hospitalCacheTTL = 6 * time.Hour
)

// PharmacyService serves on-duty pharmacy and nearby hospital lookups
// through a Redis read-through cache in front of the upstream
// directory.
type PharmacyService struct {
	directory directory.Directory
	cache     *cache.Cache
	logger    *zap.Logger
}

func NewPharmacyService(dir directory.Directory, c *cache.Cache, logger *zap.Logger) *PharmacyService {
	return &PharmacyService{directory: dir, cache: c, logger: logger}
}

// DutyPharmacies returns the on-duty pharmacies for a city and optional
// district.
func (s *PharmacyService) DutyPharmacies(ctx context.Context, city, district string) ([]model.Pharmacy, error) {
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	key := cache.PharmacyKey(city, district)
	if s.cache != nil {
		var cached []model.Pharmacy
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Pharmacy cache read failed", zap.Error(err))
		}
		if found {
			return cached, nil
		}
	}

	pharmacies, err := s.directory.DutyPharmacies(ctx, city, district)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty pharmacies: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, pharmacies, pharmacyCacheTTL); err != nil {
			s.logger.Warn("Pharmacy cache write failed", zap.Error(err))
		}
	}
	return pharmacies, nil
}

// NearbyHospitals returns hospitals close to the given coordinates.
func (s *PharmacyService) NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]model.Hospital, error) {
	key := cache.HospitalKey(latitude, longitude)
	if s.cache != nil {
		var cached []model.Hospital
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Hospital cache read failed", zap.Error(err))
		}
		if found {
			return cached, nil
		}
	}

	hospitals, err := s.directory.NearbyHospitals(ctx, latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nearby hospitals: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, hospitals, hospitalCacheTTL); err != nil {
			s.logger.Warn("Hospital cache write failed", zap.Error(err))
		}
	}
	return hospitals, nil
}
