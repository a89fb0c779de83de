package service

import (
	"context"
	"errors"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	// GetByUserID returns nil, nil when the user has no profile.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// Update applies the non-nil fields of req to the user and profile rows
	// in one transaction and returns the stored profile. It fails with
	// database.ErrNotFound when the profile does not exist.
	Update(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.Profile, error)
}

// ProfileService handles profile operations
type ProfileService struct {
	profileRepo ProfileRepository
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	ProfileRepo ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profileRepo: cfg.ProfileRepo,
	}
}

// GetProfile returns the caller's profile with the owning user embedded.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile changes only the fields present in req. An empty request
// returns the current profile unchanged.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	req.Normalize()
	if err := model.NewValidationError(req.Validate()); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return s.GetProfile(ctx, userID)
	}

	profile, err := s.profileRepo.Update(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
