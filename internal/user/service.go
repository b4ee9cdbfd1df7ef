// File: internal/user/service.go
package user

import (
	"context"
	"errors"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/shared"
)

// ServiceImplementation implements shared.Service over the profile repository.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger,
	}
}

var _ shared.Service = (*ServiceImplementation)(nil)

// GetOrCreateProfileFromToken looks up the profile for a verified provider
// token and creates one on first sight, seeding display data from the
// token's claims where present.
func (s *ServiceImplementation) GetOrCreateProfileFromToken(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	existing, err := s.repo.FindByFirebaseUID(ctx, token.UID)
	if err == nil {
		return ToSharedProfile(existing), false, nil
	}
	if apiErr, ok := common.IsAPIError(err); !ok || apiErr.Code != common.ErrNotFound.Code {
		return nil, false, err
	}

	profile := &Profile{FirebaseUID: token.UID}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		profile.DisplayName = &name
	}
	if picture, ok := token.Claims["picture"].(string); ok && picture != "" {
		profile.AvatarURL = &picture
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		// A concurrent first request may have created the row already.
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrConflict.Code {
			existing, findErr := s.repo.FindByFirebaseUID(ctx, token.UID)
			if findErr == nil {
				return ToSharedProfile(existing), false, nil
			}
		}
		s.logger.Error("Failed to create profile for new user",
			zap.String("uid", token.UID), zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("Created profile for new user",
		zap.String("uid", token.UID), zap.String("profileID", profile.ID.String()))
	return ToSharedProfile(profile), true, nil
}

func (s *ServiceImplementation) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSharedProfile(profile), nil
}

func (s *ServiceImplementation) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.Profile, error) {
	profile, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return ToSharedProfile(profile), nil
}

// CreateProfile inserts a profile row at sign-up time with the chosen
// display name.
func (s *ServiceImplementation) CreateProfile(ctx context.Context, firebaseUID string, displayName string) (*shared.Profile, error) {
	if firebaseUID == "" {
		return nil, common.ErrBadRequest.WithDetails("A provider user ID is required.")
	}
	profile := &Profile{FirebaseUID: firebaseUID}
	if displayName != "" {
		profile.DisplayName = &displayName
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return ToSharedProfile(profile), nil
}

// UpdateProfile applies a partial edit. Nil fields are left unchanged.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, updates shared.ProfileUpdate) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.DisplayName != nil {
		profile.DisplayName = updates.DisplayName
	}
	if updates.AvatarURL != nil {
		profile.AvatarURL = updates.AvatarURL
	}
	if updates.Phone != nil {
		profile.Phone = updates.Phone
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile", zap.String("profileID", id.String()), zap.Error(err))
		return nil, err
	}
	return ToSharedProfile(profile), nil
}

// IsNotFound reports whether the error is the profile-not-found case.
func IsNotFound(err error) bool {
	apiErr, ok := common.IsAPIError(err)
	if !ok {
		return errors.Is(err, common.ErrNotFound)
	}
	return apiErr.Code == common.ErrNotFound.Code
}
