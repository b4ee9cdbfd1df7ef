// File: internal/user/service_test.go
package user

import (
	"context"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/shared"
)

// MockProfileRepository is a mock for the profile Repository interface.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestGetOrCreateProfileFromToken_ExistingProfile(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := NewService(mockRepo, zap.NewNop())

	existing := &Profile{FirebaseUID: "uid-1"}
	existing.ID = uuid.New()
	mockRepo.On("FindByFirebaseUID", mock.Anything, "uid-1").Return(existing, nil).Once()

	profile, created, err := service.GetOrCreateProfileFromToken(context.Background(),
		&firebaseauth.Token{UID: "uid-1"})

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, profile.ID)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestGetOrCreateProfileFromToken_CreatesWithClaimSeeds(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := NewService(mockRepo, zap.NewNop())

	mockRepo.On("FindByFirebaseUID", mock.Anything, "uid-2").
		Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.FirebaseUID == "uid-2" &&
			p.DisplayName != nil && *p.DisplayName == "陳小姐" &&
			p.AvatarURL != nil && *p.AvatarURL == "https://example.com/a.png"
	})).Return(nil).Once()

	token := &firebaseauth.Token{
		UID: "uid-2",
		Claims: map[string]interface{}{
			"name":    "陳小姐",
			"picture": "https://example.com/a.png",
		},
	}
	profile, created, err := service.GetOrCreateProfileFromToken(context.Background(), token)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, profile)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateProfileFromToken_LosesInsertRaceGracefully(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := NewService(mockRepo, zap.NewNop())

	winner := &Profile{FirebaseUID: "uid-3"}
	winner.ID = uuid.New()

	mockRepo.On("FindByFirebaseUID", mock.Anything, "uid-3").
		Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(common.ErrConflict).Once()
	// The concurrent winner's row is returned instead of an error.
	mockRepo.On("FindByFirebaseUID", mock.Anything, "uid-3").
		Return(winner, nil).Once()

	profile, created, err := service.GetOrCreateProfileFromToken(context.Background(),
		&firebaseauth.Token{UID: "uid-3"})

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, profile.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateProfile_RequiresProviderUID(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := NewService(mockRepo, zap.NewNop())

	_, err := service.CreateProfile(context.Background(), "", "name")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestUpdateProfile_AppliesOnlyPresentFields(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := NewService(mockRepo, zap.NewNop())

	oldName := "舊名字"
	phone := "0912345678"
	existing := &Profile{FirebaseUID: "uid-4", DisplayName: &oldName, Phone: &phone}
	existing.ID = uuid.New()

	newName := "新名字"
	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.DisplayName != nil && *p.DisplayName == newName &&
			p.Phone != nil && *p.Phone == phone
	})).Return(nil).Once()

	updated, err := service.UpdateProfile(context.Background(), existing.ID,
		shared.ProfileUpdate{DisplayName: &newName})

	assert.NoError(t, err)
	assert.Equal(t, newName, *updated.DisplayName)
	assert.Equal(t, phone, *updated.Phone, "absent fields stay unchanged")
	mockRepo.AssertExpectations(t)
}
