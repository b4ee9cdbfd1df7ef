// File: internal/chat/service_test.go
package chat

import (
	"context"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/listing"
	"github.com/ldw80203/house-video/internal/shared"
)

// MockChatRepository is a mock for the chat Repository interface.
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) GetOrCreateRoom(ctx context.Context, propertyID, buyerID, agentID uuid.UUID) (*ChatRoom, error) {
	args := m.Called(ctx, propertyID, buyerID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChatRoom), args.Error(1)
}

func (m *MockChatRepository) FindRoomByID(ctx context.Context, id uuid.UUID) (*ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChatRoom), args.Error(1)
}

func (m *MockChatRepository) ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]ChatRoom, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChatRoom), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, roomID uuid.UUID) ([]ChatMessage, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChatMessage), args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roomID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) CountUnread(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) TouchRoom(ctx context.Context, roomID uuid.UUID) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockListingService is a mock for the listing Service interface.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, agentID uuid.UUID, req listing.CreateListingRequest) (*listing.Listing, error) {
	args := m.Called(ctx, agentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) GetListingByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, id, editorID uuid.UUID, req listing.UpdateListingRequest) (*listing.Listing, error) {
	args := m.Called(ctx, id, editorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) DeleteListing(ctx context.Context, id, editorID uuid.UUID) error {
	args := m.Called(ctx, id, editorID)
	return args.Error(0)
}

func (m *MockListingService) ListPublished(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingService) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]listing.Listing, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingService) SearchListings(ctx context.Context, query string) ([]listing.Listing, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingService) SearchEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockListingService) UnpublishExpired(ctx context.Context, lifespanDays int) (int64, error) {
	args := m.Called(ctx, lifespanDays)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingService) SyncAllToSearch(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockProfileService is a mock for the shared profile Service interface.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetOrCreateProfileFromToken(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*shared.Profile), args.Bool(1), args.Error(2)
}

func (m *MockProfileService) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

func (m *MockProfileService) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.Profile, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

func (m *MockProfileService) CreateProfile(ctx context.Context, firebaseUID string, displayName string) (*shared.Profile, error) {
	args := m.Called(ctx, firebaseUID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, updates shared.ProfileUpdate) (*shared.Profile, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

type chatTestDeps struct {
	repo     *MockChatRepository
	listings *MockListingService
	profiles *MockProfileService
	hub      *Hub
	service  *ServiceImplementation
}

func newChatTestDeps() *chatTestDeps {
	repo := new(MockChatRepository)
	listings := new(MockListingService)
	profiles := new(MockProfileService)
	hub := NewHub(4, zap.NewNop())
	return &chatTestDeps{
		repo:     repo,
		listings: listings,
		profiles: profiles,
		hub:      hub,
		service:  NewService(repo, hub, listings, profiles, zap.NewNop()),
	}
}

func TestOpenRoom_ResolvesAgentFromListing(t *testing.T) {
	d := newChatTestDeps()
	propertyID := uuid.New()
	buyerID := uuid.New()
	agentID := uuid.New()

	l := &listing.Listing{AgentID: agentID}
	l.ID = propertyID
	room := &ChatRoom{PropertyID: propertyID, BuyerID: buyerID, AgentID: agentID}
	room.ID = uuid.New()

	d.listings.On("GetListingByID", mock.Anything, propertyID).Return(l, nil).Once()
	d.repo.On("GetOrCreateRoom", mock.Anything, propertyID, buyerID, agentID).Return(room, nil).Once()

	got, err := d.service.OpenRoom(context.Background(), propertyID, buyerID)

	assert.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	d.repo.AssertExpectations(t)
}

func TestOpenRoom_RejectsAgentChattingWithSelf(t *testing.T) {
	d := newChatTestDeps()
	propertyID := uuid.New()
	agentID := uuid.New()

	l := &listing.Listing{AgentID: agentID}
	l.ID = propertyID
	d.listings.On("GetListingByID", mock.Anything, propertyID).Return(l, nil).Once()

	_, err := d.service.OpenRoom(context.Background(), propertyID, agentID)

	assert.Error(t, err)
	d.repo.AssertNotCalled(t, "GetOrCreateRoom")
}

func TestSendMessage_PersistsBumpsAndPublishes(t *testing.T) {
	d := newChatTestDeps()
	roomID := uuid.New()
	buyerID := uuid.New()
	agentID := uuid.New()

	room := &ChatRoom{BuyerID: buyerID, AgentID: agentID}
	room.ID = roomID

	name := "王小明"
	profile := &shared.Profile{ID: buyerID, DisplayName: &name}

	d.repo.On("FindRoomByID", mock.Anything, roomID).Return(room, nil).Once()
	d.repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m *ChatMessage) bool {
		return m.RoomID == roomID && m.SenderID == buyerID && m.Content == "還有開放看房嗎？"
	})).Return(nil).Once()
	d.repo.On("TouchRoom", mock.Anything, roomID).Return(nil).Once()
	d.profiles.On("GetProfileByID", mock.Anything, buyerID).Return(profile, nil).Once()

	// A live subscriber sees the message.
	ch, cancel := d.hub.Subscribe(roomID)
	defer cancel()

	view, err := d.service.SendMessage(context.Background(), roomID, buyerID, "還有開放看房嗎？")

	assert.NoError(t, err)
	assert.Equal(t, "王小明", view.SenderName)

	select {
	case delivered := <-ch:
		assert.Equal(t, view.Content, delivered.Content)
	case <-time.After(time.Second):
		t.Fatal("expected message on live stream")
	}
	d.repo.AssertExpectations(t)
}

func TestSendMessage_ProfileFailureDoesNotDropMessage(t *testing.T) {
	d := newChatTestDeps()
	roomID := uuid.New()
	buyerID := uuid.New()

	room := &ChatRoom{BuyerID: buyerID, AgentID: uuid.New()}
	room.ID = roomID

	d.repo.On("FindRoomByID", mock.Anything, roomID).Return(room, nil).Once()
	d.repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil).Once()
	d.repo.On("TouchRoom", mock.Anything, roomID).Return(nil).Once()
	d.profiles.On("GetProfileByID", mock.Anything, buyerID).
		Return(nil, common.ErrNotFound).Once()

	view, err := d.service.SendMessage(context.Background(), roomID, buyerID, "hello")

	assert.NoError(t, err, "a missing sender profile must not fail the send")
	assert.Equal(t, "hello", view.Content)
	assert.Empty(t, view.SenderName)
}

func TestSendMessage_ForbiddenForNonParticipant(t *testing.T) {
	d := newChatTestDeps()
	roomID := uuid.New()

	room := &ChatRoom{BuyerID: uuid.New(), AgentID: uuid.New()}
	room.ID = roomID
	d.repo.On("FindRoomByID", mock.Anything, roomID).Return(room, nil).Once()

	_, err := d.service.SendMessage(context.Background(), roomID, uuid.New(), "hi")

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	d.repo.AssertNotCalled(t, "CreateMessage")
}

func TestGetMessages_EnrichesSenders(t *testing.T) {
	d := newChatTestDeps()
	roomID := uuid.New()
	buyerID := uuid.New()
	agentID := uuid.New()

	room := &ChatRoom{BuyerID: buyerID, AgentID: agentID}
	room.ID = roomID

	msgs := []ChatMessage{
		{RoomID: roomID, SenderID: buyerID, Content: "你好"},
		{RoomID: roomID, SenderID: agentID, Content: "您好，歡迎詢問"},
		{RoomID: roomID, SenderID: buyerID, Content: "想約看房"},
	}

	buyerName := "買家"
	agentName := "房仲"
	d.repo.On("FindRoomByID", mock.Anything, roomID).Return(room, nil).Once()
	d.repo.On("ListMessages", mock.Anything, roomID).Return(msgs, nil).Once()
	// Each distinct sender is looked up exactly once.
	d.profiles.On("GetProfileByID", mock.Anything, buyerID).
		Return(&shared.Profile{ID: buyerID, DisplayName: &buyerName}, nil).Once()
	d.profiles.On("GetProfileByID", mock.Anything, agentID).
		Return(&shared.Profile{ID: agentID, DisplayName: &agentName}, nil).Once()

	views, err := d.service.GetMessages(context.Background(), roomID, buyerID)

	assert.NoError(t, err)
	assert.Len(t, views, 3)
	assert.Equal(t, "買家", views[0].SenderName)
	assert.Equal(t, "房仲", views[1].SenderName)
	assert.Equal(t, "買家", views[2].SenderName)
	d.profiles.AssertExpectations(t)
}

func TestMarkRead_ScopedToReader(t *testing.T) {
	d := newChatTestDeps()
	roomID := uuid.New()
	buyerID := uuid.New()

	room := &ChatRoom{BuyerID: buyerID, AgentID: uuid.New()}
	room.ID = roomID

	d.repo.On("FindRoomByID", mock.Anything, roomID).Return(room, nil).Once()
	d.repo.On("MarkRead", mock.Anything, roomID, buyerID).Return(int64(2), nil).Once()

	count, err := d.service.MarkRead(context.Background(), roomID, buyerID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	d.repo.AssertExpectations(t)
}

func TestListRooms_IncludesUnreadCounts(t *testing.T) {
	d := newChatTestDeps()
	userID := uuid.New()

	roomA := ChatRoom{BuyerID: userID, AgentID: uuid.New()}
	roomA.ID = uuid.New()
	roomB := ChatRoom{BuyerID: uuid.New(), AgentID: userID}
	roomB.ID = uuid.New()

	d.repo.On("ListRoomsForUser", mock.Anything, userID).Return([]ChatRoom{roomA, roomB}, nil).Once()
	d.repo.On("CountUnread", mock.Anything, roomA.ID, userID).Return(int64(3), nil).Once()
	d.repo.On("CountUnread", mock.Anything, roomB.ID, userID).Return(int64(0), nil).Once()

	views, err := d.service.ListRooms(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(3), views[0].UnreadCount)
	assert.Equal(t, int64(0), views[1].UnreadCount)
}
