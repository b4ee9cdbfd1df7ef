// File: internal/chat/service.go
package chat

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/listing"
	"github.com/ldw80203/house-video/internal/shared"
)

// Service defines the business logic operations for chat.
type Service interface {
	// OpenRoom returns the conversation between the buyer and the agent of
	// the listing, creating it on first contact.
	OpenRoom(ctx context.Context, propertyID, buyerID uuid.UUID) (*ChatRoom, error)
	ListRooms(ctx context.Context, userID uuid.UUID) ([]RoomView, error)
	GetMessages(ctx context.Context, roomID, userID uuid.UUID) ([]MessageView, error)
	SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*MessageView, error)
	MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error)
	// Stream subscribes to live messages in a room after a membership check.
	Stream(ctx context.Context, roomID, userID uuid.UUID) (<-chan MessageView, func(), error)
}

// ServiceImplementation provides the implementation for the chat Service.
type ServiceImplementation struct {
	repo     Repository
	hub      *Hub
	listings listing.Service
	profiles shared.Service
	logger   *zap.Logger
}

// NewService creates a new chat service.
func NewService(repo Repository, hub *Hub, listings listing.Service, profiles shared.Service, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		hub:      hub,
		listings: listings,
		profiles: profiles,
		logger:   logger,
	}
}

var _ Service = (*ServiceImplementation)(nil)

func (s *ServiceImplementation) OpenRoom(ctx context.Context, propertyID, buyerID uuid.UUID) (*ChatRoom, error) {
	l, err := s.listings.GetListingByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if l.AgentID == buyerID {
		return nil, common.ErrBadRequest.WithDetails("Cannot open a chat with yourself on your own listing.")
	}

	room, err := s.repo.GetOrCreateRoom(ctx, propertyID, buyerID, l.AgentID)
	if err != nil {
		s.logger.Error("Failed to open chat room",
			zap.String("propertyID", propertyID.String()),
			zap.String("buyerID", buyerID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to open chat room.")
	}
	return room, nil
}

// memberRoom loads the room and verifies the user belongs to it.
func (s *ServiceImplementation) memberRoom(ctx context.Context, roomID, userID uuid.UUID) (*ChatRoom, error) {
	room, err := s.repo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.BuyerID != userID && room.AgentID != userID {
		return nil, common.ErrForbidden.WithDetails("You are not a participant in this chat room.")
	}
	return room, nil
}

func (s *ServiceImplementation) ListRooms(ctx context.Context, userID uuid.UUID) ([]RoomView, error) {
	rooms, err := s.repo.ListRoomsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list chat rooms", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to list chat rooms.")
	}

	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		unread, err := s.repo.CountUnread(ctx, room.ID, userID)
		if err != nil {
			s.logger.Warn("Failed to count unread messages",
				zap.String("roomID", room.ID.String()), zap.Error(err))
			unread = 0
		}
		views = append(views, RoomView{
			ID:          room.ID,
			PropertyID:  room.PropertyID,
			BuyerID:     room.BuyerID,
			AgentID:     room.AgentID,
			UnreadCount: unread,
			CreatedAt:   room.CreatedAt,
			UpdatedAt:   room.UpdatedAt,
		})
	}
	return views, nil
}

func (s *ServiceImplementation) GetMessages(ctx context.Context, roomID, userID uuid.UUID) ([]MessageView, error) {
	if _, err := s.memberRoom(ctx, roomID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, roomID)
	if err != nil {
		s.logger.Error("Failed to list chat messages", zap.String("roomID", roomID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to load messages.")
	}

	// Sender profiles are looked up once per distinct sender.
	profileCache := make(map[uuid.UUID]*shared.Profile, 2)
	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, s.toView(ctx, &messages[i], profileCache))
	}
	return views, nil
}

func (s *ServiceImplementation) toView(ctx context.Context, m *ChatMessage, cache map[uuid.UUID]*shared.Profile) MessageView {
	view := MessageView{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}

	profile, ok := cache[m.SenderID]
	if !ok {
		var err error
		profile, err = s.profiles.GetProfileByID(ctx, m.SenderID)
		if err != nil {
			// The message still renders; only the sender decoration is lost.
			s.logger.Warn("Failed to load sender profile for chat message",
				zap.String("senderID", m.SenderID.String()), zap.Error(err))
			profile = nil
		}
		cache[m.SenderID] = profile
	}
	if profile != nil {
		if profile.DisplayName != nil {
			view.SenderName = *profile.DisplayName
		}
		if profile.AvatarURL != nil {
			view.SenderAvatarURL = *profile.AvatarURL
		}
	}
	return view
}

func (s *ServiceImplementation) SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*MessageView, error) {
	if _, err := s.memberRoom(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	msg := &ChatMessage{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error("Failed to persist chat message", zap.String("roomID", roomID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Failed to send message.")
	}

	// Room lists sort by last activity.
	if err := s.repo.TouchRoom(ctx, roomID); err != nil {
		s.logger.Warn("Failed to bump chat room activity", zap.String("roomID", roomID.String()), zap.Error(err))
	}

	cache := make(map[uuid.UUID]*shared.Profile, 1)
	view := s.toView(ctx, msg, cache)
	s.hub.Publish(view)
	return &view, nil
}

func (s *ServiceImplementation) MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	if _, err := s.memberRoom(ctx, roomID, readerID); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkRead(ctx, roomID, readerID)
	if err != nil {
		s.logger.Error("Failed to mark messages read", zap.String("roomID", roomID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Failed to mark messages read.")
	}
	return count, nil
}

func (s *ServiceImplementation) Stream(ctx context.Context, roomID, userID uuid.UUID) (<-chan MessageView, func(), error) {
	if _, err := s.memberRoom(ctx, roomID, userID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(roomID)
	return ch, cancel, nil
}
