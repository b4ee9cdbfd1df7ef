// File: internal/chat/repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ldw80203/house-video/internal/common"
)

// Repository defines persistence operations for chat rooms and messages.
type Repository interface {
	// GetOrCreateRoom returns the room for the (property, buyer) pair,
	// creating it when missing. Loses the insert race gracefully by
	// re-reading the winner's row.
	GetOrCreateRoom(ctx context.Context, propertyID, buyerID, agentID uuid.UUID) (*ChatRoom, error)
	FindRoomByID(ctx context.Context, id uuid.UUID) (*ChatRoom, error)
	ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]ChatRoom, error)
	CreateMessage(ctx context.Context, m *ChatMessage) error
	// ListMessages returns a room's messages oldest first.
	ListMessages(ctx context.Context, roomID uuid.UUID) ([]ChatMessage, error)
	// MarkRead marks messages in the room as read, scoped to messages the
	// reader did not send. Returns how many rows changed.
	MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, roomID, userID uuid.UUID) (int64, error)
	// TouchRoom bumps the room's updated_at so room lists sort by activity.
	TouchRoom(ctx context.Context, roomID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM chat repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func (r *gormRepository) GetOrCreateRoom(ctx context.Context, propertyID, buyerID, agentID uuid.UUID) (*ChatRoom, error) {
	var room ChatRoom
	err := r.db.WithContext(ctx).
		First(&room, "property_id = ? AND buyer_id = ?", propertyID, buyerID).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("finding chat room: %w", err)
	}

	room = ChatRoom{PropertyID: propertyID, BuyerID: buyerID, AgentID: agentID}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		if isUniqueViolation(err) {
			// Another request created the room first; its row wins.
			var existing ChatRoom
			if err := r.db.WithContext(ctx).
				First(&existing, "property_id = ? AND buyer_id = ?", propertyID, buyerID).Error; err != nil {
				return nil, fmt.Errorf("re-reading chat room after insert race: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("creating chat room: %w", err)
	}
	return &room, nil
}

func (r *gormRepository) FindRoomByID(ctx context.Context, id uuid.UUID) (*ChatRoom, error) {
	var room ChatRoom
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Chat room with ID %s not found.", id))
		}
		return nil, fmt.Errorf("finding chat room by ID %s: %w", id, err)
	}
	return &room, nil
}

func (r *gormRepository) ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]ChatRoom, error) {
	var rooms []ChatRoom
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR agent_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("listing chat rooms for user %s: %w", userID, err)
	}
	return rooms, nil
}

func (r *gormRepository) CreateMessage(ctx context.Context, m *ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("creating chat message: %w", err)
	}
	return nil
}

func (r *gormRepository) ListMessages(ctx context.Context, roomID uuid.UUID) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("listing messages for room %s: %w", roomID, err)
	}
	return messages, nil
}

func (r *gormRepository) MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("marking messages read in room %s: %w", roomID, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) CountUnread(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting unread messages in room %s: %w", roomID, err)
	}
	return count, nil
}

func (r *gormRepository) TouchRoom(ctx context.Context, roomID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&ChatRoom{}).
		Where("id = ?", roomID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("touching chat room %s: %w", roomID, err)
	}
	return nil
}
