// File: internal/chat/model.go
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/ldw80203/house-video/internal/common"
)

// ChatRoom is the conversation between one buyer and the agent of one
// listing. The (property, buyer) pair is unique at the database level, so
// concurrent open attempts converge on a single room.
type ChatRoom struct {
	common.BaseModel
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_rooms_property_buyer" json:"property_id"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_rooms_property_buyer" json:"buyer_id"`
	AgentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"agent_id"`
}

// TableName specifies the table name for the ChatRoom model.
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// ChatMessage is one message inside a room.
type ChatMessage struct {
	common.BaseModel
	RoomID   uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	IsRead   bool      `gorm:"not null;default:false" json:"is_read"`
}

// TableName specifies the table name for the ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// OpenRoomRequest opens (or returns) the conversation for a listing.
type OpenRoomRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// SendMessageRequest posts one message into a room.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// MessageView is a message enriched with the sender's display profile. The
// profile fields stay empty when the lookup fails; the message itself is
// never dropped over a missing profile.
type MessageView struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"room_id"`
	SenderID        uuid.UUID `json:"sender_id"`
	SenderName      string    `json:"sender_name,omitempty"`
	SenderAvatarURL string    `json:"sender_avatar_url,omitempty"`
	Content         string    `json:"content"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}

// RoomView is a room with its unread count for the requesting user.
type RoomView struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	AgentID     uuid.UUID `json:"agent_id"`
	UnreadCount int64     `json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
