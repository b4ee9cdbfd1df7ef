// File: internal/user/model.go
package user

import (
	"time"

	"github.com/ldw80203/house-video/internal/common"

	"github.com/google/uuid"
)

// Profile represents the locally stored profile row for an externally
// authenticated user. Credentials never touch this table.
type Profile struct {
	common.BaseModel          // Embeds ID, CreatedAt, UpdatedAt
	FirebaseUID      string   `gorm:"type:varchar(128);uniqueIndex;not null"`
	DisplayName      *string  `gorm:"type:varchar(100)"`
	AvatarURL        *string  `gorm:"type:text"`
	Phone            *string  `gorm:"type:varchar(50)"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// --- DTOs for API requests/responses ---

// UpdateProfileRequest defines the structure for a partial profile edit.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Phone       *string `json:"phone,omitempty" binding:"omitempty,max=50"`
}

// ProfileResponse defines the structure for profile data in API responses.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProfileResponse converts a Profile model to a ProfileResponse DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Phone:       p.Phone,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
