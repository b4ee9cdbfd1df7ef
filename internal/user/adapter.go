// File: internal/user/adapter.go
package user

import (
	"github.com/ldw80203/house-video/internal/shared"
)

// ToSharedProfile converts the GORM model into the cross-package DTO used by
// middleware and the session manager.
func ToSharedProfile(p *Profile) *shared.Profile {
	if p == nil {
		return nil
	}
	return &shared.Profile{
		ID:          p.ID,
		FirebaseUID: p.FirebaseUID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Phone:       p.Phone,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
