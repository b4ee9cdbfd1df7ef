// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Profile is the identity-adjacent record stored locally for every
// authenticated user. The identity itself (email, credentials) lives with
// the external auth provider; this row carries only display data.
type Profile struct {
	ID          uuid.UUID  `json:"id"`
	FirebaseUID string     `json:"-"`
	DisplayName *string    `json:"display_name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left as-is.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// Service is the profile surface needed outside the user package
// (middleware, session manager). Implemented by user.ServiceImplementation.
type Service interface {
	GetOrCreateProfileFromToken(ctx context.Context, token *firebaseauth.Token) (profile *Profile, wasCreated bool, err error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error)
	CreateProfile(ctx context.Context, firebaseUID string, displayName string) (*Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates ProfileUpdate) (*Profile, error)
}

// TokenVerifier abstracts the external auth provider's token operations.
// Implemented by firebase.Service; mocked in tests.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// TokenBlocklist answers whether a presented ID token was revoked by an
// explicit sign-out before its natural expiry.
type TokenBlocklist interface {
	Revoke(ctx context.Context, idToken string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, idToken string) (bool, error)
}
