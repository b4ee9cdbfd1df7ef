// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// ProfileIDKey is the context key for the authenticated user's profile ID
	ProfileIDKey = "profileID"
	// FirebaseUIDKey is the context key for the provider-issued user ID
	FirebaseUIDKey = "firebaseUID"
	// ProfileKey stores the whole profile object
	ProfileKey = "profile"
)

// AuthMiddleware creates a Gin middleware that verifies the Firebase ID token,
// rejects revoked tokens, and ensures a local profile row exists for the
// authenticated identity.
func AuthMiddleware(
	verifier shared.TokenVerifier,
	blocklist shared.TokenBlocklist,
	profiles shared.Service,
	logger *zap.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		idToken := parts[1]

		revoked, err := blocklist.IsRevoked(c.Request.Context(), idToken)
		if err != nil {
			logger.Error("Token blocklist lookup failed", zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer)
			return
		}
		if revoked {
			logger.Debug("Rejected revoked token")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Session has been signed out."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		profile, _, err := profiles.GetOrCreateProfileFromToken(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to resolve profile for authenticated user",
				zap.String("uid", token.UID), zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not resolve user profile."))
			return
		}

		c.Set(ProfileIDKey, profile.ID)
		c.Set(FirebaseUIDKey, token.UID)
		c.Set(ProfileKey, profile)

		logger.Debug("User authenticated successfully",
			zap.String("profileID", profile.ID.String()),
			zap.String("uid", token.UID),
		)

		c.Next()
	}
}

// GetProfileIDFromContext retrieves the profile ID from the Gin context.
// Returns uuid.Nil if not found.
func GetProfileIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ProfileIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetProfileFromContext retrieves the full profile from the Gin context.
func GetProfileFromContext(c *gin.Context) *shared.Profile {
	val, exists := c.Get(ProfileKey)
	if !exists {
		return nil
	}
	profile, ok := val.(*shared.Profile)
	if !ok {
		return nil
	}
	return profile
}
