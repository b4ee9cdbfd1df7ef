// File: internal/session/handler.go
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/middleware"
	"github.com/ldw80203/house-video/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler exposes the session operations over HTTP. Tokens themselves are
// issued by the external auth provider; this surface exchanges them for a
// profile and handles revocation.
type Handler struct {
	verifier  shared.TokenVerifier
	profiles  shared.Service
	blocklist shared.TokenBlocklist
	logger    *zap.Logger
}

// NewHandler creates a new session handler.
func NewHandler(verifier shared.TokenVerifier, profiles shared.Service, blocklist shared.TokenBlocklist, logger *zap.Logger) *Handler {
	return &Handler{
		verifier:  verifier,
		profiles:  profiles,
		blocklist: blocklist,
		logger:    logger,
	}
}

type signInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type signUpRequest struct {
	IDToken     string `json:"id_token" binding:"required"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// RegisterRoutes sets up the session routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/sign-in", h.signIn)
		authGroup.POST("/sign-up", h.signUp)

		authed := authGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("/sign-out", h.signOut)
			authed.GET("/session", h.getSession)
		}
	}
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	token, err := h.verifier.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
		return
	}

	profile, _, err := h.profiles.GetOrCreateProfileFromToken(c.Request.Context(), token)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed in successfully.", profile)
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	token, err := h.verifier.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), token.UID, req.DisplayName)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Signed up successfully.", profile)
}

// signOut revokes the presented token so it cannot be replayed, and revokes
// the provider refresh tokens for the identity.
func (h *Handler) signOut(c *gin.Context) {
	authHeader := c.GetHeader(middleware.AuthorizationHeader)
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 {
		idToken := parts[1]
		// Firebase ID tokens live for at most an hour.
		if err := h.blocklist.Revoke(c.Request.Context(), idToken, time.Now().Add(time.Hour)); err != nil {
			h.logger.Error("Failed to blocklist token on sign-out", zap.Error(err))
		}
	}

	uid := c.GetString(middleware.FirebaseUIDKey)
	if uid != "" {
		if err := h.verifier.RevokeRefreshTokens(c.Request.Context(), uid); err != nil {
			h.logger.Error("Failed to revoke refresh tokens", zap.String("uid", uid), zap.Error(err))
		}
	}

	common.RespondNoContent(c)
}

func (h *Handler) getSession(c *gin.Context) {
	profile := middleware.GetProfileFromContext(c)
	if profile == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	common.RespondOK(c, "Session retrieved successfully.", profile)
}

func (h *Handler) respondBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
