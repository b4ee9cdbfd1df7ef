// File: internal/user/handler.go
package user

import (
	"errors"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/middleware"
	"github.com/ldw80203/house-video/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service shared.Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service shared.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	profileGroup := router.Group("/profiles")
	profileGroup.Use(authMW)
	{
		profileGroup.GET("/me", h.getMe)
		profileGroup.PATCH("/me", h.updateMe)
		profileGroup.GET("/:id", h.getByID)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	profile := middleware.GetProfileFromContext(c)
	if profile == nil {
		h.logger.Error("Profile not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", profile)
}

func (h *Handler) updateMe(c *gin.Context) {
	profileID := middleware.GetProfileIDFromContext(c)
	if profileID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), profileID, shared.ProfileUpdate{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Phone:       req.Phone,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", updated)
}

// getByID returns another user's public profile; used by chat views to show
// the conversation peer.
func (h *Handler) getByID(c *gin.Context) {
	paramID := c.Param("id")
	id, err := uuid.Parse(paramID)
	if err != nil {
		h.logger.Warn("Invalid profile ID format in URL parameter", zap.String("paramID", paramID), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return
	}
	profile, err := h.service.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", profile)
}
