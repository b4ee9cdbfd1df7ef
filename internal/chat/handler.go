// File: internal/chat/handler.go
package chat

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/middleware"
)

// Handler struct holds dependencies for chat handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the chat routes. Every chat operation requires an
// authenticated user.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	rooms := router.Group("/chat/rooms")
	rooms.Use(authMW)
	{
		rooms.POST("", h.openRoom)
		rooms.GET("", h.listRooms)
		rooms.GET("/:id/messages", h.getMessages)
		rooms.POST("/:id/messages", h.sendMessage)
		rooms.POST("/:id/read", h.markRead)
		rooms.GET("/:id/stream", h.stream)
	}
}

func (h *Handler) openRoom(c *gin.Context) {
	userID := middleware.GetProfileIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req OpenRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	room, err := h.service.OpenRoom(c.Request.Context(), req.PropertyID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Chat room ready.", room)
}

func (h *Handler) listRooms(c *gin.Context) {
	userID := middleware.GetProfileIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Chat rooms retrieved successfully.", rooms)
}

func (h *Handler) roomAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID := middleware.GetProfileIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return uuid.Nil, uuid.Nil, false
	}
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid chat room ID format."))
		return uuid.Nil, uuid.Nil, false
	}
	return roomID, userID, true
}

func (h *Handler) getMessages(c *gin.Context) {
	roomID, userID, ok := h.roomAndUser(c)
	if !ok {
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), roomID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Messages retrieved successfully.", messages)
}

func (h *Handler) sendMessage(c *gin.Context) {
	roomID, userID, ok := h.roomAndUser(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), roomID, userID, req.Content)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent successfully.", msg)
}

func (h *Handler) markRead(c *gin.Context) {
	roomID, userID, ok := h.roomAndUser(c)
	if !ok {
		return
	}

	count, err := h.service.MarkRead(c.Request.Context(), roomID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Messages marked read.", gin.H{"marked_read": count})
}

// stream pushes new room messages to the client over server-sent events
// until the client disconnects.
func (h *Handler) stream(c *gin.Context) {
	roomID, userID, ok := h.roomAndUser(c)
	if !ok {
		return
	}

	ch, cancel, err := h.service.Stream(c.Request.Context(), roomID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	defer cancel()

	h.logger.Debug("Chat stream opened",
		zap.String("roomID", roomID.String()), zap.String("userID", userID.String()))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) respondBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
