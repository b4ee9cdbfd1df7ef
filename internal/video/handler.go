// File: internal/video/handler.go
package video

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/middleware"
	"github.com/ldw80203/house-video/internal/platform/storage"
)

// maxUploadBytes caps listing video uploads at 200 MB.
const maxUploadBytes = 200 << 20

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// Handler serves video playback resolution and uploads.
type Handler struct {
	store  storage.Store
	logger *zap.Logger
}

// NewHandler creates a new video handler.
func NewHandler(store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes sets up the video routes. Source resolution is public;
// uploading requires an authenticated agent.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	videos := router.Group("/videos")
	{
		videos.GET("/source", h.resolveSource)

		authed := videos.Group("")
		authed.Use(authMW)
		{
			authed.POST("/upload", h.upload)
		}
	}
}

// resolveSource classifies a video URL into a playback plan so clients do
// not duplicate the YouTube URL parsing.
func (h *Handler) resolveSource(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'url' is required."))
		return
	}
	common.RespondOK(c, "Playback source resolved successfully.", ResolveSource(rawURL))
}

// upload stores a listing video file and returns its public URL for use as
// the listing's video_url.
func (h *Handler) upload(c *gin.Context) {
	agentID := middleware.GetProfileIDFromContext(c)
	if agentID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Multipart field 'video' is required."))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Video exceeds the 200MB upload limit."))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedVideoTypes[contentType] {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unsupported video type; use mp4, mov or webm."))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded video", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to read upload."))
		return
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	base := slug.Make(strings.TrimSuffix(fileHeader.Filename, ext))
	if base == "" {
		base = "video"
	}
	objectPath := fmt.Sprintf("listing-videos/%s/%d-%s%s",
		agentID, time.Now().Unix(), base, strings.ToLower(ext))

	publicURL, err := h.store.Upload(c.Request.Context(), objectPath, file, contentType)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to store video."))
		return
	}

	h.logger.Info("Listing video uploaded",
		zap.String("agentID", agentID.String()), zap.String("object", objectPath))
	common.RespondCreated(c, "Video uploaded successfully.", gin.H{"video_url": publicURL})
}
