// File: internal/listing/handler.go
package listing

import (
	"errors"
	"strings"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for listing handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for listing operations. Reads are public;
// writes require an authenticated agent.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	listings := router.Group("/listings")
	{
		listings.GET("", h.listPublished)
		listings.GET("/search", h.search)
		listings.GET("/districts", h.listDistricts)
		listings.GET("/room-types", h.listRoomTypes)
		listings.GET("/:id", h.getByID)

		authed := listings.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.create)
			authed.PATCH("/:id", h.update)
			authed.DELETE("/:id", h.delete)
			authed.GET("/mine", h.listMine)
		}
	}
}

// listPublished returns the published feed, newest first, narrowed by any
// filter fields present in the query string.
func (h *Handler) listPublished(c *gin.Context) {
	var f Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid filter parameters."))
		return
	}

	listings, err := h.service.ListPublished(c.Request.Context(), f)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listings retrieved successfully.", ToListingResponses(listings))
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'q' is required."))
		return
	}

	listings, err := h.service.SearchListings(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search results retrieved successfully.", ToListingResponses(listings))
}

func (h *Handler) listDistricts(c *gin.Context) {
	common.RespondOK(c, "Districts retrieved successfully.", Districts)
}

func (h *Handler) listRoomTypes(c *gin.Context) {
	common.RespondOK(c, "Room types retrieved successfully.", RoomTypes)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	l, err := h.service.GetListingByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := ToListingResponse(l)
	common.RespondOK(c, "Listing retrieved successfully.", resp)
}

func (h *Handler) create(c *gin.Context) {
	agentID := middleware.GetProfileIDFromContext(c)
	if agentID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	l, err := h.service.CreateListing(c.Request.Context(), agentID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := ToListingResponse(l)
	common.RespondCreated(c, "Listing created successfully.", resp)
}

func (h *Handler) update(c *gin.Context) {
	agentID := middleware.GetProfileIDFromContext(c)
	if agentID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	l, err := h.service.UpdateListing(c.Request.Context(), id, agentID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := ToListingResponse(l)
	common.RespondOK(c, "Listing updated successfully.", resp)
}

func (h *Handler) delete(c *gin.Context) {
	agentID := middleware.GetProfileIDFromContext(c)
	if agentID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), id, agentID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listMine(c *gin.Context) {
	agentID := middleware.GetProfileIDFromContext(c)
	if agentID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	listings, err := h.service.ListByAgent(c.Request.Context(), agentID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listings retrieved successfully.", ToListingResponses(listings))
}

func (h *Handler) respondBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
