package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// AnnouncementController handles committee announcements
type AnnouncementController struct {
	announcements AnnouncementService
	logger        zerolog.Logger
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcements AnnouncementService, logger zerolog.Logger) *AnnouncementController {
	return &AnnouncementController{
		announcements: announcements,
		logger:        logger,
	}
}

// ListAnnouncements lists announcements, newest first
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param priority query string false "Priority filter" Enums(low, medium, high)
// @Param limit query int false "Maximum number of results" maximum(100)
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var query dto.AnnouncementQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	announcements, err := c.announcements.List(ctx.Request.Context(), caller, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(announcements, ""))
}

// GetAnnouncement returns one announcement
// @Summary Get announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	announcement, err := c.announcements.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(announcement, ""))
}

// CreateAnnouncement posts an announcement and notifies connected members
// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement} "Announcement created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	announcement, err := c.announcements.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(announcement, "Announcement created"))
}

// UpdateAnnouncement edits an announcement
// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID" Format(uuid)
// @Param request body dto.UpdateAnnouncementRequest true "Announcement fields"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [patch]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	announcement, err := c.announcements.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(announcement, "Announcement updated"))
}

// DeleteAnnouncement removes an announcement
// @Summary Delete announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Announcement deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.announcements.Delete(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Announcement deleted"))
}
