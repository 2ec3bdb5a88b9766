package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// FeedbackController handles mentor feedback
type FeedbackController struct {
	feedback FeedbackService
	logger   zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedback FeedbackService, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{
		feedback: feedback,
		logger:   logger,
	}
}

// ListFeedback lists feedback, newest first. Members only see feedback given to them.
// @Summary List feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Recipient profile ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.Feedback} "Feedback"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /feedback [get]
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var query dto.FeedbackQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	feedback, err := c.feedback.List(ctx.Request.Context(), caller, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedback, ""))
}

// GetFeedback returns one feedback entry
// @Summary Get feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Feedback} "Feedback"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Router /feedback/{id} [get]
func (c *FeedbackController) GetFeedback(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	feedback, err := c.feedback.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedback, ""))
}

// CreateFeedback gives feedback to a member
// @Summary Give feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeedbackRequest true "Feedback"
// @Success 201 {object} dto.APIResponse{data=models.Feedback} "Feedback created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /feedback [post]
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	feedback, err := c.feedback.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(feedback, "Feedback created"))
}

// UpdateFeedback edits feedback
// @Summary Update feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID" Format(uuid)
// @Param request body dto.UpdateFeedbackRequest true "Feedback fields"
// @Success 200 {object} dto.APIResponse{data=models.Feedback} "Feedback updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Router /feedback/{id} [patch]
func (c *FeedbackController) UpdateFeedback(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	feedback, err := c.feedback.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedback, "Feedback updated"))
}

// DeleteFeedback removes feedback
// @Summary Delete feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Feedback deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Router /feedback/{id} [delete]
func (c *FeedbackController) DeleteFeedback(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.feedback.Delete(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Feedback deleted"))
}
