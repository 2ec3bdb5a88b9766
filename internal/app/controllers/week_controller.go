package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// WeekController handles curriculum weeks
type WeekController struct {
	weeks   WeekService
	exports ExportService
	logger  zerolog.Logger
}

// NewWeekController creates a new WeekController
func NewWeekController(weeks WeekService, exports ExportService, logger zerolog.Logger) *WeekController {
	return &WeekController{
		weeks:   weeks,
		exports: exports,
		logger:  logger,
	}
}

// ListWeeks lists the committee's weeks ordered by week number
// @Summary List weeks
// @Tags weeks
// @Produce json
// @Security BearerAuth
// @Param upcoming query bool false "Only weeks that end today or later"
// @Success 200 {object} dto.APIResponse{data=[]dto.WeekResponse} "Weeks"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /weeks [get]
func (c *WeekController) ListWeeks(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	upcoming := false
	if raw := ctx.Query("upcoming"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid query parameters").
				WithField("upcoming").
				WithDetails("upcoming must be a boolean")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		upcoming = parsed
	}

	weeks, err := c.weeks.List(ctx.Request.Context(), caller, upcoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewWeekResponses(weeks), ""))
}

// GetWeek returns one week
// @Summary Get week
// @Tags weeks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Week ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.WeekResponse} "Week"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Week not found"
// @Router /weeks/{id} [get]
func (c *WeekController) GetWeek(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	week, err := c.weeks.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewWeekResponse(week), ""))
}

// CreateWeek adds a week to the curriculum
// @Summary Create week
// @Tags weeks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWeekRequest true "Week"
// @Success 201 {object} dto.APIResponse{data=dto.WeekResponse} "Week created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /weeks [post]
func (c *WeekController) CreateWeek(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateWeekRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	week, err := c.weeks.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewWeekResponse(week), "Week created"))
}

// UpdateWeek edits a week
// @Summary Update week
// @Tags weeks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Week ID" Format(uuid)
// @Param request body dto.UpdateWeekRequest true "Week fields"
// @Success 200 {object} dto.APIResponse{data=dto.WeekResponse} "Week updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Week not found"
// @Router /weeks/{id} [patch]
func (c *WeekController) UpdateWeek(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateWeekRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	week, err := c.weeks.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewWeekResponse(week), "Week updated"))
}

// DeleteWeek removes a week. Attendance records keep their rows but lose the week link.
// @Summary Delete week
// @Tags weeks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Week ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Week deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Week not found"
// @Router /weeks/{id} [delete]
func (c *WeekController) DeleteWeek(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.weeks.Delete(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("weekID", id.String()).Str("by", caller.ID.String()).Msg("Week deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Week deleted"))
}

// ExportCalendar downloads the committee's weeks as an iCalendar file
// @Summary Export week calendar
// @Tags weeks
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {file} file "iCalendar file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Caller has no committee"
// @Router /weeks/calendar.ics [get]
func (c *WeekController) ExportCalendar(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	export, err := c.exports.WeekCalendar(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	writeExport(ctx, export)
}
