package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// AttendanceController handles attendance records
type AttendanceController struct {
	attendance AttendanceService
	exports    ExportService
	logger     zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendance AttendanceService, exports ExportService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendance: attendance,
		exports:    exports,
		logger:     logger,
	}
}

// ListAttendance lists attendance records, newest date first. Members only see their own.
// @Summary List attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Member profile ID" Format(uuid)
// @Param weekId query string false "Week ID" Format(uuid)
// @Param status query string false "Status filter" Enums(present, absent, excused)
// @Param from query string false "First date, YYYY-MM-DD"
// @Param to query string false "Last date, YYYY-MM-DD"
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceResponse} "Attendance"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /attendance [get]
func (c *AttendanceController) ListAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var query dto.AttendanceQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	records, err := c.attendance.List(ctx.Request.Context(), caller, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAttendanceResponses(records), ""))
}

// GetAttendance returns one record
// @Summary Get attendance record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceResponse} "Attendance record"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /attendance/{id} [get]
func (c *AttendanceController) GetAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	record, err := c.attendance.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAttendanceResponse(record), ""))
}

// CreateAttendance records attendance for a member
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAttendanceRequest true "Attendance"
// @Success 201 {object} dto.APIResponse{data=dto.AttendanceResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /attendance [post]
func (c *AttendanceController) CreateAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.attendance.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewAttendanceResponse(record), "Attendance recorded"))
}

// UpdateAttendance edits a record
// @Summary Update attendance record
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID" Format(uuid)
// @Param request body dto.UpdateAttendanceRequest true "Attendance fields"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceResponse} "Attendance updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /attendance/{id} [patch]
func (c *AttendanceController) UpdateAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.attendance.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAttendanceResponse(record), "Attendance updated"))
}

// DeleteAttendance removes a record
// @Summary Delete attendance record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Attendance deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /attendance/{id} [delete]
func (c *AttendanceController) DeleteAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendance.Delete(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Attendance deleted"))
}

// ExportAttendance downloads the committee's attendance as a spreadsheet
// @Summary Export attendance workbook
// @Tags attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel workbook"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /attendance/export [get]
func (c *AttendanceController) ExportAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	export, err := c.exports.AttendanceWorkbook(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("by", caller.ID.String()).Str("file", export.Filename).Msg("Attendance exported")
	writeExport(ctx, export)
}
