package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// DashboardController serves the overview pages
type DashboardController struct {
	dashboard DashboardService
	logger    zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboard DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		dashboard: dashboard,
		logger:    logger,
	}
}

// GetSummary returns the caller's overview
// @Summary Dashboard summary
// @Description Project counts, attendance rate, upcoming weeks and recent announcements for the caller. Sections that failed to load are listed in degraded.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Summary"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /dashboard [get]
func (c *DashboardController) GetSummary(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	summary, err := c.dashboard.Summary(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}

// GetCommitteeAttendance returns the per-member attendance table
// @Summary Committee attendance rates
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MemberAttendanceResponse} "Attendance rates"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /dashboard/attendance [get]
func (c *DashboardController) GetCommitteeAttendance(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	rows, err := c.dashboard.CommitteeAttendance(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rows, ""))
}

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports backing service status
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a new HealthController. Nil checks are skipped.
func NewHealthController(checks map[string]Pinger) *HealthController {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthController{checks: active}
}

// Health pings every backing service
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "All services reachable"
// @Failure 503 {object} dto.APIResponse "A backing service is down"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	services := make(map[string]string, len(c.checks))
	for name, p := range c.checks {
		if err := p.Ping(reqCtx); err != nil {
			services[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		services[name] = "up"
	}

	resp := dto.NewSuccessResponse(gin.H{"services": services}, "ok")
	if status != http.StatusOK {
		resp.Success = false
		resp.Message = "degraded"
	}
	ctx.JSON(status, resp)
}
