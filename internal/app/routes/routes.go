package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/controllers"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/middleware"
	"github.com/yigit/starmentor/internal/pkg/websocket"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Member       *controllers.MemberController
	Week         *controllers.WeekController
	Project      *controllers.ProjectController
	Attendance   *controllers.AttendanceController
	Announcement *controllers.AnnouncementController
	Feedback     *controllers.FeedbackController
	Dashboard    *controllers.DashboardController
	Health       *controllers.HealthController
	Live         *websocket.Handler
}

// AuthLimit throttles the public sign-in and sign-up endpoints
type AuthLimit struct {
	Limiter middleware.RateLimiter
	Limit   int
	Window  time.Duration
}

// SetupMiddleware installs the global middleware chain
func SetupMiddleware(router *gin.Engine, corsOrigins []string, logger zerolog.Logger) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsOrigins) == 0 || (len(corsOrigins) == 1 && corsOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = corsOrigins
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.SecurityHeaders(),
		cors.New(corsConfig),
	)
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, authLimit AuthLimit, logger zerolog.Logger) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", h.Health.Health)

	// --- Public routes ---
	limited := middleware.RateLimit(authLimit.Limiter, authLimit.Limit, authLimit.Window, logger)
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", limited, h.Auth.SignUp)
		auth.POST("/signin", limited, h.Auth.SignIn)
	}
	v1.GET("/committees/public", h.Profile.ListPublicCommittees)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	authenticated.POST("/auth/signout", h.Auth.SignOut)

	authenticated.GET("/me", h.Profile.GetMe)
	authenticated.PATCH("/me", h.Profile.UpdateMe)

	authenticated.GET("/committee", h.Profile.GetCommittee)
	authenticated.PUT("/committee", adminOnly, h.Profile.UpdateCommittee)

	dashboard := authenticated.Group("/dashboard")
	{
		dashboard.GET("", h.Dashboard.GetSummary)
		dashboard.GET("/attendance", adminOnly, h.Dashboard.GetCommitteeAttendance)
	}

	members := authenticated.Group("/members", adminOnly)
	{
		members.GET("", h.Member.ListMembers)
		members.POST("", h.Member.AddMember)
		members.GET("/:id", h.Member.GetMember)
		members.PATCH("/:id", h.Member.ChangeRole)
		members.DELETE("/:id", h.Member.RemoveMember)
	}

	weeks := authenticated.Group("/weeks")
	{
		weeks.GET("", h.Week.ListWeeks)
		weeks.GET("/calendar.ics", h.Week.ExportCalendar)
		weeks.GET("/:id", h.Week.GetWeek)
		weeks.POST("", adminOnly, h.Week.CreateWeek)
		weeks.PATCH("/:id", adminOnly, h.Week.UpdateWeek)
		weeks.DELETE("/:id", adminOnly, h.Week.DeleteWeek)
	}

	projects := authenticated.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.GET("/:id", h.Project.GetProject)
		// assignee check happens in the service
		projects.PATCH("/:id/progress", h.Project.UpdateProgress)
		projects.POST("", adminOnly, h.Project.CreateProject)
		projects.PATCH("/:id", adminOnly, h.Project.UpdateProject)
		projects.DELETE("/:id", adminOnly, h.Project.DeleteProject)
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("", h.Attendance.ListAttendance)
		attendance.GET("/export", adminOnly, h.Attendance.ExportAttendance)
		attendance.GET("/:id", h.Attendance.GetAttendance)
		attendance.POST("", adminOnly, h.Attendance.CreateAttendance)
		attendance.PATCH("/:id", adminOnly, h.Attendance.UpdateAttendance)
		attendance.DELETE("/:id", adminOnly, h.Attendance.DeleteAttendance)
	}

	announcements := authenticated.Group("/announcements")
	{
		announcements.GET("", h.Announcement.ListAnnouncements)
		announcements.GET("/ws", h.Live.HandleConnection)
		announcements.GET("/:id", h.Announcement.GetAnnouncement)
		announcements.POST("", adminOnly, h.Announcement.CreateAnnouncement)
		announcements.PATCH("/:id", adminOnly, h.Announcement.UpdateAnnouncement)
		announcements.DELETE("/:id", adminOnly, h.Announcement.DeleteAnnouncement)
	}

	feedback := authenticated.Group("/feedback")
	{
		feedback.GET("", h.Feedback.ListFeedback)
		feedback.GET("/:id", h.Feedback.GetFeedback)
		feedback.POST("", adminOnly, h.Feedback.CreateFeedback)
		feedback.PATCH("/:id", adminOnly, h.Feedback.UpdateFeedback)
		feedback.DELETE("/:id", adminOnly, h.Feedback.DeleteFeedback)
	}
}
