package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// DashboardResponse is the caller's overview
type DashboardResponse struct {
	TotalProjects       int                    `json:"totalProjects" example:"4"`
	CompletedProjects   int                    `json:"completedProjects" example:"1"`
	AttendanceRate      int                    `json:"attendanceRate" example:"75"`
	UpcomingWeeks       []WeekResponse         `json:"upcomingWeeks"`
	RecentAnnouncements []*models.Announcement `json:"recentAnnouncements"`
	// Degraded names sections that could not be loaded
	Degraded []string `json:"degraded,omitempty"`
}

// MemberAttendanceResponse is one row of the committee attendance table
type MemberAttendanceResponse struct {
	UserID   uuid.UUID `json:"userId"`
	FullName string    `json:"fullName"`
	Present  int       `json:"present"`
	Total    int       `json:"total"`
	Rate     int       `json:"rate" example:"80"`
}
