// Package controllers handles HTTP request handling
package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/services"
	"github.com/yigit/starmentor/internal/pkg/auth"
)

// The interfaces below are the slices of the service layer each controller uses.
// The concrete services in internal/app/services satisfy them.

// SessionService signs principals in and out
type SessionService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*services.Session, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (*services.Session, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
}

// ProfileService reads and edits the caller's own profile
type ProfileService interface {
	Me(ctx context.Context, caller *models.Profile) (*models.Profile, error)
	UpdateSelf(ctx context.Context, caller *models.Profile, req dto.UpdateMeRequest) (*models.Profile, error)
}

// CommitteeService reads and edits the caller's committee
type CommitteeService interface {
	Get(ctx context.Context, caller *models.Profile) (*models.Committee, error)
	Update(ctx context.Context, caller *models.Profile, req dto.UpdateCommitteeRequest) (*models.Committee, error)
	ListPublic(ctx context.Context) ([]*models.Committee, error)
}

// MemberService manages the committee roster
type MemberService interface {
	List(ctx context.Context, caller *models.Profile, query dto.MemberQuery) ([]*models.Profile, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Profile, error)
	Add(ctx context.Context, caller *models.Profile, req dto.AddMemberRequest) (*models.Profile, error)
	ChangeRole(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.ChangeRoleRequest) (*models.Profile, error)
	Remove(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// WeekService manages the curriculum
type WeekService interface {
	List(ctx context.Context, caller *models.Profile, upcoming bool) ([]*models.Week, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Week, error)
	Create(ctx context.Context, caller *models.Profile, req dto.CreateWeekRequest) (*models.Week, error)
	Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateWeekRequest) (*models.Week, error)
	Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// ProjectService manages project assignments
type ProjectService interface {
	List(ctx context.Context, caller *models.Profile, query dto.ProjectQuery) ([]*models.Project, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, caller *models.Profile, req dto.CreateProjectRequest) (*models.Project, error)
	Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateProjectRequest) (*models.Project, error)
	UpdateProgress(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.ProjectProgressRequest) (*models.Project, error)
	Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// AttendanceService manages attendance records
type AttendanceService interface {
	List(ctx context.Context, caller *models.Profile, query dto.AttendanceQuery) ([]*models.Attendance, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Attendance, error)
	Create(ctx context.Context, caller *models.Profile, req dto.CreateAttendanceRequest) (*models.Attendance, error)
	Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateAttendanceRequest) (*models.Attendance, error)
	Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// AnnouncementService manages committee announcements
type AnnouncementService interface {
	List(ctx context.Context, caller *models.Profile, query dto.AnnouncementQuery) ([]*models.Announcement, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Announcement, error)
	Create(ctx context.Context, caller *models.Profile, req dto.CreateAnnouncementRequest) (*models.Announcement, error)
	Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateAnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// FeedbackService manages member feedback
type FeedbackService interface {
	List(ctx context.Context, caller *models.Profile, query dto.FeedbackQuery) ([]*models.Feedback, error)
	Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Feedback, error)
	Create(ctx context.Context, caller *models.Profile, req dto.CreateFeedbackRequest) (*models.Feedback, error)
	Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateFeedbackRequest) (*models.Feedback, error)
	Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error
}

// DashboardService builds overview pages
type DashboardService interface {
	Summary(ctx context.Context, caller *models.Profile) (*dto.DashboardResponse, error)
	CommitteeAttendance(ctx context.Context, caller *models.Profile) ([]dto.MemberAttendanceResponse, error)
}

// ExportService renders downloadable files
type ExportService interface {
	AttendanceWorkbook(ctx context.Context, caller *models.Profile) (*services.Export, error)
	WeekCalendar(ctx context.Context, caller *models.Profile) (*services.Export, error)
}
