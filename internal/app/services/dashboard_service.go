package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/validation"
	"golang.org/x/sync/errgroup"
)

// Dashboard sections, reported in DashboardResponse.Degraded when their read fails
const (
	SectionProjects      = "projects"
	SectionAttendance    = "attendance"
	SectionUpcomingWeeks = "upcomingWeeks"
	SectionAnnouncements = "recentAnnouncements"
)

// recentAnnouncementLimit is how many announcements the overview shows
const recentAnnouncementLimit = 5

// AttendanceRate returns present/total as a percentage rounded half up. Zero total yields 0.
func AttendanceRate(present, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*present + total) / (2 * total)
}

// DashboardService aggregates the overview screens
type DashboardService struct {
	base
	now Clock
	loc *time.Location
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store repositories.Store, policy *auth.Policy, v *validation.Validator, loc *time.Location, logger zerolog.Logger) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{base: newBase(store, policy, v, logger), now: time.Now, loc: loc}
}

// Summary builds the caller's overview. The four reads run concurrently in their own
// transactions; a failed read leaves its section empty and is listed in Degraded.
func (s *DashboardService) Summary(ctx context.Context, caller *models.Profile) (*dto.DashboardResponse, error) {
	if err := s.policy.Authorize(caller, auth.ActionRead, auth.ResourceCommittee); err != nil {
		return nil, err
	}
	scope := s.policy.Scope(caller)
	today := models.Today(s.now(), s.loc)

	var (
		projects      repositories.ProjectStats
		attendance    repositories.AttendanceStats
		weeks         []*models.Week
		announcements []*models.Announcement

		mu       sync.Mutex
		degraded []string
	)

	// section runs fn in its own scoped transaction and never fails the group
	section := func(ctx context.Context, name string, fn func(ctx context.Context, repos *repositories.Repositories) error) func() error {
		return func() error {
			err := s.store.WithScope(ctx, scope, fn)
			if err != nil {
				s.logger.Warn().Err(err).
					Str("section", name).
					Str("profile_id", caller.ID.String()).
					Msg("Dashboard section unavailable")
				mu.Lock()
				degraded = append(degraded, name)
				mu.Unlock()
			}
			return nil
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(section(gctx, SectionProjects, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		projects, err = repos.Projects.Stats(ctx, scope, caller.ID)
		return err
	}))
	g.Go(section(gctx, SectionAttendance, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		attendance, err = repos.Attendance.Stats(ctx, scope, caller.ID)
		return err
	}))
	g.Go(section(gctx, SectionUpcomingWeeks, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		weeks, err = repos.Weeks.List(ctx, scope, repositories.WeekFilter{EndsOnOrAfter: &today})
		return err
	}))
	g.Go(section(gctx, SectionAnnouncements, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		announcements, err = repos.Announcements.List(ctx, scope, repositories.AnnouncementFilter{Limit: recentAnnouncementLimit})
		return err
	}))
	_ = g.Wait()

	if announcements == nil {
		announcements = []*models.Announcement{}
	}
	return &dto.DashboardResponse{
		TotalProjects:       projects.Total,
		CompletedProjects:   projects.Completed,
		AttendanceRate:      AttendanceRate(attendance.Present, attendance.Total),
		UpcomingWeeks:       dto.NewWeekResponses(weeks),
		RecentAnnouncements: announcements,
		Degraded:            sortedSections(degraded),
	}, nil
}

// sortedSections orders degraded names the way the sections are declared
func sortedSections(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	order := []string{SectionProjects, SectionAttendance, SectionUpcomingWeeks, SectionAnnouncements}
	failed := make(map[string]bool, len(names))
	for _, n := range names {
		failed[n] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range order {
		if failed[n] {
			out = append(out, n)
		}
	}
	return out
}

// CommitteeAttendance returns every member's attendance rate for the admin's committee
func (s *DashboardService) CommitteeAttendance(ctx context.Context, caller *models.Profile) ([]dto.MemberAttendanceResponse, error) {
	if err := s.committeeWide(caller, auth.ResourceAttendance); err != nil {
		return nil, err
	}

	var summaries []repositories.AttendanceSummary
	scope := s.policy.Scope(caller)
	err := s.store.WithScope(ctx, scope, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		summaries, err = repos.Attendance.Summaries(ctx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return memberAttendance(summaries), nil
}

func memberAttendance(summaries []repositories.AttendanceSummary) []dto.MemberAttendanceResponse {
	out := make([]dto.MemberAttendanceResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, dto.MemberAttendanceResponse{
			UserID:   sum.UserID,
			FullName: sum.FullName,
			Present:  sum.Present,
			Total:    sum.Total,
			Rate:     AttendanceRate(sum.Present, sum.Total),
		})
	}
	return out
}
