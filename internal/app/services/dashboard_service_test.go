package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		present, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{5, 5, 100},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AttendanceRate(tt.present, tt.total), "%d/%d", tt.present, tt.total)
	}
}

func seedDashboard(f *fixture) {
	f.addWeek(f.cid, 1, "2026-03-02", "2026-03-08")
	f.addWeek(f.cid, 2, "2026-03-09", "2026-03-15")
	f.addWeek(f.cid, 3, "2026-03-16", "2026-03-22")

	done := f.addProject(f.cid, "Landing page", &f.member.ID)
	done.Status = models.ProjectCompleted
	f.addProject(f.cid, "Portfolio", &f.member.ID)
	f.addProject(f.cid, "Admin tooling", &f.admin.ID)

	f.addAttendance(f.cid, f.member.ID, "2026-03-03", models.AttendancePresent)
	f.addAttendance(f.cid, f.member.ID, "2026-03-04", models.AttendancePresent)
	f.addAttendance(f.cid, f.member.ID, "2026-03-05", models.AttendancePresent)
	f.addAttendance(f.cid, f.member.ID, "2026-03-06", models.AttendanceAbsent)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		a := &models.Announcement{ID: uuid.New(), CommitteeID: f.cid, CreatedBy: f.admin.ID, Title: "Update", Priority: models.PriorityLow, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		f.store.data.announcements[a.ID] = a
	}
}

func newDashboardService(f *fixture) *DashboardService {
	svc := NewDashboardService(f.store, f.policy, f.v, time.UTC, f.logger)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardService_Summary(t *testing.T) {
	f := newFixture()
	seedDashboard(f)

	summary, err := newDashboardService(f).Summary(context.Background(), f.member)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalProjects)
	assert.Equal(t, 1, summary.CompletedProjects)
	assert.Equal(t, 75, summary.AttendanceRate)
	require.Len(t, summary.UpcomingWeeks, 2)
	assert.Equal(t, 2, summary.UpcomingWeeks[0].WeekNumber)
	assert.Len(t, summary.RecentAnnouncements, recentAnnouncementLimit)
	assert.Empty(t, summary.Degraded)
}

func TestDashboardService_SummaryEmptyCommittee(t *testing.T) {
	f := newFixture()

	summary, err := newDashboardService(f).Summary(context.Background(), f.member)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProjects)
	assert.Zero(t, summary.AttendanceRate)
	assert.NotNil(t, summary.UpcomingWeeks)
	assert.NotNil(t, summary.RecentAnnouncements)
}

func TestDashboardService_SummaryDegradesFailedSections(t *testing.T) {
	f := newFixture()
	seedDashboard(f)
	f.store.data.fail("attendance.stats", errors.New("statement timeout"))
	f.store.data.fail("announcements.list", errors.New("statement timeout"))

	summary, err := newDashboardService(f).Summary(context.Background(), f.member)
	require.NoError(t, err)

	assert.Equal(t, []string{SectionAttendance, SectionAnnouncements}, summary.Degraded)
	assert.Zero(t, summary.AttendanceRate)
	assert.Empty(t, summary.RecentAnnouncements)
	assert.Equal(t, 2, summary.TotalProjects, "healthy sections are still filled")
	assert.Len(t, summary.UpcomingWeeks, 2)
}

func TestDashboardService_SummaryRequiresCaller(t *testing.T) {
	f := newFixture()

	_, err := newDashboardService(f).Summary(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestDashboardService_CommitteeAttendance(t *testing.T) {
	f := newFixture()
	seedDashboard(f)
	svc := newDashboardService(f)

	rows, err := svc.CommitteeAttendance(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, rows, 1, "only members of the committee are listed")
	assert.Equal(t, f.member.ID, rows[0].UserID)
	assert.Equal(t, 3, rows[0].Present)
	assert.Equal(t, 4, rows[0].Total)
	assert.Equal(t, 75, rows[0].Rate)

	_, err = svc.CommitteeAttendance(context.Background(), f.member)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
