package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// fakeStore runs every unit of work against one in-memory dataset and records the scopes used
type fakeStore struct {
	mu     sync.Mutex
	scopes []repositories.Scope
	data   *fakeData
	repos  *repositories.Repositories
}

func newFakeStore() *fakeStore {
	d := &fakeData{
		profiles:      map[uuid.UUID]*models.Profile{},
		committees:    map[uuid.UUID]*models.Committee{},
		weeks:         map[uuid.UUID]*models.Week{},
		projects:      map[uuid.UUID]*models.Project{},
		attendance:    map[uuid.UUID]*models.Attendance{},
		announcements: map[uuid.UUID]*models.Announcement{},
		feedback:      map[uuid.UUID]*models.Feedback{},
		failures:      map[string]error{},
	}
	return &fakeStore{
		data: d,
		repos: &repositories.Repositories{
			Profiles:      &fakeProfiles{d},
			Committees:    &fakeCommittees{d},
			Weeks:         &fakeWeeks{d},
			Projects:      &fakeProjects{d},
			Attendance:    &fakeAttendance{d},
			Announcements: &fakeAnnouncements{d},
			Feedback:      &fakeFeedback{d},
		},
	}
}

func (s *fakeStore) WithScope(ctx context.Context, scope repositories.Scope, fn repositories.ScopedFn) error {
	s.mu.Lock()
	s.scopes = append(s.scopes, scope)
	s.mu.Unlock()
	return fn(ctx, s.repos)
}

func (s *fakeStore) WithSystem(ctx context.Context, fn repositories.ScopedFn) error {
	return s.WithScope(ctx, repositories.SystemScope(), fn)
}

func (s *fakeStore) lastScope() repositories.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes[len(s.scopes)-1]
}

// fakeData is the shared dataset. failures makes the named operation return an error.
type fakeData struct {
	mu            sync.Mutex
	profiles      map[uuid.UUID]*models.Profile
	committees    map[uuid.UUID]*models.Committee
	weeks         map[uuid.UUID]*models.Week
	projects      map[uuid.UUID]*models.Project
	attendance    map[uuid.UUID]*models.Attendance
	announcements map[uuid.UUID]*models.Announcement
	feedback      map[uuid.UUID]*models.Feedback
	failures      map[string]error
	calls         []string
}

func (d *fakeData) hit(op string) error {
	d.calls = append(d.calls, op)
	return d.failures[op]
}

func (d *fakeData) fail(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = err
}

func (d *fakeData) called(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c == op {
			n++
		}
	}
	return n
}

// inCommittee reports whether a row of committee cid is visible to scope
func inCommittee(scope repositories.Scope, cid uuid.UUID) bool {
	return scope.IsSystem() || (scope.HasCommittee() && scope.CommitteeID == cid)
}

// owned reports whether a row is visible to scope when members only see their own rows
func owned(scope repositories.Scope, cid uuid.UUID, owner *uuid.UUID) bool {
	if !inCommittee(scope, cid) {
		return false
	}
	if scope.IsSystem() || scope.IsAdmin() {
		return true
	}
	return owner != nil && *owner == scope.ProfileID
}

func writable(scope repositories.Scope) error {
	if scope.IsSystem() || scope.HasCommittee() {
		return nil
	}
	return apperrors.NewForbiddenError("caller is not assigned to a committee")
}

type fakeProfiles struct{ d *fakeData }

func (f *fakeProfiles) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Profile, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("profiles.get"); err != nil {
		return nil, err
	}
	p, ok := f.d.profiles[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	visible := scope.IsSystem() || p.ID == scope.ProfileID ||
		(scope.IsAdmin() && p.InCommittee(scope.CommitteeID))
	if !visible {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) List(_ context.Context, scope repositories.Scope, filter repositories.ProfileFilter) ([]*models.Profile, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []*models.Profile{}
	for _, p := range f.d.profiles {
		if !scope.IsSystem() && !p.InCommittee(scope.CommitteeID) {
			continue
		}
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeProfiles) Create(_ context.Context, scope repositories.Scope, profile *models.Profile) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("profiles.create"); err != nil {
		return err
	}
	if !scope.IsSystem() {
		cid := scope.CommitteeID
		profile.CommitteeID = &cid
	}
	cp := *profile
	f.d.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfiles) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.ProfilePatch) (*models.Profile, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.profiles[id]
	if !ok || !(scope.IsSystem() || id == scope.ProfileID || (scope.IsAdmin() && p.InCommittee(scope.CommitteeID))) {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.AvatarURL.Set {
		p.AvatarURL = patch.AvatarURL.Value
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) InCommittee(_ context.Context, scope repositories.Scope, id uuid.UUID) (bool, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.profiles[id]
	return ok && scope.HasCommittee() && p.InCommittee(scope.CommitteeID), nil
}

type fakeCommittees struct{ d *fakeData }

func (f *fakeCommittees) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Committee, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	c, ok := f.d.committees[id]
	if !ok || !inCommittee(scope, id) {
		return nil, apperrors.NewNotFoundError("committee not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommittees) GetByName(_ context.Context, _ repositories.Scope, name string) (*models.Committee, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, c := range f.d.committees {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("committee not found")
}

func (f *fakeCommittees) List(_ context.Context, _ repositories.Scope) ([]*models.Committee, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []*models.Committee{}
	for _, c := range f.d.committees {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCommittees) Create(_ context.Context, _ repositories.Scope, committee *models.Committee) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	committee.ID = uuid.New()
	cp := *committee
	f.d.committees[committee.ID] = &cp
	return nil
}

func (f *fakeCommittees) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.CommitteePatch) (*models.Committee, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	c, ok := f.d.committees[id]
	if !ok || !inCommittee(scope, id) {
		return nil, apperrors.NewNotFoundError("committee not found")
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	cp := *c
	return &cp, nil
}

type fakeWeeks struct{ d *fakeData }

func (f *fakeWeeks) List(_ context.Context, scope repositories.Scope, filter repositories.WeekFilter) ([]*models.Week, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("weeks.list"); err != nil {
		return nil, err
	}
	out := []*models.Week{}
	for _, w := range f.d.weeks {
		if !inCommittee(scope, w.CommitteeID) {
			continue
		}
		if filter.EndsOnOrAfter != nil && w.EndDate.Before(*filter.EndsOnOrAfter) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (f *fakeWeeks) Count(ctx context.Context, scope repositories.Scope, filter repositories.WeekFilter) (int, error) {
	weeks, err := f.List(ctx, scope, filter)
	return len(weeks), err
}

func (f *fakeWeeks) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Week, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	w, ok := f.d.weeks[id]
	if !ok || !inCommittee(scope, w.CommitteeID) {
		return nil, apperrors.NewNotFoundError("week not found")
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWeeks) Create(_ context.Context, scope repositories.Scope, week *models.Week) error {
	if err := writable(scope); err != nil {
		return err
	}
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	week.ID = uuid.New()
	week.CommitteeID = scope.CommitteeID
	week.CreatedAt = time.Now()
	cp := *week
	f.d.weeks[week.ID] = &cp
	return nil
}

func (f *fakeWeeks) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.WeekPatch) (*models.Week, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	w, ok := f.d.weeks[id]
	if !ok || !inCommittee(scope, w.CommitteeID) {
		return nil, apperrors.NewNotFoundError("week not found")
	}
	if patch.WeekNumber != nil {
		w.WeekNumber = *patch.WeekNumber
	}
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.StartDate != nil {
		w.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		w.EndDate = *patch.EndDate
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWeeks) Delete(_ context.Context, scope repositories.Scope, id uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("weeks.delete"); err != nil {
		return err
	}
	w, ok := f.d.weeks[id]
	if !ok || !inCommittee(scope, w.CommitteeID) {
		return apperrors.NewNotFoundError("week not found")
	}
	delete(f.d.weeks, id)
	return nil
}

func (f *fakeWeeks) Exists(_ context.Context, scope repositories.Scope, id uuid.UUID) (bool, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	w, ok := f.d.weeks[id]
	return ok && scope.HasCommittee() && w.CommitteeID == scope.CommitteeID, nil
}

type fakeProjects struct{ d *fakeData }

func (f *fakeProjects) List(_ context.Context, scope repositories.Scope, filter repositories.ProjectFilter) ([]*models.Project, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []*models.Project{}
	for _, p := range f.d.projects {
		if !owned(scope, p.CommitteeID, p.AssignedTo) {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Project, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.projects[id]
	if !ok || !owned(scope, p.CommitteeID, p.AssignedTo) {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Create(_ context.Context, scope repositories.Scope, project *models.Project) error {
	if err := writable(scope); err != nil {
		return err
	}
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	project.ID = uuid.New()
	project.CommitteeID = scope.CommitteeID
	if project.Status == "" {
		project.Status = models.ProjectPending
	}
	cp := *project
	f.d.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjects) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.ProjectPatch) (*models.Project, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if !scope.IsAdmin() && !scope.IsSystem() && !patch.ProgressOnly() {
		return nil, apperrors.NewForbiddenError("members may only update project status and submission url")
	}
	p, ok := f.d.projects[id]
	if !ok || !owned(scope, p.CommitteeID, p.AssignedTo) {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.AssignedTo.Set {
		p.AssignedTo = patch.AssignedTo.Value
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.SubmissionURL.Set {
		p.SubmissionURL = patch.SubmissionURL.Value
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Delete(_ context.Context, scope repositories.Scope, id uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.projects[id]
	if !ok || !inCommittee(scope, p.CommitteeID) {
		return apperrors.NewNotFoundError("project not found")
	}
	delete(f.d.projects, id)
	return nil
}

func (f *fakeProjects) Stats(_ context.Context, scope repositories.Scope, assignee uuid.UUID) (repositories.ProjectStats, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var stats repositories.ProjectStats
	if err := f.d.hit("projects.stats"); err != nil {
		return stats, err
	}
	for _, p := range f.d.projects {
		if owned(scope, p.CommitteeID, p.AssignedTo) && p.IsAssignedTo(assignee) {
			stats.Total++
			if p.Status == models.ProjectCompleted {
				stats.Completed++
			}
		}
	}
	return stats, nil
}

type fakeAttendance struct{ d *fakeData }

func (f *fakeAttendance) List(_ context.Context, scope repositories.Scope, filter repositories.AttendanceFilter) ([]*models.Attendance, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []*models.Attendance{}
	for _, a := range f.d.attendance {
		uid := a.UserID
		if !owned(scope, a.CommitteeID, &uid) {
			continue
		}
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAttendance) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Attendance, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.attendance[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("attendance not found")
	}
	uid := a.UserID
	if !owned(scope, a.CommitteeID, &uid) {
		return nil, apperrors.NewNotFoundError("attendance not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendance) Create(_ context.Context, scope repositories.Scope, attendance *models.Attendance) error {
	if err := writable(scope); err != nil {
		return err
	}
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("attendance.create"); err != nil {
		return err
	}
	attendance.ID = uuid.New()
	attendance.CommitteeID = scope.CommitteeID
	cp := *attendance
	f.d.attendance[attendance.ID] = &cp
	return nil
}

func (f *fakeAttendance) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.AttendancePatch) (*models.Attendance, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.attendance[id]
	if !ok || !inCommittee(scope, a.CommitteeID) {
		return nil, apperrors.NewNotFoundError("attendance not found")
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.WeekID.Set {
		a.WeekID = patch.WeekID.Value
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendance) Delete(_ context.Context, scope repositories.Scope, id uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.attendance[id]
	if !ok || !inCommittee(scope, a.CommitteeID) {
		return apperrors.NewNotFoundError("attendance not found")
	}
	delete(f.d.attendance, id)
	return nil
}

func (f *fakeAttendance) DetachWeek(_ context.Context, scope repositories.Scope, weekID uuid.UUID) (int64, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("attendance.detach"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range f.d.attendance {
		if inCommittee(scope, a.CommitteeID) && a.WeekID != nil && *a.WeekID == weekID {
			a.WeekID = nil
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendance) Stats(_ context.Context, scope repositories.Scope, userID uuid.UUID) (repositories.AttendanceStats, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var stats repositories.AttendanceStats
	if err := f.d.hit("attendance.stats"); err != nil {
		return stats, err
	}
	for _, a := range f.d.attendance {
		uid := a.UserID
		if owned(scope, a.CommitteeID, &uid) && a.UserID == userID {
			stats.Total++
			if a.Status == models.AttendancePresent {
				stats.Present++
			}
		}
	}
	return stats, nil
}

func (f *fakeAttendance) Summaries(_ context.Context, scope repositories.Scope) ([]repositories.AttendanceSummary, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []repositories.AttendanceSummary{}
	for _, p := range f.d.profiles {
		if p.Role != models.RoleMember || !p.InCommittee(scope.CommitteeID) {
			continue
		}
		sum := repositories.AttendanceSummary{UserID: p.ID, FullName: p.FullName}
		for _, a := range f.d.attendance {
			if a.UserID == p.ID {
				sum.Total++
				if a.Status == models.AttendancePresent {
					sum.Present++
				}
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type fakeAnnouncements struct{ d *fakeData }

func (f *fakeAnnouncements) List(_ context.Context, scope repositories.Scope, filter repositories.AnnouncementFilter) ([]*models.Announcement, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if err := f.d.hit("announcements.list"); err != nil {
		return nil, err
	}
	out := []*models.Announcement{}
	for _, a := range f.d.announcements {
		if inCommittee(scope, a.CommitteeID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeAnnouncements) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Announcement, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.announcements[id]
	if !ok || !inCommittee(scope, a.CommitteeID) {
		return nil, apperrors.NewNotFoundError("announcement not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnnouncements) Create(_ context.Context, scope repositories.Scope, announcement *models.Announcement) error {
	if err := writable(scope); err != nil {
		return err
	}
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	announcement.ID = uuid.New()
	announcement.CommitteeID = scope.CommitteeID
	announcement.CreatedBy = scope.ProfileID
	announcement.CreatedAt = time.Now()
	cp := *announcement
	f.d.announcements[announcement.ID] = &cp
	return nil
}

func (f *fakeAnnouncements) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.AnnouncementPatch) (*models.Announcement, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.announcements[id]
	if !ok || !inCommittee(scope, a.CommitteeID) {
		return nil, apperrors.NewNotFoundError("announcement not found")
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Priority != nil {
		a.Priority = *patch.Priority
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnnouncements) Delete(_ context.Context, scope repositories.Scope, id uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	a, ok := f.d.announcements[id]
	if !ok || !inCommittee(scope, a.CommitteeID) {
		return apperrors.NewNotFoundError("announcement not found")
	}
	delete(f.d.announcements, id)
	return nil
}

type fakeFeedback struct{ d *fakeData }

func (f *fakeFeedback) List(_ context.Context, scope repositories.Scope, filter repositories.FeedbackFilter) ([]*models.Feedback, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	out := []*models.Feedback{}
	for _, fb := range f.d.feedback {
		uid := fb.UserID
		if !owned(scope, fb.CommitteeID, &uid) {
			continue
		}
		if filter.UserID != nil && fb.UserID != *filter.UserID {
			continue
		}
		out = append(out, fb)
	}
	return out, nil
}

func (f *fakeFeedback) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Feedback, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	fb, ok := f.d.feedback[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("feedback not found")
	}
	uid := fb.UserID
	if !owned(scope, fb.CommitteeID, &uid) {
		return nil, apperrors.NewNotFoundError("feedback not found")
	}
	cp := *fb
	return &cp, nil
}

func (f *fakeFeedback) Create(_ context.Context, scope repositories.Scope, feedback *models.Feedback) error {
	if err := writable(scope); err != nil {
		return err
	}
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	feedback.ID = uuid.New()
	feedback.CommitteeID = scope.CommitteeID
	feedback.GivenBy = scope.ProfileID
	cp := *feedback
	f.d.feedback[feedback.ID] = &cp
	return nil
}

func (f *fakeFeedback) Update(_ context.Context, scope repositories.Scope, id uuid.UUID, patch repositories.FeedbackPatch) (*models.Feedback, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	fb, ok := f.d.feedback[id]
	if !ok || !inCommittee(scope, fb.CommitteeID) {
		return nil, apperrors.NewNotFoundError("feedback not found")
	}
	if patch.Content != nil {
		fb.Content = *patch.Content
	}
	if patch.Rating.Set {
		fb.Rating = patch.Rating.Value
	}
	cp := *fb
	return &cp, nil
}

func (f *fakeFeedback) Delete(_ context.Context, scope repositories.Scope, id uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	fb, ok := f.d.feedback[id]
	if !ok || !inCommittee(scope, fb.CommitteeID) {
		return apperrors.NewNotFoundError("feedback not found")
	}
	delete(f.d.feedback, id)
	return nil
}

// fakeProvider is an in-memory identity provider
type fakeProvider struct {
	mu        sync.Mutex
	emails    map[string]uuid.UUID
	passwords map[uuid.UUID]string
	deleted   []uuid.UUID
	deleteErr error

	// committeeOf reports a principal's current committee for DeleteInCommittee
	committeeOf func(uuid.UUID) (uuid.UUID, bool)
	// beforeDelete runs just before the conditional delete
	beforeDelete func()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{emails: map[string]uuid.UUID{}, passwords: map[uuid.UUID]string{}}
}

func (p *fakeProvider) SignUp(_ context.Context, email, password string) (uuid.UUID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.emails[email]; ok {
		return uuid.Nil, apperrors.ErrEmailAlreadyExists
	}
	id := uuid.New()
	p.emails[email] = id
	p.passwords[id] = password
	return id, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (uuid.UUID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.emails[email]
	if !ok || p.passwords[id] != password {
		return uuid.Nil, apperrors.ErrInvalidCredentials
	}
	return id, nil
}

func (p *fakeProvider) Delete(_ context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, id)
	for email, pid := range p.emails {
		if pid == id {
			delete(p.emails, email)
		}
	}
	return nil
}

func (p *fakeProvider) DeleteInCommittee(ctx context.Context, id, committeeID uuid.UUID) error {
	if p.beforeDelete != nil {
		p.beforeDelete()
	}
	if p.committeeOf != nil {
		if current, ok := p.committeeOf(id); !ok || current != committeeID {
			return apperrors.NewNotFoundError("profile not found")
		}
	}
	return p.Delete(ctx, id)
}

// fakeRevoker is an in-memory blacklist
type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (r *fakeRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if ttl > 0 {
		r.revoked[jti] = ttl
	}
	return nil
}

func (r *fakeRevoker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[jti]
	return ok, nil
}

type publishedEvent struct {
	committeeID uuid.UUID
	event       string
	payload     interface{}
}

// fakeNotifier records published events
type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *fakeNotifier) Publish(committeeID uuid.UUID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{committeeID, event, payload})
}

// fixture is a committee with one admin and one member, plus a foreign committee
type fixture struct {
	store   *fakeStore
	policy  *auth.Policy
	v       *validation.Validator
	logger  zerolog.Logger
	cid     uuid.UUID
	otherID uuid.UUID
	admin   *models.Profile
	member  *models.Profile
	outside *models.Profile
}

func newFixture() *fixture {
	store := newFakeStore()
	cid, otherID := uuid.New(), uuid.New()
	store.data.committees[cid] = &models.Committee{ID: cid, Name: "STAR Web"}
	store.data.committees[otherID] = &models.Committee{ID: otherID, Name: "STAR Mobile"}

	f := &fixture{
		store:   store,
		policy:  auth.NewPolicy(),
		v:       validation.New(),
		logger:  zerolog.Nop(),
		cid:     cid,
		otherID: otherID,
		admin:   &models.Profile{ID: uuid.New(), Email: "admin@star.org", FullName: "Ada Admin", Role: models.RoleAdmin, CommitteeID: &cid},
		member:  &models.Profile{ID: uuid.New(), Email: "member@star.org", FullName: "Mia Member", Role: models.RoleMember, CommitteeID: &cid},
		outside: &models.Profile{ID: uuid.New(), Email: "other@star.org", FullName: "Otto Outside", Role: models.RoleMember, CommitteeID: &otherID},
	}
	for _, p := range []*models.Profile{f.admin, f.member, f.outside} {
		cp := *p
		store.data.profiles[p.ID] = &cp
	}
	return f
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
