package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

func (f *fixture) addProject(cid uuid.UUID, title string, assignee *uuid.UUID) *models.Project {
	p := &models.Project{ID: uuid.New(), CommitteeID: cid, Title: title, AssignedTo: assignee, Status: models.ProjectPending}
	f.store.data.projects[p.ID] = p
	return p
}

func TestProjectService_Create(t *testing.T) {
	t.Run("assigned to committee member", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		due := "2026-04-01"

		project, err := svc.Create(context.Background(), f.admin, dto.CreateProjectRequest{
			Title:      "Portfolio site",
			AssignedTo: &f.member.ID,
			DueDate:    &due,
		})
		require.NoError(t, err)
		assert.Equal(t, f.cid, project.CommitteeID)
		assert.Equal(t, models.ProjectPending, project.Status)
		require.NotNil(t, project.DueDate)
		assert.True(t, project.DueDate.Equal(date("2026-04-01")))
	})

	t.Run("assignee from another committee", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)

		_, err := svc.Create(context.Background(), f.admin, dto.CreateProjectRequest{
			Title:      "Portfolio site",
			AssignedTo: &f.outside.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, apperrors.Details(err), "assignedTo")
		assert.Empty(t, f.store.data.projects)
	})

	t.Run("member may not create", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)

		_, err := svc.Create(context.Background(), f.member, dto.CreateProjectRequest{Title: "Side project"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestProjectService_MemberSeesOwnProjects(t *testing.T) {
	f := newFixture()
	svc := NewProjectService(f.store, f.policy, f.v, f.logger)
	mine := f.addProject(f.cid, "Mine", &f.member.ID)
	unassigned := f.addProject(f.cid, "Open", nil)
	f.addProject(f.otherID, "Foreign", &f.outside.ID)

	projects, err := svc.List(context.Background(), f.member, dto.ProjectQuery{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, mine.ID, projects[0].ID)

	_, err = svc.Get(context.Background(), f.member, unassigned.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all, err := svc.List(context.Background(), f.admin, dto.ProjectQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectService_ListRejectsBadFilter(t *testing.T) {
	f := newFixture()
	svc := NewProjectService(f.store, f.policy, f.v, f.logger)

	_, err := svc.List(context.Background(), f.admin, dto.ProjectQuery{AssignedTo: "someone"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProjectService_UpdateProgress(t *testing.T) {
	inProgress := models.ProjectInProgress
	url := "https://github.com/star/portfolio"

	t.Run("assignee moves project along", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		project := f.addProject(f.cid, "Portfolio", &f.member.ID)

		updated, err := svc.UpdateProgress(context.Background(), f.member, project.ID, dto.ProjectProgressRequest{
			Status:        &inProgress,
			SubmissionURL: models.Some(url),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ProjectInProgress, updated.Status)
		require.NotNil(t, updated.SubmissionURL)
		assert.Equal(t, url, *updated.SubmissionURL)
	})

	t.Run("someone else's project", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		project := f.addProject(f.cid, "Portfolio", &f.admin.ID)

		_, err := svc.UpdateProgress(context.Background(), f.member, project.ID, dto.ProjectProgressRequest{Status: &inProgress})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, models.ProjectPending, f.store.data.projects[project.ID].Status)
	})

	t.Run("admin updates any committee project", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		project := f.addProject(f.cid, "Portfolio", &f.member.ID)

		_, err := svc.UpdateProgress(context.Background(), f.admin, project.ID, dto.ProjectProgressRequest{Status: &inProgress})
		assert.NoError(t, err)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		project := f.addProject(f.cid, "Portfolio", &f.member.ID)

		_, err := svc.UpdateProgress(context.Background(), f.member, project.ID, dto.ProjectProgressRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("invalid submission url", func(t *testing.T) {
		f := newFixture()
		svc := NewProjectService(f.store, f.policy, f.v, f.logger)
		project := f.addProject(f.cid, "Portfolio", &f.member.ID)

		_, err := svc.UpdateProgress(context.Background(), f.member, project.ID, dto.ProjectProgressRequest{
			SubmissionURL: models.Some("not a url"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestProjectService_UpdateByMemberForbidden(t *testing.T) {
	f := newFixture()
	svc := NewProjectService(f.store, f.policy, f.v, f.logger)
	project := f.addProject(f.cid, "Portfolio", &f.member.ID)
	title := "Renamed"

	_, err := svc.Update(context.Background(), f.member, project.ID, dto.UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "Portfolio", f.store.data.projects[project.ID].Title)
}

func TestProjectService_UpdateReassign(t *testing.T) {
	f := newFixture()
	svc := NewProjectService(f.store, f.policy, f.v, f.logger)
	project := f.addProject(f.cid, "Portfolio", &f.member.ID)

	_, err := svc.Update(context.Background(), f.admin, project.ID, dto.UpdateProjectRequest{AssignedTo: models.Some(f.outside.ID)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	updated, err := svc.Update(context.Background(), f.admin, project.ID, dto.UpdateProjectRequest{AssignedTo: models.Null[uuid.UUID]()})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}
