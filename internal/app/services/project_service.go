package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// ProjectService manages project assignments
type ProjectService struct {
	base
}

// NewProjectService creates a new ProjectService
func NewProjectService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *ProjectService {
	return &ProjectService{base: newBase(store, policy, v, logger)}
}

// requireMember rejects references to profiles outside the caller's committee
func requireMember(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope, field string, id uuid.UUID) error {
	ok, err := repos.Profiles.InCommittee(ctx, scope, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewFieldValidationError(field, field+" must reference a member of the committee")
	}
	return nil
}

// List returns projects visible to the caller. Members only ever see their own.
func (s *ProjectService) List(ctx context.Context, caller *models.Profile, query dto.ProjectQuery) ([]*models.Project, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	assignee, err := parseOptionalUUID("assignedTo", query.AssignedTo)
	if err != nil {
		return nil, err
	}
	filter := repositories.ProjectFilter{AssignedTo: assignee}
	if query.Status != "" {
		filter.Status = &query.Status
	}

	var projects []*models.Project
	err = s.run(ctx, caller, auth.ActionRead, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		projects, err = repos.Projects.List(ctx, scope, filter)
		return err
	})
	return projects, err
}

// Get returns one project
func (s *ProjectService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Project, error) {
	var project *models.Project
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		project, err = repos.Projects.GetByID(ctx, scope, id)
		return err
	})
	return project, err
}

// Create adds a project, optionally assigned to a committee member
func (s *ProjectService) Create(ctx context.Context, caller *models.Profile, req dto.CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	project := &models.Project{
		Title:         req.Title,
		Description:   req.Description,
		AssignedTo:    req.AssignedTo,
		Status:        req.Status,
		SubmissionURL: req.SubmissionURL,
	}
	if req.DueDate != nil {
		due, err := validation.ParseDate("dueDate", *req.DueDate)
		if err != nil {
			return nil, err
		}
		project.DueDate = &due
	}

	err := s.run(ctx, caller, auth.ActionCreate, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if project.AssignedTo != nil {
			if err := requireMember(ctx, repos, scope, "assignedTo", *project.AssignedTo); err != nil {
				return err
			}
		}
		return repos.Projects.Create(ctx, scope, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Update patches a project
func (s *ProjectService) Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	patch := repositories.ProjectPatch{
		Title:         req.Title,
		Description:   req.Description,
		AssignedTo:    req.AssignedTo,
		Status:        req.Status,
		SubmissionURL: req.SubmissionURL,
	}
	if req.SubmissionURL.Value != nil {
		if err := s.validator.Var("submissionUrl", *req.SubmissionURL.Value, "url"); err != nil {
			return nil, err
		}
	}
	if req.DueDate.Set {
		patch.DueDate = models.Null[time.Time]()
		if req.DueDate.Value != nil {
			due, err := validation.ParseDate("dueDate", *req.DueDate.Value)
			if err != nil {
				return nil, err
			}
			patch.DueDate = models.Some(due)
		}
	}

	var project *models.Project
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if patch.AssignedTo.Value != nil {
			if err := requireMember(ctx, repos, scope, "assignedTo", *patch.AssignedTo.Value); err != nil {
				return err
			}
		}
		var err error
		project, err = repos.Projects.Update(ctx, scope, id, patch)
		return err
	})
	return project, err
}

// UpdateProgress lets the assignee move a project along and attach a submission link
func (s *ProjectService) UpdateProgress(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.ProjectProgressRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.SubmissionURL.Value != nil {
		if err := s.validator.Var("submissionUrl", *req.SubmissionURL.Value, "url"); err != nil {
			return nil, err
		}
	}
	if req.Status == nil && !req.SubmissionURL.Set {
		return nil, apperrors.NewValidationError("nothing to update")
	}

	var project *models.Project
	err := s.run(ctx, caller, auth.ActionUpdateProgress, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		current, err := repos.Projects.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := s.policy.AuthorizeProjectProgress(caller, current); err != nil {
			return err
		}
		project, err = repos.Projects.Update(ctx, scope, id, repositories.ProjectPatch{
			Status:        req.Status,
			SubmissionURL: req.SubmissionURL,
		})
		return err
	})
	return project, err
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	return s.run(ctx, caller, auth.ActionDelete, auth.ResourceProject, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Projects.Delete(ctx, scope, id)
	})
}
