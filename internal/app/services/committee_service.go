package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// CommitteeService reads and edits the caller's committee
type CommitteeService struct {
	base
}

// NewCommitteeService creates a new CommitteeService
func NewCommitteeService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *CommitteeService {
	return &CommitteeService{base: newBase(store, policy, v, logger)}
}

// Get returns the caller's committee
func (s *CommitteeService) Get(ctx context.Context, caller *models.Profile) (*models.Committee, error) {
	if caller != nil && !caller.HasCommittee() {
		return nil, apperrors.NewNotFoundError("caller is not assigned to a committee")
	}
	var committee *models.Committee
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceCommittee, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		committee, err = repos.Committees.GetByID(ctx, scope, scope.CommitteeID)
		return err
	})
	return committee, err
}

// Update edits the caller's committee
func (s *CommitteeService) Update(ctx context.Context, caller *models.Profile, req dto.UpdateCommitteeRequest) (*models.Committee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	var committee *models.Committee
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceCommittee, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		committee, err = repos.Committees.Update(ctx, scope, scope.CommitteeID, repositories.CommitteePatch{
			Name:        req.Name,
			Description: req.Description,
		})
		return err
	})
	return committee, err
}

// ListPublic lists every committee for the signup picker
func (s *CommitteeService) ListPublic(ctx context.Context) ([]*models.Committee, error) {
	var committees []*models.Committee
	err := s.store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		committees, err = repos.Committees.List(ctx, repositories.SystemScope())
		return err
	})
	return committees, err
}
