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

// ProfileService serves the caller's own profile
type ProfileService struct {
	base
}

// NewProfileService creates a new ProfileService
func NewProfileService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *ProfileService {
	return &ProfileService{base: newBase(store, policy, v, logger)}
}

// Me re-reads the caller's profile
func (s *ProfileService) Me(ctx context.Context, caller *models.Profile) (*models.Profile, error) {
	var profile *models.Profile
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		profile, err = repos.Profiles.GetByID(ctx, scope, caller.ID)
		return err
	})
	return profile, err
}

// UpdateSelf changes the caller's display name and avatar. Role and committee are not editable here.
func (s *ProfileService) UpdateSelf(ctx context.Context, caller *models.Profile, req dto.UpdateMeRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.AvatarURL.Value != nil {
		if err := s.validator.Var("avatarUrl", *req.AvatarURL.Value, "url"); err != nil {
			return nil, err
		}
	}
	if req.FullName == nil && !req.AvatarURL.Set {
		return nil, apperrors.NewValidationError("nothing to update")
	}

	var profile *models.Profile
	err := s.run(ctx, caller, auth.ActionUpdateSelf, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		profile, err = repos.Profiles.Update(ctx, scope, caller.ID, repositories.ProfilePatch{
			FullName:  req.FullName,
			AvatarURL: req.AvatarURL,
		})
		return err
	})
	return profile, err
}
