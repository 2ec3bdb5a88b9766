package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/identity"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// MemberService lets admins manage the accounts of their committee
type MemberService struct {
	base
	provider          identity.Provider
	minPasswordLength int
}

// NewMemberService creates a new MemberService
func NewMemberService(
	store repositories.Store,
	policy *auth.Policy,
	provider identity.Provider,
	v *validation.Validator,
	minPasswordLength int,
	logger zerolog.Logger,
) *MemberService {
	return &MemberService{
		base:              newBase(store, policy, v, logger),
		provider:          provider,
		minPasswordLength: minPasswordLength,
	}
}

// List returns the committee's profiles, optionally narrowed to one role
func (s *MemberService) List(ctx context.Context, caller *models.Profile, query dto.MemberQuery) ([]*models.Profile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	filter := repositories.ProfileFilter{}
	if query.Role != "" {
		filter.Role = &query.Role
	}

	var profiles []*models.Profile
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		profiles, err = repos.Profiles.List(ctx, scope, filter)
		return err
	})
	return profiles, err
}

// Get returns one profile of the committee
func (s *MemberService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Profile, error) {
	var profile *models.Profile
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		profile, err = repos.Profiles.GetByID(ctx, scope, id)
		return err
	})
	return profile, err
}

// Add creates an account in the caller's committee
func (s *MemberService) Add(ctx context.Context, caller *models.Profile, req dto.AddMemberRequest) (*models.Profile, error) {
	if err := s.policy.Authorize(caller, auth.ActionCreate, auth.ResourceProfile); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password, s.minPasswordLength); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	principalID, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:       principalID,
		Email:    identity.NormalizeEmail(req.Email),
		FullName: req.FullName,
		Role:     role,
	}
	err = s.run(ctx, caller, auth.ActionCreate, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Profiles.Create(ctx, scope, profile)
	})
	if err != nil {
		return nil, compensatePrincipal(ctx, s.provider, s.logger, principalID, err)
	}

	s.logger.Info().Str("profileID", profile.ID.String()).Str("addedBy", caller.ID.String()).Msg("Member added")
	return profile, nil
}

// ChangeRole promotes or demotes a member of the committee
func (s *MemberService) ChangeRole(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.ChangeRoleRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if caller != nil && id == caller.ID {
		return nil, apperrors.NewFieldValidationError("role", "admins cannot change their own role")
	}

	var profile *models.Profile
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		target, err := repos.Profiles.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if !target.InCommittee(scope.CommitteeID) {
			return apperrors.NewNotFoundError("profile not found")
		}
		profile, err = repos.Profiles.Update(ctx, scope, id, repositories.ProfilePatch{Role: &req.Role})
		return err
	})
	return profile, err
}

// Remove deletes a member's account. The profile and its attendance and feedback go with it.
func (s *MemberService) Remove(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	if caller != nil && id == caller.ID {
		return apperrors.NewValidationError("admins cannot remove themselves")
	}

	var committeeID uuid.UUID
	err := s.run(ctx, caller, auth.ActionDelete, auth.ResourceProfile, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		target, err := repos.Profiles.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if !target.InCommittee(scope.CommitteeID) {
			return apperrors.NewNotFoundError("profile not found")
		}
		committeeID = scope.CommitteeID
		return nil
	})
	if err != nil {
		return err
	}

	// membership is checked again by the delete itself; the profile may have moved since
	if err := s.provider.DeleteInCommittee(ctx, id, committeeID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	s.logger.Info().Str("profileID", id.String()).Str("removedBy", caller.ID.String()).Msg("Member removed")
	return nil
}
