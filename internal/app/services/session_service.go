package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/identity"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	jwtauth "github.com/yigit/starmentor/internal/pkg/auth"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// SessionConfig holds the signup rules
type SessionConfig struct {
	AllowAdminSignup  bool
	MinPasswordLength int
}

// Session is an issued access token and the profile it belongs to
type Session struct {
	Token   string
	Claims  *jwtauth.Claims
	Profile *models.Profile
}

// SessionService binds identity principals to profiles and issues tokens
type SessionService struct {
	provider  identity.Provider
	store     repositories.Store
	jwt       *jwtauth.JWTService
	revoker   SessionRevoker
	validator *validation.Validator
	config    SessionConfig
	logger    zerolog.Logger
}

// NewSessionService creates a new SessionService. revoker may be nil when no revocation store is configured.
func NewSessionService(
	provider identity.Provider,
	store repositories.Store,
	jwt *jwtauth.JWTService,
	revoker SessionRevoker,
	v *validation.Validator,
	config SessionConfig,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		provider:  provider,
		store:     store,
		jwt:       jwt,
		revoker:   revoker,
		validator: v,
		config:    config,
		logger:    logger,
	}
}

func checkPassword(password string, minLength int) error {
	if len(password) < minLength {
		return apperrors.NewFieldValidationError("password", fmt.Sprintf("password must be at least %d characters", minLength))
	}
	return nil
}

// loadProfile resolves the profile of a principal, bypassing tenant scoping
func (s *SessionService) loadProfile(ctx context.Context, principalID uuid.UUID) (*models.Profile, error) {
	var profile *models.Profile
	err := s.store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		profile, err = repos.Profiles.GetByID(ctx, repositories.SystemScope(), principalID)
		return err
	})
	return profile, err
}

func (s *SessionService) issue(profile *models.Profile) (*Session, error) {
	token, claims, err := s.jwt.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Claims: claims, Profile: profile}, nil
}

// SignIn authenticates credentials and opens a session
func (s *SessionService) SignIn(ctx context.Context, req dto.SignInRequest) (*Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	principalID, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, principalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error().Str("principalID", principalID.String()).Msg("Principal has no profile")
			return nil, apperrors.NewInconsistentStateError("account has no profile", err)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s.logger.Info().Str("profileID", profile.ID.String()).Msg("User signed in")
	return s.issue(profile)
}

// SignUp registers a principal and its profile. A failed profile insert deletes the principal again.
func (s *SessionService) SignUp(ctx context.Context, req dto.SignUpRequest) (*Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password, s.config.MinPasswordLength); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if role == models.RoleAdmin && !s.config.AllowAdminSignup {
		return nil, apperrors.NewForbiddenError("admin self-signup is disabled")
	}

	if req.CommitteeID != nil {
		err := s.store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
			_, err := repos.Committees.GetByID(ctx, repositories.SystemScope(), *req.CommitteeID)
			return err
		})
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewFieldValidationError("committeeId", "committee does not exist")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check committee: %w", err)
		}
	}

	principalID, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:          principalID,
		Email:       identity.NormalizeEmail(req.Email),
		FullName:    req.FullName,
		Role:        role,
		CommitteeID: req.CommitteeID,
	}
	err = s.store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return repos.Profiles.Create(ctx, repositories.SystemScope(), profile)
	})
	if err != nil {
		return nil, compensatePrincipal(ctx, s.provider, s.logger, principalID, err)
	}

	s.logger.Info().Str("profileID", profile.ID.String()).Str("role", string(role)).Msg("User signed up")
	return s.issue(profile)
}

// compensatePrincipal deletes a principal whose profile could not be created
func compensatePrincipal(ctx context.Context, provider identity.Provider, logger zerolog.Logger, principalID uuid.UUID, cause error) error {
	if delErr := provider.Delete(context.WithoutCancel(ctx), principalID); delErr != nil {
		logger.Error().Err(delErr).Str("principalID", principalID.String()).
			Msg("Failed to delete principal after profile creation failed")
	}
	return apperrors.NewInconsistentStateError("account setup could not be completed", cause)
}

// SignOut revokes the token for its remaining lifetime. Repeated or expired sign-outs succeed.
func (s *SessionService) SignOut(ctx context.Context, claims *jwtauth.Claims) error {
	if claims == nil || s.revoker == nil {
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// CurrentSession validates a token and resolves the caller's profile
func (s *SessionService) CurrentSession(ctx context.Context, token string) (*models.Profile, *jwtauth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, nil, apperrors.ErrTokenRevoked
		}
	}

	principalID, err := claims.PrincipalID()
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.loadProfile(ctx, principalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrTokenRevoked
		}
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, claims, nil
}
