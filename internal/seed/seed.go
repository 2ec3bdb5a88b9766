package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/identity"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/config"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

// CreateDefaultData creates the configured committees and the bootstrap admin if they don't exist.
// Errors are collected so one bad entry does not stop the rest.
func CreateDefaultData(ctx context.Context, store repositories.Store, provider identity.Provider, cfg config.SeedConfig, lgr zerolog.Logger) error {
	if !cfg.Enabled {
		lgr.Debug().Msg("Seeding disabled")
		return nil
	}

	lgr.Info().Int("committees", len(cfg.Committees)).Msg("Checking/Creating default data (Committees/Admin)...")
	var finalErr error

	committeeIDs := make(map[string]uuid.UUID, len(cfg.Committees))
	for _, sc := range cfg.Committees {
		id, err := ensureCommittee(ctx, store, sc, lgr)
		if err != nil {
			lgr.Error().Err(err).Str("committee", sc.Name).Msg("Error creating committee")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		committeeIDs[sc.Name] = id
	}

	if cfg.Admin.Email != "" {
		if err := ensureAdmin(ctx, store, provider, cfg, committeeIDs, lgr); err != nil {
			lgr.Error().Err(err).Str("email", cfg.Admin.Email).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func ensureCommittee(ctx context.Context, store repositories.Store, sc config.SeedCommittee, lgr zerolog.Logger) (uuid.UUID, error) {
	var id uuid.UUID
	err := store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		scope := repositories.SystemScope()
		existing, err := repos.Committees.GetByName(ctx, scope, sc.Name)
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		committee := &models.Committee{Name: sc.Name, Description: sc.Description}
		if err := repos.Committees.Create(ctx, scope, committee); err != nil {
			return err
		}
		id = committee.ID
		lgr.Info().Str("committee", sc.Name).Str("committeeID", id.String()).Msg("Committee created")
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("committee %q: %w", sc.Name, err)
	}
	return id, nil
}

func ensureAdmin(ctx context.Context, store repositories.Store, provider identity.Provider, cfg config.SeedConfig, committeeIDs map[string]uuid.UUID, lgr zerolog.Logger) error {
	var committeeID *uuid.UUID
	if cfg.Admin.Committee != "" {
		id, ok := committeeIDs[cfg.Admin.Committee]
		if !ok {
			return fmt.Errorf("admin committee %q is not a seeded committee", cfg.Admin.Committee)
		}
		committeeID = &id
	}

	principalID, err := provider.SignUp(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Admin account already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin principal: %w", err)
	}

	fullName := cfg.Admin.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	profile := &models.Profile{
		ID:          principalID,
		Email:       identity.NormalizeEmail(cfg.Admin.Email),
		FullName:    fullName,
		Role:        models.RoleAdmin,
		CommitteeID: committeeID,
	}
	err = store.WithSystem(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return repos.Profiles.Create(ctx, repositories.SystemScope(), profile)
	})
	if err != nil {
		if delErr := provider.Delete(context.WithoutCancel(ctx), principalID); delErr != nil {
			return apperrors.NewInconsistentStateError("admin principal exists without a profile", errors.Join(err, delErr))
		}
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	lgr.Info().Str("profileID", profile.ID.String()).Msg("Admin account created")
	return nil
}
