package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/config"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

type memCommittees struct {
	repositories.CommitteeStore
	byName map[string]*models.Committee
}

func (m *memCommittees) GetByName(_ context.Context, _ repositories.Scope, name string) (*models.Committee, error) {
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError("committee not found")
}

func (m *memCommittees) Create(_ context.Context, scope repositories.Scope, c *models.Committee) error {
	if !scope.IsSystem() {
		return apperrors.NewForbiddenError("committees are provisioned by the platform")
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.byName[c.Name] = c
	return nil
}

type memProfiles struct {
	repositories.ProfileStore
	created []*models.Profile
	err     error
}

func (m *memProfiles) Create(_ context.Context, _ repositories.Scope, p *models.Profile) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, p)
	return nil
}

type memStore struct {
	committees *memCommittees
	profiles   *memProfiles
}

func newMemStore() *memStore {
	return &memStore{
		committees: &memCommittees{byName: map[string]*models.Committee{}},
		profiles:   &memProfiles{},
	}
}

func (s *memStore) WithScope(ctx context.Context, _ repositories.Scope, fn repositories.ScopedFn) error {
	return fn(ctx, &repositories.Repositories{Committees: s.committees, Profiles: s.profiles})
}

func (s *memStore) WithSystem(ctx context.Context, fn repositories.ScopedFn) error {
	return s.WithScope(ctx, repositories.SystemScope(), fn)
}

type memProvider struct {
	emails  map[string]uuid.UUID
	deleted []uuid.UUID
}

func (p *memProvider) SignUp(_ context.Context, email, _ string) (uuid.UUID, error) {
	if _, ok := p.emails[email]; ok {
		return uuid.Nil, apperrors.ErrEmailAlreadyExists
	}
	id := uuid.New()
	p.emails[email] = id
	return id, nil
}

func (p *memProvider) SignIn(context.Context, string, string) (uuid.UUID, error) {
	return uuid.Nil, apperrors.ErrInvalidCredentials
}

func (p *memProvider) Delete(_ context.Context, id uuid.UUID) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *memProvider) DeleteInCommittee(ctx context.Context, id, _ uuid.UUID) error {
	return p.Delete(ctx, id)
}

func seedConfig() config.SeedConfig {
	cfg := config.SeedConfig{
		Enabled: true,
		Committees: []config.SeedCommittee{
			{Name: "STAR Web", Description: "Web track"},
			{Name: "STAR AI", Description: "AI track"},
		},
	}
	cfg.Admin.Email = "admin@star.org"
	cfg.Admin.Password = "change-me-now"
	cfg.Admin.FullName = "Grace Hopper"
	cfg.Admin.Committee = "STAR Web"
	return cfg
}

func TestCreateDefaultData_CreatesCommitteesAndAdmin(t *testing.T) {
	store := newMemStore()
	provider := &memProvider{emails: map[string]uuid.UUID{}}

	err := CreateDefaultData(context.Background(), store, provider, seedConfig(), zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, store.committees.byName, 2)
	web := store.committees.byName["STAR Web"]
	require.NotNil(t, web)

	require.Len(t, store.profiles.created, 1)
	admin := store.profiles.created[0]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "Grace Hopper", admin.FullName)
	assert.Equal(t, provider.emails["admin@star.org"], admin.ID)
	require.NotNil(t, admin.CommitteeID)
	assert.Equal(t, web.ID, *admin.CommitteeID)
}

func TestCreateDefaultData_Idempotent(t *testing.T) {
	store := newMemStore()
	provider := &memProvider{emails: map[string]uuid.UUID{}}
	cfg := seedConfig()

	require.NoError(t, CreateDefaultData(context.Background(), store, provider, cfg, zerolog.Nop()))
	firstID := store.committees.byName["STAR Web"].ID

	require.NoError(t, CreateDefaultData(context.Background(), store, provider, cfg, zerolog.Nop()))
	assert.Equal(t, firstID, store.committees.byName["STAR Web"].ID)
	assert.Len(t, store.committees.byName, 2)
	assert.Len(t, store.profiles.created, 1, "existing admin is left alone")
}

func TestCreateDefaultData_Disabled(t *testing.T) {
	store := newMemStore()
	provider := &memProvider{emails: map[string]uuid.UUID{}}
	cfg := seedConfig()
	cfg.Enabled = false

	require.NoError(t, CreateDefaultData(context.Background(), store, provider, cfg, zerolog.Nop()))
	assert.Empty(t, store.committees.byName)
	assert.Empty(t, provider.emails)
}

func TestCreateDefaultData_UnknownAdminCommittee(t *testing.T) {
	store := newMemStore()
	provider := &memProvider{emails: map[string]uuid.UUID{}}
	cfg := seedConfig()
	cfg.Admin.Committee = "STAR Robotics"

	err := CreateDefaultData(context.Background(), store, provider, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Len(t, store.committees.byName, 2, "committees are still created")
	assert.Empty(t, provider.emails, "no principal without a committee")
}

func TestCreateDefaultData_ProfileFailureDeletesPrincipal(t *testing.T) {
	store := newMemStore()
	store.profiles.err = errors.New("insert failed")
	provider := &memProvider{emails: map[string]uuid.UUID{}}

	err := CreateDefaultData(context.Background(), store, provider, seedConfig(), zerolog.Nop())
	require.Error(t, err)
	require.Len(t, provider.deleted, 1)
	assert.Equal(t, provider.emails["admin@star.org"], provider.deleted[0])
}
