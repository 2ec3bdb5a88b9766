package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/db"
)

// ProfileFilter narrows profile listings
type ProfileFilter struct {
	Role *models.Role
}

// ProfilePatch holds the mutable profile columns
type ProfilePatch struct {
	FullName  *string
	AvatarURL models.Optional[string]
	Role      *models.Role
}

// ProfileStore is the profile data access contract
type ProfileStore interface {
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context, scope Scope, filter ProfileFilter) ([]*models.Profile, error)
	Create(ctx context.Context, scope Scope, profile *models.Profile) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch ProfilePatch) (*models.Profile, error)
	InCommittee(ctx context.Context, scope Scope, id uuid.UUID) (bool, error)
}

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db db.Querier
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(q db.Querier) *ProfileRepository {
	return &ProfileRepository{db: q}
}

var profileColumns = []string{"id", "email", "full_name", "role", "committee_id", "avatar_url", "created_at", "updated_at"}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CommitteeID, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// visibleProfiles: members see themselves, admins see themselves and their committee
func visibleProfiles(scope Scope) squirrel.Sqlizer {
	switch {
	case scope.IsSystem():
		return squirrel.Expr("TRUE")
	case scope.IsAdmin() && scope.HasCommittee():
		return squirrel.Or{squirrel.Eq{"id": scope.ProfileID}, squirrel.Eq{"committee_id": scope.CommitteeID}}
	default:
		return squirrel.Eq{"id": scope.ProfileID}
	}
}

// GetByID retrieves a profile visible to scope
func (r *ProfileRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Where(visibleProfiles(scope)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "profile")
	}
	return p, nil
}

// List returns the committee's profiles, newest first
func (r *ProfileRepository) List(ctx context.Context, scope Scope, filter ProfileFilter) ([]*models.Profile, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Profile{}, nil
	}

	qb := psql.Select(profileColumns...).
		From("profiles").
		Where(committeeOnly(scope, "committee_id"))
	if !scope.IsAdmin() && !scope.IsSystem() {
		qb = qb.Where(squirrel.Eq{"id": scope.ProfileID})
	}
	if filter.Role != nil {
		qb = qb.Where(squirrel.Eq{"role": *filter.Role})
	}

	query, args, err := qb.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "profile")
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "profile")
	}
	return profiles, nil
}

// Create inserts a profile. Admin scopes stamp their own committee; system scopes keep the given one.
func (r *ProfileRepository) Create(ctx context.Context, scope Scope, profile *models.Profile) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	if !scope.IsSystem() {
		committeeID := scope.CommitteeID
		profile.CommitteeID = &committeeID
	}

	query, args, err := psql.Insert("profiles").
		Columns("id", "email", "full_name", "role", "committee_id", "avatar_url").
		Values(profile.ID, profile.Email, profile.FullName, profile.Role, profile.CommitteeID, profile.AvatarURL).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return translateError(err, "profile")
	}
	return nil
}

// Update applies patch to a profile visible to scope
func (r *ProfileRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch ProfilePatch) (*models.Profile, error) {
	ub := psql.Update("profiles").Set("updated_at", time.Now().UTC())
	if patch.FullName != nil {
		ub = ub.Set("full_name", *patch.FullName)
	}
	if patch.AvatarURL.Set {
		ub = ub.Set("avatar_url", patch.AvatarURL.Arg())
	}
	if patch.Role != nil {
		ub = ub.Set("role", *patch.Role)
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(visibleProfiles(scope)).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "profile")
	}
	return p, nil
}

// InCommittee reports whether profile id belongs to the scope's committee
func (r *ProfileRepository) InCommittee(ctx context.Context, scope Scope, id uuid.UUID) (bool, error) {
	if !scope.HasCommittee() {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1 AND committee_id = $2)",
		id, scope.CommitteeID).Scan(&exists)
	if err != nil {
		return false, translateError(err, "profile")
	}
	return exists, nil
}
