package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/db"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

// CommitteePatch holds the mutable committee columns
type CommitteePatch struct {
	Name        *string
	Description *string
}

// CommitteeStore is the committee data access contract
type CommitteeStore interface {
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Committee, error)
	GetByName(ctx context.Context, scope Scope, name string) (*models.Committee, error)
	List(ctx context.Context, scope Scope) ([]*models.Committee, error)
	Create(ctx context.Context, scope Scope, committee *models.Committee) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch CommitteePatch) (*models.Committee, error)
}

// CommitteeRepository handles committee database operations
type CommitteeRepository struct {
	db db.Querier
}

// NewCommitteeRepository creates a new CommitteeRepository
func NewCommitteeRepository(q db.Querier) *CommitteeRepository {
	return &CommitteeRepository{db: q}
}

var committeeColumns = []string{"id", "name", "description", "created_at"}

func scanCommittee(row pgx.Row) (*models.Committee, error) {
	c := &models.Committee{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// ownCommittee: tenant scopes only ever see their own committee row
func ownCommittee(scope Scope) squirrel.Sqlizer {
	return committeeOnly(scope, "id")
}

// GetByID retrieves a committee visible to scope
func (r *CommitteeRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Committee, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return nil, apperrors.NewNotFoundError("committee not found")
	}
	query, args, err := psql.Select(committeeColumns...).
		From("committees").
		Where(squirrel.Eq{"id": id}).
		Where(ownCommittee(scope)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get committee query: %w", err)
	}

	c, err := scanCommittee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "committee")
	}
	return c, nil
}

// GetByName finds a committee by exact name. Names are advisory; the oldest match wins.
func (r *CommitteeRepository) GetByName(ctx context.Context, scope Scope, name string) (*models.Committee, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return nil, apperrors.NewNotFoundError("committee not found")
	}
	query, args, err := psql.Select(committeeColumns...).
		From("committees").
		Where(squirrel.Eq{"name": name}).
		Where(ownCommittee(scope)).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get committee by name query: %w", err)
	}

	c, err := scanCommittee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "committee")
	}
	return c, nil
}

// List returns committees visible to scope ordered by name
func (r *CommitteeRepository) List(ctx context.Context, scope Scope) ([]*models.Committee, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Committee{}, nil
	}
	query, args, err := psql.Select(committeeColumns...).
		From("committees").
		Where(ownCommittee(scope)).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list committees query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "committee")
	}
	defer rows.Close()

	committees := []*models.Committee{}
	for rows.Next() {
		c, err := scanCommittee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan committee row: %w", err)
		}
		committees = append(committees, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "committee")
	}
	return committees, nil
}

// Create inserts a committee. Only system scopes create committees.
func (r *CommitteeRepository) Create(ctx context.Context, scope Scope, committee *models.Committee) error {
	if !scope.IsSystem() {
		return apperrors.NewForbiddenError("committees are provisioned by the platform")
	}
	query, args, err := psql.Insert("committees").
		Columns("name", "description").
		Values(committee.Name, committee.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create committee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&committee.ID, &committee.CreatedAt); err != nil {
		return translateError(err, "committee")
	}
	return nil
}

// Update applies patch to the scope's own committee
func (r *CommitteeRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch CommitteePatch) (*models.Committee, error) {
	if !scope.IsSystem() && (!scope.HasCommittee() || scope.CommitteeID != id) {
		return nil, apperrors.NewNotFoundError("committee not found")
	}
	if patch.Name == nil && patch.Description == nil {
		return r.GetByID(ctx, scope, id)
	}

	ub := psql.Update("committees")
	if patch.Name != nil {
		ub = ub.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		ub = ub.Set("description", *patch.Description)
	}
	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(committeeColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update committee query: %w", err)
	}

	c, err := scanCommittee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "committee")
	}
	return c, nil
}
