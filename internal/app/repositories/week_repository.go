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

// WeekFilter narrows week listings
type WeekFilter struct {
	// EndsOnOrAfter keeps weeks whose end_date is on or after this date
	EndsOnOrAfter *time.Time
}

// WeekPatch holds the mutable week columns
type WeekPatch struct {
	WeekNumber  *int
	Title       *string
	Description *string
	Content     *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// WeekStore is the week data access contract
type WeekStore interface {
	List(ctx context.Context, scope Scope, filter WeekFilter) ([]*models.Week, error)
	Count(ctx context.Context, scope Scope, filter WeekFilter) (int, error)
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Week, error)
	Create(ctx context.Context, scope Scope, week *models.Week) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch WeekPatch) (*models.Week, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	Exists(ctx context.Context, scope Scope, id uuid.UUID) (bool, error)
}

// WeekRepository handles week database operations
type WeekRepository struct {
	db db.Querier
}

// NewWeekRepository creates a new WeekRepository
func NewWeekRepository(q db.Querier) *WeekRepository {
	return &WeekRepository{db: q}
}

var weekColumns = []string{"id", "committee_id", "week_number", "title", "description", "content", "start_date", "end_date", "created_at"}

func scanWeek(row pgx.Row) (*models.Week, error) {
	w := &models.Week{}
	err := row.Scan(&w.ID, &w.CommitteeID, &w.WeekNumber, &w.Title, &w.Description, &w.Content, &w.StartDate, &w.EndDate, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (f WeekFilter) apply(qb squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.EndsOnOrAfter != nil {
		qb = qb.Where(squirrel.GtOrEq{"end_date": *f.EndsOnOrAfter})
	}
	return qb
}

// List returns the committee's weeks ordered by week number
func (r *WeekRepository) List(ctx context.Context, scope Scope, filter WeekFilter) ([]*models.Week, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Week{}, nil
	}

	qb := psql.Select(weekColumns...).
		From("weeks").
		Where(committeeOnly(scope, "committee_id"))
	query, args, err := filter.apply(qb).OrderBy("week_number ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list weeks query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "week")
	}
	defer rows.Close()

	weeks := []*models.Week{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week row: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "week")
	}
	return weeks, nil
}

// Count returns how many of the committee's weeks match filter
func (r *WeekRepository) Count(ctx context.Context, scope Scope, filter WeekFilter) (int, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return 0, nil
	}

	qb := psql.Select("COUNT(*)").
		From("weeks").
		Where(committeeOnly(scope, "committee_id"))
	query, args, err := filter.apply(qb).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count weeks query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, translateError(err, "week")
	}
	return n, nil
}

// GetByID retrieves a week of the scope's committee
func (r *WeekRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Week, error) {
	query, args, err := psql.Select(weekColumns...).
		From("weeks").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get week query: %w", err)
	}

	w, err := scanWeek(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "week")
	}
	return w, nil
}

// Create inserts a week into the scope's committee
func (r *WeekRepository) Create(ctx context.Context, scope Scope, week *models.Week) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	week.CommitteeID = scope.CommitteeID

	query, args, err := psql.Insert("weeks").
		Columns("committee_id", "week_number", "title", "description", "content", "start_date", "end_date").
		Values(week.CommitteeID, week.WeekNumber, week.Title, week.Description, week.Content, week.StartDate, week.EndDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create week query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&week.ID, &week.CreatedAt); err != nil {
		return translateError(err, "week")
	}
	return nil
}

// Update applies patch to a week of the scope's committee
func (r *WeekRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch WeekPatch) (*models.Week, error) {
	if err := requireWritable(scope); err != nil {
		return nil, err
	}

	ub := psql.Update("weeks")
	changed := false
	set := func(column string, value any) {
		ub = ub.Set(column, value)
		changed = true
	}
	if patch.WeekNumber != nil {
		set("week_number", *patch.WeekNumber)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.StartDate != nil {
		set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set("end_date", *patch.EndDate)
	}
	if !changed {
		return r.GetByID(ctx, scope, id)
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		Suffix("RETURNING " + joinColumns(weekColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update week query: %w", err)
	}

	w, err := scanWeek(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "week")
	}
	return w, nil
}

// Delete removes a week of the scope's committee
func (r *WeekRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	query, args, err := psql.Delete("weeks").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete week query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err, "week")
	}
	return requireAffected(tag, "week")
}

// Exists reports whether week id belongs to the scope's committee
func (r *WeekRepository) Exists(ctx context.Context, scope Scope, id uuid.UUID) (bool, error) {
	if !scope.HasCommittee() {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM weeks WHERE id = $1 AND committee_id = $2)",
		id, scope.CommitteeID).Scan(&exists)
	if err != nil {
		return false, translateError(err, "week")
	}
	return exists, nil
}
