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
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

// ProjectFilter narrows project listings
type ProjectFilter struct {
	AssignedTo *uuid.UUID
	Status     *models.ProjectStatus
}

// ProjectPatch holds the mutable project columns
type ProjectPatch struct {
	Title         *string
	Description   *string
	AssignedTo    models.Optional[uuid.UUID]
	Status        *models.ProjectStatus
	DueDate       models.Optional[time.Time]
	SubmissionURL models.Optional[string]
}

// ProgressOnly reports whether the patch touches nothing but status and submission_url
func (p ProjectPatch) ProgressOnly() bool {
	return p.Title == nil && p.Description == nil && !p.AssignedTo.Set && !p.DueDate.Set
}

// ProjectStats counts a member's projects
type ProjectStats struct {
	Total     int
	Completed int
}

// ProjectStore is the project data access contract
type ProjectStore interface {
	List(ctx context.Context, scope Scope, filter ProjectFilter) ([]*models.Project, error)
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, scope Scope, project *models.Project) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	Stats(ctx context.Context, scope Scope, assignee uuid.UUID) (ProjectStats, error)
}

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db db.Querier
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(q db.Querier) *ProjectRepository {
	return &ProjectRepository{db: q}
}

var projectColumns = []string{"id", "committee_id", "title", "description", "assigned_to", "status", "due_date", "submission_url", "created_at", "updated_at"}

// projectDetails joins the assignee display name
func projectDetails() squirrel.SelectBuilder {
	return psql.Select(append(qualify("p", projectColumns), "a.full_name")...).
		From("projects p").
		LeftJoin("profiles a ON a.id = p.assigned_to")
}

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ID, &p.CommitteeID, &p.Title, &p.Description, &p.AssignedTo, &p.Status,
		&p.DueDate, &p.SubmissionURL, &p.CreatedAt, &p.UpdatedAt, &p.AssigneeName)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns projects visible to scope, newest first. Members only see projects assigned to them.
func (r *ProjectRepository) List(ctx context.Context, scope Scope, filter ProjectFilter) ([]*models.Project, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Project{}, nil
	}

	qb := projectDetails().Where(ownedRows(scope, "p.committee_id", "p.assigned_to"))
	if filter.AssignedTo != nil {
		qb = qb.Where(squirrel.Eq{"p.assigned_to": *filter.AssignedTo})
	}
	if filter.Status != nil {
		qb = qb.Where(squirrel.Eq{"p.status": *filter.Status})
	}

	query, args, err := qb.OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "project")
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "project")
	}
	return projects, nil
}

// GetByID retrieves a project visible to scope
func (r *ProjectRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Project, error) {
	query, args, err := projectDetails().
		Where(squirrel.Eq{"p.id": id}).
		Where(ownedRows(scope, "p.committee_id", "p.assigned_to")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get project query: %w", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "project")
	}
	return p, nil
}

// Create inserts a project into the scope's committee
func (r *ProjectRepository) Create(ctx context.Context, scope Scope, project *models.Project) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	project.CommitteeID = scope.CommitteeID
	if project.Status == "" {
		project.Status = models.ProjectPending
	}

	query, args, err := psql.Insert("projects").
		Columns("committee_id", "title", "description", "assigned_to", "status", "due_date", "submission_url").
		Values(project.CommitteeID, project.Title, project.Description, project.AssignedTo, project.Status, project.DueDate, project.SubmissionURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create project query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return translateError(err, "project")
	}
	return nil
}

// Update applies patch to a project visible to scope and returns the fresh row.
// Members may only change status and submission_url of projects assigned to them.
func (r *ProjectRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch ProjectPatch) (*models.Project, error) {
	if err := requireWritable(scope); err != nil {
		return nil, err
	}
	if !scope.IsAdmin() && !scope.IsSystem() && !patch.ProgressOnly() {
		return nil, apperrors.NewForbiddenError("members may only update project status and submission url")
	}

	ub := psql.Update("projects").Set("updated_at", time.Now().UTC())
	if patch.Title != nil {
		ub = ub.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		ub = ub.Set("description", *patch.Description)
	}
	if patch.AssignedTo.Set {
		ub = ub.Set("assigned_to", patch.AssignedTo.Arg())
	}
	if patch.Status != nil {
		ub = ub.Set("status", *patch.Status)
	}
	if patch.DueDate.Set {
		ub = ub.Set("due_date", patch.DueDate.Arg())
	}
	if patch.SubmissionURL.Set {
		ub = ub.Set("submission_url", patch.SubmissionURL.Arg())
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(ownedRows(scope, "committee_id", "assigned_to")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update project query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "project")
	}
	if err := requireAffected(tag, "project"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, scope, id)
}

// Delete removes a project of the scope's committee
func (r *ProjectRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	query, args, err := psql.Delete("projects").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete project query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err, "project")
	}
	return requireAffected(tag, "project")
}

// Stats counts projects assigned to assignee within scope
func (r *ProjectRepository) Stats(ctx context.Context, scope Scope, assignee uuid.UUID) (ProjectStats, error) {
	var stats ProjectStats
	if !scope.IsSystem() && !scope.HasCommittee() {
		return stats, nil
	}

	query, args, err := psql.Select("COUNT(*)", "COUNT(*) FILTER (WHERE status = 'completed')").
		From("projects").
		Where(ownedRows(scope, "committee_id", "assigned_to")).
		Where(squirrel.Eq{"assigned_to": assignee}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build project stats query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Completed); err != nil {
		return stats, translateError(err, "project")
	}
	return stats, nil
}
