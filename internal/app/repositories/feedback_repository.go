package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/db"
)

// FeedbackFilter narrows feedback listings
type FeedbackFilter struct {
	UserID *uuid.UUID
}

// FeedbackPatch holds the mutable feedback columns
type FeedbackPatch struct {
	Content *string
	Rating  models.Optional[int]
}

// FeedbackStore is the feedback data access contract
type FeedbackStore interface {
	List(ctx context.Context, scope Scope, filter FeedbackFilter) ([]*models.Feedback, error)
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Feedback, error)
	Create(ctx context.Context, scope Scope, feedback *models.Feedback) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch FeedbackPatch) (*models.Feedback, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
}

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db db.Querier
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(q db.Querier) *FeedbackRepository {
	return &FeedbackRepository{db: q}
}

var feedbackColumns = []string{"id", "committee_id", "user_id", "given_by", "content", "rating", "created_at"}

// feedbackDetails joins recipient and giver display fields
func feedbackDetails() squirrel.SelectBuilder {
	cols := append(qualify("f", feedbackColumns),
		"COALESCE(r.full_name, '')", "COALESCE(r.email, '')", "COALESCE(g.full_name, '')", "COALESCE(g.role, '')")
	return psql.Select(cols...).
		From("feedback f").
		LeftJoin("profiles r ON r.id = f.user_id").
		LeftJoin("profiles g ON g.id = f.given_by")
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	f := &models.Feedback{}
	err := row.Scan(&f.ID, &f.CommitteeID, &f.UserID, &f.GivenBy, &f.Content, &f.Rating, &f.CreatedAt,
		&f.RecipientName, &f.RecipientEmail, &f.GiverName, &f.GiverRole)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List returns feedback visible to scope, newest first. Members only see feedback addressed to them.
func (r *FeedbackRepository) List(ctx context.Context, scope Scope, filter FeedbackFilter) ([]*models.Feedback, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Feedback{}, nil
	}

	qb := feedbackDetails().Where(ownedRows(scope, "f.committee_id", "f.user_id"))
	if filter.UserID != nil {
		qb = qb.Where(squirrel.Eq{"f.user_id": *filter.UserID})
	}

	query, args, err := qb.OrderBy("f.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "feedback")
	}
	defer rows.Close()

	items := []*models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "feedback")
	}
	return items, nil
}

// GetByID retrieves feedback visible to scope
func (r *FeedbackRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Feedback, error) {
	query, args, err := feedbackDetails().
		Where(squirrel.Eq{"f.id": id}).
		Where(ownedRows(scope, "f.committee_id", "f.user_id")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}

	f, err := scanFeedback(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "feedback")
	}
	return f, nil
}

// Create inserts feedback, stamping committee and giver from scope
func (r *FeedbackRepository) Create(ctx context.Context, scope Scope, feedback *models.Feedback) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	feedback.CommitteeID = scope.CommitteeID
	feedback.GivenBy = scope.ProfileID

	query, args, err := psql.Insert("feedback").
		Columns("committee_id", "user_id", "given_by", "content", "rating").
		Values(feedback.CommitteeID, feedback.UserID, feedback.GivenBy, feedback.Content, feedback.Rating).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&feedback.ID, &feedback.CreatedAt); err != nil {
		return translateError(err, "feedback")
	}
	return nil
}

// Update applies patch to feedback of the scope's committee
func (r *FeedbackRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch FeedbackPatch) (*models.Feedback, error) {
	if err := requireWritable(scope); err != nil {
		return nil, err
	}
	if patch.Content == nil && !patch.Rating.Set {
		return r.GetByID(ctx, scope, id)
	}

	ub := psql.Update("feedback")
	if patch.Content != nil {
		ub = ub.Set("content", *patch.Content)
	}
	if patch.Rating.Set {
		ub = ub.Set("rating", patch.Rating.Arg())
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update feedback query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "feedback")
	}
	if err := requireAffected(tag, "feedback"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, scope, id)
}

// Delete removes feedback of the scope's committee
func (r *FeedbackRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	query, args, err := psql.Delete("feedback").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete feedback query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err, "feedback")
	}
	return requireAffected(tag, "feedback")
}
