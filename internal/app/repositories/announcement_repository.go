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

// AnnouncementFilter narrows announcement listings
type AnnouncementFilter struct {
	Priority *models.Priority
	// Limit caps the result size; zero means no limit
	Limit uint64
}

// AnnouncementPatch holds the mutable announcement columns
type AnnouncementPatch struct {
	Title    *string
	Content  *string
	Priority *models.Priority
}

// AnnouncementStore is the announcement data access contract
type AnnouncementStore interface {
	List(ctx context.Context, scope Scope, filter AnnouncementFilter) ([]*models.Announcement, error)
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Announcement, error)
	Create(ctx context.Context, scope Scope, announcement *models.Announcement) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch AnnouncementPatch) (*models.Announcement, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
}

// AnnouncementRepository handles announcement database operations
type AnnouncementRepository struct {
	db db.Querier
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(q db.Querier) *AnnouncementRepository {
	return &AnnouncementRepository{db: q}
}

var announcementColumns = []string{"id", "committee_id", "created_by", "title", "content", "priority", "created_at", "updated_at"}

// announcementDetails joins the author display name
func announcementDetails() squirrel.SelectBuilder {
	return psql.Select(append(qualify("n", announcementColumns), "COALESCE(u.full_name, '')")...).
		From("announcements n").
		LeftJoin("profiles u ON u.id = n.created_by")
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := row.Scan(&a.ID, &a.CommitteeID, &a.CreatedBy, &a.Title, &a.Content, &a.Priority, &a.CreatedAt, &a.UpdatedAt, &a.AuthorName)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the committee's announcements, newest first
func (r *AnnouncementRepository) List(ctx context.Context, scope Scope, filter AnnouncementFilter) ([]*models.Announcement, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Announcement{}, nil
	}

	qb := announcementDetails().Where(committeeOnly(scope, "n.committee_id"))
	if filter.Priority != nil {
		qb = qb.Where(squirrel.Eq{"n.priority": *filter.Priority})
	}
	qb = qb.OrderBy("n.created_at DESC")
	if filter.Limit > 0 {
		qb = qb.Limit(filter.Limit)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "announcement")
	}
	defer rows.Close()

	announcements := []*models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "announcement")
	}
	return announcements, nil
}

// GetByID retrieves an announcement of the scope's committee
func (r *AnnouncementRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Announcement, error) {
	query, args, err := announcementDetails().
		Where(squirrel.Eq{"n.id": id}).
		Where(committeeOnly(scope, "n.committee_id")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get announcement query: %w", err)
	}

	a, err := scanAnnouncement(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "announcement")
	}
	return a, nil
}

// Create inserts an announcement, stamping committee and author from scope
func (r *AnnouncementRepository) Create(ctx context.Context, scope Scope, announcement *models.Announcement) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	announcement.CommitteeID = scope.CommitteeID
	announcement.CreatedBy = scope.ProfileID

	query, args, err := psql.Insert("announcements").
		Columns("committee_id", "created_by", "title", "content", "priority").
		Values(announcement.CommitteeID, announcement.CreatedBy, announcement.Title, announcement.Content, announcement.Priority).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&announcement.ID, &announcement.CreatedAt, &announcement.UpdatedAt); err != nil {
		return translateError(err, "announcement")
	}
	return nil
}

// Update applies patch to an announcement of the scope's committee
func (r *AnnouncementRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch AnnouncementPatch) (*models.Announcement, error) {
	if err := requireWritable(scope); err != nil {
		return nil, err
	}

	ub := psql.Update("announcements").Set("updated_at", time.Now().UTC())
	if patch.Title != nil {
		ub = ub.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		ub = ub.Set("content", *patch.Content)
	}
	if patch.Priority != nil {
		ub = ub.Set("priority", *patch.Priority)
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update announcement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "announcement")
	}
	if err := requireAffected(tag, "announcement"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, scope, id)
}

// Delete removes an announcement of the scope's committee
func (r *AnnouncementRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	query, args, err := psql.Delete("announcements").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete announcement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err, "announcement")
	}
	return requireAffected(tag, "announcement")
}
