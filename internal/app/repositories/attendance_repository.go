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

// AttendanceFilter narrows attendance listings
type AttendanceFilter struct {
	UserID *uuid.UUID
	WeekID *uuid.UUID
	Status *models.AttendanceStatus
	From   *time.Time
	To     *time.Time
}

// AttendancePatch holds the mutable attendance columns
type AttendancePatch struct {
	UserID *uuid.UUID
	WeekID models.Optional[uuid.UUID]
	Date   *time.Time
	Status *models.AttendanceStatus
	Notes  models.Optional[string]
}

// AttendanceStats counts attendance outcomes
type AttendanceStats struct {
	Present int
	Total   int
}

// AttendanceSummary is one member's attendance tally
type AttendanceSummary struct {
	UserID   uuid.UUID
	FullName string
	AttendanceStats
}

// AttendanceStore is the attendance data access contract
type AttendanceStore interface {
	List(ctx context.Context, scope Scope, filter AttendanceFilter) ([]*models.Attendance, error)
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Attendance, error)
	Create(ctx context.Context, scope Scope, attendance *models.Attendance) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch AttendancePatch) (*models.Attendance, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	DetachWeek(ctx context.Context, scope Scope, weekID uuid.UUID) (int64, error)
	Stats(ctx context.Context, scope Scope, userID uuid.UUID) (AttendanceStats, error)
	Summaries(ctx context.Context, scope Scope) ([]AttendanceSummary, error)
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db db.Querier
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(q db.Querier) *AttendanceRepository {
	return &AttendanceRepository{db: q}
}

var attendanceColumns = []string{"id", "committee_id", "user_id", "week_id", "date", "status", "notes", "created_at"}

// attendanceDetails joins the member name and week number
func attendanceDetails() squirrel.SelectBuilder {
	return psql.Select(append(qualify("a", attendanceColumns), "u.full_name", "w.week_number")...).
		From("attendance a").
		Join("profiles u ON u.id = a.user_id").
		LeftJoin("weeks w ON w.id = a.week_id")
}

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	a := &models.Attendance{}
	err := row.Scan(&a.ID, &a.CommitteeID, &a.UserID, &a.WeekID, &a.Date, &a.Status, &a.Notes, &a.CreatedAt,
		&a.UserName, &a.WeekNumber)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns attendance visible to scope, most recent date first. Members only see their own.
func (r *AttendanceRepository) List(ctx context.Context, scope Scope, filter AttendanceFilter) ([]*models.Attendance, error) {
	if !scope.IsSystem() && !scope.HasCommittee() {
		return []*models.Attendance{}, nil
	}

	qb := attendanceDetails().Where(ownedRows(scope, "a.committee_id", "a.user_id"))
	if filter.UserID != nil {
		qb = qb.Where(squirrel.Eq{"a.user_id": *filter.UserID})
	}
	if filter.WeekID != nil {
		qb = qb.Where(squirrel.Eq{"a.week_id": *filter.WeekID})
	}
	if filter.Status != nil {
		qb = qb.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"a.date": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"a.date": *filter.To})
	}

	query, args, err := qb.OrderBy("a.date DESC", "a.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "attendance")
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "attendance")
	}
	return records, nil
}

// GetByID retrieves an attendance record visible to scope
func (r *AttendanceRepository) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Attendance, error) {
	query, args, err := attendanceDetails().
		Where(squirrel.Eq{"a.id": id}).
		Where(ownedRows(scope, "a.committee_id", "a.user_id")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get attendance query: %w", err)
	}

	a, err := scanAttendance(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "attendance")
	}
	return a, nil
}

// Create inserts an attendance record into the scope's committee
func (r *AttendanceRepository) Create(ctx context.Context, scope Scope, attendance *models.Attendance) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	attendance.CommitteeID = scope.CommitteeID

	query, args, err := psql.Insert("attendance").
		Columns("committee_id", "user_id", "week_id", "date", "status", "notes").
		Values(attendance.CommitteeID, attendance.UserID, attendance.WeekID, attendance.Date, attendance.Status, attendance.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&attendance.ID, &attendance.CreatedAt); err != nil {
		return translateError(err, "attendance")
	}
	return nil
}

// Update applies patch to an attendance record of the scope's committee
func (r *AttendanceRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch AttendancePatch) (*models.Attendance, error) {
	if err := requireWritable(scope); err != nil {
		return nil, err
	}

	ub := psql.Update("attendance")
	changed := false
	set := func(column string, value any) {
		ub = ub.Set(column, value)
		changed = true
	}
	if patch.UserID != nil {
		set("user_id", *patch.UserID)
	}
	if patch.WeekID.Set {
		set("week_id", patch.WeekID.Arg())
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Notes.Set {
		set("notes", patch.Notes.Arg())
	}
	if !changed {
		return r.GetByID(ctx, scope, id)
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update attendance query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "attendance")
	}
	if err := requireAffected(tag, "attendance"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, scope, id)
}

// Delete removes an attendance record of the scope's committee
func (r *AttendanceRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if err := requireWritable(scope); err != nil {
		return err
	}
	query, args, err := psql.Delete("attendance").
		Where(squirrel.Eq{"id": id}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete attendance query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err, "attendance")
	}
	return requireAffected(tag, "attendance")
}

// DetachWeek clears week_id on every record of the committee pointing at weekID
func (r *AttendanceRepository) DetachWeek(ctx context.Context, scope Scope, weekID uuid.UUID) (int64, error) {
	if err := requireWritable(scope); err != nil {
		return 0, err
	}
	query, args, err := psql.Update("attendance").
		Set("week_id", nil).
		Where(squirrel.Eq{"week_id": weekID}).
		Where(committeeOnly(scope, "committee_id")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build detach week query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, translateError(err, "attendance")
	}
	return tag.RowsAffected(), nil
}

// Stats tallies one member's attendance within scope
func (r *AttendanceRepository) Stats(ctx context.Context, scope Scope, userID uuid.UUID) (AttendanceStats, error) {
	var stats AttendanceStats
	if !scope.IsSystem() && !scope.HasCommittee() {
		return stats, nil
	}

	query, args, err := psql.Select("COUNT(*) FILTER (WHERE status = 'present')", "COUNT(*)").
		From("attendance").
		Where(ownedRows(scope, "committee_id", "user_id")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build attendance stats query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.Present, &stats.Total); err != nil {
		return stats, translateError(err, "attendance")
	}
	return stats, nil
}

// Summaries tallies attendance per member of the committee, including members with no records
func (r *AttendanceRepository) Summaries(ctx context.Context, scope Scope) ([]AttendanceSummary, error) {
	if !scope.HasCommittee() {
		return []AttendanceSummary{}, nil
	}

	qb := psql.Select("p.id", "p.full_name", "COUNT(a.id) FILTER (WHERE a.status = 'present')", "COUNT(a.id)").
		From("profiles p").
		LeftJoin("attendance a ON a.user_id = p.id AND a.committee_id = p.committee_id").
		Where(squirrel.Eq{"p.committee_id": scope.CommitteeID}).
		Where(squirrel.Eq{"p.role": models.RoleMember})
	if !scope.IsAdmin() {
		qb = qb.Where(squirrel.Eq{"p.id": scope.ProfileID})
	}

	query, args, err := qb.GroupBy("p.id", "p.full_name").OrderBy("p.full_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance summaries query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "attendance")
	}
	defer rows.Close()

	summaries := []AttendanceSummary{}
	for rows.Next() {
		var s AttendanceSummary
		if err := rows.Scan(&s.UserID, &s.FullName, &s.Present, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "attendance")
	}
	return summaries, nil
}
