package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/db"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/dberrors"
)

// psql is the shared statement builder (PostgreSQL placeholders)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// systemRole marks a scope used by identity binding and seeding only
const systemRole = "system"

// Scope is the caller context every repository call is filtered by.
// It is built from the caller's Profile and passed explicitly.
type Scope struct {
	ProfileID   uuid.UUID
	CommitteeID uuid.UUID // uuid.Nil when the caller has no committee
	Role        models.Role
	system      bool
}

// SystemScope is an unfiltered scope. Only identity binding and seeding use it.
func SystemScope() Scope {
	return Scope{system: true}
}

// IsSystem reports whether s bypasses tenant filtering
func (s Scope) IsSystem() bool { return s.system }

// IsAdmin reports whether s carries the admin role
func (s Scope) IsAdmin() bool { return !s.system && s.Role == models.RoleAdmin }

// HasCommittee reports whether s is bound to a committee
func (s Scope) HasCommittee() bool { return s.CommitteeID != uuid.Nil }

// settings returns the values for the app.* session settings read by row-level security
func (s Scope) settings() (role, profileID, committeeID string) {
	if s.system {
		return systemRole, "", ""
	}
	if s.ProfileID != uuid.Nil {
		profileID = s.ProfileID.String()
	}
	if s.HasCommittee() {
		committeeID = s.CommitteeID.String()
	}
	return string(s.Role), profileID, committeeID
}

// Repositories holds all the repository instances bound to one Querier
type Repositories struct {
	Profiles      ProfileStore
	Committees    CommitteeStore
	Weeks         WeekStore
	Projects      ProjectStore
	Attendance    AttendanceStore
	Announcements AnnouncementStore
	Feedback      FeedbackStore
}

// NewRepositories initializes all repositories on q
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		Profiles:      NewProfileRepository(q),
		Committees:    NewCommitteeRepository(q),
		Weeks:         NewWeekRepository(q),
		Projects:      NewProjectRepository(q),
		Attendance:    NewAttendanceRepository(q),
		Announcements: NewAnnouncementRepository(q),
		Feedback:      NewFeedbackRepository(q),
	}
}

// ScopedFn is repository work executed inside one scoped transaction
type ScopedFn func(ctx context.Context, repos *Repositories) error

// Store hands out repositories bound to a scoped transaction
type Store interface {
	WithScope(ctx context.Context, scope Scope, fn ScopedFn) error
	WithSystem(ctx context.Context, fn ScopedFn) error
}

// PgStore runs each unit of work in a transaction carrying the scope's session settings
type PgStore struct {
	pool db.Pool
}

// NewStore creates a Store on pool
func NewStore(pool db.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const setScopeSQL = `SELECT set_config('app.role', $1, true), set_config('app.profile_id', $2, true), set_config('app.committee_id', $3, true)`

// WithScope runs fn with repositories whose statements are subject to row-level security for scope
func (s *PgStore) WithScope(ctx context.Context, scope Scope, fn ScopedFn) error {
	return db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		role, profileID, committeeID := scope.settings()
		if _, err := tx.Exec(ctx, setScopeSQL, role, profileID, committeeID); err != nil {
			return fmt.Errorf("failed to apply session scope: %w", err)
		}
		return fn(ctx, NewRepositories(tx))
	})
}

// WithSystem runs fn unfiltered. Reserved for identity binding and seeding.
func (s *PgStore) WithSystem(ctx context.Context, fn ScopedFn) error {
	return s.WithScope(ctx, SystemScope(), fn)
}

// translateError maps driver errors onto the application taxonomy
func translateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFoundError(entity + " not found")
	case dberrors.IsForeignKeyViolation(err):
		return &apperrors.CustomError{Err: apperrors.ErrValidation, Message: entity + " references a record outside the committee", Cause: err}
	case dberrors.IsDuplicateConstraintError(err, ""):
		return &apperrors.CustomError{Err: apperrors.ErrValidation, Message: entity + " already exists", Cause: err}
	case dberrors.IsCheckViolation(err):
		return &apperrors.CustomError{Err: apperrors.ErrValidation, Message: entity + " has invalid field values", Cause: err}
	case dberrors.IsPermissionDenied(err):
		return &apperrors.CustomError{Err: apperrors.ErrForbidden, Message: "not allowed to modify " + entity, Cause: err}
	}
	return fmt.Errorf("%s query failed: %w", entity, err)
}

// requireAffected turns a zero-row mutation into NotFound
func requireAffected(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(entity + " not found")
	}
	return nil
}

// committeeOnly filters on the scope's committee. System scopes are unfiltered.
func committeeOnly(scope Scope, column string) squirrel.Sqlizer {
	if scope.IsSystem() {
		return squirrel.Expr("TRUE")
	}
	return squirrel.Eq{column: scope.CommitteeID}
}

// ownedRows restricts member scopes to rows owned by the member
func ownedRows(scope Scope, committeeColumn, ownerColumn string) squirrel.Sqlizer {
	if scope.IsSystem() {
		return squirrel.Expr("TRUE")
	}
	if scope.IsAdmin() {
		return squirrel.Eq{committeeColumn: scope.CommitteeID}
	}
	return squirrel.And{
		squirrel.Eq{committeeColumn: scope.CommitteeID},
		squirrel.Eq{ownerColumn: scope.ProfileID},
	}
}

// requireWritable rejects mutations that cannot carry a committee id
func requireWritable(scope Scope) error {
	if scope.IsSystem() {
		return nil
	}
	if !scope.HasCommittee() {
		return apperrors.NewForbiddenError("caller is not assigned to a committee")
	}
	return nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// qualify prefixes each column with a table alias
func qualify(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
