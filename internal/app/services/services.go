// Package services holds the committee dashboard use cases. Every method takes the
// authenticated caller explicitly and runs its repository work inside a scoped transaction.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// SessionRevoker stores revoked token ids
type SessionRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Event names published to committee subscribers
const (
	EventAnnouncementCreated = "announcement.created"
	EventAnnouncementUpdated = "announcement.updated"
	EventAnnouncementDeleted = "announcement.deleted"
)

// Notifier fans committee events out to live subscribers
type Notifier interface {
	Publish(committeeID uuid.UUID, event string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(uuid.UUID, string, interface{}) {}

// Clock returns the current time
type Clock func() time.Time

// scopedWork is repository work bound to the caller's scope
type scopedWork func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error

// base carries what every scoped service needs
type base struct {
	store     repositories.Store
	policy    *auth.Policy
	validator *validation.Validator
	logger    zerolog.Logger
}

func newBase(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) base {
	return base{store: store, policy: policy, validator: v, logger: logger}
}

// run authorizes caller and executes work inside one scoped transaction
func (b base) run(ctx context.Context, caller *models.Profile, action auth.Action, resource auth.Resource, work scopedWork) error {
	if err := b.policy.Authorize(caller, action, resource); err != nil {
		return err
	}
	scope := b.policy.Scope(caller)
	return b.store.WithScope(ctx, scope, func(ctx context.Context, repos *repositories.Repositories) error {
		return work(ctx, repos, scope)
	})
}

// committeeWide authorizes a read of every row of resource in the caller's committee
func (b base) committeeWide(caller *models.Profile, resource auth.Resource) error {
	if err := b.policy.Authorize(caller, auth.ActionRead, resource); err != nil {
		return err
	}
	if b.policy.Access(caller, auth.ActionRead, resource) != auth.AccessCommittee {
		return apperrors.NewForbiddenError(fmt.Sprintf("%s may not read all %s records", caller.Role, resource))
	}
	if !caller.HasCommittee() {
		return apperrors.NewForbiddenError("caller is not assigned to a committee")
	}
	return nil
}

// Services bundles every service for the HTTP layer
type Services struct {
	Session      *SessionService
	Profile      *ProfileService
	Member       *MemberService
	Committee    *CommitteeService
	Week         *WeekService
	Project      *ProjectService
	Attendance   *AttendanceService
	Announcement *AnnouncementService
	Feedback     *FeedbackService
	Dashboard    *DashboardService
	Export       *ExportService
}

// parseOptionalUUID parses a query parameter; empty means unset
func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.NewFieldValidationError(field, field+" must be a valid UUID")
	}
	return &id, nil
}
