package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// AttendanceService records member attendance
type AttendanceService struct {
	base
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{base: newBase(store, policy, v, logger)}
}

// requireWeek rejects week references outside the caller's committee
func requireWeek(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope, id uuid.UUID) error {
	ok, err := repos.Weeks.Exists(ctx, scope, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewFieldValidationError("weekId", "weekId must reference a week of the committee")
	}
	return nil
}

func buildAttendanceFilter(query dto.AttendanceQuery) (repositories.AttendanceFilter, error) {
	var filter repositories.AttendanceFilter
	var err error
	if filter.UserID, err = parseOptionalUUID("userId", query.UserID); err != nil {
		return filter, err
	}
	if filter.WeekID, err = parseOptionalUUID("weekId", query.WeekID); err != nil {
		return filter, err
	}
	if query.Status != "" {
		status := query.Status
		filter.Status = &status
	}
	if query.From != "" {
		from, err := validation.ParseDate("from", query.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := validation.ParseDate("to", query.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	return filter, nil
}

// List returns attendance visible to the caller. Members only ever see their own records.
func (s *AttendanceService) List(ctx context.Context, caller *models.Profile, query dto.AttendanceQuery) ([]*models.Attendance, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	filter, err := buildAttendanceFilter(query)
	if err != nil {
		return nil, err
	}

	var records []*models.Attendance
	err = s.run(ctx, caller, auth.ActionRead, auth.ResourceAttendance, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		records, err = repos.Attendance.List(ctx, scope, filter)
		return err
	})
	return records, err
}

// Get returns one attendance record
func (s *AttendanceService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Attendance, error) {
	var record *models.Attendance
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceAttendance, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		record, err = repos.Attendance.GetByID(ctx, scope, id)
		return err
	})
	return record, err
}

// Create records attendance for a committee member
func (s *AttendanceService) Create(ctx context.Context, caller *models.Profile, req dto.CreateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	date, err := validation.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.Attendance{
		UserID: req.UserID,
		WeekID: req.WeekID,
		Date:   date,
		Status: req.Status,
		Notes:  req.Notes,
	}
	var created *models.Attendance
	err = s.run(ctx, caller, auth.ActionCreate, auth.ResourceAttendance, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if err := requireMember(ctx, repos, scope, "userId", record.UserID); err != nil {
			return err
		}
		if record.WeekID != nil {
			if err := requireWeek(ctx, repos, scope, *record.WeekID); err != nil {
				return err
			}
		}
		if err := repos.Attendance.Create(ctx, scope, record); err != nil {
			return err
		}
		// re-read for the joined member name and week number
		var err error
		created, err = repos.Attendance.GetByID(ctx, scope, record.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches an attendance record
func (s *AttendanceService) Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	patch := repositories.AttendancePatch{
		UserID: req.UserID,
		WeekID: req.WeekID,
		Status: req.Status,
		Notes:  req.Notes,
	}
	if req.Date != nil {
		date, err := validation.ParseDate("date", *req.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}

	var record *models.Attendance
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceAttendance, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if patch.UserID != nil {
			if err := requireMember(ctx, repos, scope, "userId", *patch.UserID); err != nil {
				return err
			}
		}
		if patch.WeekID.Value != nil {
			if err := requireWeek(ctx, repos, scope, *patch.WeekID.Value); err != nil {
				return err
			}
		}
		var err error
		record, err = repos.Attendance.Update(ctx, scope, id, patch)
		return err
	})
	return record, err
}

// Delete removes an attendance record
func (s *AttendanceService) Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	return s.run(ctx, caller, auth.ActionDelete, auth.ResourceAttendance, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Attendance.Delete(ctx, scope, id)
	})
}
