package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// WeekService manages the committee curriculum
type WeekService struct {
	base
	now Clock
	loc *time.Location
}

// NewWeekService creates a new WeekService. loc decides what "today" is for upcoming weeks.
func NewWeekService(store repositories.Store, policy *auth.Policy, v *validation.Validator, loc *time.Location, logger zerolog.Logger) *WeekService {
	if loc == nil {
		loc = time.UTC
	}
	return &WeekService{base: newBase(store, policy, v, logger), now: time.Now, loc: loc}
}

func checkWeekDates(start, end time.Time) error {
	if end.Before(start) {
		return apperrors.NewFieldValidationError("endDate", "endDate must not be before startDate")
	}
	return nil
}

// List returns the committee's weeks. upcoming keeps weeks that have not ended yet.
func (s *WeekService) List(ctx context.Context, caller *models.Profile, upcoming bool) ([]*models.Week, error) {
	filter := repositories.WeekFilter{}
	if upcoming {
		today := models.Today(s.now(), s.loc)
		filter.EndsOnOrAfter = &today
	}

	var weeks []*models.Week
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		weeks, err = repos.Weeks.List(ctx, scope, filter)
		return err
	})
	return weeks, err
}

// Get returns one week
func (s *WeekService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Week, error) {
	var week *models.Week
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		week, err = repos.Weeks.GetByID(ctx, scope, id)
		return err
	})
	return week, err
}

// Create adds a week
func (s *WeekService) Create(ctx context.Context, caller *models.Profile, req dto.CreateWeekRequest) (*models.Week, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	start, err := validation.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkWeekDates(start, end); err != nil {
		return nil, err
	}

	week := &models.Week{
		WeekNumber:  req.WeekNumber,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		StartDate:   start,
		EndDate:     end,
	}
	err = s.run(ctx, caller, auth.ActionCreate, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Weeks.Create(ctx, scope, week)
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

// Update patches a week. Date order is checked against the stored bounds.
func (s *WeekService) Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateWeekRequest) (*models.Week, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	patch := repositories.WeekPatch{
		WeekNumber:  req.WeekNumber,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	}
	if req.StartDate != nil {
		start, err := validation.ParseDate("startDate", *req.StartDate)
		if err != nil {
			return nil, err
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := validation.ParseDate("endDate", *req.EndDate)
		if err != nil {
			return nil, err
		}
		patch.EndDate = &end
	}

	var week *models.Week
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if patch.StartDate != nil || patch.EndDate != nil {
			current, err := repos.Weeks.GetByID(ctx, scope, id)
			if err != nil {
				return err
			}
			start, end := current.StartDate, current.EndDate
			if patch.StartDate != nil {
				start = *patch.StartDate
			}
			if patch.EndDate != nil {
				end = *patch.EndDate
			}
			if err := checkWeekDates(start, end); err != nil {
				return err
			}
		}
		var err error
		week, err = repos.Weeks.Update(ctx, scope, id, patch)
		return err
	})
	return week, err
}

// Delete removes a week. Attendance records keep existing with their week cleared.
func (s *WeekService) Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	return s.run(ctx, caller, auth.ActionDelete, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		detached, err := repos.Attendance.DetachWeek(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := repos.Weeks.Delete(ctx, scope, id); err != nil {
			return err
		}
		s.logger.Debug().Str("weekID", id.String()).Int64("detachedAttendance", detached).Msg("Week deleted")
		return nil
	})
}
