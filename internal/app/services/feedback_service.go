package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

// FeedbackService manages admin feedback to members
type FeedbackService struct {
	base
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{base: newBase(store, policy, v, logger)}
}

// List returns feedback visible to the caller. Members only see feedback addressed to them.
func (s *FeedbackService) List(ctx context.Context, caller *models.Profile, query dto.FeedbackQuery) ([]*models.Feedback, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	recipient, err := parseOptionalUUID("userId", query.UserID)
	if err != nil {
		return nil, err
	}
	filter := repositories.FeedbackFilter{UserID: recipient}

	var items []*models.Feedback
	err = s.run(ctx, caller, auth.ActionRead, auth.ResourceFeedback, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		items, err = repos.Feedback.List(ctx, scope, filter)
		return err
	})
	return items, err
}

// Get returns one feedback entry
func (s *FeedbackService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Feedback, error) {
	var item *models.Feedback
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceFeedback, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		item, err = repos.Feedback.GetByID(ctx, scope, id)
		return err
	})
	return item, err
}

// Create records feedback from the caller to a committee member
func (s *FeedbackService) Create(ctx context.Context, caller *models.Profile, req dto.CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	item := &models.Feedback{
		UserID:  req.UserID,
		Content: req.Content,
		Rating:  req.Rating,
	}

	var created *models.Feedback
	err := s.run(ctx, caller, auth.ActionCreate, auth.ResourceFeedback, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if err := requireMember(ctx, repos, scope, "userId", item.UserID); err != nil {
			return err
		}
		if err := repos.Feedback.Create(ctx, scope, item); err != nil {
			return err
		}
		var err error
		created, err = repos.Feedback.GetByID(ctx, scope, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches feedback content or rating
func (s *FeedbackService) Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Rating.Value != nil {
		if err := s.validator.Var("rating", *req.Rating.Value, "gte=1,lte=5"); err != nil {
			return nil, err
		}
	}
	patch := repositories.FeedbackPatch{Content: req.Content, Rating: req.Rating}

	var item *models.Feedback
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceFeedback, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		item, err = repos.Feedback.Update(ctx, scope, id, patch)
		return err
	})
	return item, err
}

// Delete removes feedback
func (s *FeedbackService) Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	return s.run(ctx, caller, auth.ActionDelete, auth.ResourceFeedback, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Feedback.Delete(ctx, scope, id)
	})
}
