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

// AnnouncementService manages committee announcements and notifies live subscribers
type AnnouncementService struct {
	base
	notifier Notifier
}

// NewAnnouncementService creates a new AnnouncementService. A nil notifier disables live events.
func NewAnnouncementService(store repositories.Store, policy *auth.Policy, v *validation.Validator, notifier Notifier, logger zerolog.Logger) *AnnouncementService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AnnouncementService{base: newBase(store, policy, v, logger), notifier: notifier}
}

// deletedAnnouncement is the payload of a delete event
type deletedAnnouncement struct {
	ID uuid.UUID `json:"id"`
}

// List returns the committee's announcements, newest first
func (s *AnnouncementService) List(ctx context.Context, caller *models.Profile, query dto.AnnouncementQuery) ([]*models.Announcement, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	filter := repositories.AnnouncementFilter{Limit: query.Limit}
	if query.Priority != "" {
		priority := query.Priority
		filter.Priority = &priority
	}

	var announcements []*models.Announcement
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceAnnouncement, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		announcements, err = repos.Announcements.List(ctx, scope, filter)
		return err
	})
	return announcements, err
}

// Get returns one announcement
func (s *AnnouncementService) Get(ctx context.Context, caller *models.Profile, id uuid.UUID) (*models.Announcement, error) {
	var announcement *models.Announcement
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceAnnouncement, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		announcement, err = repos.Announcements.GetByID(ctx, scope, id)
		return err
	})
	return announcement, err
}

// Create posts an announcement. Priority defaults to medium.
func (s *AnnouncementService) Create(ctx context.Context, caller *models.Profile, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	announcement := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
	}
	if announcement.Priority == "" {
		announcement.Priority = models.PriorityMedium
	}

	var created *models.Announcement
	err := s.run(ctx, caller, auth.ActionCreate, auth.ResourceAnnouncement, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		if err := repos.Announcements.Create(ctx, scope, announcement); err != nil {
			return err
		}
		var err error
		created, err = repos.Announcements.GetByID(ctx, scope, announcement.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(created.CommitteeID, EventAnnouncementCreated, created)
	return created, nil
}

// Update patches an announcement
func (s *AnnouncementService) Update(ctx context.Context, caller *models.Profile, id uuid.UUID, req dto.UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	patch := repositories.AnnouncementPatch{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
	}

	var announcement *models.Announcement
	err := s.run(ctx, caller, auth.ActionUpdate, auth.ResourceAnnouncement, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		announcement, err = repos.Announcements.Update(ctx, scope, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(announcement.CommitteeID, EventAnnouncementUpdated, announcement)
	return announcement, nil
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, caller *models.Profile, id uuid.UUID) error {
	err := s.run(ctx, caller, auth.ActionDelete, auth.ResourceAnnouncement, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		return repos.Announcements.Delete(ctx, scope, id)
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(*caller.CommitteeID, EventAnnouncementDeleted, deletedAnnouncement{ID: id})
	return nil
}
