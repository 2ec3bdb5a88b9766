package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// CreateFeedbackRequest gives feedback to a member
type CreateFeedbackRequest struct {
	UserID  uuid.UUID `json:"userId" validate:"required"`
	Content string    `json:"content" validate:"required"`
	Rating  *int      `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5" example:"4"`
}

// UpdateFeedbackRequest patches feedback. A null rating clears it.
type UpdateFeedbackRequest struct {
	Content *string              `json:"content,omitempty" validate:"omitempty,min=1"`
	Rating  models.Optional[int] `json:"rating" swaggertype:"integer"`
}

// FeedbackQuery filters feedback listings
type FeedbackQuery struct {
	UserID string `form:"userId" validate:"omitempty,uuid"`
}
