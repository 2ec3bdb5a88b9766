package dto

import "github.com/yigit/starmentor/internal/app/models"

// CreateAnnouncementRequest posts an announcement
type CreateAnnouncementRequest struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Content  string          `json:"content" validate:"required"`
	Priority models.Priority `json:"priority" validate:"omitempty,priority" enums:"low,medium,high"`
}

// UpdateAnnouncementRequest patches an announcement
type UpdateAnnouncementRequest struct {
	Title    *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content  *string          `json:"content,omitempty" validate:"omitempty,min=1"`
	Priority *models.Priority `json:"priority,omitempty" validate:"omitempty,priority"`
}

// AnnouncementQuery filters announcement listings
type AnnouncementQuery struct {
	Priority models.Priority `form:"priority" validate:"omitempty,priority"`
	Limit    uint64          `form:"limit" validate:"omitempty,lte=100"`
}
