package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a committee-wide notice authored by an admin
type Announcement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CommitteeID uuid.UUID `json:"committeeId" db:"committee_id"`
	CreatedBy   uuid.UUID `json:"createdBy" db:"created_by"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Priority    Priority  `json:"priority" db:"priority" example:"medium" enums:"low,medium,high"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	AuthorName  string    `json:"authorName,omitempty"` // joined
}
