package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is written by an admin (GivenBy) for a member (UserID)
type Feedback struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CommitteeID uuid.UUID `json:"committeeId" db:"committee_id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	GivenBy     uuid.UUID `json:"givenBy" db:"given_by"`
	Content     string    `json:"content" db:"content"`
	Rating      *int      `json:"rating,omitempty" db:"rating" example:"4"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// joined
	RecipientName  string `json:"recipientName,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
	GiverName      string `json:"giverName,omitempty"`
	GiverRole      Role   `json:"giverRole,omitempty"`
}
