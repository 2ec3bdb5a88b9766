package models

import (
	"time"

	"github.com/google/uuid"
)

// Week is one unit of a committee's curriculum
type Week struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CommitteeID uuid.UUID `json:"committeeId" db:"committee_id"`
	WeekNumber  int       `json:"weekNumber" db:"week_number" example:"1"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Content     string    `json:"content" db:"content"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
