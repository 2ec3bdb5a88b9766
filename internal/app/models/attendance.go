package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance records one member's presence on a given date
type Attendance struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	CommitteeID uuid.UUID        `json:"committeeId" db:"committee_id"`
	UserID      uuid.UUID        `json:"userId" db:"user_id"`
	WeekID      *uuid.UUID       `json:"weekId,omitempty" db:"week_id"`
	Date        time.Time        `json:"date" db:"date"`
	Status      AttendanceStatus `json:"status" db:"status" example:"present" enums:"present,absent,excused"`
	Notes       *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`

	// joined
	UserName   string `json:"userName,omitempty"`
	WeekNumber *int   `json:"weekNumber,omitempty"`
}
