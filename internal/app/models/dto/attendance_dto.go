package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// CreateAttendanceRequest records a member's attendance
type CreateAttendanceRequest struct {
	UserID uuid.UUID               `json:"userId" validate:"required"`
	WeekID *uuid.UUID              `json:"weekId,omitempty"`
	Date   string                  `json:"date" validate:"required,date" example:"2026-03-03"`
	Status models.AttendanceStatus `json:"status" validate:"required,attendance_status" enums:"present,absent,excused"`
	Notes  *string                 `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateAttendanceRequest patches an attendance record
type UpdateAttendanceRequest struct {
	UserID *uuid.UUID                 `json:"userId,omitempty"`
	WeekID models.Optional[uuid.UUID] `json:"weekId" swaggertype:"string"`
	Date   *string                    `json:"date,omitempty" validate:"omitempty,date"`
	Status *models.AttendanceStatus   `json:"status,omitempty" validate:"omitempty,attendance_status"`
	Notes  models.Optional[string]    `json:"notes" swaggertype:"string"`
}

// AttendanceQuery filters attendance listings
type AttendanceQuery struct {
	UserID string                  `form:"userId" validate:"omitempty,uuid"`
	WeekID string                  `form:"weekId" validate:"omitempty,uuid"`
	Status models.AttendanceStatus `form:"status" validate:"omitempty,attendance_status"`
	From   string                  `form:"from" validate:"omitempty,date"`
	To     string                  `form:"to" validate:"omitempty,date"`
}

// AttendanceResponse is the wire form of an attendance record
type AttendanceResponse struct {
	ID          uuid.UUID               `json:"id"`
	CommitteeID uuid.UUID               `json:"committeeId"`
	UserID      uuid.UUID               `json:"userId"`
	UserName    string                  `json:"userName"`
	WeekID      *uuid.UUID              `json:"weekId,omitempty"`
	WeekNumber  *int                    `json:"weekNumber,omitempty"`
	Date        string                  `json:"date" example:"2026-03-03"`
	Status      models.AttendanceStatus `json:"status"`
	Notes       *string                 `json:"notes,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// NewAttendanceResponse converts an attendance record
func NewAttendanceResponse(a *models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		CommitteeID: a.CommitteeID,
		UserID:      a.UserID,
		UserName:    a.UserName,
		WeekID:      a.WeekID,
		WeekNumber:  a.WeekNumber,
		Date:        dateString(a.Date),
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

// NewAttendanceResponses converts a list of attendance records
func NewAttendanceResponses(records []*models.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}
