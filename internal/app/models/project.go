package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is an assignment, optionally given to one member
type Project struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	CommitteeID   uuid.UUID     `json:"committeeId" db:"committee_id"`
	Title         string        `json:"title" db:"title"`
	Description   string        `json:"description" db:"description"`
	AssignedTo    *uuid.UUID    `json:"assignedTo,omitempty" db:"assigned_to"`
	Status        ProjectStatus `json:"status" db:"status" example:"pending" enums:"pending,in_progress,completed"`
	DueDate       *time.Time    `json:"dueDate,omitempty" db:"due_date"`
	SubmissionURL *string       `json:"submissionUrl,omitempty" db:"submission_url"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	AssigneeName  *string       `json:"assigneeName,omitempty"` // joined, no db column
}

// IsAssignedTo reports whether the project is assigned to profile id
func (p *Project) IsAssignedTo(id uuid.UUID) bool {
	return p.AssignedTo != nil && *p.AssignedTo == id
}
