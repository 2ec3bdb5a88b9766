package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// CreateProjectRequest adds a project to the committee
type CreateProjectRequest struct {
	Title         string               `json:"title" validate:"required,max=200"`
	Description   string               `json:"description" validate:"max=5000"`
	AssignedTo    *uuid.UUID           `json:"assignedTo,omitempty"`
	Status        models.ProjectStatus `json:"status" validate:"omitempty,project_status" enums:"pending,in_progress,completed"`
	DueDate       *string              `json:"dueDate,omitempty" validate:"omitempty,date" example:"2026-04-01"`
	SubmissionURL *string              `json:"submissionUrl,omitempty" validate:"omitempty,url"`
}

// UpdateProjectRequest patches a project. Nullable fields accept JSON null to clear them.
type UpdateProjectRequest struct {
	Title         *string                    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string                    `json:"description,omitempty" validate:"omitempty,max=5000"`
	AssignedTo    models.Optional[uuid.UUID] `json:"assignedTo" swaggertype:"string"`
	Status        *models.ProjectStatus      `json:"status,omitempty" validate:"omitempty,project_status"`
	DueDate       models.Optional[string]    `json:"dueDate" swaggertype:"string"`
	SubmissionURL models.Optional[string]    `json:"submissionUrl" swaggertype:"string"`
}

// ProjectProgressRequest is the member's progress update
type ProjectProgressRequest struct {
	Status        *models.ProjectStatus   `json:"status,omitempty" validate:"omitempty,project_status"`
	SubmissionURL models.Optional[string] `json:"submissionUrl" swaggertype:"string"`
}

// ProjectQuery filters project listings
type ProjectQuery struct {
	AssignedTo string               `form:"assignedTo" validate:"omitempty,uuid"`
	Status     models.ProjectStatus `form:"status" validate:"omitempty,project_status"`
}

// ProjectResponse is the wire form of a project
type ProjectResponse struct {
	ID            uuid.UUID            `json:"id"`
	CommitteeID   uuid.UUID            `json:"committeeId"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	AssignedTo    *uuid.UUID           `json:"assignedTo,omitempty"`
	AssigneeName  *string              `json:"assigneeName,omitempty"`
	Status        models.ProjectStatus `json:"status"`
	DueDate       *string              `json:"dueDate,omitempty" example:"2026-04-01"`
	SubmissionURL *string              `json:"submissionUrl,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewProjectResponse converts a project
func NewProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		CommitteeID:   p.CommitteeID,
		Title:         p.Title,
		Description:   p.Description,
		AssignedTo:    p.AssignedTo,
		AssigneeName:  p.AssigneeName,
		Status:        p.Status,
		DueDate:       optionalDate(p.DueDate),
		SubmissionURL: p.SubmissionURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewProjectResponses converts a list of projects
func NewProjectResponses(projects []*models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}
	return out
}
