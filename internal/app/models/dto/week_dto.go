package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// CreateWeekRequest adds a curriculum week
type CreateWeekRequest struct {
	WeekNumber  int    `json:"weekNumber" validate:"required,gte=1" example:"1"`
	Title       string `json:"title" validate:"required,max=200" example:"Kickoff"`
	Description string `json:"description" validate:"max=2000"`
	Content     string `json:"content"`
	StartDate   string `json:"startDate" validate:"required,date" example:"2026-03-02"`
	EndDate     string `json:"endDate" validate:"required,date" example:"2026-03-08"`
}

// UpdateWeekRequest patches a week; omitted fields are left alone
type UpdateWeekRequest struct {
	WeekNumber  *int    `json:"weekNumber,omitempty" validate:"omitempty,gte=1"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Content     *string `json:"content,omitempty"`
	StartDate   *string `json:"startDate,omitempty" validate:"omitempty,date"`
	EndDate     *string `json:"endDate,omitempty" validate:"omitempty,date"`
}

// WeekResponse is the wire form of a week
type WeekResponse struct {
	ID          uuid.UUID `json:"id"`
	CommitteeID uuid.UUID `json:"committeeId"`
	WeekNumber  int       `json:"weekNumber"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	StartDate   string    `json:"startDate" example:"2026-03-02"`
	EndDate     string    `json:"endDate" example:"2026-03-08"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewWeekResponse converts a week
func NewWeekResponse(w *models.Week) WeekResponse {
	return WeekResponse{
		ID:          w.ID,
		CommitteeID: w.CommitteeID,
		WeekNumber:  w.WeekNumber,
		Title:       w.Title,
		Description: w.Description,
		Content:     w.Content,
		StartDate:   dateString(w.StartDate),
		EndDate:     dateString(w.EndDate),
		CreatedAt:   w.CreatedAt,
	}
}

// NewWeekResponses converts a list of weeks
func NewWeekResponses(weeks []*models.Week) []WeekResponse {
	out := make([]WeekResponse, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, NewWeekResponse(w))
	}
	return out
}
