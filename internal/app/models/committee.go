package models

import (
	"time"

	"github.com/google/uuid"
)

// Committee is the tenant boundary. Every other entity belongs to exactly one.
type Committee struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"STAR Web"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
