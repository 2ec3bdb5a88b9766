package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// SignUpRequest registers a principal together with its profile
type SignUpRequest struct {
	Email       string      `json:"email" validate:"required,email" example:"ada@star.org"`
	Password    string      `json:"password" validate:"required" example:"s3cret!"`
	FullName    string      `json:"fullName" validate:"required,min=2,max=100" example:"Ada Lovelace"`
	Role        models.Role `json:"role" validate:"omitempty,role" example:"member" enums:"admin,member"`
	CommitteeID *uuid.UUID  `json:"committeeId,omitempty"`
}

// SignInRequest carries credentials
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@star.org"`
	Password string `json:"password" validate:"required" example:"s3cret!"`
}

// SessionResponse is returned on sign-in and sign-up
type SessionResponse struct {
	AccessToken string          `json:"accessToken"`
	TokenType   string          `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Profile     *models.Profile `json:"profile"`
}
