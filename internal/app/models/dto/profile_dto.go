package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/starmentor/internal/app/models"
)

// UpdateMeRequest edits the caller's own profile
type UpdateMeRequest struct {
	FullName  *string                 `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	AvatarURL models.Optional[string] `json:"avatarUrl" swaggertype:"string"`
}

// AddMemberRequest creates an account inside the admin's committee
type AddMemberRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	FullName string      `json:"fullName" validate:"required,min=2,max=100"`
	Role     models.Role `json:"role" validate:"omitempty,role" enums:"admin,member"`
}

// ChangeRoleRequest promotes or demotes a member
type ChangeRoleRequest struct {
	Role models.Role `json:"role" validate:"required,role" enums:"admin,member"`
}

// MemberQuery filters the member list
type MemberQuery struct {
	Role models.Role `form:"role" validate:"omitempty,role"`
}

// UpdateCommitteeRequest edits the caller's committee
type UpdateCommitteeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// PublicCommitteeResponse is the signup picker entry
type PublicCommitteeResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewPublicCommitteeResponses trims committees to id and name
func NewPublicCommitteeResponses(committees []*models.Committee) []PublicCommitteeResponse {
	out := make([]PublicCommitteeResponse, 0, len(committees))
	for _, c := range committees {
		out = append(out, PublicCommitteeResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
