package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application identity of an authenticated principal.
// ID equals the identity principal id.
type Profile struct {
	ID          uuid.UUID  `json:"id" db:"id" example:"5b0f6a52-3c1e-4f7e-9a51-0c3f7f2d8a10"`
	Email       string     `json:"email" db:"email" example:"member@star.org"`
	FullName    string     `json:"fullName" db:"full_name" example:"Ada Lovelace"`
	Role        Role       `json:"role" db:"role" example:"member" enums:"admin,member"`
	CommitteeID *uuid.UUID `json:"committeeId,omitempty" db:"committee_id"` // nil means unassigned
	AvatarURL   *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the profile holds the admin role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// HasCommittee reports whether the profile is assigned to a committee
func (p *Profile) HasCommittee() bool {
	return p != nil && p.CommitteeID != nil && *p.CommitteeID != uuid.Nil
}

// InCommittee reports whether the profile belongs to committee id
func (p *Profile) InCommittee(id uuid.UUID) bool {
	return p.HasCommittee() && *p.CommitteeID == id
}
