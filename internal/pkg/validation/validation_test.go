package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

type sample struct {
	Email    string  `json:"email" validate:"required,email"`
	Role     string  `json:"role" validate:"required,role"`
	Status   *string `json:"status" validate:"omitempty,project_status"`
	Priority string  `json:"priority" validate:"omitempty,priority"`
	Day      string  `json:"day" validate:"omitempty,date"`
	Rating   *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Email: "ada@star.org", Role: "member", Day: "2026-03-02"}))

	bad := "archived"
	rating := 9
	err := v.Struct(sample{Email: "nope", Role: "owner", Status: &bad, Priority: "urgent", Day: "03/02/2026", Rating: &rating})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	details := apperrors.Details(err)
	assert.Equal(t, "email must be a valid email address", details["email"])
	assert.Equal(t, "role must be one of: admin member", details["role"])
	assert.Equal(t, "status must be one of: pending in_progress completed", details["status"])
	assert.Equal(t, "priority must be one of: low medium high", details["priority"])
	assert.Equal(t, "day must be a date formatted YYYY-MM-DD", details["day"])
	assert.Equal(t, "rating must be less than or equal to 5", details["rating"])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("startDate", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("startDate", "2026-13-40")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, apperrors.Details(err), "startDate")
}

func TestValidator_Var(t *testing.T) {
	v := New()

	require.NoError(t, v.Var("avatarUrl", "https://cdn.star.org/a.png", "url"))

	err := v.Var("avatarUrl", "not a url", "url")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "avatarUrl must be a valid URL", apperrors.Details(err)["avatarUrl"])
}
