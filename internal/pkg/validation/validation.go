// Package validation wraps go-playground/validator with the domain enum tags.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

// DateLayout is the accepted calendar date format
const DateLayout = models.DateLayout

// Validator validates request structs
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the enum and date tags registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("role", enumValidator(func(s string) bool { return models.Role(s).Valid() }))
	_ = v.RegisterValidation("project_status", enumValidator(func(s string) bool { return models.ProjectStatus(s).Valid() }))
	_ = v.RegisterValidation("attendance_status", enumValidator(func(s string) bool { return models.AttendanceStatus(s).Valid() }))
	_ = v.RegisterValidation("priority", enumValidator(func(s string) bool { return models.Priority(s).Valid() }))
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

func enumValidator(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}
}

// Struct validates s and returns an apperrors validation error with one entry per failed field
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	details := make(map[string]interface{}, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := FormatFieldError(fe)
		details[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return apperrors.NewValidationError(strings.Join(messages, "; ")).WithDetails(details)
}

// Var validates a single value against tag, reporting it under field
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		msg := field + " is invalid"
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			// Var errors carry no field name, so the message starts after it
			msg = field + FormatFieldError(fieldErrs[0])
		}
		return apperrors.NewFieldValidationError(field, msg)
	}
	return nil
}

// FormatFieldError creates a human-readable message for a failed rule
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "lte":
		return e.Field() + " must be less than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "uuid":
		return e.Field() + " must be a valid UUID"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "role":
		return e.Field() + " must be one of: admin member"
	case "project_status":
		return e.Field() + " must be one of: pending in_progress completed"
	case "attendance_status":
		return e.Field() + " must be one of: present absent excused"
	case "priority":
		return e.Field() + " must be one of: low medium high"
	case "date":
		return e.Field() + " must be a date formatted YYYY-MM-DD"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// ParseDate parses a YYYY-MM-DD value as UTC midnight
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewFieldValidationError(field, field+" must be a date formatted YYYY-MM-DD")
	}
	return t, nil
}
