package apperrors

import "errors"

// Error taxonomy. Every error returned by the service layer wraps exactly one of these.
var (
	// ErrAuth covers bad credentials, duplicate signup, invalid or revoked tokens
	ErrAuth = errors.New("authentication failed")
	// ErrNotFound means the row is absent or outside the caller's committee
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden means the caller's role does not allow the operation
	ErrForbidden = errors.New("permission denied")
	// ErrValidation covers malformed input and cross-committee references
	ErrValidation = errors.New("validation failed")
	// ErrInconsistentState reports a multi-step operation that failed part way
	ErrInconsistentState = errors.New("inconsistent state")
)

// Authentication detail errors, all wrapping ErrAuth.
var (
	ErrInvalidCredentials = &CustomError{Err: ErrAuth, Message: "invalid email or password", Code: "AUTH_001"}
	ErrEmailAlreadyExists = &CustomError{Err: ErrAuth, Message: "email is already registered", Code: "AUTH_002"}
	ErrTokenInvalid       = &CustomError{Err: ErrAuth, Message: "invalid token", Code: "AUTH_005"}
	ErrTokenExpired       = &CustomError{Err: ErrAuth, Message: "token expired", Code: "AUTH_006"}
	ErrTokenRevoked       = &CustomError{Err: ErrAuth, Message: "token revoked", Code: "AUTH_007"}
)

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewForbiddenError creates a permission denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrForbidden, Message: message}
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{Err: ErrValidation, Message: message}
}

// NewFieldValidationError creates a validation error for a single field
func NewFieldValidationError(field, message string) error {
	return NewValidationError(message).WithDetails(map[string]interface{}{field: message})
}

// NewInconsistentStateError reports a partially applied operation together with its cause
func NewInconsistentStateError(message string, cause error) error {
	return &CustomError{Err: ErrInconsistentState, Message: message, Cause: cause}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
	// Cause is the lower-level error that triggered this one, if any
	Cause error
}

// Error implements error interface
func (e *CustomError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the taxonomy sentinel and the cause
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Details returns the field details attached to the first CustomError in the chain
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// Message returns the user-facing message of the first CustomError in the chain
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		if ce.Message != "" {
			return ce.Message
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
