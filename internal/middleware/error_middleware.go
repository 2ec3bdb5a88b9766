package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/logger"
)

// errorCode prefers the code carried by a CustomError over the taxonomy default
func errorCode(err error, fallback dto.ErrorCode) dto.ErrorCode {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Code != "" {
		return dto.ErrorCode(ce.Code)
	}
	return fallback
}

// singleField returns the field name when details describe exactly one field
func singleField(details map[string]interface{}) string {
	if len(details) != 1 {
		return ""
	}
	for k := range details {
		return k
	}
	return ""
}

// HandleAPIError maps the error taxonomy onto HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	var (
		status int
		detail *dto.ErrorDetail
	)

	switch {
	case errors.Is(err, apperrors.ErrAuth):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(errorCode(err, dto.ErrorCodeUnauthorized), apperrors.Message(err))
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		detail = dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.Message(err))
		if details := apperrors.Details(err); len(details) > 0 {
			detail = detail.WithDetails(details).WithField(singleField(details))
		}
	case errors.Is(err, apperrors.ErrInconsistentState):
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInconsistentState, apperrors.Message(err)).
			WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Operation left inconsistent state")
	default:
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}
