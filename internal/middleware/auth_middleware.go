package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/pkg/auth"
)

// Context keys set by SessionAuth
const (
	callerKey = "caller"
	claimsKey = "claims"
)

// SessionResolver turns an access token into the caller's profile
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*models.Profile, *auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// tokenFromRequest reads the bearer token from the Authorization header.
// Browsers cannot set headers on websocket upgrades, so the token query parameter is accepted too.
func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	return auth.ExtractBearerToken(header)
}

// SessionAuth validates the access token and stores the caller's profile in the context
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		profile, claims, err := m.sessions.CurrentSession(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(callerKey, profile)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RoleRequired middleware to check if the caller has the required role.
// Services check the policy again; this only keeps obviously denied requests out early.
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := Caller(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Caller not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if caller.Role != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// Caller returns the authenticated profile stored by SessionAuth
func Caller(c *gin.Context) (*models.Profile, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return nil, false
	}
	profile, ok := v.(*models.Profile)
	return profile, ok && profile != nil
}

// MustGetCaller returns the caller or writes a 401 response. Callers return when ok is false.
func MustGetCaller(c *gin.Context) (*models.Profile, bool) {
	profile, ok := Caller(c)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return profile, true
}

// SessionClaims returns the token claims stored by SessionAuth
func SessionClaims(c *gin.Context) *auth.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// SetCaller stores profile as the request caller. Used by tests and the websocket handshake.
func SetCaller(c *gin.Context, profile *models.Profile) {
	c.Set(callerKey, profile)
}
