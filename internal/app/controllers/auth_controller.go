package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/services"
	"github.com/yigit/starmentor/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	sessions SessionService
	logger   zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(sessions SessionService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		sessions: sessions,
		logger:   logger,
	}
}

func newSessionResponse(s *services.Session) dto.SessionResponse {
	var expiresAt time.Time
	if s.Claims != nil && s.Claims.ExpiresAt != nil {
		expiresAt = s.Claims.ExpiresAt.Time
	}
	return dto.SessionResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Profile:     s.Profile,
	}
}

// SignUp handles account registration
// @Summary Register a new account
// @Description Creates an identity principal and its profile, then signs the new account in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Email already registered"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req dto.SignUpRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.sessions.SignUp(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Sign up failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("profileID", session.Profile.ID.String()).Msg("Account registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(newSessionResponse(session), "Account created"))
}

// SignIn handles login
// @Summary Sign in
// @Description Authenticates credentials and returns an access token with the caller's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Signed in"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req dto.SignInRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.sessions.SignIn(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(newSessionResponse(session), "Signed in"))
}

// SignOut revokes the current access token
// @Summary Sign out
// @Description Revokes the access token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Signed out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signout [post]
func (c *AuthController) SignOut(ctx *gin.Context) {
	claims := middleware.SessionClaims(ctx)
	if claims == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.sessions.SignOut(ctx.Request.Context(), claims); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Signed out"))
}
