package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// ProfileController serves the caller's own profile and committee
type ProfileController struct {
	profiles   ProfileService
	committees CommitteeService
	logger     zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profiles ProfileService, committees CommitteeService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profiles:   profiles,
		committees: committees,
		logger:     logger,
	}
}

// GetMe returns the caller's profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /me [get]
func (c *ProfileController) GetMe(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	profile, err := c.profiles.Me(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateMe edits the caller's name and avatar
// @Summary Update own profile
// @Description Only fullName and avatarUrl can be changed; a null avatarUrl clears it
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMeRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me [patch]
func (c *ProfileController) UpdateMe(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.UpdateMeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profiles.UpdateSelf(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile updated"))
}

// GetCommittee returns the caller's committee
// @Summary Get own committee
// @Tags committee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Committee} "Committee retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Caller has no committee"
// @Router /committee [get]
func (c *ProfileController) GetCommittee(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	committee, err := c.committees.Get(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, ""))
}

// UpdateCommittee edits the caller's committee
// @Summary Update own committee
// @Tags committee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateCommitteeRequest true "Committee fields"
// @Success 200 {object} dto.APIResponse{data=models.Committee} "Committee updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /committee [put]
func (c *ProfileController) UpdateCommittee(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCommitteeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	committee, err := c.committees.Update(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("committeeID", committee.ID.String()).Str("by", caller.ID.String()).Msg("Committee updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, "Committee updated"))
}

// ListPublicCommittees lists committee ids and names for the signup form
// @Summary List committees
// @Description Public list used by the signup committee picker
// @Tags committee
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PublicCommitteeResponse} "Committees"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /committees/public [get]
func (c *ProfileController) ListPublicCommittees(ctx *gin.Context) {
	committees, err := c.committees.ListPublic(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewPublicCommitteeResponses(committees), ""))
}
