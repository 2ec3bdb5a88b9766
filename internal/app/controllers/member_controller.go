package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// MemberController handles committee roster management
type MemberController struct {
	members MemberService
	logger  zerolog.Logger
}

// NewMemberController creates a new MemberController
func NewMemberController(members MemberService, logger zerolog.Logger) *MemberController {
	return &MemberController{
		members: members,
		logger:  logger,
	}
}

// ListMembers lists the committee's profiles
// @Summary List members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter" Enums(admin, member)
// @Success 200 {object} dto.APIResponse{data=[]models.Profile} "Members"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /members [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var query dto.MemberQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	members, err := c.members.List(ctx.Request.Context(), caller, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(members, ""))
}

// GetMember returns one committee profile
// @Summary Get member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Member"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	member, err := c.members.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, ""))
}

// AddMember creates an account in the admin's committee
// @Summary Add member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddMemberRequest true "New member"
// @Success 201 {object} dto.APIResponse{data=models.Profile} "Member added"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Email already registered"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /members [post]
func (c *MemberController) AddMember(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.members.Add(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("profileID", member.ID.String()).Str("by", caller.ID.String()).Msg("Member added")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(member, "Member added"))
}

// ChangeRole promotes or demotes a member
// @Summary Change member role
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID" Format(uuid)
// @Param request body dto.ChangeRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Role changed"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [patch]
func (c *MemberController) ChangeRole(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.members.ChangeRole(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, "Role changed"))
}

// RemoveMember deletes a member account
// @Summary Remove member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Member removed"
// @Failure 400 {object} dto.ErrorResponse "Cannot remove yourself"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [delete]
func (c *MemberController) RemoveMember(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.members.Remove(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("profileID", id.String()).Str("by", caller.ID.String()).Msg("Member removed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member removed"))
}
