package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/middleware"
)

// ProjectController handles project assignments
type ProjectController struct {
	projects ProjectService
	logger   zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projects ProjectService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projects: projects,
		logger:   logger,
	}
}

// ListProjects lists projects. Members only see their own.
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param assignedTo query string false "Assignee profile ID" Format(uuid)
// @Param status query string false "Status filter" Enums(pending, in_progress, completed)
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var query dto.ProjectQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	projects, err := c.projects.List(ctx.Request.Context(), caller, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProjectResponses(projects), ""))
}

// GetProject returns one project
// @Summary Get project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	project, err := c.projects.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProjectResponse(project), ""))
}

// CreateProject adds a project
// @Summary Create project
// @Description assignedTo must be a member of the caller's committee
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse} "Project created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projects.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewProjectResponse(project), "Project created"))
}

// UpdateProject edits a project
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param request body dto.UpdateProjectRequest true "Project fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [patch]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projects.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProjectResponse(project), "Project updated"))
}

// UpdateProgress lets the assignee report status and a submission link
// @Summary Update project progress
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param request body dto.ProjectProgressRequest true "Progress"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Progress updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Not the assignee"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/progress [patch]
func (c *ProjectController) UpdateProgress(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ProjectProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projects.UpdateProgress(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProjectResponse(project), "Progress updated"))
}

// DeleteProject removes a project
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Project deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	caller, ok := middleware.MustGetCaller(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.projects.Delete(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Project deleted"))
}
