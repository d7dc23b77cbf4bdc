package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService ports.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ports.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a new project with the provided details
// @Tags admin-projects
// @Accept json
// @Produce json
// @Param request body ports.CreateProjectRequest true "Project data"
// @Success 201 {object} entities.Project
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get project by ID
// @Description Get the admin view of a project
// @Tags admin-projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} entities.Project
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Update project
// @Description Update the name, description or date of a project
// @Tags admin-projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body ports.UpdateProjectRequest true "Project update data"
// @Success 200 {object} entities.Project
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), projectID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Description Soft-delete a project; its tasks keep referencing it
// @Tags admin-projects
// @Param id path string true "Project ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectService.DeleteProject(c.Request().Context(), projectID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProjects godoc
// @Summary List projects
// @Description List projects with optional search, newest first
// @Tags admin-projects
// @Produce json
// @Param search query string false "Search in name and description"
// @Param sort query string false "Date sort order (asc or desc)"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} ports.PaginatedResponse[entities.Project]
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := ports.ProjectFilter{
		Search:    optionalQuery(c, "search"),
		Limit:     limit,
		Offset:    offset,
		SortOrder: c.QueryParam("sort"),
	}
	return h.list(c, filter)
}

// ListPublicProjects godoc
// @Summary List projects
// @Description List visible projects for volunteers, newest first
// @Tags projects
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} ports.PaginatedResponse[entities.Project]
// @Failure 400 {object} ports.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListPublicProjects(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	return h.list(c, ports.ProjectFilter{Limit: limit, Offset: offset})
}

func (h *ProjectHandler) list(c echo.Context, filter ports.ProjectFilter) error {
	projects, total, err := h.projectService.ListProjects(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.PaginatedResponse[*entities.Project]{
		Data:   projects,
		Total:  total,
		Limit:  effectiveLimit(filter.Limit),
		Offset: filter.Offset,
	})
}

// GetPublicProject godoc
// @Summary Get project
// @Description Get a project with its cover URL and slider images
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} ports.PublicProject
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetPublicProject(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	view, err := h.projectService.GetPublicProject(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

// GetStats godoc
// @Summary Dashboard statistics
// @Description Get project, task and member counts with the latest projects
// @Tags admin-projects
// @Produce json
// @Success 200 {object} ports.DashboardStats
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *ProjectHandler) GetStats(c echo.Context) error {
	stats, err := h.projectService.GetStats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
