package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// ProjectMemberHandler handles project roster requests
type ProjectMemberHandler struct {
	rosterService ports.ProjectMemberService
	logger        *logger.Logger
}

// NewProjectMemberHandler creates a new project roster handler
func NewProjectMemberHandler(rosterService ports.ProjectMemberService, logger *logger.Logger) *ProjectMemberHandler {
	return &ProjectMemberHandler{
		rosterService: rosterService,
		logger:        logger,
	}
}

// ListProjectMembers godoc
// @Summary List project members
// @Description Roster of a project followed by volunteers who filled its tasks
// @Tags admin-project-members
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} ports.RosterEntry
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/members [get]
func (h *ProjectMemberHandler) ListProjectMembers(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	entries, err := h.rosterService.ListProjectMembers(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}

// AddProjectMember godoc
// @Summary Add project member
// @Description Put a member on the project roster, registering the phone if it is new
// @Tags admin-project-members
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body ports.AddProjectMemberRequest true "Member data"
// @Success 201 {object} ports.RosterEntry
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/members [post]
func (h *ProjectMemberHandler) AddProjectMember(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.AddProjectMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.rosterService.AddProjectMember(c.Request().Context(), projectID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}

// RemoveProjectMember godoc
// @Summary Remove project member
// @Description Take a member off the project roster; the member itself is kept
// @Tags admin-project-members
// @Param id path string true "Project ID"
// @Param memberId path string true "Member ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/members/{memberId} [delete]
func (h *ProjectMemberHandler) RemoveProjectMember(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	memberID, err := parseUUIDParam(c, "memberId")
	if err != nil {
		return err
	}

	if err := h.rosterService.RemoveProjectMember(c.Request().Context(), projectID, memberID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
