package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// MemberHandler handles member management requests
type MemberHandler struct {
	memberService ports.MemberService
	logger        *logger.Logger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService ports.MemberService, logger *logger.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// ListMembers godoc
// @Summary List members
// @Description List volunteers with optional search by name or phone
// @Tags admin-members
// @Produce json
// @Param search query string false "Search in name and phone"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} ports.PaginatedResponse[entities.Member]
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := ports.MemberFilter{
		Search: optionalQuery(c, "search"),
		Limit:  limit,
		Offset: offset,
	}
	members, total, err := h.memberService.ListMembers(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.PaginatedResponse[*entities.Member]{
		Data:   members,
		Total:  total,
		Limit:  effectiveLimit(limit),
		Offset: offset,
	})
}

// CreateMember godoc
// @Summary Create member
// @Tags admin-members
// @Accept json
// @Produce json
// @Param request body ports.CreateMemberRequest true "Member data"
// @Success 201 {object} entities.Member
// @Failure 400 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/members [post]
func (h *MemberHandler) CreateMember(c echo.Context) error {
	var req ports.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.memberService.CreateMember(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, member)
}

// UpdateMember godoc
// @Summary Update member
// @Tags admin-members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body ports.UpdateMemberRequest true "Member update data"
// @Success 200 {object} entities.Member
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/members/{id} [put]
func (h *MemberHandler) UpdateMember(c echo.Context) error {
	memberID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.memberService.UpdateMember(c.Request().Context(), memberID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, member)
}

// DeleteMember godoc
// @Summary Delete member
// @Description Soft-delete a member; tasks they filled keep the reference
// @Tags admin-members
// @Param id path string true "Member ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/members/{id} [delete]
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	memberID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.memberService.DeleteMember(c.Request().Context(), memberID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
