package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// AttachmentHandler handles project covers and report files
type AttachmentHandler struct {
	coverService  ports.CoverService
	reportService ports.ReportService
	logger        *logger.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(coverService ports.CoverService, reportService ports.ReportService, logger *logger.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		coverService:  coverService,
		reportService: reportService,
		logger:        logger,
	}
}

// GetCover godoc
// @Summary Get cover
// @Tags admin-attachments
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} entities.CoverImage
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/cover [get]
func (h *AttachmentHandler) GetCover(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	cover, err := h.coverService.Get(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cover)
}

// SetCover godoc
// @Summary Set cover
// @Description Replace the cover image of a project
// @Tags admin-attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file formData file true "Image"
// @Success 200 {object} entities.CoverImage
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/cover [put]
func (h *AttachmentHandler) SetCover(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	file, closeFile, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	cover, err := h.coverService.Set(c.Request().Context(), projectID, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cover)
}

// RemoveCover godoc
// @Summary Remove cover
// @Tags admin-attachments
// @Param id path string true "Project ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/cover [delete]
func (h *AttachmentHandler) RemoveCover(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.coverService.Remove(c.Request().Context(), projectID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListReports godoc
// @Summary List reports
// @Description List the report files of a project, newest first
// @Tags admin-attachments
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} entities.ReportFile
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/reports [get]
func (h *AttachmentHandler) ListReports(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	reports, err := h.reportService.List(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reports)
}

// UploadReport godoc
// @Summary Upload report
// @Tags admin-attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file formData file true "Report file"
// @Success 201 {object} entities.ReportFile
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/reports [post]
func (h *AttachmentHandler) UploadReport(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	file, closeFile, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	report, err := h.reportService.Upload(c.Request().Context(), projectID, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, report)
}

// RemoveReport godoc
// @Summary Remove report
// @Tags admin-attachments
// @Param id path string true "Report ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/reports/{id} [delete]
func (h *AttachmentHandler) RemoveReport(c echo.Context) error {
	reportID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.reportService.Remove(c.Request().Context(), reportID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
