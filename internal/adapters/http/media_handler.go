package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// MediaHandler handles the ordered slider and gallery collections
type MediaHandler struct {
	mediaService ports.MediaService
	logger       *logger.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService ports.MediaService, logger *logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		logger:       logger,
	}
}

func mediaScope(c echo.Context) (uuid.UUID, entities.MediaType, error) {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, "", err
	}
	return projectID, entities.MediaType(c.Param("type")), nil
}

// ListMedia godoc
// @Summary List media
// @Description List the media of a project collection in display order
// @Tags admin-media
// @Produce json
// @Param id path string true "Project ID"
// @Param type path string true "Collection" Enums(slider, gallery)
// @Success 200 {array} entities.MediaItem
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/media/{type} [get]
func (h *MediaHandler) ListMedia(c echo.Context) error {
	projectID, mediaType, err := mediaScope(c)
	if err != nil {
		return err
	}

	items, err := h.mediaService.List(c.Request().Context(), projectID, mediaType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// UploadMedia godoc
// @Summary Upload media
// @Description Append images to a collection. Each file is accepted or rejected on its own.
// @Tags admin-media
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param type path string true "Collection" Enums(slider, gallery)
// @Param files formData file true "Images"
// @Success 200 {object} ports.MediaUploadResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/media/{type} [post]
func (h *MediaHandler) UploadMedia(c echo.Context) error {
	projectID, mediaType, err := mediaScope(c)
	if err != nil {
		return err
	}

	files, closeFiles, err := formFiles(c, "files")
	if err != nil {
		return err
	}
	defer closeFiles()

	response, err := h.mediaService.Upload(c.Request().Context(), projectID, mediaType, files)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response)
}

// ReorderMedia godoc
// @Summary Reorder media
// @Description Move the item at position from to position to
// @Tags admin-media
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param type path string true "Collection" Enums(slider, gallery)
// @Param request body ports.ReorderRequest true "Positions"
// @Success 200 {array} entities.MediaItem
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/media/{type}/reorder [post]
func (h *MediaHandler) ReorderMedia(c echo.Context) error {
	projectID, mediaType, err := mediaScope(c)
	if err != nil {
		return err
	}

	var req ports.ReorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	items, err := h.mediaService.Reorder(c.Request().Context(), projectID, mediaType, req.From, req.To)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// SetCaption godoc
// @Summary Set media caption
// @Tags admin-media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Param request body ports.CaptionRequest true "Caption"
// @Success 200 {object} entities.MediaItem
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/media/{id}/caption [put]
func (h *MediaHandler) SetCaption(c echo.Context) error {
	mediaID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CaptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.mediaService.SetCaption(c.Request().Context(), mediaID, req.Caption)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// RemoveMedia godoc
// @Summary Remove media
// @Description Remove an item; the rest of its collection is renumbered
// @Tags admin-media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {array} entities.MediaItem
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/media/{id} [delete]
func (h *MediaHandler) RemoveMedia(c echo.Context) error {
	mediaID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.mediaService.Remove(c.Request().Context(), mediaID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}
