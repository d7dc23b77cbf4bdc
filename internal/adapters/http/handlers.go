package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// Context keys set by the auth middleware
const (
	AdminIDKey    = "admin_id"
	AdminEmailKey = "admin_email"
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator used by echo. Field errors
// are reported under their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Admin login
// @Description Exchange admin credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) {
			h.logger.LogSecurityEvent("login_failed", req.Email, c.RealIP(), nil)
		}
		return err
	}

	return c.JSON(http.StatusOK, response)
}

// Utility functions and helper types

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, entities.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// parsePagination reads limit and offset; bounds are applied by the services
func parsePagination(c echo.Context) (int, int, error) {
	var limit, offset int
	verr := &entities.ValidationError{}

	if s := c.QueryParam("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			verr.Add("limit", "must be a positive integer")
		}
		limit = v
	}
	if s := c.QueryParam("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			verr.Add("offset", "must be a non-negative integer")
		}
		offset = v
	}

	if err := verr.OrNil(); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func optionalQuery(c echo.Context, name string) *string {
	if s := c.QueryParam(name); s != "" {
		return &s
	}
	return nil
}

// effectiveLimit reports the page size the services apply to limit
func effectiveLimit(limit int) int {
	limit, _ = ports.PageBounds(limit, 0)
	return limit
}

// formFiles opens the uploaded files of a multipart field. The returned
// closer must be called once the files have been consumed.
func formFiles(c echo.Context, field string) ([]ports.UploadFile, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, entities.NewValidationError(field, "multipart form expected")
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, func() {}, entities.NewValidationError(field, "at least one file is required")
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]ports.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, entities.NewStoreError("open upload", err)
		}
		opened = append(opened, f)
		files = append(files, ports.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return files, closeAll, nil
}

func formFile(c echo.Context, field string) (ports.UploadFile, func(), error) {
	files, closeAll, err := formFiles(c, field)
	if err != nil {
		return ports.UploadFile{}, closeAll, err
	}
	if len(files) > 1 {
		closeAll()
		return ports.UploadFile{}, func() {}, entities.NewValidationError(field, "exactly one file is expected")
	}
	return files[0], closeAll, nil
}
