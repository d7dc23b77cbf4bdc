package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// ErrorHandler maps domain error kinds to HTTP responses
func ErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := errorResponse(err)
		if code >= http.StatusInternalServerError {
			logger.WithError(err).Errorw("Internal server error",
				"path", c.Request().URL.Path,
				"method", c.Request().Method,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.WithError(err).Error("Error sending response")
		}
	}
}

func errorResponse(err error) (int, ports.ErrorResponse) {
	var (
		httpErr   *echo.HTTPError
		fieldErrs validator.ValidationErrors
		verr      *entities.ValidationError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, ports.ErrorResponse{Message: fmt.Sprint(httpErr.Message)}

	case errors.As(err, &fieldErrs):
		details := make(map[string]interface{}, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return http.StatusBadRequest, ports.ErrorResponse{Message: "validation failed", Details: details}

	case errors.As(err, &verr):
		details := make(map[string]interface{}, len(verr.Fields))
		for _, fe := range verr.Fields {
			details[fe.Field] = fe.Message
		}
		return http.StatusBadRequest, ports.ErrorResponse{Message: "validation failed", Details: details}

	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, ports.ErrorResponse{Message: kindMessage(err, entities.ErrNotFound)}

	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict, ports.ErrorResponse{Message: kindMessage(err, entities.ErrConflict)}

	case errors.Is(err, entities.ErrInvalidCredentials):
		return http.StatusUnauthorized, ports.ErrorResponse{Message: entities.ErrInvalidCredentials.Error()}
	}

	return http.StatusInternalServerError, ports.ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)}
}

// kindMessage returns the message of the sentinel wrapping kind, dropping
// the operation prefixes services add while propagating it.
func kindMessage(err, kind error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) == kind {
			return e.Error()
		}
	}
	return kind.Error()
}
