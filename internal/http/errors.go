package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
)

// ErrorHandler renders every failure as a JSON message. Validation failures
// also list the offending fields; internal failures are logged and reported
// without detail.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, dto.ErrorResponse{Message: msg}
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, dto.ErrorResponse{
			Message: validationErr.Error(),
			Errors:  validationErr.Fields,
		}
	}

	return apperrors.StatusCode(err), dto.ErrorResponse{Message: apperrors.Message(err)}
}
