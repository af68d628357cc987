package middleware

import (
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// ErrorHandler renders every error escaping a handler as {"message": ...}.
// Unknown errors are logged and reported without detail.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	case errors.Is(err, domain.ErrInvalidInput):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	default:
		logger.Error("unhandled error",
			"method", c.Request().Method,
			"path", c.Path(),
			"trace_id", domain.TraceIDFromContext(c.Request().Context()),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorBody{Message: message})
	}
	if writeErr != nil {
		logger.Error("failed to write error response", "error", writeErr)
	}
}
