package rest

import (
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// serviceError maps business errors to status codes; anything unexpected is logged
// and reported as a generic 500.
func serviceError(c echo.Context, msg string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	logger.Error(msg,
		"trace_id", domain.TraceIDFromContext(c.Request().Context()),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: "Internal server error"})
}

func generatedAt() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
