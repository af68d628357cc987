package middleware

import (
	"easy11ML/domain"

	"github.com/labstack/echo/v4"
)

const HeaderTraceID = "X-Trace-Id"

// TraceID copies the caller's trace header (falling back to the request id) into
// the request context and echoes it on the response.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderTraceID)
			if id == "" {
				id = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if id == "" {
				id = req.Header.Get(echo.HeaderXRequestID)
			}

			if id != "" {
				c.SetRequest(req.WithContext(domain.WithTraceID(req.Context(), id)))
				c.Response().Header().Set(HeaderTraceID, id)
			}
			return next(c)
		}
	}
}
