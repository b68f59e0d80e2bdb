package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders echo.HTTPError as-is and everything unexpected
// as an opaque 500. Error detail stays in the server log only.
func HTTPErrorHandler(lg *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			body := he.Message
			if s, ok := body.(string); ok {
				body = map[string]any{"message": s}
			}
			if err := c.JSON(he.Code, body); err != nil {
				lg.Error("failed to write error response", zap.Error(err))
			}
			return
		}

		lg.Error("unhandled error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		if err := c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Internal server error",
		}); err != nil {
			lg.Error("failed to write error response", zap.Error(err))
		}
	}
}
