package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/EyalPoly/attendance-manager/handlers"
	"github.com/EyalPoly/attendance-manager/middlewares"
)

// Register wires all HTTP routes. The identity middleware is passed in so
// the JWT secret and fallback subject stay a bootstrap concern.
func Register(e *echo.Echo, att *handlers.AttendanceHandler, identity echo.MiddlewareFunc) {
	e.GET("/health", handlers.Health)

	g := e.Group("/api/v1/attendance", identity)
	g.GET("/:year/:month", att.Get, middlewares.ValidateAttendanceParams)
	g.POST("/:year/:month", att.Create, middlewares.ValidateAttendanceParams, middlewares.ValidateAttendanceBody)
	g.PUT("/:year/:month", att.Update, middlewares.ValidateAttendanceParams, middlewares.ValidateAttendanceBody)
	g.DELETE("/:year/:month", att.Delete, middlewares.ValidateAttendanceParams)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Route not found"})
	})
}
