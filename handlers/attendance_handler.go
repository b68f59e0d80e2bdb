package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/EyalPoly/attendance-manager/middlewares"
	"github.com/EyalPoly/attendance-manager/models"
	"github.com/EyalPoly/attendance-manager/services"
)

// AttendanceHandler maps validated requests to service calls and service
// results to HTTP responses. It is the only place that turns absence and
// conflict into status codes.
type AttendanceHandler struct {
	svc *services.AttendanceService
	lg  *zap.Logger
}

func NewAttendanceHandler(svc *services.AttendanceService, lg *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, lg: lg}
}

// requestScope reads what the identity and param validators stashed.
func requestScope(c echo.Context) (userID string, year, month int) {
	userID, _ = c.Get(middlewares.CtxUserID).(string)
	year, _ = c.Get(middlewares.CtxYear).(int)
	month, _ = c.Get(middlewares.CtxMonth).(int)
	return userID, year, month
}

func bodyData(c echo.Context) map[string]models.DaySessionRecord {
	data, _ := c.Get(middlewares.CtxData).(map[string]models.DaySessionRecord)
	return data
}

func notFoundMessage(userID string, year, month int) string {
	return fmt.Sprintf("No attendance records found for user: %s for the specified period: %d/%d",
		userID, year, month)
}

func (h *AttendanceHandler) notFound(c echo.Context, userID string, year, month int) error {
	msg := notFoundMessage(userID, year, month)
	h.lg.Warn(msg)
	return c.JSON(http.StatusNotFound, map[string]any{
		"success": false,
		"message": msg,
	})
}

// Get handles GET /:year/:month.
func (h *AttendanceHandler) Get(c echo.Context) error {
	userID, year, month := requestScope(c)

	h.lg.Info("fetching attendance record",
		zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))

	rec, err := h.svc.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		return err
	}
	if rec == nil {
		return h.notFound(c, userID, year, month)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    rec,
	})
}

// Create handles POST /:year/:month.
func (h *AttendanceHandler) Create(c echo.Context) error {
	userID, year, month := requestScope(c)

	h.lg.Info("creating attendance record",
		zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))

	rec, err := h.svc.Create(c.Request().Context(), userID, year, month, bodyData(c))
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, map[string]any{
			"success": false,
			"message": conflict.Error(),
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Attendance record created successfully",
		"data":    rec,
	})
}

// Update handles PUT /:year/:month. The existence pre-check keeps the
// not-found decision here rather than in the service, which never upserts.
func (h *AttendanceHandler) Update(c echo.Context) error {
	userID, year, month := requestScope(c)

	h.lg.Info("updating attendance record",
		zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))

	existing, err := h.svc.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		return err
	}
	if existing == nil {
		return h.notFound(c, userID, year, month)
	}

	rec, err := h.svc.Update(c.Request().Context(), userID, year, month, bodyData(c))
	if err != nil {
		return err
	}
	if rec == nil {
		// Deleted between the pre-check and the replace.
		return h.notFound(c, userID, year, month)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Attendance records updated successfully",
		"data":    rec,
	})
}

// Delete handles DELETE /:year/:month.
func (h *AttendanceHandler) Delete(c echo.Context) error {
	userID, year, month := requestScope(c)

	h.lg.Info("deleting attendance record",
		zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))

	rec, err := h.svc.Delete(c.Request().Context(), userID, year, month)
	if err != nil {
		return err
	}
	if rec == nil {
		return h.notFound(c, userID, year, month)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Attendance records deleted successfully",
	})
}
