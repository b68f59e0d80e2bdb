package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/EyalPoly/attendance-manager/models"
	"github.com/EyalPoly/attendance-manager/repos"
)

// ConflictError reports a create against a key that already holds a record.
type ConflictError struct {
	UserID string
	Year   int
	Month  int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Attendance record for user: %s for date: %d/%d already exists",
		e.UserID, e.Year, e.Month)
}

// AttendanceService owns the record lifecycle policy: existence-checked
// creation, full-replace updates, delete-returning-prior. Absence is a nil
// record, not an error; store failures are logged with the key context and
// passed through unchanged.
type AttendanceService struct {
	repo repos.AttendanceRepo
	lg   *zap.Logger
}

func NewAttendanceService(repo repos.AttendanceRepo, lg *zap.Logger) *AttendanceService {
	return &AttendanceService{repo: repo, lg: lg}
}

// Get is a pure read; nil means nothing is stored under the key.
func (s *AttendanceService) Get(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error) {
	rec, err := s.repo.FindOne(ctx, userID, year, month)
	if err != nil {
		s.logStoreError("error fetching attendance record", userID, year, month, err)
		return nil, err
	}
	return rec, nil
}

// Create persists a new record under the key. An existing record fails with
// *ConflictError. The pre-check gives the common case a friendly error; the
// unique index catches the race where two creates pass it, and a duplicate
// key from that race maps to the same ConflictError.
func (s *AttendanceService) Create(ctx context.Context, userID string, year, month int, data map[string]models.DaySessionRecord) (*models.AttendanceRecord, error) {
	existing, err := s.repo.FindOne(ctx, userID, year, month)
	if err != nil {
		s.logStoreError("error checking for existing attendance record", userID, year, month, err)
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{UserID: userID, Year: year, Month: month}
	}

	rec := &models.AttendanceRecord{
		UserID: userID,
		Year:   year,
		Month:  month,
		Data:   data,
	}
	created, err := s.repo.Insert(ctx, rec)
	if errors.Is(err, repos.ErrDuplicateKey) {
		return nil, &ConflictError{UserID: userID, Year: year, Month: month}
	}
	if err != nil {
		s.logStoreError("error saving attendance record", userID, year, month, err)
		return nil, err
	}

	s.lg.Info("created attendance record",
		zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))
	return created, nil
}

// Update replaces the stored data map wholesale; individual days are not
// merged. Returns nil when no record exists under the key; it never creates
// one.
func (s *AttendanceService) Update(ctx context.Context, userID string, year, month int, data map[string]models.DaySessionRecord) (*models.AttendanceRecord, error) {
	rec, err := s.repo.ReplaceData(ctx, userID, year, month, data)
	if err != nil {
		s.logStoreError("error updating attendance record", userID, year, month, err)
		return nil, err
	}
	return rec, nil
}

// Delete removes the record under the key and returns it as it was right
// before deletion, or nil when nothing was stored.
func (s *AttendanceService) Delete(ctx context.Context, userID string, year, month int) (*models.AttendanceRecord, error) {
	rec, err := s.repo.Delete(ctx, userID, year, month)
	if err != nil {
		s.logStoreError("error deleting attendance record", userID, year, month, err)
		return nil, err
	}
	if rec != nil {
		s.lg.Info("deleted attendance record",
			zap.String("userId", userID), zap.Int("year", year), zap.Int("month", month))
	}
	return rec, nil
}

func (s *AttendanceService) logStoreError(msg, userID string, year, month int, err error) {
	s.lg.Error(msg,
		zap.String("userId", userID),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Error(err),
	)
}
