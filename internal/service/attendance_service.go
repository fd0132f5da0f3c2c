package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

type attendanceRepository interface {
	ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	ExistsForStudent(ctx context.Context, studentID, date string) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
	ReplaceDay(ctx context.Context, classID, date string, records []models.AttendanceRecord) error
}

type attendanceClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type attendanceStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

// AttendanceItem is one entry of a bulk roll call.
type AttendanceItem struct {
	StudentID string                  `json:"aluno_id" validate:"required,uuid"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Offering  float64                 `json:"oferta" validate:"gte=0"`
	Bibles    int                     `json:"biblias_entregues" validate:"gte=0"`
	Guides    int                     `json:"revistas_entregues" validate:"gte=0"`
}

// CreateAttendanceRequest records a single student on a date.
type CreateAttendanceRequest struct {
	StudentID string                  `json:"aluno_id" validate:"required,uuid"`
	Date      string                  `json:"data" validate:"required,iso_date"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Offering  float64                 `json:"oferta" validate:"gte=0"`
	Bibles    int                     `json:"biblias_entregues" validate:"gte=0"`
	Guides    int                     `json:"revistas_entregues" validate:"gte=0"`
}

// UpdateAttendanceRequest rewrites status and tallies of a record.
type UpdateAttendanceRequest struct {
	Status   models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Offering float64                 `json:"oferta" validate:"gte=0"`
	Bibles   int                     `json:"biblias_entregues" validate:"gte=0"`
	Guides   int                     `json:"revistas_entregues" validate:"gte=0"`
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Attendance     attendanceRepository
	Classes        attendanceClassReader
	Students       attendanceStudentReader
	Cache          *CacheService
	Metrics        *MetricsService
	Validator      *validator.Validate
	Logger         *zap.Logger
	WorshipWeekday time.Weekday
}

// AttendanceService is the write path for roll calls.
type AttendanceService struct {
	repo       attendanceRepository
	classes    attendanceClassReader
	students   attendanceStudentReader
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	worshipDay time.Weekday
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	registerRollCallValidations(validate)
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:       params.Attendance,
		classes:    params.Classes,
		students:   params.Students,
		cache:      params.Cache,
		metrics:    params.Metrics,
		validator:  validate,
		logger:     logger,
		worshipDay: params.WorshipWeekday,
	}
}

// List returns the records of a class on date.
func (s *AttendanceService) List(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "turma_id is required")
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByClassAndDate(ctx, classID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// Create records one student on a worship day. The class is taken from the
// student's current enrolment.
func (s *AttendanceService) Create(ctx context.Context, claims *models.JWTClaims, req CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if err := s.ensureWorshipDay(req.Date); err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := checkClassAccess(claims, student.ClassID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForStudent(ctx, student.ID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance already recorded for this student on this date")
	}

	record := &models.AttendanceRecord{
		StudentID: student.ID,
		ClassID:   student.ClassID,
		Date:      req.Date,
		Status:    req.Status,
		Offering:  roundMoney(req.Offering),
		Bibles:    req.Bibles,
		Guides:    req.Guides,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}

	s.metrics.RecordAttendanceWrites("single", 1)
	s.cache.InvalidateDashboard(ctx, record.Date)
	return record, nil
}

// Update rewrites status and tallies of an existing record.
func (s *AttendanceService) Update(ctx context.Context, claims *models.JWTClaims, id string, req UpdateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	record, err := s.load(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	record.Status = req.Status
	record.Offering = roundMoney(req.Offering)
	record.Bibles = req.Bibles
	record.Guides = req.Guides
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}

	s.cache.InvalidateDashboard(ctx, record.Date)
	return record, nil
}

// Delete removes one record.
func (s *AttendanceService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	record, err := s.load(ctx, claims, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	s.cache.InvalidateDashboard(ctx, record.Date)
	return nil
}

// BulkReplace replaces the whole roll call of a class on date with items.
// An empty list clears the day. Nothing is written when validation fails.
func (s *AttendanceService) BulkReplace(ctx context.Context, classID, date string, items []AttendanceItem) ([]models.AttendanceRecord, error) {
	if err := s.ensureWorshipDay(date); err != nil {
		return nil, err
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	records := make([]models.AttendanceRecord, 0, len(items))
	for i, item := range items {
		if err := s.validator.Struct(item); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid item at position %d", i))
		}
		if _, dup := seen[item.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("aluno_id %s appears more than once", item.StudentID))
		}
		seen[item.StudentID] = struct{}{}
		ids = append(ids, item.StudentID)
		records = append(records, models.AttendanceRecord{
			StudentID: item.StudentID,
			Status:    item.Status,
			Offering:  roundMoney(item.Offering),
			Bibles:    item.Bibles,
			Guides:    item.Guides,
		})
	}

	if err := s.ensureStudentsExist(ctx, ids); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceDay(ctx, classID, date, records); err != nil {
		s.logger.Error("bulk roll call failed", zap.String("class_id", classID), zap.String("date", date), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace attendance")
	}

	s.metrics.RecordAttendanceWrites("bulk", len(records))
	s.cache.InvalidateDashboard(ctx, date)
	s.logger.Info("roll call replaced", zap.String("class_id", classID), zap.String("date", date), zap.Int("records", len(records)))
	return records, nil
}

func (s *AttendanceService) ensureStudentsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check students")
	}
	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "unknown aluno_id: "+strings.Join(missing, ", "))
	}
	return nil
}

func (s *AttendanceService) load(ctx context.Context, claims *models.JWTClaims, id string) (*models.AttendanceRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if err := checkClassAccess(claims, record.ClassID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AttendanceService) ensureWorshipDay(date string) error {
	day, err := parseDate(date)
	if err != nil {
		return err
	}
	if day.Weekday() != s.worshipDay {
		return appErrors.Clone(appErrors.ErrNotWorshipDay, fmt.Sprintf("%s is a %s, roll call is only taken on %s", date, day.Weekday(), s.worshipDay))
	}
	return nil
}

func parseDate(date string) (time.Time, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "data must use the YYYY-MM-DD format")
	}
	return day, nil
}

// checkClassAccess enforces the class restriction of the caller. Nil claims
// mean an internal caller with no restriction.
func checkClassAccess(claims *models.JWTClaims, classID string) error {
	if claims == nil || claims.CanAccessClass(classID) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "no access to this class")
}
