package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Transfer(ctx context.Context, id, classID string) error
	Deactivate(ctx context.Context, id string) error
}

type studentClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// CreateStudentRequest payload.
type CreateStudentRequest struct {
	FullName  string  `json:"nome" validate:"required,max=160"`
	BirthDate *string `json:"data_nascimento" validate:"omitempty,iso_date"`
	Contact   string  `json:"contato" validate:"max=120"`
	ClassID   string  `json:"turma_id" validate:"required"`
}

// UpdateStudentRequest payload. Class changes go through Transfer.
type UpdateStudentRequest struct {
	FullName  string  `json:"nome" validate:"required,max=160"`
	BirthDate *string `json:"data_nascimento" validate:"omitempty,iso_date"`
	Contact   string  `json:"contato" validate:"max=120"`
	Active    *bool   `json:"ativo"`
}

// TransferStudentRequest moves a student to another class.
type TransferStudentRequest struct {
	ClassID string `json:"turma_id" validate:"required"`
}

// StudentService manages the roster.
type StudentService struct {
	repo      studentRepository
	classes   studentClassReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, classes studentClassReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	registerRollCallValidations(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns students with pagination metadata. A caller limited to some
// classes only sees students of those classes.
func (s *StudentService) List(ctx context.Context, claims *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if permitted := claims.PermittedClasses(); permitted != nil {
		if filter.ClassID != "" {
			if err := checkClassAccess(claims, filter.ClassID); err != nil {
				return nil, nil, err
			}
		} else {
			filter.ClassIDs = permitted
		}
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns student by id.
func (s *StudentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := checkClassAccess(claims, student.ClassID); err != nil {
		return nil, err
	}
	return student, nil
}

// Create enrols a student in an existing class.
func (s *StudentService) Create(ctx context.Context, claims *models.JWTClaims, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := checkClassAccess(claims, req.ClassID); err != nil {
		return nil, err
	}
	if _, err := s.activeClass(ctx, req.ClassID); err != nil {
		return nil, err
	}

	student := &models.Student{
		FullName:  strings.TrimSpace(req.FullName),
		BirthDate: req.BirthDate,
		Contact:   strings.TrimSpace(req.Contact),
		ClassID:   req.ClassID,
		Active:    true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.cache.InvalidateAllDashboards(ctx)
	return student, nil
}

// Update modifies profile fields and the active flag.
func (s *StudentService) Update(ctx context.Context, claims *models.JWTClaims, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	student.FullName = strings.TrimSpace(req.FullName)
	student.BirthDate = req.BirthDate
	student.Contact = strings.TrimSpace(req.Contact)
	if req.Active != nil {
		student.Active = *req.Active
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.cache.InvalidateAllDashboards(ctx)
	return student, nil
}

// Transfer moves a student to another active class. Past attendance keeps
// the class it was recorded under. The caller needs access to both classes.
func (s *StudentService) Transfer(ctx context.Context, claims *models.JWTClaims, id string, req TransferStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}
	student, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if err := checkClassAccess(claims, req.ClassID); err != nil {
		return nil, err
	}
	if student.ClassID == req.ClassID {
		return student, nil
	}
	if _, err := s.activeClass(ctx, req.ClassID); err != nil {
		return nil, err
	}

	if err := s.repo.Transfer(ctx, id, req.ClassID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to transfer student")
	}
	s.logger.Info("student transferred", zap.String("student_id", id), zap.String("from", student.ClassID), zap.String("to", req.ClassID))
	student.ClassID = req.ClassID
	s.cache.InvalidateAllDashboards(ctx)
	return student, nil
}

// Delete deactivates a student.
func (s *StudentService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if _, err := s.Get(ctx, claims, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	s.cache.InvalidateAllDashboards(ctx)
	return nil
}

func (s *StudentService) activeClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is inactive")
	}
	return class, nil
}
