package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/idgen"
	"github.com/lmoreno/schooldesk/internal/pkg/logger"
)

const teacherIDPrefix = "TEA"

// TeacherStore is the persistence surface teacher CRUD needs.
// *repositories.TeacherRepository satisfies it.
type TeacherStore interface {
	Insert(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, teacherID string) (*models.Teacher, error)
	ExistsID(ctx context.Context, teacherID string) (bool, error)
	GetAll(ctx context.Context) ([]*models.Teacher, error)
	UpdateFields(ctx context.Context, teacherID string, fields map[string]interface{}) error
	Delete(ctx context.Context, teacherID string) error
}

// TeacherService handles teacher record operations
type TeacherService struct {
	teachers TeacherStore
	ids      *idgen.Generator
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(teachers TeacherStore, ids *idgen.Generator) *TeacherService {
	return &TeacherService{
		teachers: teachers,
		ids:      ids,
	}
}

// Create registers a new teacher with a generated id. Losing the race
// between the id probe and the insert retries with a fresh draw; a duplicate
// email is reported as-is.
func (s *TeacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*models.Teacher, error) {
	teacher := &models.Teacher{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		id, err := s.ids.Generate(ctx, teacherIDPrefix, s.teachers.ExistsID)
		if err != nil {
			return nil, err
		}

		teacher.TeacherID = id
		err = s.teachers.Insert(ctx, teacher)
		if err == nil {
			return teacher, nil
		}
		if !errors.Is(err, apperrors.ErrTeacherIDTaken) {
			return nil, err
		}
		logger.Warn().Str("teacherId", id).Msg("Generated teacher id was claimed concurrently, retrying")
	}

	return nil, apperrors.ErrIDSpaceExhausted
}

// GetByID retrieves a teacher by id.
func (s *TeacherService) GetByID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	return s.teachers.GetByID(ctx, teacherID)
}

// GetAll retrieves all teachers.
func (s *TeacherService) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	return s.teachers.GetAll(ctx)
}

// Update applies a partial patch to a teacher.
func (s *TeacherService) Update(ctx context.Context, teacherID string, req *dto.UpdateTeacherRequest) (*models.Teacher, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	if err := s.teachers.UpdateFields(ctx, teacherID, fields); err != nil {
		return nil, err
	}

	return s.teachers.GetByID(ctx, teacherID)
}

// Delete removes a teacher record.
func (s *TeacherService) Delete(ctx context.Context, teacherID string) error {
	return s.teachers.Delete(ctx, teacherID)
}
