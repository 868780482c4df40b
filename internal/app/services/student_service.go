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

const studentIDPrefix = "STU"

// StudentStore is the persistence surface student CRUD needs.
// *repositories.StudentRepository satisfies it.
type StudentStore interface {
	Insert(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	ExistsID(ctx context.Context, studentID string) (bool, error)
	UpdateFields(ctx context.Context, studentID string, fields map[string]interface{}) error
	Delete(ctx context.Context, studentID string) error
	List(ctx context.Context, sectionID *string, offset uint64, limit int) ([]*models.Student, int64, error)
}

// StudentService handles student record operations. Section membership is
// owned by the enrollment service, not here.
type StudentService struct {
	students StudentStore
	ids      *idgen.Generator
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, ids *idgen.Generator) *StudentService {
	return &StudentService{
		students: students,
		ids:      ids,
	}
}

// Create registers a new student with a generated id and no section. As with
// sections, the insert is the atomic claim on the id and losing the race
// retries with a fresh draw.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := &models.Student{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		id, err := s.ids.Generate(ctx, studentIDPrefix, s.students.ExistsID)
		if err != nil {
			return nil, err
		}

		student.StudentID = id
		err = s.students.Insert(ctx, student)
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, apperrors.ErrStudentIDTaken) {
			return nil, err
		}
		logger.Warn().Str("studentId", id).Msg("Generated student id was claimed concurrently, retrying")
	}

	return nil, apperrors.ErrIDSpaceExhausted
}

// GetByID retrieves a student by id.
func (s *StudentService) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	return s.students.GetByID(ctx, studentID)
}

// List retrieves a page of students, optionally filtered by section.
func (s *StudentService) List(ctx context.Context, sectionID *string, offset uint64, limit int) ([]*models.Student, int64, error) {
	return s.students.List(ctx, sectionID, offset, limit)
}

// Update applies a partial patch to a student's own fields.
func (s *StudentService) Update(ctx context.Context, studentID string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}

	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	if err := s.students.UpdateFields(ctx, studentID, fields); err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, studentID)
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	return s.students.Delete(ctx, studentID)
}
