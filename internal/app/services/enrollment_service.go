package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/logger"
)

// RosterStore is the persistence surface enrollment needs on the student
// side. *repositories.StudentRepository satisfies it.
type RosterStore interface {
	FindMissing(ctx context.Context, studentIDs []string) ([]string, error)
	CountBySection(ctx context.Context, sectionID string) (int, error)
	ListRoster(ctx context.Context, sectionID string) ([]string, error)
	AssignSection(ctx context.Context, studentID, sectionID string) error
	ClearSection(ctx context.Context, studentID string) error
}

// SectionGetter resolves a section record for the capacity check.
type SectionGetter interface {
	GetByID(ctx context.Context, sectionID string) (*models.Section, error)
}

// EnrollmentResult reports the roster state after a successful enrollment.
type EnrollmentResult struct {
	SectionID     string
	EnrolledCount int
	SlotsLeft     int
	Roster        []string
}

// EnrollmentService coordinates moving students into and out of sections.
// Enrollment for a given section is serialized with a per-section lock so two
// concurrent batches cannot both pass the capacity check and overfill the
// roster. Counts are always recomputed from the students table.
type EnrollmentService struct {
	sections SectionGetter
	students RosterStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(sections SectionGetter, students RosterStore) *EnrollmentService {
	return &EnrollmentService{
		sections: sections,
		students: students,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sectionLock returns the mutex serializing enrollment for one section.
func (s *EnrollmentService) sectionLock(sectionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sectionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sectionID] = lock
	}
	return lock
}

// Enroll assigns a batch of students to a section. The whole batch must fit
// in the remaining slots or nothing is committed and the caller gets the
// slots-left count back. Per-student writes are independent: if one fails
// mid-batch, the committed ones stay committed and the error names them.
func (s *EnrollmentService) Enroll(ctx context.Context, sectionID string, studentIDs []string) (*EnrollmentResult, error) {
	if len(studentIDs) == 0 {
		return nil, fmt.Errorf("%w: no students provided", apperrors.ErrValidationFailed)
	}
	batch := dedupe(studentIDs)

	lock := s.sectionLock(sectionID)
	lock.Lock()
	defer lock.Unlock()

	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	missing, err := s.students.FindMissing(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound,
			fmt.Sprintf("unknown students: %v", missing))
	}

	enrolled, err := s.students.CountBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	slotsLeft := section.SlotsLeft(enrolled)
	if len(batch) > slotsLeft {
		return nil, apperrors.NewCapacityError(slotsLeft)
	}

	committed := make([]string, 0, len(batch))
	for _, studentID := range batch {
		if err := s.students.AssignSection(ctx, studentID, sectionID); err != nil {
			logger.Error().Err(err).
				Str("sectionId", sectionID).
				Str("studentId", studentID).
				Int("committed", len(committed)).
				Msg("Enrollment batch failed mid-way")
			return nil, &apperrors.PartialEnrollmentError{Committed: committed, Err: err}
		}
		committed = append(committed, studentID)
	}

	return s.result(ctx, section)
}

// Unenroll clears a student's section reference. Removal always has room, so
// the only failure is an unknown student.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID string) error {
	return s.students.ClearSection(ctx, studentID)
}

// result rebuilds the roster view after a mutation.
func (s *EnrollmentService) result(ctx context.Context, section *models.Section) (*EnrollmentResult, error) {
	roster, err := s.students.ListRoster(ctx, section.SectionID)
	if err != nil {
		return nil, err
	}

	return &EnrollmentResult{
		SectionID:     section.SectionID,
		EnrolledCount: len(roster),
		SlotsLeft:     section.SlotsLeft(len(roster)),
		Roster:        roster,
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
