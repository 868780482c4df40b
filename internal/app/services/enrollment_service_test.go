package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
)

func seedSectionWithStudents(store *fakeStore, maxCapacity int, studentIDs ...string) {
	store.addSection("SEC-000001", "A", 2026, maxCapacity)
	for _, id := range studentIDs {
		store.addStudent(id)
	}
}

func TestEnrollWithinCapacity(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 3, "STU-000001", "STU-000002")
	svc := NewEnrollmentService(store, store)

	result, err := svc.Enroll(context.Background(), "SEC-000001", []string{"STU-000001", "STU-000002"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.EnrolledCount)
	assert.Equal(t, 1, result.SlotsLeft)
	assert.Equal(t, []string{"STU-000001", "STU-000002"}, result.Roster)
}

func TestEnrollRejectsOverCapacityBatch(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 2, "STU-000001", "STU-000002", "STU-000003")
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-000001", []string{"STU-000001"})
	require.NoError(t, err)

	// One slot left, a batch of two must be rejected whole.
	_, err = svc.Enroll(context.Background(), "SEC-000001", []string{"STU-000002", "STU-000003"})
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.SlotsLeft)

	// Nothing from the rejected batch was committed.
	assert.Nil(t, store.studentSection("STU-000002"))
	assert.Nil(t, store.studentSection("STU-000003"))
}

func TestEnrollUnenrollReleasesSlot(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 2, "STU-000001", "STU-000002", "STU-000003")
	svc := NewEnrollmentService(store, store)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "SEC-000001", []string{"STU-000001", "STU-000002"})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, "SEC-000001", []string{"STU-000003"})
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	require.NoError(t, svc.Unenroll(ctx, "STU-000001"))

	result, err := svc.Enroll(ctx, "SEC-000001", []string{"STU-000003"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.EnrolledCount)
	assert.Equal(t, []string{"STU-000002", "STU-000003"}, result.Roster)
}

func TestEnrollDedupesBatch(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 1, "STU-000001")
	svc := NewEnrollmentService(store, store)

	result, err := svc.Enroll(context.Background(), "SEC-000001",
		[]string{"STU-000001", "STU-000001", "STU-000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.EnrolledCount)
}

func TestEnrollEmptyBatch(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 5)
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-000001", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEnrollUnknownSection(t *testing.T) {
	store := newFakeStore()
	store.addStudent("STU-000001")
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-404404", []string{"STU-000001"})
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestEnrollUnknownStudent(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 5, "STU-000001")
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-000001",
		[]string{"STU-000001", "STU-404404"})
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	// The known student in the same batch was not committed.
	assert.Nil(t, store.studentSection("STU-000001"))
}

func TestEnrollPartialFailureKeepsCommitted(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 5, "STU-000001", "STU-000002", "STU-000003")
	writeErr := errors.New("write failed")
	store.assignErr["STU-000002"] = writeErr
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-000001",
		[]string{"STU-000001", "STU-000002", "STU-000003"})
	require.Error(t, err)

	var partial *apperrors.PartialEnrollmentError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"STU-000001"}, partial.Committed)
	assert.ErrorIs(t, partial.Err, writeErr)

	// The committed prefix stays committed, the rest was never written.
	assert.NotNil(t, store.studentSection("STU-000001"))
	assert.Nil(t, store.studentSection("STU-000002"))
	assert.Nil(t, store.studentSection("STU-000003"))
}

func TestEnrollConcurrentBatchesNeverOverfill(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 1, "STU-000001", "STU-000002")
	svc := NewEnrollmentService(store, store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, studentID := range []string{"STU-000001", "STU-000002"} {
		wg.Add(1)
		go func(i int, studentID string) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), "SEC-000001", []string{studentID})
		}(i, studentID)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	}
	assert.Equal(t, 1, successes)

	count, err := store.CountBySection(context.Background(), "SEC-000001")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnrollZeroCapacitySection(t *testing.T) {
	store := newFakeStore()
	seedSectionWithStudents(store, 0, "STU-000001")
	svc := NewEnrollmentService(store, store)

	_, err := svc.Enroll(context.Background(), "SEC-000001", []string{"STU-000001"})
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.SlotsLeft)
}

func TestUnenrollUnknownStudent(t *testing.T) {
	store := newFakeStore()
	svc := NewEnrollmentService(store, store)

	err := svc.Unenroll(context.Background(), "STU-404404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUnenrollIsIdempotentForUnassignedStudent(t *testing.T) {
	store := newFakeStore()
	store.addStudent("STU-000001")
	svc := NewEnrollmentService(store, store)

	assert.NoError(t, svc.Unenroll(context.Background(), "STU-000001"))
	assert.NoError(t, svc.Unenroll(context.Background(), "STU-000001"))
}
