package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/idgen"
)

func newStudentService(store *fakeStore) *StudentService {
	return NewStudentService(fakeStudentStore{store}, idgen.New(0))
}

func TestStudentCreate(t *testing.T) {
	svc := newStudentService(newFakeStore())

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		FirstName: "  Nora ",
		LastName:  "Quinn",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^STU-\d{6}$`, student.StudentID)
	assert.Equal(t, "Nora", student.FirstName)
	assert.Nil(t, student.SectionID)
}

func TestStudentCreateRetriesClaimedID(t *testing.T) {
	store := newFakeStore()
	store.studentInsertConflicts = 2
	svc := newStudentService(store)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		FirstName: "Nora", LastName: "Quinn",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^STU-\d{6}$`, student.StudentID)
}

func TestStudentCreateGivesUpAfterRetries(t *testing.T) {
	store := newFakeStore()
	store.studentInsertConflicts = insertRetries
	svc := newStudentService(store)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		FirstName: "Nora", LastName: "Quinn",
	})
	assert.ErrorIs(t, err, apperrors.ErrIDSpaceExhausted)
}

func TestStudentUpdate(t *testing.T) {
	store := newFakeStore()
	store.addStudent("STU-000001")
	svc := newStudentService(store)

	updated, err := svc.Update(context.Background(), "STU-000001", &dto.UpdateStudentRequest{
		LastName: strPtr("Rivera"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rivera", updated.LastName)
	assert.Equal(t, "First", updated.FirstName)
}

func TestStudentUpdateEmptyPatch(t *testing.T) {
	store := newFakeStore()
	store.addStudent("STU-000001")
	svc := newStudentService(store)

	_, err := svc.Update(context.Background(), "STU-000001", &dto.UpdateStudentRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsProvided)
}

func TestStudentListFilteredBySection(t *testing.T) {
	store := newFakeStore()
	store.addSection("SEC-000001", "A", 2026, 10)
	store.addStudent("STU-000001")
	store.addStudent("STU-000002")
	enrollment := NewEnrollmentService(store, store)
	svc := newStudentService(store)
	ctx := context.Background()

	_, err := enrollment.Enroll(ctx, "SEC-000001", []string{"STU-000001"})
	require.NoError(t, err)

	sectionID := "SEC-000001"
	students, total, err := svc.List(ctx, &sectionID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	assert.Equal(t, "STU-000001", students[0].StudentID)

	_, total, err = svc.List(ctx, nil, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestStudentDelete(t *testing.T) {
	store := newFakeStore()
	store.addStudent("STU-000001")
	svc := newStudentService(store)

	require.NoError(t, svc.Delete(context.Background(), "STU-000001"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "STU-000001"), apperrors.ErrStudentNotFound)
}
