package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/idgen"
)

func newPlanService(store *fakePlanStore) *StudyPlanService {
	return NewStudyPlanService(store, idgen.New(0))
}

func createPlan(t *testing.T, svc *StudyPlanService) *models.StudyPlan {
	t.Helper()
	plan, err := svc.Create(context.Background(), &dto.CreateStudyPlanRequest{
		Name: "Primary 2026", Level: "primary",
	}, models.RoleAdmin)
	require.NoError(t, err)
	return plan
}

func TestStudyPlanCreateStartsAsDraft(t *testing.T) {
	svc := newPlanService(newFakePlanStore())

	plan := createPlan(t, svc)
	assert.Regexp(t, `^PLN-\d{6}$`, plan.StudyPlanID)
	assert.Equal(t, models.StudyPlanDraft, plan.Status)
	assert.Equal(t, 1, plan.Version)
}

func TestStudyPlanCreateRetriesClaimedID(t *testing.T) {
	store := newFakePlanStore()
	store.insertConflicts = 2
	svc := newPlanService(store)

	plan := createPlan(t, svc)
	assert.Regexp(t, `^PLN-\d{6}$`, plan.StudyPlanID)
}

func TestStudyPlanCreateGivesUpAfterRetries(t *testing.T) {
	store := newFakePlanStore()
	store.insertConflicts = insertRetries
	svc := newPlanService(store)

	_, err := svc.Create(context.Background(), &dto.CreateStudyPlanRequest{
		Name: "Primary 2026", Level: "primary",
	}, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrIDSpaceExhausted)
}

func TestStudyPlanManagementRequiresAdmin(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)
	ctx := context.Background()

	for _, role := range []models.RoleType{models.RoleSecretary, models.RoleTeacher} {
		_, err := svc.Create(ctx, &dto.CreateStudyPlanRequest{Name: "X", Level: "primary"}, role)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = svc.Publish(ctx, plan.StudyPlanID, role)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		err = svc.Delete(ctx, plan.StudyPlanID, role)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	}
}

func TestStudyPlanUpdateBumpsVersion(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)

	updated, err := svc.Update(context.Background(), plan.StudyPlanID, &dto.UpdateStudyPlanRequest{
		Name:    strPtr("Primary 2027"),
		Version: 1,
	}, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, "Primary 2027", updated.Name)
	assert.Equal(t, 2, updated.Version)
}

func TestStudyPlanUpdateStaleVersion(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)
	ctx := context.Background()

	_, err := svc.Update(ctx, plan.StudyPlanID, &dto.UpdateStudyPlanRequest{
		Name: strPtr("First writer"), Version: 1,
	}, models.RoleAdmin)
	require.NoError(t, err)

	// A second writer still holding version 1 loses.
	_, err = svc.Update(ctx, plan.StudyPlanID, &dto.UpdateStudyPlanRequest{
		Name: strPtr("Second writer"), Version: 1,
	}, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrStaleStudyPlan)
}

func TestStudyPlanUpdateEmptyPatch(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)

	_, err := svc.Update(context.Background(), plan.StudyPlanID, &dto.UpdateStudyPlanRequest{
		Version: 1,
	}, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsProvided)
}

func TestStudyPlanLifecycle(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)
	ctx := context.Background()

	active, err := svc.Publish(ctx, plan.StudyPlanID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StudyPlanActive, active.Status)

	// Publishing twice is not a valid transition.
	_, err = svc.Publish(ctx, plan.StudyPlanID, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)

	archived, err := svc.Archive(ctx, plan.StudyPlanID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StudyPlanArchived, archived.Status)
}

func TestStudyPlanArchiveRequiresActive(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)

	_, err := svc.Archive(context.Background(), plan.StudyPlanID, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)
}

func TestStudyPlanArchivedIsReadOnly(t *testing.T) {
	svc := newPlanService(newFakePlanStore())
	plan := createPlan(t, svc)
	ctx := context.Background()

	_, err := svc.Publish(ctx, plan.StudyPlanID, models.RoleAdmin)
	require.NoError(t, err)
	archived, err := svc.Archive(ctx, plan.StudyPlanID, models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Update(ctx, plan.StudyPlanID, &dto.UpdateStudyPlanRequest{
		Name: strPtr("Too late"), Version: archived.Version,
	}, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrStudyPlanNotEditable)
}

func TestStudyPlanNotFound(t *testing.T) {
	svc := newPlanService(newFakePlanStore())

	_, err := svc.GetByID(context.Background(), "PLN-404404")
	assert.ErrorIs(t, err, apperrors.ErrStudyPlanNotFound)

	_, err = svc.Publish(context.Background(), "PLN-404404", models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrStudyPlanNotFound)
}
