package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lmoreno/schooldesk/internal/app/auth"
	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/idgen"
	"github.com/lmoreno/schooldesk/internal/pkg/logger"
)

const studyPlanIDPrefix = "PLN"

// StudyPlanStore is the persistence surface study plan operations need.
// *repositories.StudyPlanRepository satisfies it.
type StudyPlanStore interface {
	Insert(ctx context.Context, plan *models.StudyPlan) error
	GetByID(ctx context.Context, planID string) (*models.StudyPlan, error)
	ExistsID(ctx context.Context, planID string) (bool, error)
	GetAll(ctx context.Context) ([]*models.StudyPlan, error)
	UpdateFieldsVersioned(ctx context.Context, planID string, expectedVersion int, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, planID string, from, to models.StudyPlanStatus) error
	Delete(ctx context.Context, planID string) error
}

// StudyPlanService handles study plan operations, including the
// draft/active/archived lifecycle and the optimistic version counter.
type StudyPlanService struct {
	plans StudyPlanStore
	ids   *idgen.Generator
}

// NewStudyPlanService creates a new study plan service instance
func NewStudyPlanService(plans StudyPlanStore, ids *idgen.Generator) *StudyPlanService {
	return &StudyPlanService{
		plans: plans,
		ids:   ids,
	}
}

// Create registers a new study plan in DRAFT at version 1.
func (s *StudyPlanService) Create(ctx context.Context, req *dto.CreateStudyPlanRequest, role models.RoleType) (*models.StudyPlan, error) {
	if !auth.CanManageStudyPlans(role) {
		return nil, apperrors.ErrPermissionDenied
	}

	plan := &models.StudyPlan{
		Name:    strings.TrimSpace(req.Name),
		Level:   req.Level,
		Status:  models.StudyPlanDraft,
		Version: 1,
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		id, err := s.ids.Generate(ctx, studyPlanIDPrefix, s.plans.ExistsID)
		if err != nil {
			return nil, err
		}

		plan.StudyPlanID = id
		err = s.plans.Insert(ctx, plan)
		if err == nil {
			return plan, nil
		}
		if !errors.Is(err, apperrors.ErrStudyPlanIDTaken) {
			return nil, err
		}
		logger.Warn().Str("studyPlanId", id).Msg("Generated study plan id was claimed concurrently, retrying")
	}

	return nil, apperrors.ErrIDSpaceExhausted
}

// GetByID retrieves a study plan by id.
func (s *StudyPlanService) GetByID(ctx context.Context, planID string) (*models.StudyPlan, error) {
	return s.plans.GetByID(ctx, planID)
}

// GetAll retrieves all study plans.
func (s *StudyPlanService) GetAll(ctx context.Context) ([]*models.StudyPlan, error) {
	return s.plans.GetAll(ctx)
}

// Update applies a partial patch guarded by the version counter carried in
// the request. Archived plans are read-only.
func (s *StudyPlanService) Update(ctx context.Context, planID string, req *dto.UpdateStudyPlanRequest, role models.RoleType) (*models.StudyPlan, error) {
	if !auth.CanManageStudyPlans(role) {
		return nil, apperrors.ErrPermissionDenied
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == models.StudyPlanArchived {
		return nil, apperrors.ErrStudyPlanNotEditable
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}

	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	if err := s.plans.UpdateFieldsVersioned(ctx, planID, req.Version, fields); err != nil {
		return nil, err
	}

	return s.plans.GetByID(ctx, planID)
}

// Publish moves a draft plan to active.
func (s *StudyPlanService) Publish(ctx context.Context, planID string, role models.RoleType) (*models.StudyPlan, error) {
	return s.transition(ctx, planID, models.StudyPlanDraft, models.StudyPlanActive, role)
}

// Archive moves an active plan to archived. Archived is terminal.
func (s *StudyPlanService) Archive(ctx context.Context, planID string, role models.RoleType) (*models.StudyPlan, error) {
	return s.transition(ctx, planID, models.StudyPlanActive, models.StudyPlanArchived, role)
}

func (s *StudyPlanService) transition(ctx context.Context, planID string, from, to models.StudyPlanStatus, role models.RoleType) (*models.StudyPlan, error) {
	if !auth.CanManageStudyPlans(role) {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.plans.UpdateStatus(ctx, planID, from, to); err != nil {
		return nil, err
	}

	return s.plans.GetByID(ctx, planID)
}

// Delete removes a study plan record.
func (s *StudyPlanService) Delete(ctx context.Context, planID string, role models.RoleType) error {
	if !auth.CanManageStudyPlans(role) {
		return apperrors.ErrPermissionDenied
	}

	return s.plans.Delete(ctx, planID)
}
