package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lmoreno/schooldesk/internal/app/auth"
	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/idgen"
	"github.com/lmoreno/schooldesk/internal/pkg/logger"
)

// sectionIDPrefix is the fixed prefix for generated section identifiers.
const sectionIDPrefix = "SEC"

// insertRetries bounds how often a create retries after losing the race
// between the idgen existence probe and the insert.
const insertRetries = 3

// SectionStore is the persistence surface the section lifecycle needs.
// *repositories.SectionRepository satisfies it.
type SectionStore interface {
	Insert(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, sectionID string) (*models.Section, error)
	ExistsID(ctx context.Context, sectionID string) (bool, error)
	UpdateFields(ctx context.Context, sectionID string, fields map[string]interface{}) error
	Delete(ctx context.Context, sectionID string) error
	GetWithCount(ctx context.Context, sectionID string) (*models.SectionWithCount, error)
	ListWithCounts(ctx context.Context, offset uint64, limit int) ([]*models.SectionWithCount, int64, error)
}

// SectionService owns the section lifecycle: creation with generated ids,
// role-gated field patches, and deletion.
type SectionService struct {
	sections SectionStore
	ids      *idgen.Generator
}

// NewSectionService creates a new section service instance
func NewSectionService(sections SectionStore, ids *idgen.Generator) *SectionService {
	return &SectionService{
		sections: sections,
		ids:      ids,
	}
}

// NormalizeGroup uppercases and trims a group letter. Normalizing twice gives
// the same result.
func NormalizeGroup(group string) models.SectionGroup {
	return models.SectionGroup(strings.ToUpper(strings.TrimSpace(group)))
}

// Create validates the payload, generates a fresh section id and inserts the
// record. The insert acts as the atomic claim on the id: losing the
// probe-to-insert race surfaces as a duplicate key and triggers a bounded
// retry with a fresh draw.
func (s *SectionService) Create(ctx context.Context, req *dto.CreateSectionRequest) (*models.Section, error) {
	group := NormalizeGroup(req.Group)
	if !models.IsValidGroup(group) {
		return nil, apperrors.ErrInvalidGroup
	}
	if req.MaxCapacity < 0 {
		return nil, fmt.Errorf("%w: maxCapacity must not be negative", apperrors.ErrValidationFailed)
	}

	section := &models.Section{
		Title:       strings.TrimSpace(req.Title),
		Group:       group,
		StudyPlanID: req.StudyPlanID,
		TeacherID:   req.TeacherID,
		Year:        req.Year,
		MaxCapacity: req.MaxCapacity,
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		id, err := s.ids.Generate(ctx, sectionIDPrefix, s.sections.ExistsID)
		if err != nil {
			return nil, err
		}

		section.SectionID = id
		err = s.sections.Insert(ctx, section)
		if err == nil {
			return section, nil
		}
		if !errors.Is(err, apperrors.ErrSectionIDTaken) {
			return nil, err
		}
		logger.Warn().Str("sectionId", id).Msg("Generated section id was claimed concurrently, retrying")
	}

	return nil, apperrors.ErrIDSpaceExhausted
}

// GetByID retrieves a section with its recomputed enrolled count.
func (s *SectionService) GetByID(ctx context.Context, sectionID string) (*models.SectionWithCount, error) {
	return s.sections.GetWithCount(ctx, sectionID)
}

// List retrieves a page of sections with recomputed enrolled counts.
func (s *SectionService) List(ctx context.Context, offset uint64, limit int) ([]*models.SectionWithCount, int64, error) {
	return s.sections.ListWithCounts(ctx, offset, limit)
}

// Update applies a partial patch to a section. Fields the actor's role may
// not touch are stripped before validation rather than rejected; a patch that
// is empty after stripping fails with ErrNoFieldsProvided.
func (s *SectionService) Update(ctx context.Context, sectionID string, req *dto.UpdateSectionRequest, role models.RoleType) (*models.Section, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Group != nil {
		fields["group_letter"] = NormalizeGroup(*req.Group)
	}
	if req.StudyPlanID != nil {
		fields["study_plan_id"] = *req.StudyPlanID
	}
	if req.TeacherID != nil {
		fields["teacher_id"] = *req.TeacherID
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.MaxCapacity != nil {
		fields["max_capacity"] = *req.MaxCapacity
	}

	fields = auth.FilterSectionFields(role, fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	if group, ok := fields["group_letter"]; ok {
		if !models.IsValidGroup(group.(models.SectionGroup)) {
			return nil, apperrors.ErrInvalidGroup
		}
	}
	if capacity, ok := fields["max_capacity"]; ok {
		if capacity.(int) < 0 {
			return nil, fmt.Errorf("%w: maxCapacity must not be negative", apperrors.ErrValidationFailed)
		}
	}

	if err := s.sections.UpdateFields(ctx, sectionID, fields); err != nil {
		return nil, err
	}

	return s.sections.GetByID(ctx, sectionID)
}

// Delete removes a section. Student section references are deliberately left
// dangling; rosters are recomputed from the students table so counts recover
// on their own.
func (s *SectionService) Delete(ctx context.Context, sectionID string, role models.RoleType) error {
	if !auth.CanDeleteSection(role) {
		return apperrors.ErrPermissionDenied
	}

	return s.sections.Delete(ctx, sectionID)
}
