package models

import "time"

// StudyPlan represents a curriculum plan sections can reference. Unlike
// sections, study plans carry a real lifecycle (draft/active/archived) and an
// optimistic version counter bumped on every update.
type StudyPlan struct {
	StudyPlanID string          `json:"studyPlanId" db:"study_plan_id" example:"PLN-004211"`
	Name        string          `json:"name" db:"name" example:"Primary 2026"`
	Level       string          `json:"level" db:"level" example:"primary"`
	Status      StudyPlanStatus `json:"status" db:"status" example:"DRAFT"`
	Version     int             `json:"version" db:"version" example:"3"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// CanTransitionTo reports whether the status machine allows moving from the
// plan's current status to target. Draft plans publish to active, active
// plans archive; archived is terminal.
func (p *StudyPlan) CanTransitionTo(target StudyPlanStatus) bool {
	switch p.Status {
	case StudyPlanDraft:
		return target == StudyPlanActive
	case StudyPlanActive:
		return target == StudyPlanArchived
	default:
		return false
	}
}
