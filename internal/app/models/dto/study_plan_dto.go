package dto

// CreateStudyPlanRequest carries the payload for creating a study plan. New
// plans always start in DRAFT at version 1.
type CreateStudyPlanRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=160"`
	Level string `json:"level" binding:"required,oneof=preschool primary secondary"`
}

// UpdateStudyPlanRequest carries a partial study plan patch. Version is the
// optimistic lock: the update only applies if it matches the stored version.
type UpdateStudyPlanRequest struct {
	Name    *string `json:"name"`
	Level   *string `json:"level" binding:"omitempty,oneof=preschool primary secondary"`
	Version int     `json:"version" binding:"required,min=1"`
}
