package dto

import "github.com/lmoreno/schooldesk/internal/app/models"

// CreateSectionRequest carries the payload for creating a section. The
// section id is never accepted from the caller; it is generated server-side.
type CreateSectionRequest struct {
	Title       string  `json:"title" binding:"required"`
	Group       string  `json:"group" binding:"required"` // case-insensitive, normalized to uppercase
	StudyPlanID *string `json:"studyPlanId"`
	TeacherID   *string `json:"teacherId"`
	Year        int     `json:"year" binding:"required,min=2000"`
	MaxCapacity int     `json:"maxCapacity" binding:"min=0"`
}

// UpdateSectionRequest carries a partial section patch. Nil fields are left
// untouched. Privileged fields are stripped, not rejected, for restricted
// roles before the patch is applied.
type UpdateSectionRequest struct {
	Title       *string `json:"title"`
	Group       *string `json:"group"`
	StudyPlanID *string `json:"studyPlanId"`
	TeacherID   *string `json:"teacherId"`
	Year        *int    `json:"year"`
	MaxCapacity *int    `json:"maxCapacity"`
}

// SectionResponse represents a section with its recomputed enrolled count.
type SectionResponse struct {
	models.Section
	EnrolledCount int `json:"enrolledCount" example:"24"`
	SlotsLeft     int `json:"slotsLeft" example:"6"`
}

// FromSectionWithCount converts a models.SectionWithCount to a SectionResponse.
func FromSectionWithCount(s *models.SectionWithCount) SectionResponse {
	return SectionResponse{
		Section:       s.Section,
		EnrolledCount: s.EnrolledCount,
		SlotsLeft:     s.SlotsLeft(s.EnrolledCount),
	}
}

// EnrollStudentsRequest names the students to enroll into a section as one
// all-or-nothing batch at the capacity-check level.
type EnrollStudentsRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1"`
}

// EnrollmentResponse reports the roster state after a successful enrollment.
type EnrollmentResponse struct {
	SectionID     string   `json:"sectionId" example:"SEC-000123"`
	EnrolledCount int      `json:"enrolledCount" example:"24"`
	SlotsLeft     int      `json:"slotsLeft" example:"6"`
	Roster        []string `json:"roster"`
}
