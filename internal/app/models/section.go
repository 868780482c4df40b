package models

import "time"

// Section represents a scheduled instance of a curriculum group for a given
// year, based on the 'sections' table. The enrolled roster is not stored on
// the record; it is derived from students whose section_id points here.
type Section struct {
	SectionID   string       `json:"sectionId" db:"section_id" example:"SEC-000123"` // Generated, immutable once created
	Title       string       `json:"title" db:"title" example:"First Grade Morning"`
	Group       SectionGroup `json:"group" db:"group_letter" example:"A"`
	StudyPlanID *string      `json:"studyPlanId,omitempty" db:"study_plan_id" example:"PLN-004211"` // Nullable
	TeacherID   *string      `json:"teacherId,omitempty" db:"teacher_id" example:"TEA-000042"`      // Nullable
	Year        int          `json:"year" db:"year" example:"2026"`
	MaxCapacity int          `json:"maxCapacity" db:"max_capacity" example:"30"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Teacher *Teacher `json:"teacher,omitempty"`
}

// SectionWithCount pairs a section with its recomputed enrolled count for
// listing. The count always comes from counting students rows, never from a
// stored counter.
type SectionWithCount struct {
	Section
	EnrolledCount int `json:"enrolledCount" example:"24"`
}

// SlotsLeft returns how many students can still enroll given the current
// enrolled count, floored at zero.
func (s *Section) SlotsLeft(enrolledCount int) int {
	left := s.MaxCapacity - enrolledCount
	if left < 0 {
		return 0
	}
	return left
}

// AtCapacity reports whether the section cannot take any more students.
func (s *Section) AtCapacity(enrolledCount int) bool {
	return enrolledCount >= s.MaxCapacity
}
