package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	StudentID string    `json:"studentId" db:"student_id" example:"STU-000917"` // Generated student identifier
	FirstName string    `json:"firstName" db:"first_name" example:"Ana"`
	LastName  string    `json:"lastName" db:"last_name" example:"Gomez"`
	SectionID *string   `json:"sectionId,omitempty" db:"section_id" example:"SEC-000123"` // Nullable back-reference to the enrolled section
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
