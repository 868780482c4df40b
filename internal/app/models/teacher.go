package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	TeacherID string    `json:"teacherId" db:"teacher_id" example:"TEA-000042"`
	FirstName string    `json:"firstName" db:"first_name" example:"Miguel"`
	LastName  string    `json:"lastName" db:"last_name" example:"Santos"`
	Email     string    `json:"email" db:"email" example:"m.santos@school.edu"`
	Phone     *string   `json:"phone,omitempty" db:"phone"` // Nullable
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
