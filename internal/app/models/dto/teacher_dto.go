package dto

// CreateTeacherRequest carries the payload for registering a teacher.
type CreateTeacherRequest struct {
	FirstName string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string  `json:"lastName" binding:"required,min=2,max=100"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
}

// UpdateTeacherRequest carries a partial teacher patch.
type UpdateTeacherRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}
