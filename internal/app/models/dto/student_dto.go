package dto

// CreateStudentRequest carries the payload for registering a student.
type CreateStudentRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100"`
}

// UpdateStudentRequest carries a partial student patch. Section membership is
// never changed here; enrollment endpoints own the section_id field.
type UpdateStudentRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}
