package models

import "time"

// User defines a staff account based on the 'users' table. Students and
// parents do not log into the admin console; only staff accounts exist here.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"admin@school.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	FirstName string    `json:"firstName" db:"first_name" example:"Laura"`
	LastName  string    `json:"lastName" db:"last_name" example:"Ibanez"`
	Role      RoleType  `json:"role" db:"role" example:"ADMIN"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
