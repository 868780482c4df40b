// Package auth holds role-based permission policy for mutating operations.
// Roles are opaque tags issued by the auth layer; this package only tests
// membership and field capabilities.
package auth

import (
	"github.com/lmoreno/schooldesk/internal/app/models"
)

// sectionFieldsByRole maps each role to the section columns it may patch.
// Restricted roles lose the privileged columns (year, max_capacity); the
// section id is immutable for everyone.
var sectionFieldsByRole = map[models.RoleType]map[string]bool{
	models.RoleAdmin: {
		"title":         true,
		"group_letter":  true,
		"study_plan_id": true,
		"teacher_id":    true,
		"year":          true,
		"max_capacity":  true,
	},
	models.RoleSecretary: {
		"title":         true,
		"group_letter":  true,
		"study_plan_id": true,
		"teacher_id":    true,
	},
}

// MutableSectionFields returns the set of section columns the role may patch.
// Unknown roles may patch nothing.
func MutableSectionFields(role models.RoleType) map[string]bool {
	return sectionFieldsByRole[role]
}

// FilterSectionFields intersects a column->value patch with what the role is
// allowed to touch. Disallowed fields are silently dropped, not rejected;
// callers fail with no-fields-provided when the result is empty.
func FilterSectionFields(role models.RoleType, fields map[string]interface{}) map[string]interface{} {
	allowed := MutableSectionFields(role)
	filtered := make(map[string]interface{}, len(fields))
	for column, value := range fields {
		if allowed[column] {
			filtered[column] = value
		}
	}
	return filtered
}

// CanDeleteSection reports whether the role may delete sections.
func CanDeleteSection(role models.RoleType) bool {
	return role == models.RoleAdmin
}

// CanManageStudyPlans reports whether the role may create, publish, archive
// or delete study plans.
func CanManageStudyPlans(role models.RoleType) bool {
	return role == models.RoleAdmin
}
