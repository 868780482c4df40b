package models

// RoleType defines the staff role type
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleSecretary RoleType = "SECRETARY"
	RoleTeacher   RoleType = "TEACHER"
)

// SectionGroup is the closed set of group letters a section may belong to.
type SectionGroup string

const (
	GroupA SectionGroup = "A"
	GroupB SectionGroup = "B"
	GroupC SectionGroup = "C"
	GroupD SectionGroup = "D"
	GroupE SectionGroup = "E"
)

// ValidGroups lists every allowed section group.
var ValidGroups = []SectionGroup{GroupA, GroupB, GroupC, GroupD, GroupE}

// IsValidGroup reports whether g (already normalized to uppercase) is one of
// the allowed section groups.
func IsValidGroup(g SectionGroup) bool {
	for _, v := range ValidGroups {
		if g == v {
			return true
		}
	}
	return false
}

// StudyPlanStatus represents the lifecycle state of a study plan
type StudyPlanStatus string

const (
	StudyPlanDraft    StudyPlanStatus = "DRAFT"
	StudyPlanActive   StudyPlanStatus = "ACTIVE"
	StudyPlanArchived StudyPlanStatus = "ARCHIVED"
)
