package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	SectionRepository   *SectionRepository
	StudentRepository   *StudentRepository
	TeacherRepository   *TeacherRepository
	StudyPlanRepository *StudyPlanRepository
	UserRepository      *UserRepository
	TokenRepository     *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SectionRepository:   NewSectionRepository(db),
		StudentRepository:   NewStudentRepository(db),
		TeacherRepository:   NewTeacherRepository(db),
		StudyPlanRepository: NewStudyPlanRepository(db),
		UserRepository:      NewUserRepository(db),
		TokenRepository:     NewTokenRepository(db),
	}
}
