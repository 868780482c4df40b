package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lmoreno/schooldesk/internal/app/controllers"
	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	sectionController *controllers.SectionController,
	studentController *controllers.StudentController,
	teacherController *controllers.TeacherController,
	studyPlanController *controllers.StudyPlanController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		sections := authenticated.Group("/sections")
		{
			sections.GET("", sectionController.ListSections)
			sections.GET("/:id", sectionController.GetSectionByID)

			// Staff-only section management; field-level restrictions for
			// secretaries are enforced inside the service.
			sectionsStaffProtected := sections.Group("")
			sectionsStaffProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSecretary))
			{
				sectionsStaffProtected.POST("", sectionController.CreateSection)
				sectionsStaffProtected.PATCH("/:id", sectionController.UpdateSection)
				sectionsStaffProtected.DELETE("/:id", sectionController.DeleteSection)
				sectionsStaffProtected.POST("/:id/students", sectionController.EnrollStudents)
			}
		}

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.GET("/:id", studentController.GetStudentByID)

			studentsStaffProtected := students.Group("")
			studentsStaffProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSecretary))
			{
				studentsStaffProtected.POST("", studentController.CreateStudent)
				studentsStaffProtected.PATCH("/:id", studentController.UpdateStudent)
				studentsStaffProtected.DELETE("/:id", studentController.DeleteStudent)
				studentsStaffProtected.DELETE("/:id/section", studentController.UnenrollStudent)
			}
		}

		teachers := authenticated.Group("/teachers")
		{
			teachers.GET("", teacherController.GetAllTeachers)
			teachers.GET("/:id", teacherController.GetTeacherByID)

			teachersStaffProtected := teachers.Group("")
			teachersStaffProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSecretary))
			{
				teachersStaffProtected.POST("", teacherController.CreateTeacher)
				teachersStaffProtected.PATCH("/:id", teacherController.UpdateTeacher)
				teachersStaffProtected.DELETE("/:id", teacherController.DeleteTeacher)
			}
		}

		studyPlans := authenticated.Group("/study-plans")
		{
			studyPlans.GET("", studyPlanController.GetAllStudyPlans)
			studyPlans.GET("/:id", studyPlanController.GetStudyPlanByID)

			// Admin gating is also enforced in the service layer.
			studyPlansAdminProtected := studyPlans.Group("")
			studyPlansAdminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				studyPlansAdminProtected.POST("", studyPlanController.CreateStudyPlan)
				studyPlansAdminProtected.PATCH("/:id", studyPlanController.UpdateStudyPlan)
				studyPlansAdminProtected.POST("/:id/publish", studyPlanController.PublishStudyPlan)
				studyPlansAdminProtected.POST("/:id/archive", studyPlanController.ArchiveStudyPlan)
				studyPlansAdminProtected.DELETE("/:id", studyPlanController.DeleteStudyPlan)
			}
		}
	}
}
