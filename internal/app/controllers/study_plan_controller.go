package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/app/services"
	"github.com/lmoreno/schooldesk/internal/middleware"
)

// StudyPlanController handles study plan lifecycle operations
type StudyPlanController struct {
	studyPlanService *services.StudyPlanService
}

// NewStudyPlanController creates a new StudyPlanController
func NewStudyPlanController(studyPlanService *services.StudyPlanService) *StudyPlanController {
	return &StudyPlanController{
		studyPlanService: studyPlanService,
	}
}

// CreateStudyPlan registers a new study plan
// @Summary Create a new study plan
// @Description Creates a study plan in DRAFT state at version 1
// @Tags study-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudyPlanRequest true "Study plan information"
// @Success 201 {object} dto.APIResponse{data=models.StudyPlan} "Study plan created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans [post]
func (c *StudyPlanController) CreateStudyPlan(ctx *gin.Context) {
	var req dto.CreateStudyPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	plan, err := c.studyPlanService.Create(ctx, &req, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      plan,
		Timestamp: time.Now(),
	})
}

// GetStudyPlanByID retrieves a study plan
// @Summary Get study plan by ID
// @Description Retrieves a study plan with its status and version
// @Tags study-plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study plan ID" example(PLN-000003)
// @Success 200 {object} dto.APIResponse{data=models.StudyPlan} "Study plan retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Study plan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans/{id} [get]
func (c *StudyPlanController) GetStudyPlanByID(ctx *gin.Context) {
	plan, err := c.studyPlanService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      plan,
		Timestamp: time.Now(),
	})
}

// GetAllStudyPlans retrieves all study plans
// @Summary List study plans
// @Description Retrieves all study plans
// @Tags study-plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.StudyPlan} "Study plans retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans [get]
func (c *StudyPlanController) GetAllStudyPlans(ctx *gin.Context) {
	plans, err := c.studyPlanService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      plans,
		Timestamp: time.Now(),
	})
}

// UpdateStudyPlan applies a version-guarded patch
// @Summary Update a study plan
// @Description Applies a partial patch guarded by the version carried in the request body
// @Tags study-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study plan ID" example(PLN-000003)
// @Param request body dto.UpdateStudyPlanRequest true "Fields to update plus the expected version"
// @Success 200 {object} dto.APIResponse{data=models.StudyPlan} "Study plan updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or empty patch"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Study plan not found"
// @Failure 409 {object} dto.ErrorResponse "Version conflict or plan not editable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans/{id} [patch]
func (c *StudyPlanController) UpdateStudyPlan(ctx *gin.Context) {
	var req dto.UpdateStudyPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	plan, err := c.studyPlanService.Update(ctx, ctx.Param("id"), &req, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      plan,
		Timestamp: time.Now(),
	})
}

// PublishStudyPlan moves a draft plan to active
// @Summary Publish a study plan
// @Description Moves a DRAFT study plan to ACTIVE
// @Tags study-plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study plan ID" example(PLN-000003)
// @Success 200 {object} dto.APIResponse{data=models.StudyPlan} "Study plan published successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Study plan not found"
// @Failure 409 {object} dto.ErrorResponse "Plan is not in DRAFT state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans/{id}/publish [post]
func (c *StudyPlanController) PublishStudyPlan(ctx *gin.Context) {
	c.transition(ctx, c.studyPlanService.Publish)
}

// ArchiveStudyPlan moves an active plan to archived
// @Summary Archive a study plan
// @Description Moves an ACTIVE study plan to ARCHIVED. Archived plans are read-only.
// @Tags study-plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study plan ID" example(PLN-000003)
// @Success 200 {object} dto.APIResponse{data=models.StudyPlan} "Study plan archived successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Study plan not found"
// @Failure 409 {object} dto.ErrorResponse "Plan is not in ACTIVE state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans/{id}/archive [post]
func (c *StudyPlanController) ArchiveStudyPlan(ctx *gin.Context) {
	c.transition(ctx, c.studyPlanService.Archive)
}

func (c *StudyPlanController) transition(ctx *gin.Context, op func(context.Context, string, models.RoleType) (*models.StudyPlan, error)) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	plan, err := op(ctx, ctx.Param("id"), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      plan,
		Timestamp: time.Now(),
	})
}

// DeleteStudyPlan removes a study plan
// @Summary Delete a study plan
// @Description Removes a study plan record
// @Tags study-plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study plan ID" example(PLN-000003)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Study plan deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Study plan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /study-plans/{id} [delete]
func (c *StudyPlanController) DeleteStudyPlan(ctx *gin.Context) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.studyPlanService.Delete(ctx, ctx.Param("id"), role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Study plan deleted successfully"},
		Timestamp: time.Now(),
	})
}
