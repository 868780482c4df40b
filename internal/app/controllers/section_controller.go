package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/app/services"
	"github.com/lmoreno/schooldesk/internal/middleware"
	"github.com/lmoreno/schooldesk/internal/pkg/helpers"
)

// SectionController handles section lifecycle and enrollment operations
type SectionController struct {
	sectionService    *services.SectionService
	enrollmentService *services.EnrollmentService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService *services.SectionService, enrollmentService *services.EnrollmentService) *SectionController {
	return &SectionController{
		sectionService:    sectionService,
		enrollmentService: enrollmentService,
	}
}

// CreateSection handles section creation
// @Summary Create a new section
// @Description Creates a section with a server-generated id. The group letter is case-insensitive.
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section information"
// @Success 201 {object} dto.APIResponse{data=dto.SectionResponse} "Section created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Identifier space exhausted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	section, err := c.sectionService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      section,
		Timestamp: time.Now(),
	})
}

// GetSectionByID retrieves a section with its enrolled count
// @Summary Get section by ID
// @Description Retrieves a section with its recomputed enrolled count and remaining slots
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID" example(SEC-000123)
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse} "Section retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id} [get]
func (c *SectionController) GetSectionByID(ctx *gin.Context) {
	section, err := c.sectionService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromSectionWithCount(section),
		Timestamp: time.Now(),
	})
}

// ListSections retrieves a page of sections
// @Summary List sections
// @Description Retrieves a paginated list of sections with enrolled counts
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Sections retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections [get]
func (c *SectionController) ListSections(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	sections, total, err := c.sectionService.List(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		items = append(items, dto.FromSectionWithCount(section))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// UpdateSection applies a partial patch to a section
// @Summary Update a section
// @Description Applies a partial patch. Fields the caller's role may not touch are silently dropped.
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID" example(SEC-000123)
// @Param request body dto.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Section} "Section updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or empty patch"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id} [patch]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	var req dto.UpdateSectionRequest
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

	section, err := c.sectionService.Update(ctx, ctx.Param("id"), &req, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      section,
		Timestamp: time.Now(),
	})
}

// DeleteSection removes a section
// @Summary Delete a section
// @Description Removes a section. Enrolled students keep their section reference until reassigned.
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID" example(SEC-000123)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Section deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.sectionService.Delete(ctx, ctx.Param("id"), role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Section deleted successfully"},
		Timestamp: time.Now(),
	})
}

// EnrollStudents assigns a batch of students to a section
// @Summary Enroll students into a section
// @Description Enrolls a batch of students. The whole batch must fit in the remaining slots or nothing is committed.
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID" example(SEC-000123)
// @Param request body dto.EnrollStudentsRequest true "Students to enroll"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Students enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Section or student not found"
// @Failure 409 {object} dto.ErrorResponse "Section capacity exceeded"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id}/students [post]
func (c *SectionController) EnrollStudents(ctx *gin.Context) {
	var req dto.EnrollStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.enrollmentService.Enroll(ctx, ctx.Param("id"), req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.EnrollmentResponse{
			SectionID:     result.SectionID,
			EnrolledCount: result.EnrolledCount,
			SlotsLeft:     result.SlotsLeft,
			Roster:        result.Roster,
		},
		Timestamp: time.Now(),
	})
}
