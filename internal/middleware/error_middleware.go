package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lmoreno/schooldesk/internal/app/models/dto"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call it
// for any error their service returns instead of mapping statuses themselves.
func HandleAPIError(c *gin.Context, err error) {
	// Typed errors carry payload details the flat sentinels cannot.
	var capacityErr *apperrors.CapacityError
	if errors.As(err, &capacityErr) {
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, "Section capacity exceeded").
				WithDetails(map[string]interface{}{"slotsLeft": capacityErr.SlotsLeft}),
		})
		return
	}

	var partialErr *apperrors.PartialEnrollmentError
	if errors.As(err, &partialErr) {
		logger.Error().Err(partialErr.Err).
			Strs("committed", partialErr.Committed).
			Msg("Enrollment batch committed partially")
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Enrollment failed part-way through the batch").
				WithDetails(map[string]interface{}{"committed": partialErr.Committed}),
		})
		return
	}

	message := func(fallback string) string {
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && customErr.Message != "" {
			return customErr.Message
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrSectionNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Section not found")),
		})
	case errors.Is(err, apperrors.ErrStudentNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Student not found")),
		})
	case errors.Is(err, apperrors.ErrTeacherNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Teacher not found")),
		})
	case errors.Is(err, apperrors.ErrStudyPlanNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Study plan not found")),
		})
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found")),
		})

	case errors.Is(err, apperrors.ErrInvalidGroup):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.ErrInvalidGroup.Error()).
				WithField("group"),
		})
	case errors.Is(err, apperrors.ErrNoFieldsProvided):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No updatable fields provided"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err.Error())),
		})

	case errors.Is(err, apperrors.ErrCapacityExceeded):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, "Section capacity exceeded"),
		})
	case errors.Is(err, apperrors.ErrStaleStudyPlan):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Study plan was modified by someone else, reload and retry"),
		})
	case errors.Is(err, apperrors.ErrInvalidStatusChange):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Invalid study plan status change"),
		})
	case errors.Is(err, apperrors.ErrStudyPlanNotEditable):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Archived study plans cannot be edited"),
		})
	case errors.Is(err, apperrors.ErrIDSpaceExhausted):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Could not allocate a unique identifier, retry the request"),
		})
	case errors.Is(err, apperrors.ErrSectionIDTaken),
		errors.Is(err, apperrors.ErrStudentIDTaken),
		errors.Is(err, apperrors.ErrTeacherIDTaken),
		errors.Is(err, apperrors.ErrStudyPlanIDTaken),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message("Resource already exists")),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, message("Permission denied")),
		})

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Account is disabled"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token revoked"),
		})

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
