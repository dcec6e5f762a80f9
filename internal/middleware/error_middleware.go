package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

// HandleAPIError converts a service error into the JSON error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)

	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		if field, ok := ce.Details["field"].(string); ok {
			detail.WithField(field)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	msg := func(fallback string) string {
		return apperrors.Message(err, fallback)
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidID):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidID, msg("Invalid identifier"))
	case errors.Is(err, apperrors.ErrNoUpdates):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeNoUpdates, msg("No updates provided"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, msg("Email already in use"))
	case apperrors.IsValidation(err):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, msg("Validation failed"))
	case errors.Is(err, filestorage.ErrInvalidPath), errors.Is(err, filestorage.ErrNoFile):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error())

	case errors.Is(err, apperrors.ErrRoleOutOfRange):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeRoleOutOfRange, msg("Role out of range"))
	case apperrors.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, msg("Resource not found"))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, msg("Permission denied"))

	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, msgInvalidToken)
	case errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, msgNoToken)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, msgInvalidToken)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, msg("Invalid email or password"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}
