package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/validation"
)

// parseIDParam reads a path identifier and writes a 400 when it is malformed
func parseIDParam(ctx *gin.Context, param, field string) (uuid.UUID, bool) {
	id, err := validation.ParseID(field, ctx.Param(param))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated caller or writes a 401
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError(apperrors.ErrTokenMissing, "Access denied. No token provided."))
		return uuid.Nil, false
	}
	return id, true
}

func respond(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(message, data))
}

// stageOptionalFile stages the single file sent under field. A request
// without that file (or without a multipart body) yields nil.
func stageOptionalFile(ctx *gin.Context, storage filestorage.FileStorage, field string) (*filestorage.StagedFile, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError("Invalid multipart payload")
	}
	staged, err := storage.Stage(header)
	if err != nil {
		return nil, err
	}
	return &staged, nil
}

// stageFiles stages every file sent under any of fields, in order.
func stageFiles(ctx *gin.Context, storage filestorage.FileStorage, fields ...string) ([]filestorage.StagedFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError("Invalid multipart payload")
	}

	var headers []*multipart.FileHeader
	for _, field := range fields {
		headers = append(headers, form.File[field]...)
	}

	staged := make([]filestorage.StagedFile, 0, len(headers))
	for _, h := range headers {
		f, err := storage.Stage(h)
		if err != nil {
			storage.Discard(staged...)
			return nil, err
		}
		staged = append(staged, f)
	}
	return staged, nil
}
