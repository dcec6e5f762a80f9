package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
)

// UserService is the part of services.UserService used by the controller
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	SearchByEmail(ctx context.Context, fragment string) ([]dto.UserResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateUserRequest, image *filestorage.StagedFile) (*dto.UserResponse, error)
	DeleteByID(ctx context.Context, actorID, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, actorID uuid.UUID, email string) error
	Promote(ctx context.Context, actorID, id uuid.UUID) (*dto.UserResponse, error)
	Demote(ctx context.Context, actorID, id uuid.UUID) (*dto.UserResponse, error)
}

// UserController handles user-related operations
type UserController struct {
	userService UserService
	storage     filestorage.FileStorage
}

// NewUserController creates a new UserController
func NewUserController(userService UserService, storage filestorage.FileStorage) *UserController {
	return &UserController{
		userService: userService,
		storage:     storage,
	}
}

// emailParam reads email from the query string, falling back to a JSON body.
func emailParam(ctx *gin.Context, key string) string {
	if v := strings.TrimSpace(ctx.Query(key)); v != "" {
		return v
	}
	var body dto.EmailLookupRequest
	if err := ctx.ShouldBindJSON(&body); err == nil {
		return strings.TrimSpace(body.Email)
	}
	return ""
}

// GetUsers lists every user
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /user [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Users retrieved successfully", users)
}

// GetUserByID retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "User retrieved successfully", user)
}

// GetUserByEmail retrieves a user by exact email
// @Summary Get user by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "email is required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /getUserByEmail [get]
func (c *UserController) GetUserByEmail(ctx *gin.Context) {
	user, err := c.userService.GetByEmail(ctx.Request.Context(), emailParam(ctx, "email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "User retrieved successfully", user)
}

// SearchUsersByEmail finds users by email fragment
// @Summary Search users by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param wantedEmail query string true "Case-insensitive email fragment"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "wantedEmail is required"
// @Router /searchUsersByEmail [get]
func (c *UserController) SearchUsersByEmail(ctx *gin.Context) {
	users, err := c.userService.SearchByEmail(ctx.Request.Context(), ctx.Query("wantedEmail"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Users retrieved successfully", users)
}

// UpdateUser edits a profile
// @Summary Update a user profile
// @Description Self or administrator. The role cannot be changed here.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Param firstName formData string false "First name"
// @Param lastName formData string false "Last name"
// @Param email formData string false "Email"
// @Param password formData string false "Password"
// @Param image formData file false "New profile image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User updated successfully"
// @Failure 400 {object} dto.ErrorResponse "No updates provided or email already in use"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	image, err := stageOptionalFile(ctx, c.storage, "image")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.Update(ctx.Request.Context(), actorID, id, req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "User updated successfully", user)
}

// DeleteUserByID removes a user and everything they own
// @Summary Delete a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "User deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user/{id} [delete]
func (c *UserController) DeleteUserByID(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	if err := c.userService.DeleteByID(ctx.Request.Context(), actorID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "User deleted successfully", nil)
}

// DeleteUserByEmail removes the user registered with an email
// @Summary Delete a user by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email"
// @Success 200 {object} dto.APIResponse "User deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user [delete]
func (c *UserController) DeleteUserByEmail(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteByEmail(ctx.Request.Context(), actorID, emailParam(ctx, "email")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "User deleted successfully", nil)
}

// PromoteUser moves a user one role up
// @Summary Promote a user
// @Description Administrator only. BUYER becomes SELLER, SELLER becomes ADMINISTRATOR.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User promoted successfully"
// @Failure 400 {object} dto.ErrorResponse "User is already an administrator"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found or role out of range"
// @Router /promoteUser/{id} [patch]
func (c *UserController) PromoteUser(ctx *gin.Context) {
	c.changeRole(ctx, c.userService.Promote, "User promoted successfully")
}

// DemoteUser moves a user one role down
// @Summary Demote a user
// @Description Administrator only. A seller demoted to buyer loses all ads.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User demoted successfully"
// @Failure 400 {object} dto.ErrorResponse "User is already a buyer"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found or role out of range"
// @Router /demoteUser/{id} [patch]
func (c *UserController) DemoteUser(ctx *gin.Context) {
	c.changeRole(ctx, c.userService.Demote, "User demoted successfully")
}

func (c *UserController) changeRole(
	ctx *gin.Context,
	change func(context.Context, uuid.UUID, uuid.UUID) (*dto.UserResponse, error),
	message string,
) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	user, err := change(ctx.Request.Context(), actorID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, message, user)
}
