// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
)

// Authenticator covers registration and login
type Authenticator interface {
	Register(ctx context.Context, req dto.RegisterRequest, image *filestorage.StagedFile) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// AuthController handles authentication related operations
type AuthController struct {
	authService Authenticator
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator, storage filestorage.FileStorage, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		storage:     storage,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account with a profile image. The role is 0 (BUYER), 1 (SELLER) or 2 (ADMINISTRATOR).
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param role formData int true "Role"
// @Param image formData file true "Profile image"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid registration data or email already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	c.logger.Debug().Msg("Register endpoint called")

	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.RespondBindingError(ctx, err)
		return
	}

	image, err := stageOptionalFile(ctx, c.storage, "image")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /user/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Login successful", resp)
}
