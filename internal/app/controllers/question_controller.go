package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
)

// QuestionService is the part of services.QuestionService used by the controller
type QuestionService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.QuestionResponse, error)
	List(ctx context.Context) ([]dto.QuestionResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.QuestionResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// QuestionController handles forum questions
type QuestionController struct {
	questionService QuestionService
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// CreateQuestion asks a new question
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse} "Question created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid question data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	q, err := c.questionService.Create(ctx.Request.Context(), actorID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, "Question created successfully", q)
}

// GetQuestions lists all questions
// @Summary List questions
// @Tags questions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse} "Questions retrieved successfully"
// @Router /questions [get]
func (c *QuestionController) GetQuestions(ctx *gin.Context) {
	qs, err := c.questionService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Questions retrieved successfully", qs)
}

// GetQuestionByID returns a question with its answers
// @Summary Get question details
// @Tags questions
// @Produce json
// @Param id path string true "Question ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse} "Question retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestionByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "question ID")
	if !ok {
		return
	}

	q, err := c.questionService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Question retrieved successfully", q)
}

// GetQuestionsByUser lists the questions of one user
// @Summary List questions of a user
// @Tags questions
// @Produce json
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse} "Questions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /questionsByUserId/{id} [get]
func (c *QuestionController) GetQuestionsByUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	qs, err := c.questionService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Questions retrieved successfully", qs)
}

// UpdateQuestion edits title and/or content
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID" Format(uuid)
// @Param request body dto.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse} "Question updated successfully"
// @Failure 400 {object} dto.ErrorResponse "No updates provided"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [patch]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "question ID")
	if !ok {
		return
	}

	var req dto.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	q, err := c.questionService.Update(ctx.Request.Context(), actorID, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Question updated successfully", q)
}

// DeleteQuestion removes a question and its answers
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Question deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "question ID")
	if !ok {
		return
	}

	if err := c.questionService.Delete(ctx.Request.Context(), actorID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Question deleted successfully", nil)
}
