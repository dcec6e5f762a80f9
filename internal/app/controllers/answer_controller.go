package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
)

// AnswerService is the part of services.AnswerService used by the controller
type AnswerService interface {
	Create(ctx context.Context, actorID uuid.UUID, questionID, content string) (*dto.AnswerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AnswerResponse, error)
	List(ctx context.Context) ([]dto.AnswerResponse, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]dto.AnswerResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AnswerResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateAnswerRequest) (*dto.AnswerResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// AnswerController handles answers to questions
type AnswerController struct {
	answerService AnswerService
}

// NewAnswerController creates a new AnswerController
func NewAnswerController(answerService AnswerService) *AnswerController {
	return &AnswerController{answerService: answerService}
}

// CreateAnswer posts an answer
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnswerRequest true "Answer"
// @Success 201 {object} dto.APIResponse{data=dto.AnswerResponse} "Answer created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid answer data"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /answers [post]
func (c *AnswerController) CreateAnswer(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnswerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	a, err := c.answerService.Create(ctx.Request.Context(), actorID, req.QuestionID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, "Answer created successfully", a)
}

// GetAnswers lists all answers
// @Summary List answers
// @Tags answers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.AnswerResponse} "Answers retrieved successfully"
// @Router /answers [get]
func (c *AnswerController) GetAnswers(ctx *gin.Context) {
	as, err := c.answerService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answers retrieved successfully", as)
}

// GetAnswerByID returns one answer
// @Summary Get answer details
// @Tags answers
// @Produce json
// @Param id path string true "Answer ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.AnswerResponse} "Answer retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /answers/{id} [get]
func (c *AnswerController) GetAnswerByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "answer ID")
	if !ok {
		return
	}

	a, err := c.answerService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answer retrieved successfully", a)
}

// GetAnswersByQuestion lists the answers to a question
// @Summary List answers of a question
// @Tags answers
// @Produce json
// @Param id path string true "Question ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.AnswerResponse} "Answers retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /answersByQuestion/{id} [get]
func (c *AnswerController) GetAnswersByQuestion(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "id", "question ID")
	if !ok {
		return
	}

	as, err := c.answerService.ListByQuestion(ctx.Request.Context(), questionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answers retrieved successfully", as)
}

// GetAnswersByUser lists the answers written by a user
// @Summary List answers of a user
// @Tags answers
// @Produce json
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.AnswerResponse} "Answers retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /answersByUserId/{id} [get]
func (c *AnswerController) GetAnswersByUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id", "user ID")
	if !ok {
		return
	}

	as, err := c.answerService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answers retrieved successfully", as)
}

// UpdateAnswer replaces the content of an answer
// @Summary Update an answer
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Answer ID" Format(uuid)
// @Param request body dto.UpdateAnswerRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.AnswerResponse} "Answer updated successfully"
// @Failure 400 {object} dto.ErrorResponse "content is required"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /answers/{id} [patch]
func (c *AnswerController) UpdateAnswer(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "answer ID")
	if !ok {
		return
	}

	var req dto.UpdateAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	a, err := c.answerService.Update(ctx.Request.Context(), actorID, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answer updated successfully", a)
}

// DeleteAnswer removes an answer
// @Summary Delete an answer
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Answer ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Answer deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /answers/{id} [delete]
func (c *AnswerController) DeleteAnswer(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "answer ID")
	if !ok {
		return
	}

	if err := c.answerService.Delete(ctx.Request.Context(), actorID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Answer deleted successfully", nil)
}
