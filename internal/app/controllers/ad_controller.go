package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/app/services"
	"github.com/yigit/bazaar/internal/middleware"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
)

// AdService is the part of services.AdService used by the controller
type AdService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateAdRequest, pictures []filestorage.StagedFile) (*dto.AdResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AdResponse, error)
	List(ctx context.Context) ([]dto.AdResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AdResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateAdRequest) (*dto.AdResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// SearchService is the part of services.SearchService used by the controller
type SearchService interface {
	Search(ctx context.Context, filter models.AdFilter, page int) (*dto.AdSearchResponse, error)
	Bounds(ctx context.Context) (*dto.SearchParamsResponse, error)
}

// AdController handles marketplace ads and ad search
type AdController struct {
	adService     AdService
	searchService SearchService
	storage       filestorage.FileStorage
}

// NewAdController creates a new AdController
func NewAdController(adService AdService, searchService SearchService, storage filestorage.FileStorage) *AdController {
	return &AdController{
		adService:     adService,
		searchService: searchService,
		storage:       storage,
	}
}

// CreateAd creates an ad with its pictures
// @Summary Create an ad
// @Description Creates a listing owned by the caller. Only sellers and administrators may create ads.
// @Tags ads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param city formData string true "City"
// @Param country formData string true "Country"
// @Param price formData number true "Price (> 0)"
// @Param size formData number true "Size (> 0)"
// @Param type formData int true "0 = SELLING, 1 = RENTING"
// @Param pictures formData file false "Pictures (repeatable)"
// @Success 201 {object} dto.APIResponse{data=dto.AdResponse} "Ad created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ad data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - buyers cannot create ads"
// @Failure 404 {object} dto.ErrorResponse "Caller no longer exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ads [post]
func (c *AdController) CreateAd(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAdRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	pictures, err := stageFiles(ctx, c.storage, "pictures", "pictures[]")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ad, err := c.adService.Create(ctx.Request.Context(), actorID, req, pictures)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Ad created successfully", ad)
}

// GetAds lists every ad
// @Summary List ads
// @Tags ads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.AdResponse} "Ads retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ads [get]
func (c *AdController) GetAds(ctx *gin.Context) {
	ads, err := c.adService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Ads retrieved successfully", ads)
}

// GetAdByID retrieves one ad
// @Summary Get ad details
// @Tags ads
// @Produce json
// @Param id path string true "Ad ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.AdResponse} "Ad retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ad ID"
// @Failure 404 {object} dto.ErrorResponse "Ad not found"
// @Router /ads/{id} [get]
func (c *AdController) GetAdByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "ad ID")
	if !ok {
		return
	}

	ad, err := c.adService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Ad retrieved successfully", ad)
}

// GetAdsByUser lists the ads of one user
// @Summary List ads of a user
// @Tags ads
// @Produce json
// @Param userId path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.AdResponse} "Ads retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /adsByUser/{userId} [get]
func (c *AdController) GetAdsByUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId", "user ID")
	if !ok {
		return
	}

	ads, err := c.adService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Ads retrieved successfully", ads)
}

// UpdateAd applies a partial update
// @Summary Update an ad
// @Description Applies the supplied fields that are valid. Owner or administrator only.
// @Tags ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad ID" Format(uuid)
// @Param request body dto.UpdateAdRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.AdResponse} "Ad updated successfully"
// @Failure 400 {object} dto.ErrorResponse "No updates provided"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Ad not found"
// @Router /ads/{id} [patch]
func (c *AdController) UpdateAd(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "ad ID")
	if !ok {
		return
	}

	var req dto.UpdateAdRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	ad, err := c.adService.Update(ctx.Request.Context(), actorID, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Ad updated successfully", ad)
}

// DeleteAd removes an ad and its pictures
// @Summary Delete an ad
// @Tags ads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Ad deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the owner"
// @Failure 404 {object} dto.ErrorResponse "Ad not found"
// @Router /ads/{id} [delete]
func (c *AdController) DeleteAd(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "ad ID")
	if !ok {
		return
	}

	if err := c.adService.Delete(ctx.Request.Context(), actorID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Ad deleted successfully", nil)
}

// SearchAds filters and paginates ads
// @Summary Search ads
// @Description Every filter is optional. Unparseable or non-positive numbers are ignored.
// @Tags ads
// @Produce json
// @Param city query string false "City"
// @Param country query string false "Country"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minSize query number false "Minimum size"
// @Param maxSize query number false "Maximum size"
// @Param type query int false "0 = SELLING, 1 = RENTING"
// @Param page query int false "1-based page" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.AdSearchResponse} "Search completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /adsBySearch [get]
func (c *AdController) SearchAds(ctx *gin.Context) {
	var req dto.AdSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	filter, page := services.FilterFromRequest(req)
	result, err := c.searchService.Search(ctx.Request.Context(), filter, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Search completed", result)
}

// GetSearchParams returns the global price and size bounds
// @Summary Search bounds
// @Description Bounds are null and hasData is false when no ads exist.
// @Tags ads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SearchParamsResponse} "Search parameters retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /adsSearchParams [get]
func (c *AdController) GetSearchParams(ctx *gin.Context) {
	params, err := c.searchService.Bounds(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, "Search parameters retrieved", params)
}
