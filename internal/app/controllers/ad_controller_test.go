package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/middleware"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAdService struct {
	ads       map[uuid.UUID]dto.AdResponse
	created   *dto.CreateAdRequest
	pictures  []filestorage.StagedFile
	updated   *dto.UpdateAdRequest
	deleteErr error
}

func (s *stubAdService) Create(_ context.Context, actorID uuid.UUID, req dto.CreateAdRequest, pictures []filestorage.StagedFile) (*dto.AdResponse, error) {
	s.created = &req
	s.pictures = pictures
	return &dto.AdResponse{ID: uuid.New(), Title: req.Title, UserID: actorID}, nil
}

func (s *stubAdService) GetByID(_ context.Context, id uuid.UUID) (*dto.AdResponse, error) {
	ad, ok := s.ads[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(apperrors.ErrAdNotFound, "Ad not found")
	}
	return &ad, nil
}

func (s *stubAdService) List(context.Context) ([]dto.AdResponse, error) {
	out := make([]dto.AdResponse, 0, len(s.ads))
	for _, ad := range s.ads {
		out = append(out, ad)
	}
	return out, nil
}

func (s *stubAdService) ListByUser(context.Context, uuid.UUID) ([]dto.AdResponse, error) {
	return []dto.AdResponse{}, nil
}

func (s *stubAdService) Update(_ context.Context, _ uuid.UUID, id uuid.UUID, req dto.UpdateAdRequest) (*dto.AdResponse, error) {
	s.updated = &req
	title, ok := req.Title.Get()
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrNoUpdates, "No updates provided")
	}
	return &dto.AdResponse{ID: id, Title: title, PicturePaths: []string{}}, nil
}

func (s *stubAdService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.deleteErr
}

type stubSearchService struct {
	filter models.AdFilter
	page   int
	bounds dto.SearchParamsResponse
}

func (s *stubSearchService) Search(_ context.Context, filter models.AdFilter, page int) (*dto.AdSearchResponse, error) {
	s.filter, s.page = filter, page
	return &dto.AdSearchResponse{Ads: []dto.AdResponse{}, CurrentPage: page, PageSize: 10}, nil
}

func (s *stubSearchService) Bounds(context.Context) (*dto.SearchParamsResponse, error) {
	return &s.bounds, nil
}

type adFixture struct {
	router  *gin.Engine
	ads     *stubAdService
	search  *stubSearchService
	storage *filestorage.LocalStorage
	caller  uuid.UUID
}

func newAdFixture(t *testing.T) *adFixture {
	t.Helper()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "tmp", "http://localhost:3000")
	require.NoError(t, err)

	f := &adFixture{
		ads:     &stubAdService{ads: map[uuid.UUID]dto.AdResponse{}},
		search:  &stubSearchService{},
		storage: storage,
		caller:  uuid.New(),
	}
	ctrl := NewAdController(f.ads, f.search, storage)

	authenticated := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set(middleware.ContextUserID, f.caller)
		}
		c.Next()
	}

	r := gin.New()
	r.GET("/ads", ctrl.GetAds)
	r.GET("/ads/:id", ctrl.GetAdByID)
	r.GET("/adsBySearch", ctrl.SearchAds)
	r.GET("/adsSearchParams", ctrl.GetSearchParams)
	r.POST("/ads", authenticated, ctrl.CreateAd)
	r.PATCH("/ads/:id", authenticated, ctrl.UpdateAd)
	r.DELETE("/ads/:id", authenticated, ctrl.DeleteAd)
	f.router = r
	return f
}

func (f *adFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAdController_GetAdByID(t *testing.T) {
	f := newAdFixture(t)
	id := uuid.New()
	f.ads.ads[id] = dto.AdResponse{ID: id, Title: "Loft", PicturePaths: []string{}}

	first := f.do(httptest.NewRequest(http.MethodGet, "/ads/"+id.String(), nil))
	second := f.do(httptest.NewRequest(http.MethodGet, "/ads/"+id.String(), nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	env := decode(t, first)
	assert.True(t, env.Success)
	assert.Equal(t, "Ad retrieved successfully", env.Message)
	var ad dto.AdResponse
	require.NoError(t, json.Unmarshal(env.Data, &ad))
	assert.Equal(t, "Loft", ad.Title)

	w := f.do(httptest.NewRequest(http.MethodGet, "/ads/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid ad ID", env.Message)
	assert.Equal(t, dto.ErrorCodeInvalidID, env.Error.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/ads/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ad not found", decode(t, w).Message)
}

func TestAdController_CreateAd(t *testing.T) {
	f := newAdFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range map[string]string{"title": "Loft", "city": "Izmir", "country": "Turkey", "price": "1200", "size": "80", "type": "1"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range []string{"a.jpg", "b.png"} {
		part, err := mw.CreateFormFile("pictures", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("img"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/ads", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	anonymous := f.do(newRequest())
	require.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, "Access denied. No token provided.", decode(t, anonymous).Message)

	req := newRequest()
	req.Header.Set("Authorization", "Bearer test")
	w := f.do(req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ad created successfully", decode(t, w).Message)

	require.NotNil(t, f.ads.created)
	assert.Equal(t, "Izmir", f.ads.created.City)
	assert.Equal(t, 1200.0, f.ads.created.Price)
	require.NotNil(t, f.ads.created.Type)
	assert.Equal(t, 1, *f.ads.created.Type)
	require.Len(t, f.ads.pictures, 2)
	assert.Equal(t, "a.jpg", f.ads.pictures[0].OriginalName)
	assert.Equal(t, "b.png", f.ads.pictures[1].OriginalName)
}

func TestAdController_UpdateAndDeleteErrors(t *testing.T) {
	f := newAdFixture(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/ads/"+id.String(), bytes.NewBufferString(`{"price": 0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")
	w := f.do(req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "No updates provided", env.Message)
	assert.Equal(t, dto.ErrorCodeNoUpdates, env.Error.Code)

	f.ads.deleteErr = apperrors.NewForbiddenError("You don't have permission to delete this ad")
	req = httptest.NewRequest(http.MethodDelete, "/ads/"+id.String(), nil)
	req.Header.Set("Authorization", "Bearer test")
	w = f.do(req)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You don't have permission to delete this ad", decode(t, w).Message)

	f.ads.deleteErr = nil
	req = httptest.NewRequest(http.MethodDelete, "/ads/"+id.String(), nil)
	req.Header.Set("Authorization", "Bearer test")
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ad deleted successfully", decode(t, w).Message)
}

func TestAdController_UpdateSkipsMistypedFields(t *testing.T) {
	f := newAdFixture(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/ads/"+id.String(), bytes.NewBufferString(`{"title": "x", "price": "abc"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")
	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.Equal(t, "Ad updated successfully", env.Message)
	var ad dto.AdResponse
	require.NoError(t, json.Unmarshal(env.Data, &ad))
	assert.Equal(t, "x", ad.Title)

	require.NotNil(t, f.ads.updated)
	_, priceSet := f.ads.updated.Price.Get()
	assert.False(t, priceSet)
}

func TestAdController_SearchAds(t *testing.T) {
	f := newAdFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/adsBySearch?city=Izmir&minPrice=abc&maxPrice=500&type=0&page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Izmir", f.search.filter.City)
	assert.Zero(t, f.search.filter.MinPrice)
	assert.Equal(t, 500.0, f.search.filter.MaxPrice)
	require.NotNil(t, f.search.filter.Type)
	assert.Equal(t, models.AdTypeSelling, *f.search.filter.Type)
	assert.Equal(t, 2, f.search.page)
}

func TestAdController_GetSearchParams(t *testing.T) {
	f := newAdFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/adsSearchParams", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.JSONEq(t, `{"minPrice":null,"maxPrice":null,"minSize":null,"maxSize":null,"hasData":false}`, string(env.Data))
}
