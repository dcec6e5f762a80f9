package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

func intPtr(v int) *int { return &v }

func validAdRequest() dto.CreateAdRequest {
	return dto.CreateAdRequest{
		Title:   "Sea view flat",
		City:    "Izmir",
		Country: "Turkey",
		Price:   1200,
		Size:    75,
		Type:    intPtr(int(models.AdTypeRenting)),
	}
}

func TestAdService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.CreateAdRequest)
		wantMsg string
	}{
		{name: "missing title", mutate: func(r *dto.CreateAdRequest) { r.Title = "  " }, wantMsg: "title is required"},
		{name: "missing city", mutate: func(r *dto.CreateAdRequest) { r.City = "" }, wantMsg: "city is required"},
		{name: "missing country", mutate: func(r *dto.CreateAdRequest) { r.Country = "" }, wantMsg: "country is required"},
		{name: "zero price", mutate: func(r *dto.CreateAdRequest) { r.Price = 0 }, wantMsg: "price must be a positive number"},
		{name: "negative size", mutate: func(r *dto.CreateAdRequest) { r.Size = -3 }, wantMsg: "size must be a positive number"},
		{name: "missing type", mutate: func(r *dto.CreateAdRequest) { r.Type = nil }, wantMsg: "type is required"},
		{name: "unknown type", mutate: func(r *dto.CreateAdRequest) { r.Type = intPtr(4) }, wantMsg: "type must be 0 (SELLING) or 1 (RENTING)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			seller := env.seedUser(t, "seller@example.com", models.RoleSeller)

			req := validAdRequest()
			tt.mutate(&req)
			pictures := []filestorage.StagedFile{staged("a.jpg")}

			_, err := env.ads.Create(context.Background(), seller.ID, req, pictures)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tt.wantMsg, err.Error())

			assert.Zero(t, env.db.countAds())
			assert.Equal(t, 1, env.storage.discardCount(), "staged pictures are always consumed")
		})
	}
}

func TestAdService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	env.cache.entries[SearchParamsCacheKey] = []byte(`{"count":0}`)

	unnamed := filestorage.StagedFile{Path: "tmp/9f1c.JPG", Size: 3}
	pictures := []filestorage.StagedFile{staged("front.jpg"), staged("front.jpg"), unnamed}
	created, err := env.ads.Create(ctx, seller.ID, validAdRequest(), pictures)
	require.NoError(t, err)

	id := created.ID.String()
	assert.Equal(t, []string{
		id + "/front.jpg",
		id + "/2-front.jpg",
		id + "/picture-3.jpg",
	}, created.PicturePaths, "paths are relative to the ads folder")
	for _, p := range created.PicturePaths {
		assert.True(t, env.storage.has("ads-pictures/"+p), p)
	}
	assert.Equal(t, []string{
		"/ads-pictures/" + id + "/front.jpg",
		"/ads-pictures/" + id + "/2-front.jpg",
		"/ads-pictures/" + id + "/picture-3.jpg",
	}, created.PictureURLs)

	assert.Equal(t, "Sea view flat", created.Title)
	assert.Equal(t, seller.ID, created.UserID)
	assert.Equal(t, seller.ID, created.Owner.ID)
	assert.Equal(t, "First", created.Owner.FirstName)
	assert.Equal(t, models.AdTypeRenting, created.Type)
	assert.False(t, env.cache.cached(SearchParamsCacheKey), "creating an ad invalidates the bounds")

	first, err := env.ads.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := env.ads.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, created, first)
}

func TestAdService_CreateTrimsText(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)

	req := validAdRequest()
	req.City = "  Izmir "
	created, err := env.ads.Create(context.Background(), seller.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "Izmir", created.City)
	assert.Empty(t, created.PicturePaths)
	assert.NotNil(t, created.PicturePaths)
	assert.NotNil(t, created.PictureURLs)
}

func TestAdService_CreateForbiddenForBuyer(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.seedUser(t, "buyer@example.com", models.RoleBuyer)

	_, err := env.ads.Create(context.Background(), buyer.ID, validAdRequest(), []filestorage.StagedFile{staged("a.jpg")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "Only sellers and administrators can create ads", err.Error())
	assert.Zero(t, env.db.countAds())
	assert.Equal(t, 1, env.storage.discardCount())
}

func TestAdService_CreateUnknownActor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ads.Create(context.Background(), uuid.New(), validAdRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAdService_CreateRollsBackWhenPicturesFail(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	env.storage.moveErr = errors.New("disk full")

	_, err := env.ads.Create(context.Background(), seller.ID, validAdRequest(), []filestorage.StagedFile{staged("a.jpg")})
	require.Error(t, err)
	assert.Zero(t, env.db.countAds(), "the half-created ad is removed")
	assert.Empty(t, env.storage.folders)
}

func TestAdService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.RoleSeller)
	other := env.seedUser(t, "other@example.com", models.RoleSeller)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	ad := env.seedAd(t, owner.ID, "Izmir", 1000, 50, models.AdTypeSelling)

	t.Run("owner updates valid fields and invalid ones are skipped", func(t *testing.T) {
		got, err := env.ads.Update(ctx, owner.ID, ad.ID, dto.UpdateAdRequest{
			Price: patch.Set(1500.0),
			Size:  patch.Set(-1.0),
			City:  patch.Set("   "),
			Type:  patch.Set(9),
		})
		require.NoError(t, err)
		assert.Equal(t, 1500.0, got.Price)
		assert.Equal(t, 50.0, got.Size)
		assert.Equal(t, "Izmir", got.City)
		assert.Equal(t, models.AdTypeSelling, got.Type)
	})

	t.Run("nothing usable", func(t *testing.T) {
		_, err := env.ads.Update(ctx, owner.ID, ad.ID, dto.UpdateAdRequest{Price: patch.Set(0.0)})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNoUpdates)
		assert.Equal(t, "No updates provided", err.Error())
	})

	t.Run("another seller is forbidden", func(t *testing.T) {
		_, err := env.ads.Update(ctx, other.ID, ad.ID, dto.UpdateAdRequest{Title: patch.Set("Mine now")})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, "You don't have permission to update this ad", err.Error())
	})

	t.Run("administrator may edit any ad", func(t *testing.T) {
		got, err := env.ads.Update(ctx, admin.ID, ad.ID, dto.UpdateAdRequest{Title: patch.Set(" Moderated ")})
		require.NoError(t, err)
		assert.Equal(t, "Moderated", got.Title)
	})

	t.Run("unknown ad", func(t *testing.T) {
		_, err := env.ads.Update(ctx, owner.ID, uuid.New(), dto.UpdateAdRequest{Title: patch.Set("x")})
		assert.ErrorIs(t, err, apperrors.ErrAdNotFound)
	})
}

func TestAdService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.RoleSeller)
	other := env.seedUser(t, "other@example.com", models.RoleBuyer)
	ad := env.seedAd(t, owner.ID, "Izmir", 1000, 50, models.AdTypeSelling)
	folder := "ads-pictures/" + ad.ID.String()

	err := env.ads.Delete(ctx, other.ID, ad.ID)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, 1, env.db.countAds())

	env.cache.entries[SearchParamsCacheKey] = []byte(`{"count":1}`)
	require.NoError(t, env.ads.Delete(ctx, owner.ID, ad.ID))
	assert.Zero(t, env.db.countAds())
	assert.Empty(t, env.storage.filesUnder(folder))
	assert.False(t, env.cache.cached(SearchParamsCacheKey))

	_, err = env.ads.GetByID(ctx, ad.ID)
	assert.ErrorIs(t, err, apperrors.ErrAdNotFound)

	err = env.ads.Delete(ctx, owner.ID, ad.ID)
	assert.ErrorIs(t, err, apperrors.ErrAdNotFound)
}

func TestAdService_DeleteSurvivesFolderFailure(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", models.RoleSeller)
	ad := env.seedAd(t, owner.ID, "Izmir", 1000, 50, models.AdTypeSelling)
	env.storage.deleteErr = errors.New("permission denied")

	require.NoError(t, env.ads.Delete(context.Background(), owner.ID, ad.ID))
	assert.Zero(t, env.db.countAds())
}

func TestAdService_ListByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.RoleSeller)
	older := env.seedAd(t, owner.ID, "Izmir", 100, 10, models.AdTypeSelling)
	newer := env.seedAd(t, owner.ID, "Ankara", 200, 20, models.AdTypeRenting)

	ads, err := env.ads.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, newer.ID, ads[0].ID, "newest first")
	assert.Equal(t, older.ID, ads[1].ID)

	_, err = env.ads.ListByUser(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	all, err := env.ads.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
