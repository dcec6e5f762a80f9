package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
)

func TestFilterFromRequest(t *testing.T) {
	filter, page := FilterFromRequest(dto.AdSearchRequest{
		City:     " Izmir ",
		MinPrice: "100",
		MaxPrice: "abc",
		MinSize:  "-5",
		MaxSize:  "Infinity",
		Type:     "1",
		Page:     "3",
	})

	assert.Equal(t, "Izmir", filter.City)
	assert.Empty(t, filter.Country)
	assert.Equal(t, 100.0, filter.MinPrice)
	assert.Zero(t, filter.MaxPrice)
	assert.Zero(t, filter.MinSize)
	assert.Zero(t, filter.MaxSize)
	require.NotNil(t, filter.Type)
	assert.Equal(t, models.AdTypeRenting, *filter.Type)
	assert.Equal(t, 3, page)

	filter, page = FilterFromRequest(dto.AdSearchRequest{Type: "7", Page: "zero"})
	assert.Nil(t, filter.Type)
	assert.Equal(t, 1, page)

	filter, _ = FilterFromRequest(dto.AdSearchRequest{MinPrice: "NaN"})
	assert.Zero(t, filter.MinPrice)
}

func TestSearchService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	env.seedAd(t, seller.ID, "Izmir", 50, 20, models.AdTypeSelling)
	a := env.seedAd(t, seller.ID, "Izmir", 100, 40, models.AdTypeSelling)
	b := env.seedAd(t, seller.ID, "Izmir", 150, 60, models.AdTypeRenting)
	c := env.seedAd(t, seller.ID, "Izmir", 200, 80, models.AdTypeSelling)
	env.seedAd(t, seller.ID, "Ankara", 120, 50, models.AdTypeSelling)

	filter := models.AdFilter{City: "Izmir", MinPrice: 100, MaxPrice: 200}

	first, err := env.search.Search(ctx, filter, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.TotalAds)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 2, first.PageSize)
	require.Len(t, first.Ads, 2)
	assert.Equal(t, c.ID, first.Ads[0].ID)
	assert.Equal(t, b.ID, first.Ads[1].ID)
	assert.Equal(t, []string{c.ID.String() + "/front.jpg"}, first.Ads[0].PicturePaths)
	assert.Equal(t, []string{"/ads-pictures/" + c.ID.String() + "/front.jpg"}, first.Ads[0].PictureURLs)

	second, err := env.search.Search(ctx, filter, 2)
	require.NoError(t, err)
	require.Len(t, second.Ads, 1)
	assert.Equal(t, a.ID, second.Ads[0].ID)

	beyond, err := env.search.Search(ctx, filter, 9)
	require.NoError(t, err)
	assert.Empty(t, beyond.Ads)
	assert.NotNil(t, beyond.Ads)
	assert.Equal(t, int64(3), beyond.TotalAds)

	renting := models.AdTypeRenting
	typed, err := env.search.Search(ctx, models.AdFilter{Type: &renting}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), typed.TotalAds)
	assert.Equal(t, 1, typed.CurrentPage)
}

func TestSearchService_SearchPropagatesStoreErrors(t *testing.T) {
	env := newTestEnv(t)
	env.db.failOn("ads.CountMatching", errors.New("timeout"))

	_, err := env.search.Search(context.Background(), models.AdFilter{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error counting ads")
}

func TestSearchService_BoundsWithoutAds(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.search.Bounds(context.Background())
	require.NoError(t, err)
	assert.False(t, got.HasData)
	assert.Nil(t, got.MinPrice)
	assert.Nil(t, got.MaxPrice)
	assert.Nil(t, got.MinSize)
	assert.Nil(t, got.MaxSize)
}

func TestSearchService_BoundsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	env.seedAd(t, seller.ID, "Izmir", 100, 40, models.AdTypeSelling)
	env.seedAd(t, seller.ID, "Izmir", 300, 20, models.AdTypeSelling)

	got, err := env.search.Bounds(ctx)
	require.NoError(t, err)
	assert.True(t, got.HasData)
	assert.Equal(t, 100.0, *got.MinPrice)
	assert.Equal(t, 300.0, *got.MaxPrice)
	assert.Equal(t, 20.0, *got.MinSize)
	assert.Equal(t, 40.0, *got.MaxSize)
	assert.True(t, env.cache.cached(SearchParamsCacheKey))

	// Served from cache even when the store would now fail.
	env.db.failOn("ads.Bounds", errors.New("down"))
	again, err := env.search.Bounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, env.cache.hits)
}

func TestSearchService_BoundsCacheErrorFallsBack(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	env.seedAd(t, seller.ID, "Izmir", 100, 40, models.AdTypeSelling)
	env.cache.getErr = errors.New("connection refused")

	got, err := env.search.Bounds(context.Background())
	require.NoError(t, err)
	assert.True(t, got.HasData)
	assert.Equal(t, 100.0, *got.MinPrice)
}

func TestSearchService_BoundsFollowAdChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	ad := env.seedAd(t, seller.ID, "Izmir", 100, 40, models.AdTypeSelling)

	before, err := env.search.Bounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *before.MaxPrice)

	req := validAdRequest()
	req.Price = 900
	_, err = env.ads.Create(ctx, seller.ID, req, nil)
	require.NoError(t, err)

	after, err := env.search.Bounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900.0, *after.MaxPrice)

	require.NoError(t, env.ads.Delete(ctx, seller.ID, ad.ID))
	final, err := env.search.Bounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900.0, *final.MinPrice)
}
