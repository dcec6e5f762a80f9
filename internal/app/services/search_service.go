package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/cache"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/helpers"
	"github.com/yigit/bazaar/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// SearchParamsCacheKey is where the global ad bounds are cached
const SearchParamsCacheKey = "ads:search-params"

// boundsCache wraps the optional cache store. Cache failures are logged and
// treated as misses.
type boundsCache struct {
	store  cache.Store
	ttl    time.Duration
	logger zerolog.Logger
}

func newBoundsCache(store cache.Store, ttl time.Duration, logger zerolog.Logger) *boundsCache {
	if store == nil {
		store = cache.NopStore{}
	}
	return &boundsCache{store: store, ttl: ttl, logger: logger}
}

func (c *boundsCache) get(ctx context.Context) (*models.AdBounds, bool) {
	var b models.AdBounds
	found, err := c.store.GetJSON(ctx, SearchParamsCacheKey, &b)
	switch {
	case err != nil:
		metrics.ObserveBoundsCache(metrics.CacheError)
		c.logger.Warn().Err(err).Msg("Failed to read search bounds from cache")
		return nil, false
	case !found:
		metrics.ObserveBoundsCache(metrics.CacheMiss)
		return nil, false
	default:
		metrics.ObserveBoundsCache(metrics.CacheHit)
		return &b, true
	}
}

func (c *boundsCache) put(ctx context.Context, b *models.AdBounds) {
	if err := c.store.SetJSON(ctx, SearchParamsCacheKey, b, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache search bounds")
	}
}

// invalidate has the cascade step signature so it can run after a commit.
func (c *boundsCache) invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, SearchParamsCacheKey)
}

// SearchService filters and paginates ads and reports the global bounds
type SearchService struct {
	ads        AdStore
	bounds     *boundsCache
	pictureURL dto.URLFunc
	pageSize   int
	logger     zerolog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(ads AdStore, storage filestorage.FileStorage, store cache.Store, opts Options, logger zerolog.Logger) *SearchService {
	opts = opts.withDefaults()
	return &SearchService{
		ads:        ads,
		bounds:     newBoundsCache(store, opts.BoundsTTL, logger),
		pictureURL: adPictureURL(storage, opts.AdsFolder),
		pageSize:   opts.PageSize,
		logger:     logger,
	}
}

// FilterFromRequest turns raw query values into a filter and a page number.
// Values that do not parse, are not finite or are not positive are dropped.
func FilterFromRequest(req dto.AdSearchRequest) (models.AdFilter, int) {
	filter := models.AdFilter{
		City:     strings.TrimSpace(req.City),
		Country:  strings.TrimSpace(req.Country),
		MinPrice: parsePositive(req.MinPrice),
		MaxPrice: parsePositive(req.MaxPrice),
		MinSize:  parsePositive(req.MinSize),
		MaxSize:  parsePositive(req.MaxSize),
	}
	if raw := strings.TrimSpace(req.Type); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			if t, ok := models.ParseAdType(v); ok {
				filter.Type = &t
			}
		}
	}
	return filter, helpers.ParsePage(req.Page)
}

func parsePositive(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return f
}

// Search returns one page of ads matching filter. The count and the page are
// fetched concurrently.
func (s *SearchService) Search(ctx context.Context, filter models.AdFilter, page int) (*dto.AdSearchResponse, error) {
	if page < 1 {
		page = helpers.DefaultPage
	}
	offset, limit := helpers.CalculateOffsetLimit(page, s.pageSize)

	var (
		total int64
		ads   []*models.AdDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.ads.CountMatching(gctx, filter)
		if err != nil {
			return fmt.Errorf("error counting ads: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := s.ads.FindMatching(gctx, filter, offset, limit)
		if err != nil {
			return fmt.Errorf("error searching ads: %w", err)
		}
		ads = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info := helpers.NewPaginationInfo(total, page, s.pageSize)
	return &dto.AdSearchResponse{
		Ads:         dto.NewAdListResponse(ads, s.pictureURL),
		TotalAds:    info.TotalItems,
		TotalPages:  info.TotalPages,
		CurrentPage: info.CurrentPage,
		PageSize:    info.PageSize,
	}, nil
}

// Bounds returns the global price and size extremes, from cache when possible.
func (s *SearchService) Bounds(ctx context.Context) (*dto.SearchParamsResponse, error) {
	if b, ok := s.bounds.get(ctx); ok {
		resp := dto.NewSearchParamsResponse(b)
		return &resp, nil
	}

	b, err := s.ads.Bounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing search bounds: %w", err)
	}
	s.bounds.put(ctx, b)

	resp := dto.NewSearchParamsResponse(b)
	return &resp, nil
}
