package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/yigit/bazaar/internal/app/auth"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/cache"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/validation"
)

// AdService handles the ad lifecycle and its picture folder
type AdService struct {
	ads        AdStore
	users      UserStore
	tx         Transactor
	storage    filestorage.FileStorage
	bounds     *boundsCache
	adsFolder  string
	pictureURL dto.URLFunc
	logger     zerolog.Logger
}

// NewAdService creates a new AdService
func NewAdService(
	ads AdStore,
	users UserStore,
	tx Transactor,
	storage filestorage.FileStorage,
	store cache.Store,
	opts Options,
	logger zerolog.Logger,
) *AdService {
	opts = opts.withDefaults()
	return &AdService{
		ads:        ads,
		users:      users,
		tx:         tx,
		storage:    storage,
		bounds:     newBoundsCache(store, opts.BoundsTTL, logger),
		adsFolder:  opts.AdsFolder,
		pictureURL: adPictureURL(storage, opts.AdsFolder),
		logger:     logger,
	}
}

func (s *AdService) folderOf(id uuid.UUID) string {
	return filestorage.Join(s.adsFolder, id.String())
}

func validateAdType(field string, raw *int) (models.AdType, error) {
	if raw == nil {
		return 0, apperrors.NewFieldError(field, field+" is required")
	}
	t, ok := models.ParseAdType(*raw)
	if !ok {
		return 0, apperrors.NewFieldError(field, field+" must be 0 (SELLING) or 1 (RENTING)")
	}
	return t, nil
}

// Create validates and stores a new ad, then moves its staged pictures into
// the ad folder. Staged files are always consumed.
func (s *AdService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateAdRequest, pictures []filestorage.StagedFile) (*dto.AdResponse, error) {
	defer s.storage.Discard(pictures...)

	title := validation.NewStringValidation("title", req.Title).WithMaxLength(validation.TitleMaxLength)
	city := validation.NewStringValidation("city", req.City)
	country := validation.NewStringValidation("country", req.Country)
	for _, v := range []*validation.StringValidation{title, city, country} {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if err := validation.PositiveNumber("price", req.Price); err != nil {
		return nil, err
	}
	if err := validation.PositiveNumber("size", req.Size); err != nil {
		return nil, err
	}
	adType, err := validateAdType("type", req.Type)
	if err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceAd, actor.ID, authz.ActionCreate); err != nil {
		return nil, err
	}

	ad := &models.Ad{
		ID:      uuid.New(),
		Title:   title.Trimmed(),
		City:    city.Trimmed(),
		Country: country.Trimmed(),
		Price:   req.Price,
		Size:    req.Size,
		Type:    adType,
		UserID:  actor.ID,
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, fmt.Errorf("error creating ad: %w", err)
	}

	paths, err := s.storePictures(ctx, ad.ID, pictures)
	if err == nil {
		err = s.ads.SetPicturePaths(ctx, ad.ID, paths)
	}
	if err != nil {
		s.rollbackCreate(ad.ID)
		return nil, fmt.Errorf("error storing ad pictures: %w", err)
	}

	if err := s.bounds.invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate search bounds")
	}

	s.logger.Info().Str("adID", ad.ID.String()).Str("userID", actor.ID.String()).Int("pictures", len(paths)).Msg("Ad created")
	return s.view(ctx, ad.ID)
}

// storePictures moves the staged pictures into the ad folder and returns
// their paths relative to the ads folder, e.g. "<adID>/front.jpg".
func (s *AdService) storePictures(ctx context.Context, adID uuid.UUID, pictures []filestorage.StagedFile) ([]string, error) {
	folder := s.folderOf(adID)
	if err := s.storage.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(pictures))
	used := make(map[string]bool, len(pictures))
	for i, pic := range pictures {
		name := filestorage.SafeFileName(pic.OriginalName)
		if name == "" {
			name = "picture-" + strconv.Itoa(i+1) + fileExt(pic.Path)
		}
		if used[name] {
			name = strconv.Itoa(i+1) + "-" + name
		}
		used[name] = true

		if _, err := s.storage.MoveFile(ctx, pic, folder, name); err != nil {
			return nil, err
		}
		paths = append(paths, filestorage.Join(adID.String(), name))
	}
	return paths, nil
}

// rollbackCreate removes a half-created ad. It runs on a fresh context so a
// cancelled request still cleans up.
func (s *AdService) rollbackCreate(id uuid.UUID) {
	ctx := context.Background()
	if err := s.storage.DeleteFolder(ctx, s.folderOf(id)); err != nil {
		s.logger.Warn().Err(err).Str("adID", id.String()).Msg("Failed to remove folder of failed ad")
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("adID", id.String()).Msg("Failed to remove row of failed ad")
	}
}

func (s *AdService) view(ctx context.Context, id uuid.UUID) (*dto.AdResponse, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAdResponse(ad, s.pictureURL)
	return &resp, nil
}

// GetByID returns one ad with its owner
func (s *AdService) GetByID(ctx context.Context, id uuid.UUID) (*dto.AdResponse, error) {
	return s.view(ctx, id)
}

// List returns every ad
func (s *AdService) List(ctx context.Context) ([]dto.AdResponse, error) {
	ads, err := s.ads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing ads: %w", err)
	}
	return dto.NewAdListResponse(ads, s.pictureURL), nil
}

// ListByUser returns the ads of an existing user
func (s *AdService) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AdResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	ads, err := s.ads.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing user ads: %w", err)
	}
	return dto.NewAdListResponse(ads, s.pictureURL), nil
}

// Update applies the supplied and valid fields of req. Invalid values are
// skipped rather than rejected.
func (s *AdService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateAdRequest) (*dto.AdResponse, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	current, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceAd, current.UserID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	ad := current.Ad
	changed := 0
	applyText := func(f func() (string, bool), field string, dst *string) {
		raw, ok := f()
		if !ok {
			return
		}
		v := validation.NewStringValidation(field, raw)
		if field == "title" {
			v.WithMaxLength(validation.TitleMaxLength)
		}
		if v.Valid() {
			*dst = v.Trimmed()
			changed++
		}
	}
	applyText(req.Title.Get, "title", &ad.Title)
	applyText(req.City.Get, "city", &ad.City)
	applyText(req.Country.Get, "country", &ad.Country)

	if price, ok := req.Price.Get(); ok && validation.IsPositiveFinite(price) {
		ad.Price = price
		changed++
	}
	if size, ok := req.Size.Get(); ok && validation.IsPositiveFinite(size) {
		ad.Size = size
		changed++
	}
	if raw, ok := req.Type.Get(); ok {
		if t, valid := models.ParseAdType(raw); valid {
			ad.Type = t
			changed++
		}
	}

	if changed == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrNoUpdates, "No updates provided")
	}

	if err := s.ads.Update(ctx, &ad); err != nil {
		return nil, fmt.Errorf("error updating ad: %w", err)
	}
	if err := s.bounds.invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate search bounds")
	}

	return s.view(ctx, id)
}

// Delete removes the ad row and then its picture folder
func (s *AdService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceAd, ad.UserID, authz.ActionDelete); err != nil {
		return err
	}

	return newCascade("delete-ad", s.tx, s.logger).
		Store("delete-ad-row", func(ctx context.Context) error {
			return s.ads.Delete(ctx, id)
		}).
		AfterCommit("delete-picture-folder", func(ctx context.Context) error {
			return s.storage.DeleteFolder(ctx, s.folderOf(id))
		}).
		AfterCommit("invalidate-search-bounds", s.bounds.invalidate).
		Run(ctx)
}
