// Package services holds the entity lifecycle managers and the ad search.
package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/yigit/bazaar/internal/app/auth"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/app/repositories"
	"github.com/yigit/bazaar/internal/pkg/auth"
	"github.com/yigit/bazaar/internal/pkg/cache"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/helpers"
)

// Options carries the tunables shared by the services
type Options struct {
	// AdsFolder is the storage folder holding one sub-folder per ad
	AdsFolder string
	// UserImagesFolder holds one profile picture per user
	UserImagesFolder string
	PageSize         int
	BoundsTTL        time.Duration
}

func (o Options) withDefaults() Options {
	if o.AdsFolder == "" {
		o.AdsFolder = "ads-pictures"
	}
	if o.UserImagesFolder == "" {
		o.UserImagesFolder = "userImages"
	}
	o.PageSize = helpers.NormalizePageSize(o.PageSize)
	if o.BoundsTTL <= 0 {
		o.BoundsTTL = 5 * time.Minute
	}
	return o
}

// Services holds all the service instances
type Services struct {
	AdService       *AdService
	QuestionService *QuestionService
	AnswerService   *AnswerService
	UserService     *UserService
	SearchService   *SearchService
}

// NewServices wires every service on top of the repositories
func NewServices(
	repos *repositories.Repositories,
	tx Transactor,
	storage filestorage.FileStorage,
	jwtService *auth.JWTService,
	store cache.Store,
	opts Options,
	logger zerolog.Logger,
) *Services {
	opts = opts.withDefaults()

	return &Services{
		AdService:       NewAdService(repos.AdRepository, repos.UserRepository, tx, storage, store, opts, logger),
		QuestionService: NewQuestionService(repos.QuestionRepository, repos.AnswerRepository, repos.UserRepository, tx, logger),
		AnswerService:   NewAnswerService(repos.AnswerRepository, repos.QuestionRepository, repos.UserRepository, logger),
		UserService: NewUserService(
			repos.UserRepository, repos.AdRepository, repos.QuestionRepository, repos.AnswerRepository,
			tx, storage, jwtService, store, opts, logger,
		),
		SearchService: NewSearchService(repos.AdRepository, storage, store, opts, logger),
	}
}

// loadActor reloads the acting user so that role changes apply immediately.
func loadActor(ctx context.Context, users UserStore, actorID uuid.UUID) (authz.Actor, error) {
	user, err := users.GetByID(ctx, actorID)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.ActorFromUser(user), nil
}

// adPictureURL resolves picture paths stored relative to the ads folder.
func adPictureURL(storage filestorage.FileStorage, adsFolder string) dto.URLFunc {
	return func(p string) string {
		return storage.PublicURL(filestorage.Join(adsFolder, p))
	}
}

// fileExt returns the lower-cased extension of a client file name.
func fileExt(name string) string {
	return strings.ToLower(path.Ext(filestorage.SafeFileName(name)))
}
