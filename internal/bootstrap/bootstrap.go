package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/bazaar/internal/app/controllers"
	appMigrations "github.com/yigit/bazaar/internal/app/migrations"
	appRepos "github.com/yigit/bazaar/internal/app/repositories"
	appRoutes "github.com/yigit/bazaar/internal/app/routes"
	appServices "github.com/yigit/bazaar/internal/app/services"
	"github.com/yigit/bazaar/internal/config"
	"github.com/yigit/bazaar/internal/db"
	appMiddleware "github.com/yigit/bazaar/internal/middleware"
	pkgAuth "github.com/yigit/bazaar/internal/pkg/auth"
	"github.com/yigit/bazaar/internal/pkg/cache"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/helpers"
	"github.com/yigit/bazaar/internal/pkg/logger"
	"github.com/yigit/bazaar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    filestorage.FileStorage
	// LocalStorage is set only for the local driver and drives static file serving
	LocalStorage *filestorage.LocalStorage
	Cache        cache.Store
	Logger       zerolog.Logger
}

// Close releases the cache connection, if any.
func (d *Dependencies) Close() error {
	if closer, ok := d.Cache.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.EqualFold(cfg.Logging.Format, "text")

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if !cfg.Database.MigrateOnStart {
		lgr.Info().Msg("Skipping migrations on start")
		return database, nil
	}

	if err := RunMigrations(cfg, lgr); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// RunMigrations applies every pending schema migration.
func RunMigrations(cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create migrator")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SeedDefaults creates the configured administrator account.
func SeedDefaults(ctx context.Context, cfg *config.Config, users seed.AdminStore, lgr zerolog.Logger) error {
	return seed.CreateDefaultAdmin(ctx, users, seed.AdminAccount{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, lgr)
}

// SetupStorage creates the file storage backend selected by storage.driver.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, *filestorage.LocalStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "azure":
		azure, err := filestorage.NewAzureStorage(ctx, filestorage.AzureConfig{
			ConnectionString: cfg.Storage.AzureConnectionString,
			Container:        cfg.Storage.AzureContainer,
			PublicURL:        cfg.Storage.PublicURL,
			StageDir:         filepath.Join(cfg.Storage.BasePath, cfg.Storage.TempFolder),
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize blob storage")
			return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("driver", "azure").Msg("File storage ready")
		return azure, nil, nil
	default:
		publicURL := cfg.Storage.PublicURL
		if publicURL == "" {
			publicURL = cfg.Server.PublicURL
		}
		local, err := filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.TempFolder, publicURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("driver", "local").Str("path", local.BasePath()).Msg("File storage ready")
		return local, local, nil
	}
}

// SetupCache connects to Redis when configured and falls back to a no-op store.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) cache.Store {
	if cfg.Redis.URL == "" {
		lgr.Info().Msg("Redis not configured, search bounds are computed on every request")
		return cache.NopStore{}
	}

	store, err := cache.NewRedisStore(ctx, cfg.Redis.URL)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		return cache.NopStore{}
	}
	lgr.Info().Msg("Redis cache connected")
	return store
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, deps.LocalStorage, err = SetupStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.Cache = SetupCache(ctx, cfg, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(
		deps.Repos,
		database,
		deps.FileStorage,
		deps.JWTService,
		deps.Cache,
		appServices.Options{
			AdsFolder:        cfg.Storage.AdsFolder,
			UserImagesFolder: cfg.Storage.UserImagesFolder,
			PageSize:         cfg.Pagination.PageSize,
			BoundsTTL:        helpers.ParseDuration(cfg.Redis.SearchParamsTTL, 5*time.Minute),
		},
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.Services.UserService, deps.FileStorage, lgr),
		User:     appControllers.NewUserController(deps.Services.UserService, deps.FileStorage),
		Ad:       appControllers.NewAdController(deps.Services.AdService, deps.Services.SearchService, deps.FileStorage),
		Question: appControllers.NewQuestionController(deps.Services.QuestionService),
		Answer:   appControllers.NewAnswerController(deps.Services.AnswerService),
	}

	if err := SeedDefaults(ctx, cfg, deps.Repos.UserRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.Storage.MaxUploadMB)

	if deps.LocalStorage != nil {
		setupStaticFileServing(router, cfg, deps.LocalStorage, lgr)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// setupStaticFileServing exposes the picture folders of the local driver.
func setupStaticFileServing(router *gin.Engine, cfg *config.Config, local *filestorage.LocalStorage, lgr zerolog.Logger) {
	for _, folder := range []string{cfg.Storage.AdsFolder, cfg.Storage.UserImagesFolder} {
		dir := filepath.Join(local.BasePath(), folder)
		router.Static("/"+folder, dir)
		lgr.Info().Str("path", dir).Str("route", "/"+folder).Msg("Static file serving configured")
	}
}
