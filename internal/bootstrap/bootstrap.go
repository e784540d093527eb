package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/mert/lectern/internal/app/auth"
	appControllers "github.com/mert/lectern/internal/app/controllers"
	appMigrations "github.com/mert/lectern/internal/app/migrations"
	appRepos "github.com/mert/lectern/internal/app/repositories"
	appRoutes "github.com/mert/lectern/internal/app/routes"
	appServices "github.com/mert/lectern/internal/app/services"
	"github.com/mert/lectern/internal/config"
	"github.com/mert/lectern/internal/db"
	appMiddleware "github.com/mert/lectern/internal/middleware"
	pkgAuth "github.com/mert/lectern/internal/pkg/auth"
	"github.com/mert/lectern/internal/pkg/filestorage"
	"github.com/mert/lectern/internal/pkg/helpers"
	"github.com/mert/lectern/internal/pkg/logger"
	"github.com/mert/lectern/internal/pkg/websocket"
	"github.com/mert/lectern/internal/seed"
)

// Dependencies holds the wired application graph.
type Dependencies struct {
	Repos *appRepos.Repositories

	AuthService       *appServices.AuthService
	CategoryService   *appServices.CategoryService
	CourseService     *appServices.CourseService
	SectionService    *appServices.SectionService
	LectureService    *appServices.LectureService
	EnrollmentService *appServices.EnrollmentService
	WishlistService   *appServices.WishlistService
	DiscussionService *appServices.DiscussionService

	AuthController       *appControllers.AuthController
	CategoryController   *appControllers.CategoryController
	CourseController     *appControllers.CourseController
	SectionController    *appControllers.SectionController
	LectureController    *appControllers.LectureController
	EnrollmentController *appControllers.EnrollmentController
	WishlistController   *appControllers.WishlistController
	DiscussionController *appControllers.DiscussionController

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	Hub            *websocket.Hub
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds
// the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.Run(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are not fatal, the API can run without starter data
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// realtime discussion hub.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The base URL must match the static file serving path set up by the server
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.CourseRepository,
		deps.Repos.EnrollmentRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	// Periodic sweep of expired refresh tokens so the table does not grow
	// without bound.
	go runTokenCleanup(deps.AuthService, lgr)

	deps.CategoryService = appServices.NewCategoryService(deps.Repos.CategoryRepository)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.CategoryRepository,
		deps.AuthzService,
		deps.FileStorage,
		lgr,
	)
	deps.SectionService = appServices.NewSectionService(
		deps.Repos.SectionRepository,
		deps.Repos.LectureRepository,
		deps.AuthzService,
	)
	deps.LectureService = appServices.NewLectureService(
		deps.Repos.LectureRepository,
		deps.Repos.SectionRepository,
		deps.Repos.CourseRepository,
		deps.AuthzService,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.CourseRepository,
		deps.Repos.LectureRepository,
		deps.AuthzService,
		lgr,
	)
	deps.WishlistService = appServices.NewWishlistService(
		deps.Repos.WishlistRepository,
		deps.Repos.CourseRepository,
	)
	deps.DiscussionService = appServices.NewDiscussionService(
		deps.Repos.DiscussionRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
	)

	// Realtime discussion hub plus the persister that stores messages
	// arriving over websocket connections.
	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()
	websocket.NewPersister(
		deps.Repos.DiscussionRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		lgr,
	).Start()

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.SectionController = appControllers.NewSectionController(deps.SectionService, deps.CourseService)
	deps.LectureController = appControllers.NewLectureController(deps.LectureService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.WishlistController = appControllers.NewWishlistController(deps.WishlistService)
	deps.DiscussionController = appControllers.NewDiscussionController(deps.DiscussionService, deps.Hub)

	return deps, nil
}

const tokenCleanupInterval = time.Hour

// runTokenCleanup deletes expired refresh tokens on a fixed interval.
func runTokenCleanup(authService *appServices.AuthService, lgr zerolog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := authService.CleanupExpiredTokens(ctx)
		cancel()
		if err != nil {
			lgr.Error().Err(err).Msg("Expired refresh token cleanup failed")
			continue
		}
		if deleted > 0 {
			lgr.Info().Int64("deleted", deleted).Msg("Removed expired refresh tokens")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.AllowedOrigins()))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CategoryController,
		deps.CourseController,
		deps.SectionController,
		deps.LectureController,
		deps.EnrollmentController,
		deps.WishlistController,
		deps.DiscussionController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
