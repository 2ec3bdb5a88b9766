package bootstrap

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/starmentor/internal/app/auth"
	appControllers "github.com/yigit/starmentor/internal/app/controllers"
	"github.com/yigit/starmentor/internal/app/identity"
	appMigrations "github.com/yigit/starmentor/internal/app/migrations"
	appRepos "github.com/yigit/starmentor/internal/app/repositories"
	appRoutes "github.com/yigit/starmentor/internal/app/routes"
	appServices "github.com/yigit/starmentor/internal/app/services"
	"github.com/yigit/starmentor/internal/config"
	"github.com/yigit/starmentor/internal/db"
	appMiddleware "github.com/yigit/starmentor/internal/middleware"
	pkgAuth "github.com/yigit/starmentor/internal/pkg/auth"
	"github.com/yigit/starmentor/internal/pkg/logger"
	"github.com/yigit/starmentor/internal/pkg/redis"
	"github.com/yigit/starmentor/internal/pkg/validation"
	"github.com/yigit/starmentor/internal/pkg/websocket"
	"github.com/yigit/starmentor/internal/seed"
)

// authRateWindow is the window of the sign-in/sign-up throttle
const authRateWindow = time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          *appRepos.PgStore
	Identity       identity.Provider
	Policy         *appAuth.Policy
	JWTService     *pkgAuth.JWTService
	Redis          *redis.Client
	Hub            *websocket.Hub
	Services       *appServices.Services
	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	format := logger.FormatJSON
	if f := strings.ToLower(cfg.Logging.Format); f == "console" || f == "text" {
		format = logger.FormatConsole
	}
	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: format,
	})

	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", string(format)).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if !cfg.Database.AutoMigrate {
		lgr.Info().Msg("Automatic migrations disabled")
		return database.Pool, nil
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// SetupRedis connects the revocation and rate limit store.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	client, err := redis.NewClient(redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger.Component("redis"))
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		return nil, err
	}
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Store = appRepos.NewStore(dbPool)
	deps.Identity = identity.NewPostgresProvider(dbPool, pkgAuth.NewPasswordHasher(0))
	deps.Policy = appAuth.NewPolicy()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.MustDuration(cfg.JWT.AccessTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	v := validation.New()
	loc := cfg.Location()
	svcLogger := logger.Component("service")

	var revoker appServices.SessionRevoker
	if redisClient != nil {
		revoker = redisClient
	}

	deps.Services = &appServices.Services{
		Session: appServices.NewSessionService(
			deps.Identity,
			deps.Store,
			deps.JWTService,
			revoker,
			v,
			appServices.SessionConfig{
				AllowAdminSignup:  cfg.Auth.AllowAdminSignup,
				MinPasswordLength: cfg.Auth.MinPasswordLength,
			},
			svcLogger,
		),
		Profile:      appServices.NewProfileService(deps.Store, deps.Policy, v, svcLogger),
		Member:       appServices.NewMemberService(deps.Store, deps.Policy, deps.Identity, v, cfg.Auth.MinPasswordLength, svcLogger),
		Committee:    appServices.NewCommitteeService(deps.Store, deps.Policy, v, svcLogger),
		Week:         appServices.NewWeekService(deps.Store, deps.Policy, v, loc, svcLogger),
		Project:      appServices.NewProjectService(deps.Store, deps.Policy, v, svcLogger),
		Attendance:   appServices.NewAttendanceService(deps.Store, deps.Policy, v, svcLogger),
		Announcement: appServices.NewAnnouncementService(deps.Store, deps.Policy, v, deps.Hub, svcLogger),
		Feedback:     appServices.NewFeedbackService(deps.Store, deps.Policy, v, svcLogger),
		Dashboard:    appServices.NewDashboardService(deps.Store, deps.Policy, v, loc, svcLogger),
		Export:       appServices.NewExportService(deps.Store, deps.Policy, v, svcLogger),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.Session)

	ctrlLogger := logger.Component("http")
	svc := deps.Services
	checks := map[string]appControllers.Pinger{"postgres": dbPool}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	deps.Handlers = appRoutes.Handlers{
		Auth:         appControllers.NewAuthController(svc.Session, ctrlLogger),
		Profile:      appControllers.NewProfileController(svc.Profile, svc.Committee, ctrlLogger),
		Member:       appControllers.NewMemberController(svc.Member, ctrlLogger),
		Week:         appControllers.NewWeekController(svc.Week, svc.Export, ctrlLogger),
		Project:      appControllers.NewProjectController(svc.Project, ctrlLogger),
		Attendance:   appControllers.NewAttendanceController(svc.Attendance, svc.Export, ctrlLogger),
		Announcement: appControllers.NewAnnouncementController(svc.Announcement, ctrlLogger),
		Feedback:     appControllers.NewFeedbackController(svc.Feedback, ctrlLogger),
		Dashboard:    appControllers.NewDashboardController(svc.Dashboard, ctrlLogger),
		Health:       appControllers.NewHealthController(checks),
		Live:         websocket.NewHandler(deps.Hub, cfg.Server.CORSOrigins, logger.Component("websocket")),
	}

	return deps, nil
}

// SeedDefaultData creates configured committees and the bootstrap admin.
// Failures are logged and startup continues.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if err := seed.CreateDefaultData(ctx, deps.Store, deps.Identity, cfg.Seed, logger.Component("seed")); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	appRoutes.SetupMiddleware(router, cfg.Server.CORSOrigins, logger.Component("request"))

	swaggerHost := ""
	if cfg.Server.Host != "" {
		swaggerHost = net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	}
	appRoutes.SetupSwagger(router, swaggerHost)

	var limiter appMiddleware.RateLimiter
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware, appRoutes.AuthLimit{
		Limiter: limiter,
		Limit:   cfg.Auth.RateLimit,
		Window:  authRateWindow,
	}, lgr)

	return router
}
