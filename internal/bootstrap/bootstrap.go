package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/hireboard/internal/app/auth"
	appControllers "github.com/yigit/hireboard/internal/app/controllers"
	appMigrations "github.com/yigit/hireboard/internal/app/migrations"
	appRepos "github.com/yigit/hireboard/internal/app/repositories"
	appRoutes "github.com/yigit/hireboard/internal/app/routes"
	appServices "github.com/yigit/hireboard/internal/app/services"
	"github.com/yigit/hireboard/internal/app/workers"
	"github.com/yigit/hireboard/internal/config"
	"github.com/yigit/hireboard/internal/db"
	appMiddleware "github.com/yigit/hireboard/internal/middleware"
	pkgAuth "github.com/yigit/hireboard/internal/pkg/auth"
	"github.com/yigit/hireboard/internal/pkg/email"
	"github.com/yigit/hireboard/internal/pkg/events"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
	"github.com/yigit/hireboard/internal/pkg/logger"
	"github.com/yigit/hireboard/internal/pkg/notify"
	"github.com/yigit/hireboard/internal/pkg/websocket"
	"github.com/yigit/hireboard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Hub            *websocket.Hub
	Publisher      *events.MultiPublisher
	Sweeper        *workers.Sweeper
	Handlers       appRoutes.Handlers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	appMiddleware.SetProductionMode(cfg.IsProduction())

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies pending migrations and seeds the admin.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	users := appRepos.NewUserRepository(database.Pool)
	if err := seed.EnsureAdmin(ctx, users, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed admin user, proceeding anyway")
	}

	return database, nil
}

// BuildPublisher assembles the enabled realtime backends. The hub is always
// included so websocket clients keep working when brokers are added.
func BuildPublisher(cfg *config.Config, hub *websocket.Hub, lgr zerolog.Logger) (*events.MultiPublisher, error) {
	publishers := []events.Publisher{hub}

	if cfg.HasBroker("kafka") {
		publishers = append(publishers, events.NewKafkaPublisher(
			cfg.Realtime.KafkaBrokers, cfg.Realtime.KafkaTopic, cfg.Realtime.QueueSize, lgr))
		lgr.Info().Strs("brokers", cfg.Realtime.KafkaBrokers).Str("topic", cfg.Realtime.KafkaTopic).Msg("Kafka publisher enabled")
	}

	if cfg.HasBroker("rabbitmq") {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Realtime.AMQPURL, cfg.Realtime.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		publishers = append(publishers, amqpPublisher)
		lgr.Info().Str("exchange", cfg.Realtime.AMQPExchange).Msg("RabbitMQ publisher enabled")
	}

	return events.NewMultiPublisher(publishers...), nil
}

// BuildNotifier returns the Telegram notifier when a bot token is configured and
// a log-only notifier otherwise.
func BuildNotifier(cfg *config.Config, lgr zerolog.Logger) notify.Notifier {
	if cfg.Telegram.Token == "" {
		return notify.NewLogNotifier(lgr)
	}
	tg, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		lgr.Warn().Err(err).Msg("Telegram notifier unavailable, falling back to log notifier")
		return notify.NewLogNotifier(lgr)
	}
	return tg
}

// BuildDependencies initializes repositories, services, controllers and the realtime stack.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	deps.Repos = appRepos.NewRepositories(database)

	storage, err := filestorage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.BaseURL, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	uploader := filestorage.NewUploader(storage, filestorage.DefaultPolicies())

	deps.Hub = websocket.NewHub(lgr)
	deps.Publisher, err = BuildPublisher(cfg, deps.Hub, lgr)
	if err != nil {
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.JWT.AccessTokenExpiration,
		RefreshTokenExp: cfg.JWT.RefreshTokenExpiration,
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.Users)

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  "Hireboard",
		FromEmail: cfg.Email.From,
	}, lgr)
	notifier := BuildNotifier(cfg, lgr)

	r := deps.Repos
	authService := appServices.NewAuthService(r.Users, r.Tokens, deps.JWTService, mailer, cfg.Email.OTPTTL, lgr)
	userService := appServices.NewUserService(r.Users, uploader, lgr)
	companyService := appServices.NewCompanyService(r.Companies, r.Jobs, r.Users, uploader, notifier, lgr)
	jobService := appServices.NewJobService(r.Jobs, r.Companies, lgr)
	applicationService := appServices.NewApplicationService(r.Applications, r.Jobs, r.Companies, r.Users, deps.Publisher, lgr)
	chatService := appServices.NewChatService(r.Chats, r.Messages, r.Users, uploader, deps.Publisher, lgr)
	communityService := appServices.NewCommunityService(r.Communities, uploader, deps.Publisher, lgr)
	adminService := appServices.NewAdminService(r.Users, r.Tokens, r.Companies, r.Jobs, r.Stats, lgr)

	authorizer := appAuth.NewAuthorizationService(r.Chats, r.Communities)

	deps.Handlers = appRoutes.Handlers{
		Auth:         appControllers.NewAuthController(authService, lgr),
		Users:        appControllers.NewUserController(userService, lgr),
		Companies:    appControllers.NewCompanyController(companyService, lgr),
		Jobs:         appControllers.NewJobController(jobService, lgr),
		Applications: appControllers.NewApplicationController(applicationService, lgr),
		Chats:        appControllers.NewChatController(chatService, lgr),
		Communities:  appControllers.NewCommunityController(communityService, lgr),
		Admin:        appControllers.NewAdminController(adminService, lgr),
		Realtime:     websocket.NewHandler(deps.Hub, authorizer, lgr),
	}

	deps.Sweeper = workers.NewSweeper(r.Jobs, r.Tokens, cfg.Workers.SweepInterval, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.EqualFold(cfg.Server.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	appRoutes.SetupSwagger(router)
	appRoutes.SetupStatic(router, cfg.Storage.BaseURL, cfg.Storage.Path)
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	return router
}
