package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ashetian/sdc-web-sub003/internal/app/controllers"
	appMigrations "github.com/ashetian/sdc-web-sub003/internal/app/migrations"
	appRepos "github.com/ashetian/sdc-web-sub003/internal/app/repositories"
	appRoutes "github.com/ashetian/sdc-web-sub003/internal/app/routes"
	appServices "github.com/ashetian/sdc-web-sub003/internal/app/services"
	"github.com/ashetian/sdc-web-sub003/internal/config"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	appMiddleware "github.com/ashetian/sdc-web-sub003/internal/middleware"
	pkgAuth "github.com/ashetian/sdc-web-sub003/internal/pkg/auth"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/email"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/logger"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/throttle"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	VerificationService *appServices.VerificationService
	CastingService      *appServices.CastingService
	ElectionService     *appServices.ElectionService
	AuthService         *appServices.AuthService
	VotingController    *appControllers.VotingController
	ElectionController  *appControllers.ElectionController
	AdminController     *appControllers.AdminController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	EmailService        email.EmailService
	Logger              zerolog.Logger
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

	lgr := log.Logger // Get the configured global logger
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Admin.JWTSecret,
		AccessTokenExp: cfg.AdminTokenExpiration(),
		TokenIssuer:    cfg.Admin.TokenIssuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	resendInterval := cfg.ResendInterval()
	codeLimiter := throttle.NewLimiter(throttle.NewMemoryStore(resendInterval), resendInterval)

	deps.VerificationService = appServices.NewVerificationService(
		deps.Repos.ElectionRepository,
		deps.Repos.RosterRepository,
		deps.Repos.VerificationCodeRepository,
		deps.EmailService,
		codeLimiter,
		cfg.CodeTTL(),
		lgr,
	)

	deps.CastingService = appServices.NewCastingService(
		deps.Repos.ElectionRepository,
		deps.Repos.RosterRepository,
		deps.Repos.CandidateRepository,
		deps.Repos.VerificationCodeRepository,
		deps.Repos.BallotRepository,
		cfg.Voting.TokenSecret,
		lgr,
	)

	deps.ElectionService = appServices.NewElectionService(
		deps.Repos.ElectionRepository,
		deps.Repos.CandidateRepository,
		deps.Repos.RosterRepository,
		deps.Repos.BallotRepository,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(deps.JWTService, cfg.Admin.PasswordHash, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.VotingController = appControllers.NewVotingController(deps.VerificationService, deps.CastingService)
	deps.ElectionController = appControllers.NewElectionController(deps.ElectionService)
	deps.AdminController = appControllers.NewAdminController(deps.AuthService)

	return deps, nil
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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.VotingController,
		deps.ElectionController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
