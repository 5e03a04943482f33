package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/adapters/event"
	httpAdapter "github.com/khoahotran/talent-identity/adapters/http"
	"github.com/khoahotran/talent-identity/adapters/media_storage"
	"github.com/khoahotran/talent-identity/adapters/persistence"
	"github.com/khoahotran/talent-identity/internal/application/service"
	authUC "github.com/khoahotran/talent-identity/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/talent-identity/internal/application/usecase/profile"
	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/auth"
	"github.com/khoahotran/talent-identity/pkg/logger"
	"github.com/khoahotran/talent-identity/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if err != nil {
		appLogger.Fatal("cannot load config", err)
	}
	appLogger.Info("Start talent identity API server...", zap.String("env", cfg.App.Env))

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "talent-identity-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Repositories
	userRepo, closeStore := mustUserRepository(cfg, appLogger)
	defer closeStore()

	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		userRepo = persistence.NewCachedUserRepo(userRepo, redisClient, cfg.Redis.CacheTTL, appLogger)
	}

	// Services
	var events service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		events = kafkaClient
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, auth.SessionLifespan)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	cloudinaryUploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	uploader := media_storage.NewBreakingUploader(cloudinaryUploader, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, hasher, uploader, events, cfg.Cloudinary.Folder, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, hasher, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase()
	profileUseCase := profileUC.NewProfileUseCase(userRepo, uploader, events, cfg.Cloudinary.Folder, appLogger)

	// HTTP Handlers
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, logoutUseCase, cfg.Auth.CookieSecure, appLogger),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
	}, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}

// mustUserRepository opens the configured store and returns its closer.
func mustUserRepository(cfg config.Config, log logger.Logger) (user.Repository, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dbPool, err := persistence.NewPostgresPool(cfg, log)
		if err != nil {
			log.Fatal("cannot connect Postgres", err)
		}
		if err := persistence.RunMigrations(cfg.DB.DSN, log); err != nil {
			log.Fatal("cannot migrate Postgres schema", err)
		}
		return persistence.NewPostgresUserRepo(dbPool), dbPool.Close
	default:
		client, err := persistence.NewMongoClient(cfg, log)
		if err != nil {
			log.Fatal("cannot connect MongoDB", err)
		}
		repo, err := persistence.NewMongoUserRepo(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			log.Fatal("cannot prepare MongoDB indexes", err)
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }
	}
}
