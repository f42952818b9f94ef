package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"zemedic-service/cmd/migration"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/delivery/http/controllers"
	"zemedic-service/internal/app/delivery/http/middlewares"
	"zemedic-service/internal/app/delivery/http/routers"
	"zemedic-service/internal/app/drivers/database"
	"zemedic-service/internal/app/drivers/logger"
	"zemedic-service/internal/app/drivers/messaging"
	"zemedic-service/internal/app/drivers/storage"
	"zemedic-service/internal/app/services/core/analyses"
	"zemedic-service/internal/app/services/core/auth"
	"zemedic-service/internal/app/services/core/session"
	"zemedic-service/internal/app/services/core/users"
	"zemedic-service/internal/app/services/shared/imaging"
	sharedMessaging "zemedic-service/internal/app/services/shared/messaging"
	"zemedic-service/internal/app/services/shared/ratelimiter"
	"zemedic-service/internal/app/services/shared/redis"
	"zemedic-service/internal/app/services/shared/reports"
	sharedStorage "zemedic-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		zapLogger.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoDB, err := database.NewMongoDB(ctx, zapLogger, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to MongoDB", zap.Error(err))
	}
	redisClient, err := database.NewRedisClient(ctx, zapLogger, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	minioClient, err := storage.NewMinio(ctx, zapLogger, driverConfig, internalConfig.Minio.BucketName)
	if err != nil {
		zapLogger.Fatal("Error connecting to MinIO", zap.Error(err))
	}
	rabbitMQ, err := messaging.NewRabbitMQ(zapLogger, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to RabbitMQ", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		zapLogger.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Redis and sessions
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	sessionService := session.NewSessionService(redisRepository)
	loginLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)

	// Shared services
	objectStorage := sharedStorage.NewMinioStorage(bootstrap.Minio)
	imageInspector := imaging.NewImageInspector(internalConfig.Minio.ThumbnailWidthInPixel)
	eventPublisher, err := sharedMessaging.NewAnalysisPublisher(
		bootstrap.RabbitMQ,
		internalConfig.RabbitMQ.AnalysisCompletedQueue,
		log,
		sharedMessaging.BreakerSettings{
			MaxFailures: internalConfig.RabbitMQ.BreakerMaxFailures,
			Timeout:     time.Duration(internalConfig.RabbitMQ.BreakerTimeoutInSecs) * time.Second,
		},
	)
	if err != nil {
		return err
	}

	// Repositories
	userMongoRepository := users.NewUserMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	analysisMongoRepository := analyses.NewAnalysisMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)

	migrationCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.Run(migrationCtx, log, map[string]migration.Indexer{
		"users":    userMongoRepository,
		"analyses": analysisMongoRepository,
	}); err != nil {
		return err
	}

	reportService, err := reports.NewReportService(
		reports.NewPDFRenderer(),
		objectStorage,
		analysisMongoRepository,
		internalConfig.Minio.BucketName,
		internalConfig.Report.CacheSize,
		log,
	)
	if err != nil {
		return err
	}

	// Usecases
	authUsecase := auth.NewAuthUsecase(userMongoRepository, sessionService, loginLimiter, internalConfig, log)
	userUsecase := users.NewUserUsecase(userMongoRepository, sessionService, log)
	analysisUsecase := analyses.NewAnalysisUsecase(
		analysisMongoRepository,
		sessionService,
		imageInspector,
		objectStorage,
		eventPublisher,
		reportService,
		internalConfig,
		log,
	)

	// Delivery
	middlewareInstance := middlewares.NewMiddlewares(log, sessionService, internalConfig)
	demoLimiter := middlewares.NewRateLimiter(
		internalConfig.Demo.RequestsPerMinute,
		internalConfig.Demo.Burst,
		time.Duration(internalConfig.Demo.BlockTimeInSeconds)*time.Second,
		log,
	)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewareInstance,
		demoLimiter,
		controllers.NewHealthController(internalConfig),
		controllers.NewAuthController(log, authUsecase, internalConfig),
		controllers.NewUserController(log, userUsecase, internalConfig),
		controllers.NewAnalysisController(log, analysisUsecase, internalConfig),
	)
	return nil
}
