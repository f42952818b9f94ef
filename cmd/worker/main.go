package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"zemedic-service/internal/app/config"
	"zemedic-service/internal/app/drivers/database"
	"zemedic-service/internal/app/drivers/logger"
	"zemedic-service/internal/app/drivers/messaging"
	"zemedic-service/internal/app/drivers/storage"
	"zemedic-service/internal/app/services/core/analyses"
	sharedMessaging "zemedic-service/internal/app/services/shared/messaging"
	"zemedic-service/internal/app/services/shared/reports"
	sharedStorage "zemedic-service/internal/app/services/shared/storage"

	"go.uber.org/zap"
)

// The worker consumes analysis.completed events and pre-renders reports.
func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer connectCancel()

	mongoDB, err := database.NewMongoDB(connectCtx, zapLogger, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to MongoDB", zap.Error(err))
	}
	minioClient, err := storage.NewMinio(connectCtx, zapLogger, driverConfig, internalConfig.Minio.BucketName)
	if err != nil {
		zapLogger.Fatal("Error connecting to MinIO", zap.Error(err))
	}
	rabbitMQ, err := messaging.NewRabbitMQ(zapLogger, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to RabbitMQ", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		MongoDB:        mongoDB,
		Minio:          minioClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	analysisRepository := analyses.NewAnalysisMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	reportService, err := reports.NewReportService(
		reports.NewPDFRenderer(),
		sharedStorage.NewMinioStorage(minioClient),
		analysisRepository,
		internalConfig.Minio.BucketName,
		internalConfig.Report.CacheSize,
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Error creating report service", zap.Error(err))
	}

	consumer, err := sharedMessaging.NewReportConsumer(
		rabbitMQ,
		internalConfig.RabbitMQ.AnalysisCompletedQueue,
		analysisRepository,
		reportService,
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Error creating report consumer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		zapLogger.Error("Report consumer stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing drivers: %v", err)
	}
	log.Println("Worker exiting")
}
