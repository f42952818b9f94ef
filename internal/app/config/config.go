package config

import (
	"strings"
	"zemedic-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "zemedic"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8000"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			AllowedOrigins:             strings.Split(utils.GetEnvString("APP_ALLOWED_ORIGINS", "*"), ","),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 25),
			ImageMaxUploadSizeInMB:     utils.GetEnvInt64("APP_IMAGE_MAX_UPLOAD_SIZE_IN_MB", 20),
			HistoryLimit:               utils.GetEnvInt64("APP_HISTORY_LIMIT", 50),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 168),
		},
		Auth: AppAuth{
			LoginMaxAttempts:     utils.GetEnvInt("AUTH_LOGIN_MAX_ATTEMPTS", 10),
			LoginWindowInSeconds: utils.GetEnvInt("AUTH_LOGIN_WINDOW_IN_SECONDS", 300),
		},
		Minio: AppMinio{
			BucketName:                   utils.GetEnvString("MINIO_BUCKET_NAME", "zemedic"),
			PreSignedUrlExpiryTimeInHour: utils.GetEnvInt("MINIO_PRE_SIGNED_URL_EXPIRY_TIME_IN_HOUR", 24),
			ThumbnailWidthInPixel:        utils.GetEnvInt("MINIO_THUMBNAIL_WIDTH_IN_PIXEL", 256),
		},
		RabbitMQ: AppRabbitMQ{
			AnalysisCompletedQueue: utils.GetEnvString("RABBITMQ_ANALYSIS_COMPLETED_QUEUE", "analysis.completed"),
			BreakerMaxFailures:     utils.GetEnvInt("RABBITMQ_BREAKER_MAX_FAILURES", 5),
			BreakerTimeoutInSecs:   utils.GetEnvInt("RABBITMQ_BREAKER_TIMEOUT_IN_SECONDS", 30),
		},
		Report: AppReport{
			CacheSize: utils.GetEnvInt("REPORT_CACHE_SIZE", 128),
		},
		Demo: AppDemo{
			Enabled:              utils.GetEnvBool("DEMO_ENABLED", true),
			RequestsPerMinute:    utils.GetEnvInt("DEMO_REQUESTS_PER_MINUTE", 10),
			Burst:                utils.GetEnvInt("DEMO_BURST", 5),
			BlockTimeInSeconds:   utils.GetEnvInt("DEMO_BLOCK_TIME_IN_SECONDS", 60),
			SimulatedLatencyInMs: utils.GetEnvInt("DEMO_SIMULATED_LATENCY_IN_MS", 0),
		},
	}
}
