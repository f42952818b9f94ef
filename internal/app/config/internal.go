package config

type InternalConfig struct {
	App      App
	JWT      AppJWT
	Auth     AppAuth
	Minio    AppMinio
	RabbitMQ AppRabbitMQ
	Report   AppReport
	Demo     AppDemo
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	AllowedOrigins             []string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	RequestTimeoutInSeconds    int
	RequestBodyLimitInMegabyte int
	ImageMaxUploadSizeInMB     int64
	HistoryLimit               int64
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

// AppAuth throttles login attempts per email in a fixed window.
type AppAuth struct {
	LoginMaxAttempts     int
	LoginWindowInSeconds int
}

type AppMinio struct {
	BucketName                   string
	PreSignedUrlExpiryTimeInHour int
	ThumbnailWidthInPixel        int
}

type AppRabbitMQ struct {
	AnalysisCompletedQueue string
	// BreakerMaxFailures consecutive publish failures open the circuit.
	BreakerMaxFailures   int
	BreakerTimeoutInSecs int
}

type AppReport struct {
	CacheSize int
}

// AppDemo configures the public, unauthenticated analysis endpoint.
type AppDemo struct {
	Enabled              bool
	RequestsPerMinute    int
	Burst                int
	BlockTimeInSeconds   int
	SimulatedLatencyInMs int
}
