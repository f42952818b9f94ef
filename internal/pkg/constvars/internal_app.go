package constvars

type ContextKey string

const (
	MongoCollectionUsers    = "users"
	MongoCollectionAnalyses = "analyses"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "ZMDC_SVC_"
)

const (
	RedisSessionKeyPrefix = "session:"
	DemoAnalysisIDPrefix  = "demo-"
	UploadFormFileKey     = "file"
	UploadFormSeedKey     = "seed"
)

const (
	MinioObjectPrefixImage     = "images"
	MinioObjectPrefixThumbnail = "thumbnails"
	MinioObjectPrefixReport    = "reports"
	ThumbnailExtension         = ".png"
)

const (
	ReportFileNameFormat = "zemedic-report-%s.pdf"
	HealthStatusOK       = "ok"
)
