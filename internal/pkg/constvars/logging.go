package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingUserIDKey     = "user_id"
	LoggingAnalysisIDKey = "analysis_id"
	LoggingModalityKey   = "modality"
	LoggingSeedKey       = "seed"
	LoggingObjectNameKey = "object_name"
	LoggingQueueKey      = "queue"
	LoggingFileNameKey   = "file_name"
	LoggingCountKey      = "count"
	LoggingSizeKey       = "size"
)

const (
	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingClientIPKey   = "client_ip"
	LoggingUserAgentKey  = "user_agent"
	LoggingOperationKey  = "operation"
	LoggingSuccessKey    = "success"
	LoggingBreakerKey    = "breaker"
)
