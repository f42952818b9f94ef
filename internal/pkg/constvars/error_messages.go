package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"modality": "must be one of [xray, ct-scan, skin]",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotLoggedIn                   = "Not authenticated"
	ErrClientEmailAlreadyRegistered        = "Email already registered"
	ErrClientIncorrectEmailOrPassword      = "Incorrect email or password"
	ErrClientFileMustBeImage               = "File must be an image"
	ErrClientFileTooLarge                  = "File is too large"
	ErrClientFileMissing                   = "No file was uploaded"
	ErrClientUnknownModality               = "Unknown analysis type"
	ErrClientAnalysisNotFound              = "Analysis not found"
	ErrClientAnalysisForbidden             = "Not authorized to access this analysis"
	ErrClientUserNotFound                  = "User not found"
	ErrClientTooManyRequests               = "Too many requests, please try again later"
	ErrClientDemoDisabled                  = "Demo mode is not available"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevFailedToHashPassword     = "failed to hash password"
	ErrDevInvalidCredentials       = "invalid credentials"
	ErrDevEmailAlreadyExists       = "email already exists"
	ErrDevUserNotExists            = "user not exists in our system"
	ErrDevUnknownModality          = "unknown modality %s"
	ErrDevSeedInvalid              = "seed must be an integer"

	// Validation messages
	ErrDevValidationFailed           = "validation failed"
	ErrDevImageValidationFailed      = "image validation failed"
	ErrDevImageDecodeFailed          = "failed to decode uploaded image"
	ErrDevDICOMParseFailed           = "failed to parse DICOM upload"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthInvalidSession        = "invalid session"
	ErrDevAuthGenerateToken         = "failed to generate token"

	// Analysis messages
	ErrDevAnalysisNotFound  = "analysis %s not found"
	ErrDevAnalysisForbidden = "analysis %s belongs to another user"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments = "failed when iterating documents from database"
	ErrDevDBFailedToCreateIndex      = "failed to create index on collection %s"
	ErrDevDBStringNotObjectID        = "given ID is not valid object ID"

	// Minio messages
	ErrDevMinioFailedToCreateObject          = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObject             = "failed to get object from minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObjectPresignedURL = "failed to get object URL from minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"

	// RabbitMQ messages
	ErrDevRabbitMQPublish = "failed to publish message into queue %s"

	// Report messages
	ErrDevReportRender = "failed to render analysis report"

	// Server messages
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerParseSessionData = "failed to parse session data"
	ErrDevServerPanic            = "recovered from panic: %v"
	ErrDevRequestLimitExceeded   = "request limit exceeded"
	ErrDevDemoDisabled           = "demo endpoint disabled by configuration"
)
