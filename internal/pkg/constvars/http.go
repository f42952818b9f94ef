package constvars

const (
	MIMEApplicationJSON  = "application/json"
	MIMEApplicationPDF   = "application/pdf"
	MIMEApplicationDICOM = "application/dicom"
	MIMEApplicationForm  = "application/x-www-form-urlencoded"
	MIMEOctetStream      = "application/octet-stream"
	MIMEMultipartForm    = "multipart/form-data"
	MIMEImagePNG         = "image/png"
	MIMEImagePrefix      = "image/"
)

const (
	StatusOK                    = 200
	StatusBadRequest            = 400
	StatusUnauthorized          = 401
	StatusForbidden             = 403
	StatusNotFound              = 404
	StatusRequestEntityTooLarge = 413
	StatusTooManyRequests       = 429
	StatusInternalServerError   = 500
	StatusGatewayTimeout        = 504
)

const (
	HeaderAuthorization      = "Authorization"
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderRetryAfter         = "Retry-After"
	HeaderXRequestID         = "X-Request-ID"
)

const (
	AuthorizationBearerPrefix = "Bearer "
	TokenTypeBearer           = "bearer"
)
