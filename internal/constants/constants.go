package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeyLogger = "logger"
)

// HTTP
const (
	HeaderRequestID = "X-Request-ID"
	MaxRequestIDLen = 64
	UploadFormField = "file"
)

// Validation limits
const (
	MaxAIGeneratedTasks = 20
	MaxStoredNameLength = 200
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
