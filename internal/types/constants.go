package types

const (
	ContextUserKey      = "user"
	ContextLoggerKey    = "logger"
	ContextRequestIDKey = "request_id"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
