package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	ExportFormatJSON = "json"
	ExportFormatYAML = "yaml"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
	ContextAdmin     = "admin"
)

// 日志中截断响应体的长度
const LogBodyPreview = 200
