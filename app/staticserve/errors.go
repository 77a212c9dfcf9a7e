package staticserve

import "errors"

var (
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
	ErrUnknownCacheBackend   = errors.New("unknown cache backend")
	ErrInvalidCacheSize      = errors.New("cache max entries must be positive")
	ErrDocumentRoot          = errors.New("document root is not a directory")
	ErrInvalidLogLevel       = errors.New("invalid log level")
)
