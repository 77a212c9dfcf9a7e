package static

import (
	"log/slog"

	"github.com/dmitrymomot/staticserve/core/metacache"
)

// Option configures a Server.
type Option func(*Server)

// WithIndexFile sets the file served for directory requests (default: "index.html").
func WithIndexFile(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.indexFile = name
		}
	}
}

// WithServerIdentity overrides the Server header value.
func WithServerIdentity(identity string) Option {
	return func(s *Server) {
		s.policy.ServerIdentity = identity
	}
}

// WithCacheControl sets the Cache-Control header of full responses.
func WithCacheControl(value string) Option {
	return func(s *Server) {
		s.policy.CacheControl = value
	}
}

// WithHeader adds a custom header to every file response.
func WithHeader(name, value string) Option {
	return func(s *Server) {
		if s.policy.Extra == nil {
			s.policy.Extra = make(map[string]string)
		}
		s.policy.Extra[name] = value
	}
}

// WithContentTypes replaces the content type lookup.
func WithContentTypes(fn ContentTypeFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.contentType = fn
		}
	}
}

// WithMetadataCache memoizes validators and headers per resolved path.
// Passing nil disables caching.
func WithMetadataCache(c *metacache.Cache[CacheEntry]) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithContentHashETags derives ETags from file content for seekable resources.
// Pair it with a metadata cache: hashing reads the whole file.
func WithContentHashETags() Option {
	return func(s *Server) {
		s.hashETags = true
	}
}

// WithCompletion sets the function ServeHTTP calls after every request.
// Use it to render custom error pages on top of the engine's status and headers.
func WithCompletion(fn Completion) Option {
	return func(s *Server) {
		s.completion = fn
	}
}

// WithStripPrefix removes prefix from the URL path before resolution.
// Paths without the prefix resolve as not found.
func WithStripPrefix(prefix string) Option {
	return func(s *Server) {
		s.stripPrefix = prefix
	}
}

// WithLogger sets the logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
