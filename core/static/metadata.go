package static

import (
	"context"
	"io"
	"time"
)

// FileMetadata is a snapshot of a resolved file taken at resolution time.
type FileMetadata struct {
	// Path is the resolved name, slash separated and rooted at "/".
	// It is also the metadata cache key.
	Path        string
	Size        int64
	ModTime     time.Time
	ContentType string
	IsDir       bool
}

// Resource is the outcome of a successful resolution.
// Content is nil for directories and must be closed by the caller otherwise.
type Resource struct {
	Meta    FileMetadata
	Content io.ReadCloser
}

// Close releases the content handle, if any.
func (r Resource) Close() error {
	if r.Content == nil {
		return nil
	}
	return r.Content.Close()
}

// Resolver maps a request path to a file.
//
// Implementations return ErrNotFound (possibly wrapped) when the path does not
// exist, ErrPermission when it cannot be read, and any other error for I/O
// failures. Directories are reported with Meta.IsDir set and no content.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Resource, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (Resource, error)

// Resolve calls f(ctx, name).
func (f ResolverFunc) Resolve(ctx context.Context, name string) (Resource, error) {
	return f(ctx, name)
}
