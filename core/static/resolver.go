package static

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DirResolver resolves request paths against a directory on the local filesystem.
type DirResolver struct {
	root string
}

// Dir creates a resolver rooted at root.
// Panics at startup if root does not exist or is not a directory.
func Dir(root string) *DirResolver {
	cleanRoot := filepath.Clean(root)
	if err := validateStartup(cleanRoot); err != nil {
		panic("static.Dir: " + err.Error())
	}
	return &DirResolver{root: cleanRoot}
}

// Root returns the cleaned document root.
func (d *DirResolver) Root() string {
	return d.root
}

// Resolve opens the file at name. The returned content is the open file handle.
func (d *DirResolver) Resolve(ctx context.Context, name string) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return Resource{}, err
	}

	cleanName := cleanRequestPath(name)
	fullPath := filepath.Join(d.root, filepath.FromSlash(cleanName))

	if err := validatePathSecurity(d.root, fullPath); err != nil {
		return Resource{}, classifyFSError(fs.ErrNotExist, name)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return Resource{}, classifyFSError(err, cleanName)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Resource{}, classifyFSError(err, cleanName)
	}

	meta := FileMetadata{
		Path:    cleanName,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}

	if info.IsDir() {
		_ = f.Close()
		return Resource{Meta: meta}, nil
	}

	return Resource{Meta: meta, Content: f}, nil
}

// FSResolver resolves request paths against an fs.FS such as embed.FS or os.DirFS.
type FSResolver struct {
	fsys fs.FS
}

// FSOption configures an FSResolver.
type FSOption func(*fsConfig)

type fsConfig struct {
	subPath string
}

// WithSubFS serves files from a subdirectory within the fs.FS.
// The path parameter should use forward slashes regardless of OS.
func WithSubFS(subPath string) FSOption {
	return func(c *fsConfig) {
		c.subPath = subPath
	}
}

// FS creates a resolver for fsys.
// Panics at startup if the sub-path is invalid or the filesystem root cannot be opened.
func FS(fsys fs.FS, opts ...FSOption) *FSResolver {
	cfg := &fsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub-path '" + cfg.subPath + "': " + err.Error())
		}
		fsys = sub
	}

	if _, err := fs.Stat(fsys, "."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}

	return &FSResolver{fsys: fsys}
}

// Resolve opens name inside the filesystem.
func (r *FSResolver) Resolve(ctx context.Context, name string) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return Resource{}, err
	}

	cleanName := cleanRequestPath(name)
	fsName := strings.TrimPrefix(cleanName, "/")
	if fsName == "" {
		fsName = "."
	}

	f, err := r.fsys.Open(fsName)
	if err != nil {
		return Resource{}, classifyFSError(err, cleanName)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Resource{}, classifyFSError(err, cleanName)
	}

	meta := FileMetadata{
		Path:    cleanName,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}

	if info.IsDir() {
		_ = f.Close()
		return Resource{Meta: meta}, nil
	}

	return Resource{Meta: meta, Content: f}, nil
}

// cleanRequestPath normalizes a URL path to a rooted, slash separated form.
func cleanRequestPath(name string) string {
	return path.Clean("/" + name)
}
