package static

import (
	"mime"
	"path"
	"strings"
)

// ContentTypeFunc maps a file name to a media type. It returns "" when unknown.
type ContentTypeFunc func(name string) string

// contentTypes covers the common web extensions independently of the host's
// mime.types files, which vary between systems.
var contentTypes = map[string]string{
	".html":        "text/html",
	".htm":         "text/html",
	".txt":         "text/plain",
	".text":        "text/plain",
	".md":          "text/markdown",
	".css":         "text/css",
	".csv":         "text/csv",
	".xml":         "application/xml",
	".js":          "application/javascript",
	".mjs":         "application/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".wasm":        "application/wasm",
	".pdf":         "application/pdf",
	".zip":         "application/zip",
	".gz":          "application/gzip",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".svg":         "image/svg+xml",
	".ico":         "image/x-icon",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".mp3":         "audio/mpeg",
	".ogg":         "audio/ogg",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
}

// LookupContentType is the default ContentTypeFunc. It consults the built-in
// table first, then the system registry, and strips media type parameters.
func LookupContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ""
	}
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}
