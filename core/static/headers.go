package static

import (
	"net/http"
	"strconv"
)

const (
	// DefaultServerIdentity is sent in the Server header unless overridden.
	DefaultServerIdentity = "staticserve/0.1.0"

	// DefaultContentType is used when the content type cannot be determined.
	DefaultContentType = "application/octet-stream"
)

// HeaderPolicy holds the configured parts of the response header set.
type HeaderPolicy struct {
	ServerIdentity string
	CacheControl   string
	// Extra headers are added to every file response. Built-in headers win on conflict.
	Extra map[string]string
}

// bodyHeaders describe the representation and are dropped from 304 responses.
var bodyHeaders = []string{"Content-Type", "Content-Length", "Cache-Control"}

// BuildHeaders synthesizes the response headers for a file.
//
// Every response carries Server, ETag, Last-Modified (when known) and the extra
// headers. Full responses add Content-Type, Content-Length and Cache-Control;
// 304 responses omit them.
func BuildHeaders(meta FileMetadata, v Validator, p HeaderPolicy, outcome Outcome) http.Header {
	h := make(http.Header, len(p.Extra)+6)
	for name, value := range p.Extra {
		h.Set(name, value)
	}

	h.Set("Server", serverIdentity(p.ServerIdentity))
	h.Set("ETag", `"`+v.ETag+`"`)
	if v.LastModified != "" {
		h.Set("Last-Modified", v.LastModified)
	} else {
		h.Del("Last-Modified")
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	if p.CacheControl != "" {
		h.Set("Cache-Control", p.CacheControl)
	}

	if outcome == NotModified {
		return notModifiedHeaders(h)
	}
	return h
}

// notModifiedHeaders returns a copy of a full header set without body headers.
func notModifiedHeaders(full http.Header) http.Header {
	h := full.Clone()
	for _, name := range bodyHeaders {
		h.Del(name)
	}
	return h
}

// errorHeaders is the minimal header set of an error response.
func errorHeaders(p HeaderPolicy) http.Header {
	h := make(http.Header, 1)
	h.Set("Server", serverIdentity(p.ServerIdentity))
	return h
}

func serverIdentity(configured string) string {
	if configured == "" {
		return DefaultServerIdentity
	}
	return configured
}

// copyHeader sets every header of src on dst, replacing existing values.
func copyHeader(dst, src http.Header) {
	for name, values := range src {
		dst[name] = append([]string(nil), values...)
	}
}
