package static_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticserve/core/metacache"
	"github.com/dmitrymomot/staticserve/core/static"
)

const (
	helloBody = "Hello, world"
	indexBody = "<html><body>home</body></html>"
)

// newDocRoot creates a document root with a text file, an index page and a
// subdirectory without an index.
func newDocRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte(helloBody), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(indexBody), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "index.html"), []byte("<p>docs</p>"), 0644))
	return root
}

func get(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for name, values := range header {
		req.Header[name] = values
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerScenarios(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)

	t.Run("unknown_path_with_custom_completion", func(t *testing.T) {
		t.Parallel()

		srv := static.New(static.Dir(root),
			static.WithCompletion(func(w http.ResponseWriter, r *http.Request, res static.Result) {
				if res.Err == nil || res.HeadersSent() {
					return
				}
				for name, values := range res.Err.Header {
					w.Header()[name] = values
				}
				w.WriteHeader(res.Err.Status)
				_, _ = w.Write([]byte("Custom 404 page"))
			}),
		)

		rec := get(t, srv, http.MethodGet, "/does-not-exist.txt", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Custom 404 page", rec.Body.String())
		assert.Equal(t, static.DefaultServerIdentity, rec.Header().Get("Server"))
	})

	t.Run("unknown_path_without_completion_terminates", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(static.New(static.Dir(root)))
		defer ts.Close()

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(ts.URL + "/does-not-exist.txt")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("text_file", func(t *testing.T) {
		t.Parallel()

		rec := get(t, static.New(static.Dir(root)), http.MethodGet, "/hello.txt", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		assert.Equal(t, "12", rec.Header().Get("Content-Length"))
		assert.Equal(t, helloBody, rec.Body.String())
	})

	t.Run("document_root_serves_index", func(t *testing.T) {
		t.Parallel()

		rec := get(t, static.New(static.Dir(root)), http.MethodGet, "/", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
		assert.Equal(t, indexBody, rec.Body.String())
	})

	t.Run("if_none_match_gives_not_modified", func(t *testing.T) {
		t.Parallel()

		srv := static.New(static.Dir(root))

		first := get(t, srv, http.MethodGet, "/hello.txt", nil)
		etag := first.Header().Get("ETag")
		require.NotEmpty(t, etag)

		second := get(t, srv, http.MethodGet, "/hello.txt", http.Header{"If-None-Match": {etag}})

		assert.Equal(t, http.StatusNotModified, second.Code)
		assert.Empty(t, second.Body.String())
		assert.Equal(t, etag, second.Header().Get("ETag"))
		assert.Empty(t, second.Header().Values("Content-Type"))
		assert.Empty(t, second.Header().Values("Content-Length"))
	})

	t.Run("etag_takes_precedence_over_date", func(t *testing.T) {
		t.Parallel()

		srv := static.New(static.Dir(root))

		first := get(t, srv, http.MethodGet, "/hello.txt", nil)
		lastModified, err := http.ParseTime(first.Header().Get("Last-Modified"))
		require.NoError(t, err)

		second := get(t, srv, http.MethodGet, "/hello.txt", http.Header{
			"If-None-Match":     {`"not-the-etag"`},
			"If-Modified-Since": {lastModified.Add(24 * time.Hour).Format(http.TimeFormat)},
		})

		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, helloBody, second.Body.String())
	})

	t.Run("head_has_no_body", func(t *testing.T) {
		t.Parallel()

		srv := static.New(static.Dir(root), static.WithServerIdentity("test-server/1.0"))

		rec := get(t, srv, http.MethodHead, "/hello.txt", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "test-server/1.0", rec.Header().Get("Server"))
		assert.Equal(t, "12", rec.Header().Get("Content-Length"))
	})
}

func TestServerHead(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	srv := static.New(static.Dir(root))

	full := get(t, srv, http.MethodGet, "/hello.txt", nil)
	head := get(t, srv, http.MethodHead, "/hello.txt", nil)

	assert.Equal(t, full.Header(), head.Header(), "HEAD carries the GET headers")

	notModified := get(t, srv, http.MethodHead, "/hello.txt", http.Header{"If-None-Match": {full.Header().Get("ETag")}})
	assert.Equal(t, http.StatusNotModified, notModified.Code)
	assert.Empty(t, notModified.Body.String())
}

func TestServerResults(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	srv := static.New(static.Dir(root), static.WithCacheControl("public, max-age=60"))

	tests := []struct {
		name     string
		method   string
		target   string
		status   int
		kind     static.ErrorKind
		sentinel error
	}{
		{
			name:   "file",
			method: http.MethodGet,
			target: "/hello.txt",
			status: http.StatusOK,
		},
		{
			name:   "nested_index",
			method: http.MethodGet,
			target: "/docs/",
			status: http.StatusOK,
		},
		{
			name:   "nested_index_without_slash",
			method: http.MethodGet,
			target: "/docs",
			status: http.StatusOK,
		},
		{
			name:     "directory_without_index",
			method:   http.MethodGet,
			target:   "/empty/",
			status:   http.StatusNotFound,
			kind:     static.KindNotFound,
			sentinel: static.ErrNotFound,
		},
		{
			name:     "missing_file",
			method:   http.MethodGet,
			target:   "/missing.txt",
			status:   http.StatusNotFound,
			kind:     static.KindNotFound,
			sentinel: static.ErrNotFound,
		},
		{
			name:     "post_not_allowed",
			method:   http.MethodPost,
			target:   "/hello.txt",
			status:   http.StatusMethodNotAllowed,
			kind:     static.KindMethodNotAllowed,
			sentinel: static.ErrMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			res := srv.Serve(rec, req)

			assert.Equal(t, tt.status, res.Status)
			if tt.sentinel == nil {
				assert.True(t, res.OK())
				assert.True(t, res.HeadersSent())
				assert.Equal(t, "public, max-age=60", res.Header.Get("Cache-Control"))
				return
			}

			require.NotNil(t, res.Err)
			assert.False(t, res.OK())
			assert.False(t, res.HeadersSent())
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Equal(t, tt.status, res.Err.StatusCode())
			assert.ErrorIs(t, res.Err, tt.sentinel)
			assert.Empty(t, rec.Body.String(), "nothing is written on failure")
			assert.Empty(t, rec.Header().Values("ETag"))
			assert.Empty(t, res.Err.Header.Values("Cache-Control"))
		})
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := static.New(static.Dir(newDocRoot(t)))
	rec := get(t, srv, http.MethodDelete, "/hello.txt", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.Empty(t, rec.Body.String())
}

func TestServerCompletionCalledOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var results []static.Result

	srv := static.New(static.Dir(newDocRoot(t)),
		static.WithCompletion(func(_ http.ResponseWriter, _ *http.Request, res static.Result) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
		}),
	)

	get(t, srv, http.MethodGet, "/hello.txt", nil)
	get(t, srv, http.MethodGet, "/missing.txt", nil)

	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.Equal(t, "/hello.txt", results[0].Path)
	assert.Equal(t, int64(len(helloBody)), results[0].Written)
	assert.False(t, results[1].OK())
	assert.Equal(t, static.KindNotFound, results[1].Err.Kind)
}

func TestServerCustomHeaders(t *testing.T) {
	t.Parallel()

	srv := static.New(static.Dir(newDocRoot(t)),
		static.WithHeader("X-Content-Type-Options", "nosniff"),
		static.WithCacheControl("no-cache"),
	)

	full := get(t, srv, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, "nosniff", full.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-cache", full.Header().Get("Cache-Control"))

	notModified := get(t, srv, http.MethodGet, "/hello.txt", http.Header{"If-None-Match": {full.Header().Get("ETag")}})
	assert.Equal(t, http.StatusNotModified, notModified.Code)
	assert.Equal(t, "nosniff", notModified.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, notModified.Header().Values("Cache-Control"))
}

func TestServerStripPrefix(t *testing.T) {
	t.Parallel()

	srv := static.New(static.Dir(newDocRoot(t)), static.WithStripPrefix("/assets"))

	rec := get(t, srv, http.MethodGet, "/assets/hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, helloBody, rec.Body.String())

	rec = get(t, srv, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerIndexFile(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "default.htm"), []byte("default"), 0644))

	srv := static.New(static.Dir(root), static.WithIndexFile("default.htm"))
	rec := get(t, srv, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", rec.Body.String())
}

func TestServerContentTypes(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob"), []byte{0x00, 0x01}, 0644))

	srv := static.New(static.Dir(root))
	rec := get(t, srv, http.MethodGet, "/blob", nil)
	assert.Equal(t, static.DefaultContentType, rec.Header().Get("Content-Type"))

	custom := static.New(static.Dir(root), static.WithContentTypes(func(string) string { return "application/x-custom" }))
	rec = get(t, custom, http.MethodGet, "/blob", nil)
	assert.Equal(t, "application/x-custom", rec.Header().Get("Content-Type"))
}

func TestServerMetadataCache(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	cache := metacache.New[static.CacheEntry](nil)
	srv := static.New(static.Dir(root), static.WithMetadataCache(cache))

	first := get(t, srv, http.MethodGet, "/hello.txt", nil)
	second := get(t, srv, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, first.Header().Get("ETag"), second.Header().Get("ETag"))

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Hits)

	// Rewriting the file with a different size invalidates the entry.
	file := filepath.Join(root, "hello.txt")
	require.NoError(t, os.WriteFile(file, []byte("Hello, world!!"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(file, later, later))

	third := get(t, srv, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, "Hello, world!!", third.Body.String())
	assert.Equal(t, "14", third.Header().Get("Content-Length"))
	assert.NotEqual(t, first.Header().Get("ETag"), third.Header().Get("ETag"))
	assert.Equal(t, uint64(1), cache.Stats().Refreshes)

	// A stale client copy now gets the full body.
	stale := get(t, srv, http.MethodGet, "/hello.txt", http.Header{"If-None-Match": {first.Header().Get("ETag")}})
	assert.Equal(t, http.StatusOK, stale.Code)
}

func TestServerContentHashETags(t *testing.T) {
	t.Parallel()

	root := newDocRoot(t)
	srv := static.New(static.Dir(root), static.WithContentHashETags())

	first := get(t, srv, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, helloBody, first.Body.String(), "body is streamed from the start after hashing")

	// Touching the file keeps a content-derived ETag.
	file := filepath.Join(root, "hello.txt")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))

	second := get(t, srv, http.MethodGet, "/hello.txt", http.Header{"If-None-Match": {first.Header().Get("ETag")}})
	assert.Equal(t, http.StatusNotModified, second.Code)
}

func TestServerCancelledBeforeHeaders(t *testing.T) {
	t.Parallel()

	srv := static.New(static.Dir(newDocRoot(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/hello.txt", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	res := srv.Serve(rec, req)

	require.NotNil(t, res.Err)
	assert.Equal(t, static.KindStreamInterrupted, res.Err.Kind)
	assert.ErrorIs(t, res.Err, static.ErrStreamInterrupted)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, res.HeadersSent())
	assert.Empty(t, rec.Header().Values("ETag"))

	// The default completion stays silent for interrupted streams.
	static.DefaultCompletion(rec, req, res)
	assert.Empty(t, rec.Header().Values("Server"))
	assert.Empty(t, rec.Body.String())
}

// cancelingReader cancels the request after the first chunk.
type cancelingReader struct {
	data   *bytes.Reader
	cancel context.CancelFunc
	closed bool
}

func (r *cancelingReader) Read(p []byte) (int, error) {
	n, err := r.data.Read(p[:min(len(p), 4)])
	r.cancel()
	return n, err
}

func (r *cancelingReader) Close() error {
	r.closed = true
	return nil
}

func TestServerCancelledMidStream(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	content := &cancelingReader{data: bytes.NewReader([]byte(helloBody)), cancel: cancel}
	resolver := static.ResolverFunc(func(context.Context, string) (static.Resource, error) {
		return static.Resource{
			Meta:    static.FileMetadata{Path: "/hello.txt", Size: int64(len(helloBody)), ModTime: time.Now()},
			Content: content,
		}, nil
	})

	srv := static.New(resolver)
	req := httptest.NewRequest(http.MethodGet, "/hello.txt", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	res := srv.Serve(rec, req)

	require.NotNil(t, res.Err)
	assert.Equal(t, static.KindStreamInterrupted, res.Err.Kind)
	assert.True(t, res.HeadersSent())
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, int64(4), res.Written)
	assert.Equal(t, "Hell", rec.Body.String())
	assert.True(t, content.closed, "file handle is released")
}

func TestServerResolverErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		kind   static.ErrorKind
	}{
		{"permission", static.ErrPermission, http.StatusForbidden, static.KindIO},
		{"io", errors.New("disk on fire"), http.StatusInternalServerError, static.KindIO},
		{"not_found", static.ErrNotFound, http.StatusNotFound, static.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := static.New(static.ResolverFunc(func(context.Context, string) (static.Resource, error) {
				return static.Resource{}, tt.err
			}))

			rec := get(t, srv, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Body.String())

			res := srv.Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.ErrorIs(t, res.Err, tt.err)
		})
	}
}

func TestServerFS(t *testing.T) {
	t.Parallel()

	srv := static.New(static.FS(os.DirFS(newDocRoot(t))))

	rec := get(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, indexBody, rec.Body.String())

	rec = get(t, srv, http.MethodGet, "/../hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, helloBody, rec.Body.String())
}

func TestServerConcurrent(t *testing.T) {
	t.Parallel()

	srv := static.New(static.Dir(newDocRoot(t)), static.WithMetadataCache(metacache.New[static.CacheEntry](nil)))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := get(t, srv, http.MethodGet, "/hello.txt", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, helloBody, rec.Body.String())
		}()
	}
	wg.Wait()
}

func TestNewPanicsWithoutResolver(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		static.New(nil)
	})
}
