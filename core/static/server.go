package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrymomot/staticserve/core/logger"
	"github.com/dmitrymomot/staticserve/core/metacache"
)

// DefaultIndexFile is served for directory requests unless overridden.
const DefaultIndexFile = "index.html"

// CacheEntry is what the metadata cache memoizes per file: the validator and
// the full (200) header set. Cached headers are shared and never mutated.
type CacheEntry struct {
	Validator Validator   `json:"validator"`
	Header    http.Header `json:"header"`
}

// Server serves files from a Resolver with conditional request support.
// Safe for concurrent use.
type Server struct {
	resolver    Resolver
	indexFile   string
	policy      HeaderPolicy
	contentType ContentTypeFunc
	cache       *metacache.Cache[CacheEntry]
	hashETags   bool
	completion  Completion
	stripPrefix string
	logger      *slog.Logger
}

// New creates a Server on top of resolver.
// Panics at startup if resolver is nil.
func New(resolver Resolver, opts ...Option) *Server {
	if resolver == nil {
		panic("static.New: resolver is required")
	}

	s := &Server{
		resolver:    resolver,
		indexFile:   DefaultIndexFile,
		contentType: LookupContentType,
		logger:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServeHTTP implements http.Handler. It serves the request and hands the
// result to the configured completion, or DefaultCompletion when none is set.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := s.Serve(w, r)

	complete := s.completion
	if complete == nil {
		complete = DefaultCompletion
	}
	complete(w, r, res)
}

// Serve resolves the request path, evaluates conditional headers and writes
// either a 304 or the full file. On failure nothing is written unless the body
// stream broke after the headers went out; the returned Result describes what
// happened in either case.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request) Result {
	ctx := r.Context()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return s.fail(ctx, r, r.URL.Path, ErrMethodNotAllowed)
	}

	name, ok := s.requestPath(r)
	if !ok {
		return s.fail(ctx, r, r.URL.Path, fmt.Errorf("%w: %s", ErrNotFound, r.URL.Path))
	}

	res, err := s.resolve(ctx, name)
	if err != nil {
		return s.fail(ctx, r, name, err)
	}
	defer func() { _ = res.Close() }()

	if res.Meta.ContentType == "" {
		res.Meta.ContentType = s.contentType(res.Meta.Path)
	}

	entry, err := s.describe(ctx, res)
	if err != nil {
		return s.fail(ctx, r, res.Meta.Path, err)
	}

	if err := ctx.Err(); err != nil {
		return s.interrupted(ctx, res.Meta.Path, Result{Path: res.Meta.Path}, err)
	}

	outcome := Evaluate(entry.Validator, r.Header)

	if outcome == NotModified {
		header := notModifiedHeaders(entry.Header)
		copyHeader(w.Header(), header)
		w.WriteHeader(http.StatusNotModified)

		s.logger.DebugContext(ctx, "file not modified",
			logger.Component("static"),
			logger.Path(res.Meta.Path),
			logger.ETag(entry.Validator.ETag),
			logger.Outcome(outcome.String()),
		)

		return Result{
			Status:      http.StatusNotModified,
			Header:      header,
			Path:        res.Meta.Path,
			Outcome:     outcome,
			headersSent: true,
		}
	}

	copyHeader(w.Header(), entry.Header)
	w.WriteHeader(http.StatusOK)

	result := Result{
		Status:      http.StatusOK,
		Header:      entry.Header.Clone(),
		Path:        res.Meta.Path,
		Outcome:     outcome,
		headersSent: true,
	}

	if r.Method == http.MethodHead {
		return result
	}

	n, err := io.Copy(w, contextReader{ctx: ctx, r: res.Content})
	result.Written = n
	if err != nil {
		return s.interrupted(ctx, res.Meta.Path, result, err)
	}

	s.logger.DebugContext(ctx, "file served",
		logger.Component("static"),
		logger.Path(res.Meta.Path),
		logger.ETag(entry.Validator.ETag),
		logger.BytesOut(n),
	)

	return result
}

// requestPath applies the strip prefix to the URL path.
func (s *Server) requestPath(r *http.Request) (string, bool) {
	name := r.URL.Path
	if s.stripPrefix == "" {
		return name, true
	}
	trimmed := strings.TrimPrefix(name, s.stripPrefix)
	if len(trimmed) == len(name) {
		return "", false
	}
	return trimmed, true
}

// resolve resolves name and, for directories, the index file inside it.
// The index lookup is the only secondary resolution.
func (s *Server) resolve(ctx context.Context, name string) (Resource, error) {
	res, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return Resource{}, err
	}
	if !res.Meta.IsDir {
		return res, nil
	}
	_ = res.Close()

	index := path.Join(cleanRequestPath(name), s.indexFile)
	res, err = s.resolver.Resolve(ctx, index)
	if err != nil {
		return Resource{}, err
	}
	if res.Meta.IsDir {
		_ = res.Close()
		return Resource{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, index)
	}
	return res, nil
}

// describe returns the validator and headers for res, through the metadata cache when enabled.
func (s *Server) describe(ctx context.Context, res Resource) (CacheEntry, error) {
	compute := func() (CacheEntry, error) {
		v, err := s.validator(res)
		if err != nil {
			return CacheEntry{}, err
		}
		return CacheEntry{
			Validator: v,
			Header:    BuildHeaders(res.Meta, v, s.policy, MustServeFull),
		}, nil
	}

	if s.cache == nil {
		return compute()
	}

	snap := metacache.Snapshot{Size: res.Meta.Size, ModTime: res.Meta.ModTime}
	return s.cache.GetOrCompute(ctx, res.Meta.Path, snap, compute)
}

func (s *Server) validator(res Resource) (Validator, error) {
	if !s.hashETags {
		return ComputeValidator(res.Meta), nil
	}

	seeker, ok := res.Content.(io.ReadSeeker)
	if !ok {
		return ComputeValidator(res.Meta), nil
	}

	v, err := HashValidator(res.Meta, seeker)
	if err != nil {
		return Validator{}, err
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return Validator{}, fmt.Errorf("rewind %s: %w", res.Meta.Path, err)
	}
	return v, nil
}

// fail builds the error result for a request that failed before any byte was written.
func (s *Server) fail(ctx context.Context, r *http.Request, name string, err error) Result {
	e := &Error{
		Header: errorHeaders(s.policy),
		Err:    err,
	}

	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		e.Kind = KindMethodNotAllowed
		e.Status = http.StatusMethodNotAllowed
		e.Header.Set("Allow", "GET, HEAD")
	case errors.Is(err, ErrNotFound):
		e.Kind = KindNotFound
		e.Status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return s.interrupted(ctx, name, Result{Path: name}, err)
	case errors.Is(err, ErrPermission):
		e.Kind = KindIO
		e.Status = http.StatusForbidden
	default:
		e.Kind = KindIO
		e.Status = http.StatusInternalServerError
	}
	e.Message = http.StatusText(e.Status)

	level := slog.LevelDebug
	if e.Kind == KindIO {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "file not served",
		logger.Component("static"),
		logger.Method(r.Method),
		logger.Path(name),
		logger.StatusCode(e.Status),
		logger.Error(err),
	)

	return Result{
		Status: e.Status,
		Header: e.Header,
		Path:   name,
		Err:    e,
	}
}

// interrupted marks result as cut short by the client or a read failure.
// It is terminal and quiet: nothing more is written for this request.
func (s *Server) interrupted(ctx context.Context, name string, result Result, err error) Result {
	result.Err = &Error{
		Kind:    KindStreamInterrupted,
		Status:  http.StatusInternalServerError,
		Header:  result.Header,
		Message: http.StatusText(http.StatusInternalServerError),
		Err:     fmt.Errorf("%w: %w", ErrStreamInterrupted, err),
	}
	if !result.headersSent {
		result.Status = http.StatusInternalServerError
	}

	s.logger.DebugContext(ctx, "stream interrupted",
		logger.Component("static"),
		logger.Path(name),
		logger.BytesOut(result.Written),
		logger.Error(err),
	)

	return result
}
