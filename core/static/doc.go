// Package static serves files over HTTP with conditional request support.
//
// A Server resolves the request path through a Resolver, computes validators
// (ETag and Last-Modified), evaluates If-None-Match / If-Modified-Since and
// either answers 304 Not Modified or streams the file with its metadata headers.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/staticserve/core/static"
//
//	srv := static.New(static.Dir("./public"),
//		static.WithServerIdentity("my-server"),
//		static.WithCacheControl("public, max-age=300"),
//	)
//	http.ListenAndServe(":8080", srv)
//
// Or build it from environment variables:
//
//	var cfg static.Config
//	config.MustLoad(&cfg)
//	srv := static.NewFromConfig(cfg, nil)
//
// # Resolvers
//
// Dir serves a directory on the local filesystem, FS serves any fs.FS
// (embed.FS, os.DirFS), and integration/storage/s3 serves objects from a
// bucket. Directory requests are answered with the index file
// (WithIndexFile, default "index.html"); a directory without one is a 404.
//
// # Conditional Requests
//
// If-None-Match takes precedence over If-Modified-Since: when it is present
// its result is final, matched or not. If-Modified-Since is only compared, at
// one-second granularity, when the request carries no If-None-Match.
//
// # Custom Error Handling
//
// Serve returns a Result instead of writing error responses. ServeHTTP passes
// that Result to a Completion exactly once; the default completion writes the
// error status with minimal headers and an empty body. A custom completion can
// render its own page while keeping the engine's status and headers:
//
//	srv := static.New(static.Dir("./public"),
//		static.WithCompletion(func(w http.ResponseWriter, r *http.Request, res static.Result) {
//			if res.Err == nil || res.HeadersSent() {
//				return
//			}
//			for name, values := range res.Err.Header {
//				w.Header()[name] = values
//			}
//			w.WriteHeader(res.Err.Status)
//			_, _ = w.Write([]byte("Custom 404 page"))
//		}),
//	)
//
// # Metadata Cache
//
// WithMetadataCache memoizes validators and headers per resolved path
// (see core/metacache). Entries are revalidated against the file's size and
// modification time on every request and replaced, never mutated, on drift.
//
// # HEAD Requests
//
// HEAD responses carry exactly the headers of the equivalent GET and never a body.
package static
