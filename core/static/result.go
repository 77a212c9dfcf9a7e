package static

import "net/http"

// Result is the outcome of Server.Serve.
//
// A successful result has a nil Err and describes what was written. A failed
// result carries an *Error; whether anything reached the client is reported by
// HeadersSent.
type Result struct {
	Status  int
	Header  http.Header
	Path    string
	Outcome Outcome
	Written int64
	Err     *Error

	headersSent bool
}

// OK reports whether the request was served without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// HeadersSent reports whether the status line and headers were already written.
func (r Result) HeadersSent() bool {
	return r.headersSent
}

// Completion finishes a request after Serve returned. ServeHTTP calls it exactly
// once per request with either a successful or a failed Result.
type Completion func(w http.ResponseWriter, r *http.Request, res Result)

// DefaultCompletion writes the error status and headers with an empty body for
// failures that have not reached the client yet. Successful results and
// interrupted streams are left alone.
func DefaultCompletion(w http.ResponseWriter, _ *http.Request, res Result) {
	if res.Err == nil || res.HeadersSent() || res.Err.Kind == KindStreamInterrupted {
		return
	}
	copyHeader(w.Header(), res.Err.Header)
	w.WriteHeader(res.Err.Status)
}
