package static

import (
	"net/http"
	"strings"
)

// Outcome is the result of evaluating a conditional request.
type Outcome int

const (
	// MustServeFull: the client copy is missing or stale.
	MustServeFull Outcome = iota
	// NotModified: the client copy is current, answer with 304.
	NotModified
)

func (o Outcome) String() string {
	if o == NotModified {
		return "not_modified"
	}
	return "must_serve_full"
}

// Evaluate compares the request's conditional headers with v.
//
// If-None-Match is authoritative whenever it is present: a match yields
// NotModified, a mismatch yields MustServeFull and If-Modified-Since is not
// consulted at all. If-Modified-Since is evaluated only without If-None-Match
// and an unparseable date counts as absent.
func Evaluate(v Validator, h http.Header) Outcome {
	if inm, ok := h["If-None-Match"]; ok {
		if etagListMatches(inm, v.ETag) {
			return NotModified
		}
		return MustServeFull
	}

	if ims := h.Get("If-Modified-Since"); ims != "" {
		if notModifiedSince(v.LastModified, ims) {
			return NotModified
		}
	}

	return MustServeFull
}

// etagListMatches reports whether any entity-tag in the If-None-Match values
// matches etag. "*" matches anything; weak tags are compared weakly.
func etagListMatches(values []string, etag string) bool {
	quoted := `"` + etag + `"`
	for _, value := range values {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "*" {
				return true
			}
			tag = strings.TrimPrefix(tag, "W/")
			if tag == quoted || tag == etag {
				return true
			}
		}
	}
	return false
}

// notModifiedSince reports whether lastModified is not after since.
// Both sides have whole-second resolution.
func notModifiedSince(lastModified, since string) bool {
	if lastModified == "" {
		return false
	}
	sinceTime, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	modTime, err := http.ParseTime(lastModified)
	if err != nil {
		return false
	}
	return !modTime.After(sinceTime)
}
