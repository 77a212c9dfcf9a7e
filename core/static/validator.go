package static

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Validator holds the values a client uses to revalidate its cached copy.
type Validator struct {
	// ETag is the unquoted strong entity tag.
	ETag string `json:"etag"`
	// LastModified is an IMF-fixdate truncated to whole seconds, empty for unknown times.
	LastModified string `json:"last_modified"`
}

// ComputeValidator derives the validator pair from file metadata.
// Equal (size, modification time) pairs always give equal validators and a
// change in either one changes the ETag.
func ComputeValidator(meta FileMetadata) Validator {
	return Validator{
		ETag:         strconv.FormatInt(meta.Size, 16) + "-" + strconv.FormatUint(modTimeStamp(meta.ModTime), 16),
		LastModified: lastModified(meta.ModTime),
	}
}

// HashValidator derives the ETag from the file content instead of its
// modification time. Last-Modified is still taken from meta.
func HashValidator(meta FileMetadata, content io.Reader) (Validator, error) {
	h := xxhash.New()
	n, err := io.Copy(h, content)
	if err != nil {
		return Validator{}, fmt.Errorf("hash content of %s: %w", meta.Path, err)
	}
	return Validator{
		ETag:         strconv.FormatInt(n, 16) + "-" + strconv.FormatUint(h.Sum64(), 16),
		LastModified: lastModified(meta.ModTime),
	}, nil
}

func modTimeStamp(t time.Time) uint64 {
	if isZeroTime(t) {
		return 0
	}
	return uint64(t.UnixNano())
}

func lastModified(t time.Time) string {
	if isZeroTime(t) {
		return ""
	}
	return t.UTC().Truncate(time.Second).Format(http.TimeFormat)
}

// isZeroTime reports whether t is obviously unspecified (either zero or Unix()=0).
func isZeroTime(t time.Time) bool {
	return t.IsZero() || t.Equal(time.Unix(0, 0))
}
