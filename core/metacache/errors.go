package metacache

import "errors"

// ErrCorruptEntry indicates a persisted entry could not be decoded.
var ErrCorruptEntry = errors.New("metacache: corrupt entry")
