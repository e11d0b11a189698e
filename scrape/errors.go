package scrape

import "errors"

// ErrInvalidTimeout is returned when options exceed the maximum allowed
// timeout.
var ErrInvalidTimeout = errors.New("scrape: timeout exceeds maximum allowed (120s)")

// ErrInvalidWaitTime is returned when options exceed the maximum allowed
// wait time.
var ErrInvalidWaitTime = errors.New("scrape: wait time exceeds maximum allowed (20s)")

// ErrEmptyResponse is returned when the fetch collaborator produced no
// content at all.
var ErrEmptyResponse = errors.New("scrape: empty response from fetcher")

// ErrNotImplemented is returned by declared-but-unimplemented operations
// (recursive crawling). Callers get an explicit signal instead of a
// silently empty success.
var ErrNotImplemented = errors.New("scrape: operation not implemented")
