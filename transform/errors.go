package transform

import "errors"

// ErrParse is returned when HTML cannot be parsed into any usable tree.
// The underlying parser is lenient, so this is rare.
var ErrParse = errors.New("transform: failed to parse HTML")

// ErrSelect is returned when a selector string is malformed or a tree
// query cannot execute.
var ErrSelect = errors.New("transform: failed to select HTML elements")

// ErrURLParse is returned when the base URL cannot be parsed. A bad base
// URL is fatal for the whole transform, unlike per-element join failures
// which are skipped.
var ErrURLParse = errors.New("transform: failed to parse URL")

// ErrNotImplemented is returned for output formats that are declared but
// not yet supported (currently JSON).
var ErrNotImplemented = errors.New("transform: format not implemented")
