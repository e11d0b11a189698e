// Package transform implements the HTML content-extraction pipeline:
// selective document pruning, responsive-image and URL resolution, and
// markdown rendering.
//
// The pipeline is a pure, synchronous, in-memory transformation. Each
// call parses its own document, mutates it in place, serializes once
// after resolution, and discards the tree. Given identical input, URL
// and options the output is byte-identical: all traversal is in document
// order and nothing observable depends on map iteration.
package transform

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// Format selects the output encoding of a transform.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	// FormatJSON is declared but not implemented. Requesting it returns
	// ErrNotImplemented instead of silently falling back to HTML.
	FormatJSON Format = "json"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatHTML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Options configures one transform call. The value is immutable for the
// duration of the call.
type Options struct {
	// URL is the absolute base URL that relative img src and anchor href
	// values resolve against. Unparseable → ErrURLParse (fatal).
	URL string

	// IncludeTags, when non-empty, rebuilds the document from only the
	// subtrees matching these selectors, in the order given.
	IncludeTags []string

	// ExcludeTags are removed after structural noise, before the
	// main-content heuristic.
	ExcludeTags []string

	// OnlyMainContent removes boilerplate regions (navigation, ads,
	// footers, ...) unless protected by a force-include selector.
	OnlyMainContent bool

	// NonMainSelectors and ForceIncludeSelectors override the built-in
	// heuristic lists when non-nil. Tests inject trimmed lists here.
	NonMainSelectors      []string
	ForceIncludeSelectors []string
}

func (o Options) nonMain() []string {
	if o.NonMainSelectors != nil {
		return o.NonMainSelectors
	}
	return defaultNonMainSelectors
}

func (o Options) forceInclude() []string {
	if o.ForceIncludeSelectors != nil {
		return o.ForceIncludeSelectors
	}
	return defaultForceIncludeSelectors
}

// Transform runs the full pipeline on raw HTML: prune → resolve → render,
// then markdown conversion when requested.
//
// Fatal errors (parse, selector, base URL) abort with no partial output.
// Non-fatal conditions — a single attribute failing to join, markdown
// conversion failure — are absorbed and the call completes best-effort.
func Transform(rawHTML string, format Format, opts Options) (string, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return "", err
	}

	doc, err = prune(doc, opts)
	if err != nil {
		return "", err
	}

	// The resolver mutates attributes on the live tree, so it must run
	// before the single serialization below.
	if err := resolveURLs(doc, opts.URL); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: render: %v", ErrParse, err)
	}
	rendered := buf.String()

	switch format {
	case FormatMarkdown:
		return toMarkdown(rendered), nil
	case FormatHTML:
		return rendered, nil
	case FormatJSON:
		return "", fmt.Errorf("%w: json", ErrNotImplemented)
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
