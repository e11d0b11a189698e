package transform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// structuralNoiseSelectors are always removed: they never carry visible
// page content.
var structuralNoiseSelectors = []string{"head", "meta", "noscript", "style", "script"}

// defaultNonMainSelectors are regions treated as boilerplate when
// OnlyMainContent is set: navigation, headers/footers, ads, social
// widgets, cookie banners, sidebars, modals and language pickers.
// Order matters and is part of the observable behavior.
var defaultNonMainSelectors = []string{
	"header",
	"footer",
	"nav",
	"aside",
	".header",
	".top",
	".navbar",
	"#header",
	".footer",
	".bottom",
	"#footer",
	".sidebar",
	".side",
	".aside",
	"#sidebar",
	".modal",
	".popup",
	"#modal",
	".overlay",
	".ad",
	".ads",
	".advert",
	"#ad",
	".lang-selector",
	".language",
	"#language-selector",
	".social",
	".social-media",
	".social-links",
	"#social",
	".menu",
	".navigation",
	"#nav",
	".breadcrumbs",
	"#breadcrumbs",
	".share",
	"#share",
	".widget",
	"#widget",
	".cookie",
	"#cookie",
}

// defaultForceIncludeSelectors override the non-main heuristic: an element
// containing any of these is kept whole. Swoogo event pages mark all of
// their real content as .widget, which would otherwise be stripped.
var defaultForceIncludeSelectors = []string{
	"#main",
	".swoogo-cols",
	".swoogo-text",
	".swoogo-table-div",
	".swoogo-space",
	".swoogo-alert",
	".swoogo-sponsors",
	".swoogo-title",
	".swoogo-tabs",
	".swoogo-logo",
	".swoogo-image",
	".swoogo-button",
	".swoogo-agenda",
}

// parseDocument parses raw HTML into a document tree. The parser is
// lenient: empty or malformed input still yields a best-effort tree.
func parseDocument(rawHTML string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}

// prune applies the selective document pruning stages in strict order:
// include-tag rebuild, structural noise removal, explicit exclusion, and
// the main-content heuristic. It returns the working document, which is a
// fresh wrapper document when IncludeTags is non-empty.
func prune(doc *html.Node, opts Options) (*html.Node, error) {
	// Include filter: move every match into a fresh wrapper document, in
	// selector order. Nodes matched by no include selector are dropped
	// with the old document.
	if len(opts.IncludeTags) > 0 {
		wrapper, err := parseDocument("<div></div>")
		if err != nil {
			return nil, err
		}
		root, err := queryFirst(wrapper, "div")
		if err != nil {
			return nil, err
		}
		if root == nil {
			return nil, fmt.Errorf("%w: wrapper root not found", ErrSelect)
		}
		for _, sel := range opts.IncludeTags {
			// Snapshot before moving: appending re-parents nodes.
			matches, err := queryAll(doc, sel)
			if err != nil {
				return nil, err
			}
			for _, n := range matches {
				detach(n)
				root.AppendChild(n)
			}
		}
		doc = wrapper
	}

	// Structural noise: repeated remove-first until a selector has no
	// matches left, so multiple siblings all go.
	for _, sel := range structuralNoiseSelectors {
		if err := removeAll(doc, sel); err != nil {
			return nil, err
		}
	}

	// Explicit excludes take priority over the main-content heuristic and
	// shrink its search space.
	for _, sel := range opts.ExcludeTags {
		if err := removeAll(doc, sel); err != nil {
			return nil, err
		}
	}

	if opts.OnlyMainContent {
		if err := pruneNonMain(doc, opts.nonMain(), opts.forceInclude()); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// removeAll detaches every match of sel, one first-match at a time.
func removeAll(doc *html.Node, sel string) error {
	for {
		n, err := queryFirst(doc, sel)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		detach(n)
	}
}

// pruneNonMain detaches boilerplate regions unless a force-include
// selector matches inside them. A kept element is kept whole: no partial
// pruning within a protected subtree.
func pruneNonMain(doc *html.Node, nonMain, forceInclude []string) error {
	for _, sel := range nonMain {
		// Snapshot, then mutate: detaching while traversing the same
		// subtree would skip siblings.
		matches, err := queryAll(doc, sel)
		if err != nil {
			return err
		}
		for _, n := range matches {
			keep := false
			for _, force := range forceInclude {
				m, err := queryFirst(n, force)
				if err != nil {
					return err
				}
				if m != nil {
					keep = true
					break
				}
			}
			if !keep {
				detach(n)
			}
		}
	}
	return nil
}
