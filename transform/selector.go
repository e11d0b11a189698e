package transform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// simpleSelector is one compiled selector step: tag, #id, .class and an
// optional [attr] / [attr=val] constraint. All fields are ANDed.
type simpleSelector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
}

// compiledSelector is a descendant chain ("div .content" = two steps).
type compiledSelector []simpleSelector

// compileSelector parses a selector string into its steps. Supported forms:
//
//	tag        "article"
//	.class     ".content"
//	#id        "#main"
//	tag.class  "div.content"
//	tag#id     "div#main"
//	[attr]     "img[srcset]", "div[role=main]"
//
// Steps separated by whitespace match as descendants. Anything else
// (combinators, pseudo-classes, selector lists) is malformed and returns
// an error wrapping ErrSelect.
func compileSelector(sel string) (compiledSelector, error) {
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty selector", ErrSelect)
	}
	chain := make(compiledSelector, 0, len(parts))
	for _, part := range parts {
		s, err := parseSimpleSelector(part)
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
	}
	return chain, nil
}

func parseSimpleSelector(part string) (simpleSelector, error) {
	var s simpleSelector
	orig := part

	if strings.ContainsAny(part, ">+~,:*\"'()") {
		return s, fmt.Errorf("%w: unsupported syntax in %q", ErrSelect, orig)
	}

	// Attribute constraint: [attr] or [attr=val].
	if idx := strings.IndexByte(part, '['); idx >= 0 {
		if !strings.HasSuffix(part, "]") {
			return s, fmt.Errorf("%w: unclosed attribute selector in %q", ErrSelect, orig)
		}
		attr := part[idx+1 : len(part)-1]
		part = part[:idx]
		if strings.ContainsAny(attr, "[]") {
			return s, fmt.Errorf("%w: malformed attribute selector in %q", ErrSelect, orig)
		}
		if eq := strings.IndexByte(attr, '='); eq >= 0 {
			s.attrKey = attr[:eq]
			s.attrVal = attr[eq+1:]
		} else {
			s.attrKey = attr
		}
		if s.attrKey == "" {
			return s, fmt.Errorf("%w: empty attribute name in %q", ErrSelect, orig)
		}
	} else if strings.IndexByte(part, ']') >= 0 {
		return s, fmt.Errorf("%w: stray ']' in %q", ErrSelect, orig)
	}

	if idx := strings.IndexByte(part, '#'); idx >= 0 {
		s.id = part[idx+1:]
		part = part[:idx]
		if s.id == "" || strings.ContainsAny(s.id, ".#") {
			return s, fmt.Errorf("%w: malformed id selector in %q", ErrSelect, orig)
		}
	}

	if idx := strings.IndexByte(part, '.'); idx >= 0 {
		s.class = part[idx+1:]
		part = part[:idx]
		if s.class == "" || strings.ContainsAny(s.class, ".#") {
			return s, fmt.Errorf("%w: malformed class selector in %q", ErrSelect, orig)
		}
	}

	s.tag = part
	if s.tag == "" && s.id == "" && s.class == "" && s.attrKey == "" {
		return s, fmt.Errorf("%w: empty selector step in %q", ErrSelect, orig)
	}
	return s, nil
}

// matches reports whether an element node satisfies one selector step.
func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attrValue(n, "id") != s.id {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(attrValue(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.attrKey != "" {
		val, ok := lookupAttr(n, s.attrKey)
		if !ok {
			return false
		}
		if s.attrVal != "" && val != s.attrVal {
			return false
		}
	}
	return true
}

// queryAll returns every node under root (inclusive) matching the selector,
// in document order. It re-traverses the live tree on every call: queries
// after structural mutation see current state, never cached matches.
func queryAll(root *html.Node, sel string) ([]*html.Node, error) {
	chain, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	matches := collectMatches(root, chain[0], false)
	for _, step := range chain[1:] {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, collectMatchesBelow(parent, step)...)
		}
		matches = next
	}
	return matches, nil
}

// queryFirst returns the first match in document order, or nil when
// nothing matches. The traversal stops at the first hit, which keeps
// repeated remove-first loops from rescanning whole documents.
func queryFirst(root *html.Node, sel string) (*html.Node, error) {
	chain, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	if len(chain) == 1 {
		if m := collectMatches(root, chain[0], true); len(m) > 0 {
			return m[0], nil
		}
		return nil, nil
	}
	all, err := queryAll(root, sel)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// collectMatches walks root inclusively in pre-order. With firstOnly set
// the walk terminates at the first match.
func collectMatches(root *html.Node, s simpleSelector, firstOnly bool) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if s.matches(n) {
			results = append(results, n)
			if firstOnly {
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return results
}

// collectMatchesBelow is collectMatches excluding root itself, used for
// descendant steps.
func collectMatchesBelow(root *html.Node, s simpleSelector) []*html.Node {
	var results []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		results = append(results, collectMatches(c, s, false)...)
	}
	return results
}

// lookupAttr returns an attribute value and whether it is present.
func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// attrValue returns an attribute value, or "" when absent.
func attrValue(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// setAttr overwrites an attribute in place, preserving its position, or
// appends it when absent.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// detach removes a node (and its subtree) from its parent. Detaching an
// already-detached node is a no-op.
func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
