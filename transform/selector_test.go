package transform

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestCompileSelector(t *testing.T) {
	valid := []string{
		"div", ".content", "#main", "div.content", "div#main",
		"img[srcset]", "img[src]", "a[href]", "div[role=main]",
		"div .content", ".swoogo-cols",
	}
	for _, sel := range valid {
		if _, err := compileSelector(sel); err != nil {
			t.Errorf("compileSelector(%q): unexpected error %v", sel, err)
		}
	}

	malformed := []string{
		"", "   ", ".", "#", "div[", "div[]", "div]", "p:hover",
		"a > b", "a, b", "*", ".a.b", "#a#b", "div[x[y]]",
	}
	for _, sel := range malformed {
		_, err := compileSelector(sel)
		if err == nil {
			t.Errorf("compileSelector(%q): expected error", sel)
			continue
		}
		if !errors.Is(err, ErrSelect) {
			t.Errorf("compileSelector(%q): error %v does not wrap ErrSelect", sel, err)
		}
	}
}

func TestQueryAllDocumentOrder(t *testing.T) {
	doc := parseFragment(t, `<html><body>
		<div class="x" id="a"></div>
		<p><span class="x" id="b"></span></p>
		<div class="x" id="c"></div>
	</body></html>`)

	matches, err := queryAll(doc, ".x")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, n := range matches {
		ids = append(ids, attrValue(n, "id"))
	}
	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("document order broken: got %v, want %v", ids, want)
		}
	}
}

func TestQueryFirst(t *testing.T) {
	doc := parseFragment(t, `<html><body><p id="one">a</p><p id="two">b</p></body></html>`)

	n, err := queryFirst(doc, "p")
	if err != nil {
		t.Fatal(err)
	}
	if n == nil || attrValue(n, "id") != "one" {
		t.Fatalf("expected first p, got %v", n)
	}

	n, err = queryFirst(doc, ".missing")
	if err != nil {
		t.Fatal(err)
	}
	if n != nil {
		t.Fatalf("expected nil for no match, got %v", n)
	}
}

func TestQueryAfterMutation(t *testing.T) {
	doc := parseFragment(t, `<html><body><p>a</p><p>b</p><p>c</p></body></html>`)

	// Each query re-traverses live tree state: no caching across
	// structural changes.
	for want := 3; want > 0; want-- {
		matches, err := queryAll(doc, "p")
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != want {
			t.Fatalf("expected %d matches, got %d", want, len(matches))
		}
		detach(matches[0])
	}

	matches, err := queryAll(doc, "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected 0 matches after removals, got %d", len(matches))
	}
}

func TestDetachedSubtreeUnreachable(t *testing.T) {
	doc := parseFragment(t, `<html><body><div id="outer"><span class="inner"></span></div></body></html>`)

	outer, err := queryFirst(doc, "#outer")
	if err != nil {
		t.Fatal(err)
	}
	detach(outer)

	matches, err := queryAll(doc, ".inner")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatal("detached subtree still reachable from root")
	}
}

func TestSelectorForms(t *testing.T) {
	doc := parseFragment(t, `<html><body>
		<div class="content wide" id="main" data-x="1"></div>
		<span class="content"></span>
	</body></html>`)

	tests := []struct {
		sel  string
		want int
	}{
		{"div", 1},
		{".content", 2},
		{"#main", 1},
		{"div.content", 1},
		{"span.content", 1},
		{"div#main", 1},
		{"div[data-x]", 1},
		{"div[data-x=1]", 1},
		{"div[data-x=2]", 0},
		{"span[data-x]", 0},
		{"body .content", 2},
	}
	for _, tt := range tests {
		matches, err := queryAll(doc, tt.sel)
		if err != nil {
			t.Errorf("queryAll(%q): %v", tt.sel, err)
			continue
		}
		if len(matches) != tt.want {
			t.Errorf("queryAll(%q) = %d matches, want %d", tt.sel, len(matches), tt.want)
		}
	}
}

func TestSetAttrPreservesPosition(t *testing.T) {
	doc := parseFragment(t, `<html><body><img srcset="/a 1x" src="/b" alt="z"></body></html>`)
	img, err := queryFirst(doc, "img")
	if err != nil {
		t.Fatal(err)
	}
	setAttr(img, "src", "/changed")

	keys := make([]string, len(img.Attr))
	for i, a := range img.Attr {
		keys[i] = a.Key
	}
	want := []string{"srcset", "src", "alt"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("attribute order changed: got %v, want %v", keys, want)
		}
	}
	if attrValue(img, "src") != "/changed" {
		t.Fatalf("src not updated: %q", attrValue(img, "src"))
	}
}
