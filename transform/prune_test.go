package transform

import (
	"errors"
	"testing"
)

// transformHTML runs the pipeline with Format HTML, which is the path the
// pruning tests assert byte-exact output on.
func transformHTML(t *testing.T, raw string, opts Options) string {
	t.Helper()
	if opts.URL == "" {
		opts.URL = "https://example.com"
	}
	out, err := Transform(raw, FormatHTML, opts)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return out
}

func TestPruneRemovesStructuralNoise(t *testing.T) {
	got := transformHTML(t,
		`<html><head><title>Test</title></head><body><p>Content</p><script>alert('x')</script></body></html>`,
		Options{})
	want := `<html><body><p>Content</p></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneRemovesAllSiblingNoise(t *testing.T) {
	// Repeated remove-first must clear every sibling, not just one.
	got := transformHTML(t,
		`<html><body><style>a{}</style><p>A</p><script>1</script><script>2</script><style>b{}</style></body></html>`,
		Options{})
	want := `<html><body><p>A</p></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneIncludeTags(t *testing.T) {
	got := transformHTML(t,
		`<html><body><div class="content">Keep this</div><div class="sidebar">Remove this</div></body></html>`,
		Options{IncludeTags: []string{".content"}})
	want := `<html><body><div><div class="content">Keep this</div></div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneIncludeTagsSelectorOrder(t *testing.T) {
	// Matches are appended in include-selector order, not document order.
	got := transformHTML(t,
		`<html><body><div class="a">1</div><div class="b">2</div></body></html>`,
		Options{IncludeTags: []string{".b", ".a"}})
	want := `<html><body><div><div class="b">2</div><div class="a">1</div></div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneExcludeTags(t *testing.T) {
	got := transformHTML(t,
		`<html><body><div class="content">Keep this</div><div class="ad">Remove this</div></body></html>`,
		Options{ExcludeTags: []string{".ad"}})
	want := `<html><body><div class="content">Keep this</div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneOnlyMainContent(t *testing.T) {
	got := transformHTML(t,
		`<html><body><header>Header</header><main><p>Main content</p></main><footer>Footer</footer></body></html>`,
		Options{OnlyMainContent: true})
	want := `<html><body><main><p>Main content</p></main></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneForceInclude(t *testing.T) {
	// .widget is on the non-main list, but it wraps #main and must be
	// kept whole, siblings included.
	got := transformHTML(t,
		`<html><body><div class="widget"><div id="main"><p>Important content</p></div></div><div class="sidebar">Sidebar</div></body></html>`,
		Options{OnlyMainContent: true})
	want := `<html><body><div class="widget"><div id="main"><p>Important content</p></div></div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneForceIncludeKeepsInnerNoise(t *testing.T) {
	// No partial pruning inside a protected subtree: the nested .ads
	// stays because its ancestor is force-included.
	got := transformHTML(t,
		`<html><body><div class="widget"><div class="ads">x</div><div id="main">y</div></div></body></html>`,
		Options{OnlyMainContent: true})
	want := `<html><body><div class="widget"><div class="ads">x</div><div id="main">y</div></div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneInjectedSelectorLists(t *testing.T) {
	got := transformHTML(t,
		`<html><body><div class="promo">ad</div><div class="keepme"><span class="hero"></span></div><p>text</p></body></html>`,
		Options{
			OnlyMainContent:       true,
			NonMainSelectors:      []string{".promo", ".keepme"},
			ForceIncludeSelectors: []string{".hero"},
		})
	want := `<html><body><div class="keepme"><span class="hero"></span></div><p>text</p></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneMalformedSelector(t *testing.T) {
	_, err := Transform(`<html><body></body></html>`, FormatHTML, Options{
		URL:         "https://example.com",
		ExcludeTags: []string{"div >"},
	})
	if !errors.Is(err, ErrSelect) {
		t.Fatalf("expected ErrSelect, got %v", err)
	}
}

func TestPruneNoOptionsPreservesOrder(t *testing.T) {
	// Round-trip: untouched subtrees keep attribute and node order.
	raw := `<html><body><div a="1" b="2" c="3"><em>x</em><span>y</span><b>z</b></div></body></html>`
	got := transformHTML(t, raw, Options{})
	want := `<html><body><div a="1" b="2" c="3"><em>x</em><span>y</span><b>z</b></div></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPruneLenientParse(t *testing.T) {
	// Malformed and empty HTML still yield best-effort documents.
	for _, raw := range []string{"", "<p>unclosed", "<<<not html"} {
		if _, err := Transform(raw, FormatHTML, Options{URL: "https://example.com"}); err != nil {
			t.Errorf("Transform(%q): unexpected error %v", raw, err)
		}
	}
}
