package transform

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveRelativeURLs(t *testing.T) {
	got := transformHTML(t,
		`<html><body><img src="/image.jpg"><a href="/page">Link</a></body></html>`,
		Options{URL: "https://example.com/subdir/"})
	// Root-relative resolves against the origin, not against /subdir/.
	// Void elements serialize self-closed.
	want := `<html><body><img src="https://example.com/image.jpg"/><a href="https://example.com/page">Link</a></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveURLKinds(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative path", "page.html", "https://example.com/subdir/page.html"},
		{"root relative", "/page.html", "https://example.com/page.html"},
		{"protocol relative", "//cdn.example.org/x.js", "https://cdn.example.org/x.js"},
		{"already absolute", "https://other.example/x", "https://other.example/x"},
		{"fragment", "#section", "https://example.com/subdir/#section"},
	}
	for _, tt := range tests {
		got := transformHTML(t,
			`<html><body><a href="`+tt.href+`">x</a></body></html>`,
			Options{URL: "https://example.com/subdir/"})
		want := `<html><body><a href="` + tt.want + `">x</a></body></html>`
		if got != want {
			t.Errorf("%s: got %q, want %q", tt.name, got, want)
		}
	}
}

func TestResolveJoinFailureSkipsElement(t *testing.T) {
	// An invalid percent-escape fails URL parsing; the attribute is left
	// untouched while the sibling still resolves.
	got := transformHTML(t,
		`<html><body><a href="%zz">bad</a><a href="/ok">good</a></body></html>`,
		Options{URL: "https://example.com"})
	want := `<html><body><a href="%zz">bad</a><a href="https://example.com/ok">good</a></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveBadBaseURLFatal(t *testing.T) {
	for _, base := range []string{"://missing-scheme", "relative/only", ""} {
		_, err := Transform(`<html><body></body></html>`, FormatHTML, Options{URL: base})
		if !errors.Is(err, ErrURLParse) {
			t.Errorf("base %q: expected ErrURLParse, got %v", base, err)
		}
	}
}

func TestResolveSrcsetDensity(t *testing.T) {
	got := transformHTML(t,
		`<html><body><img srcset="/small.jpg 1x, /large.jpg 2x" src="/default.jpg"></body></html>`,
		Options{URL: "https://example.com"})
	// Highest density wins; /default.jpg loses to the declared 2x, and
	// the srcset attribute itself stays untouched.
	want := `<html><body><img srcset="/small.jpg 1x, /large.jpg 2x" src="https://example.com/large.jpg"/></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveSrcsetWidthDescriptors(t *testing.T) {
	got := transformHTML(t,
		`<html><body><img srcset="/a.jpg 320w, /b.jpg 1280w, /c.jpg 640w" src="/fallback.jpg"></body></html>`,
		Options{URL: "https://example.com"})
	// Width candidates present, so src is not added as an implicit 1x;
	// the largest width wins.
	want := `<html><body><img srcset="/a.jpg 320w, /b.jpg 1280w, /c.jpg 640w" src="https://example.com/b.jpg"/></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveSrcsetImplicitSrcWins(t *testing.T) {
	// All declared candidates are sub-1x densities: the plain src joins
	// as an implicit 1x and is the largest.
	got := transformHTML(t,
		`<html><body><img srcset="/half.jpg 0x" src="/full.jpg"></body></html>`,
		Options{URL: "https://example.com"})
	want := `<html><body><img srcset="/half.jpg 0x" src="https://example.com/full.jpg"/></body></html>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseSrcset(t *testing.T) {
	tests := []struct {
		name   string
		srcset string
		want   []imageCandidate
	}{
		{
			"descriptor defaults to 1x",
			"/a.jpg",
			[]imageCandidate{{url: "/a.jpg", size: 1, density: true}},
		},
		{
			"mixed densities",
			"/a.jpg 1x, /b.jpg 2x",
			[]imageCandidate{
				{url: "/a.jpg", size: 1, density: true},
				{url: "/b.jpg", size: 2, density: true},
			},
		},
		{
			"width descriptors",
			"/a.jpg 640w",
			[]imageCandidate{{url: "/a.jpg", size: 640, density: false}},
		},
		{
			"unparseable numeric discarded",
			"/a.jpg 1.5x, /b.jpg 2x",
			[]imageCandidate{{url: "/b.jpg", size: 2, density: true}},
		},
		{
			"bare descriptor discarded",
			"/a.jpg x",
			nil,
		},
	}
	for _, tt := range tests {
		got := parseSrcset(tt.srcset)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%s: candidate %d = %v, want %v", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestResolveSrcsetStableSort(t *testing.T) {
	// Equal sizes keep declaration order: the first declared 2x wins.
	got := transformHTML(t,
		`<html><body><img srcset="/first.jpg 2x, /second.jpg 2x" src="/d.jpg"></body></html>`,
		Options{URL: "https://example.com"})
	if !strings.Contains(got, `src="https://example.com/first.jpg"`) {
		t.Fatalf("expected first declared candidate to win, got %q", got)
	}
}
