package transform

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// imageCandidate is one parsed srcset entry. density marks a pixel-density
// descriptor ("2x") as opposed to a width descriptor ("640w"). Candidates
// exist only during resolution and are never stored on the node.
type imageCandidate struct {
	url     string
	size    int
	density bool
}

// resolveURLs rewrites responsive image sources to their single best
// candidate, then rewrites relative img src and anchor href values to
// absolute URLs against baseURL. srcset resolution runs first so the
// newly-assigned src is absolutized in the same pass.
//
// A base URL that fails to parse is fatal. A single attribute that fails
// to join against a valid base is left untouched and skipped.
func resolveURLs(doc *html.Node, baseURL string) error {
	if err := resolveSrcsets(doc); err != nil {
		return err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return fmt.Errorf("%w: %q", ErrURLParse, baseURL)
	}

	if err := absolutizeAttr(doc, "img[src]", "src", base); err != nil {
		return err
	}
	return absolutizeAttr(doc, "a[href]", "href", base)
}

// resolveSrcsets overwrites the src of every img carrying a srcset with
// the largest declared candidate. The srcset attribute itself stays on
// the node untouched.
func resolveSrcsets(doc *html.Node) error {
	images, err := queryAll(doc, "img[srcset]")
	if err != nil {
		return err
	}
	for _, img := range images {
		srcset := attrValue(img, "srcset")
		candidates := parseSrcset(srcset)

		// When every candidate is density-based, the plain src acts as
		// the implicit 1x default alongside the declared densities.
		allDensity := true
		for _, c := range candidates {
			if !c.density {
				allDensity = false
				break
			}
		}
		if allDensity {
			if src, ok := lookupAttr(img, "src"); ok {
				candidates = append(candidates, imageCandidate{url: src, size: 1, density: true})
			}
		}

		// Largest first; stable so equal sizes keep declaration order.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].size > candidates[j].size
		})
		if len(candidates) > 0 {
			setAttr(img, "src", candidates[0].url)
		}
	}
	return nil
}

// parseSrcset parses a srcset attribute: comma-separated "<url> <descriptor>"
// entries, where the descriptor is "Nx" (density) or "Nw" (width) and
// defaults to "1x" when absent. Entries whose numeric portion does not
// parse as an integer are discarded.
func parseSrcset(srcset string) []imageCandidate {
	var candidates []imageCandidate
	for _, entry := range strings.Split(srcset, ",") {
		tokens := strings.Split(strings.TrimSpace(entry), " ")
		if len(tokens) == 0 {
			continue
		}
		descriptor := "1x"
		if len(tokens) > 1 && tokens[1] != "" {
			descriptor = tokens[1]
		}
		size, err := strconv.Atoi(descriptor[:len(descriptor)-1])
		if err != nil {
			continue
		}
		candidates = append(candidates, imageCandidate{
			url:     tokens[0],
			size:    size,
			density: strings.HasSuffix(descriptor, "x"),
		})
	}
	return candidates
}

// absolutizeAttr resolves the named attribute of every match against base.
// Join failures leave the original value in place.
func absolutizeAttr(doc *html.Node, sel, attr string, base *url.URL) error {
	nodes, err := queryAll(doc, sel)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		val := attrValue(n, attr)
		abs, err := base.Parse(val)
		if err != nil {
			continue
		}
		setAttr(n, attr, abs.String())
	}
	return nil
}
