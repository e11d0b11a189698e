package scrape

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hazyhaar/glane/fetch"
)

// Map fetches a single page and returns the links it declares,
// classified and resolved against the page URL. Output is deterministic:
// links appear in document order, deduplicated keeping the first
// occurrence.
func (c *Client) Map(ctx context.Context, pageURL string, opts *MapOptions) (*MapData, error) {
	var o MapOptions
	if opts != nil {
		o = *opts
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.Defaults.timeout())
	defer cancel()

	page, err := c.cfg.Fetcher.Fetch(fetchCtx, pageURL, fetch.Request{
		UserAgent: c.cfg.Defaults.UserAgent,
		Headers:   c.cfg.Defaults.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape: fetch %s: %w", pageURL, err)
	}
	if page.HTML == "" {
		return nil, ErrEmptyResponse
	}

	base := o.BaseURL
	if base == "" {
		base = page.URL
	}
	if base == "" {
		base = pageURL
	}
	baseParsed, err := url.Parse(base)
	if err != nil || !baseParsed.IsAbs() {
		return nil, fmt.Errorf("scrape: map base url %q: invalid", base)
	}

	links := collectLinks(page.HTML, baseParsed)
	links = filterLinks(links, o)

	c.logger.Debug("scrape: map done", "url", pageURL, "links", len(links))
	return &MapData{
		URL:        pageURL,
		Links:      links,
		TotalLinks: len(links),
		Timestamp:  time.Now().Unix(),
	}, nil
}

// collectLinks walks every a[href] in document order, classifies each
// link relative to base and deduplicates on the resolved URL.
func collectLinks(rawHTML string, base *url.URL) []LinkInfo {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []LinkInfo
	seen := map[string]bool{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				if info, ok := classifyLink(href, base); ok && !seen[info.URL] {
					seen[info.URL] = true
					links = append(links, info)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func classifyLink(href string, base *url.URL) (LinkInfo, bool) {
	if strings.HasPrefix(href, "#") {
		return LinkInfo{URL: href, Type: LinkAnchor}, true
	}
	u, err := base.Parse(href)
	if err != nil {
		return LinkInfo{}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return LinkInfo{}, false
	}
	typ := LinkExternal
	if strings.EqualFold(u.Host, base.Host) {
		typ = LinkInternal
	}
	return LinkInfo{URL: u.String(), Type: typ}, true
}

func filterLinks(links []LinkInfo, o MapOptions) []LinkInfo {
	keepType := map[LinkType]bool{}
	for _, t := range o.LinkTypes {
		keepType[LinkType(strings.ToLower(t))] = true
	}

	var exts []string
	for _, e := range o.FilterExtensions {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if e != "" {
			exts = append(exts, "."+e)
		}
	}
	sort.Strings(exts)

	out := links[:0:0]
	for _, l := range links {
		if len(keepType) > 0 && !keepType[l.Type] {
			continue
		}
		if len(exts) > 0 && l.Type != LinkAnchor {
			if u, err := url.Parse(l.URL); err == nil {
				ext := strings.ToLower(path.Ext(u.Path))
				if ext != "" {
					i := sort.SearchStrings(exts, ext)
					if i < len(exts) && exts[i] == ext {
						continue
					}
				}
			}
		}
		out = append(out, l)
	}
	return out
}
