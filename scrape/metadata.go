package scrape

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// extractMetadata pulls document metadata out of the raw (pre-pipeline)
// HTML so that pruned regions still contribute their meta tags. Parsing
// is lenient; on a hard parse failure the metadata is simply empty.
func extractMetadata(rawHTML, baseURL string) PageMetadata {
	var meta PageMetadata
	meta.URL = baseURL

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return meta
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" {
					meta.Title = strings.TrimSpace(textContent(n))
				}
			case "html":
				if v := attr(n, "lang"); v != "" {
					meta.Language = v
				}
			case "meta":
				applyMeta(&meta, n)
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				if meta.Favicon == "" && (rel == "icon" || rel == "shortcut icon") {
					meta.Favicon = absolutize(attr(n, "href"), baseURL)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.OGImage != "" {
		meta.OGImage = absolutize(meta.OGImage, baseURL)
	}
	if meta.TwitterImage != "" {
		meta.TwitterImage = absolutize(meta.TwitterImage, baseURL)
	}
	return meta
}

func applyMeta(meta *PageMetadata, n *html.Node) {
	content := attr(n, "content")
	if content == "" {
		return
	}
	switch strings.ToLower(attr(n, "name")) {
	case "description":
		meta.Description = content
	case "keywords":
		meta.Keywords = content
	case "robots":
		meta.Robots = content
	case "author":
		meta.Author = content
	case "creator":
		meta.Creator = content
	case "publisher":
		meta.Publisher = content
	case "viewport":
		meta.Viewport = content
	case "referrer":
		meta.Referrer = content
	case "twitter:title":
		meta.TwitterTitle = content
	case "twitter:description":
		meta.TwitterDescription = content
	case "twitter:image":
		meta.TwitterImage = content
	case "twitter:card":
		meta.TwitterCard = content
	case "twitter:site":
		meta.TwitterSite = content
	case "twitter:creator":
		meta.TwitterCreator = content
	}
	switch strings.ToLower(attr(n, "property")) {
	case "og:title":
		meta.OGTitle = content
	case "og:description":
		meta.OGDescription = content
	case "og:image":
		meta.OGImage = content
	case "og:url":
		meta.OGURL = content
	case "og:site_name":
		meta.OGSiteName = content
	case "og:type":
		meta.OGType = content
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// absolutize resolves ref against base, returning ref untouched when
// either side does not parse.
func absolutize(ref, base string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	u, err := b.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
