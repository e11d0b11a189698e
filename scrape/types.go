package scrape

import "github.com/hazyhaar/glane/transform"

// PageMetadata describes the scraped page. Field names are part of the
// output contract; other layers depend on them.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code"`
	Language    string `json:"language,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Robots      string `json:"robots,omitempty"`
	Author      string `json:"author,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Publisher   string `json:"publisher,omitempty"`

	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	OGURL         string `json:"og_url,omitempty"`
	OGSiteName    string `json:"og_site_name,omitempty"`
	OGType        string `json:"og_type,omitempty"`

	TwitterTitle       string `json:"twitter_title,omitempty"`
	TwitterDescription string `json:"twitter_description,omitempty"`
	TwitterImage       string `json:"twitter_image,omitempty"`
	TwitterCard        string `json:"twitter_card,omitempty"`
	TwitterSite        string `json:"twitter_site,omitempty"`
	TwitterCreator     string `json:"twitter_creator,omitempty"`

	Favicon     string `json:"favicon,omitempty"`
	Viewport    string `json:"viewport,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	ScrapeID    string `json:"scrape_id,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// Result is one completed scrape.
type Result struct {
	Success   bool             `json:"success"`
	Timestamp int64            `json:"timestamp"`
	Format    transform.Format `json:"format"`
	Content   string           `json:"content"`
	Metadata  PageMetadata     `json:"metadata"`
}

// Response is the envelope the service surfaces (HTTP, MCP) wrap results
// in. The SDK itself returns (value, error) pairs.
type Response[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

// LinkType classifies a discovered link.
type LinkType string

const (
	LinkInternal LinkType = "internal" // same host as the page
	LinkExternal LinkType = "external" // different host
	LinkAnchor   LinkType = "anchor"   // fragment-only reference
)

// LinkInfo is one discovered link.
type LinkInfo struct {
	URL  string   `json:"url"`
	Type LinkType `json:"link_type"`
}

// MapData is the outcome of link discovery on a single page.
type MapData struct {
	URL        string     `json:"url"`
	Links      []LinkInfo `json:"links"`
	TotalLinks int        `json:"total_links"`
	Timestamp  int64      `json:"timestamp"`
}

// MapOptions configures link discovery.
type MapOptions struct {
	// LinkTypes keeps only the listed types when non-empty.
	LinkTypes []string `json:"link_types,omitempty"`
	// BaseURL overrides the resolution base (defaults to the fetched
	// page's final URL).
	BaseURL string `json:"base_url,omitempty"`
	// FilterExtensions drops links whose path ends in one of these
	// extensions (with or without the leading dot).
	FilterExtensions []string `json:"filter_extensions,omitempty"`
}

// CrawlOptions configures recursive crawling. Declared for contract
// stability; Crawl itself is not implemented.
type CrawlOptions struct {
	Limit                int      `json:"limit,omitempty"`
	MaxDepth             int      `json:"max_depth,omitempty"`
	ExcludePaths         []string `json:"exclude_paths,omitempty"`
	IncludePaths         []string `json:"include_paths,omitempty"`
	FollowExternal       bool     `json:"follow_external,omitempty"`
	DelayBetweenRequests int      `json:"delay_between_requests,omitempty"`
	ParallelRequests     int      `json:"parallel_requests,omitempty"`
}

// CrawlError records a per-page failure during a crawl.
type CrawlError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
	Depth int    `json:"depth"`
}

// CrawlData is the outcome of a recursive crawl.
type CrawlData struct {
	RootURL      string       `json:"root_url"`
	Pages        []Result     `json:"pages"`
	LinkMap      *MapData     `json:"link_map,omitempty"`
	DepthReached int          `json:"depth_reached"`
	TotalPages   int          `json:"total_pages"`
	Errors       []CrawlError `json:"errors"`
}
