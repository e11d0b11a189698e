package scrape

import (
	"time"

	"github.com/hazyhaar/glane/transform"
)

// Timeout and wait-time budgets, in milliseconds.
const (
	DefaultTimeoutMS  = 15_000
	DefaultWaitTimeMS = 3_000
	MaxTimeoutMS      = 120_000
	MaxWaitTimeMS     = 20_000
)

// Viewport is the requested render viewport. Only meaningful to fetchers
// that drive a browser; the plain HTTP fetcher ignores it.
type Viewport struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Options configures one scrape. The zero value is usable: applyDefaults
// fills in timeouts and the markdown format. JSON field names are part
// of the options contract.
type Options struct {
	Timeout         int               `json:"timeout"`   // milliseconds
	WaitTime        int               `json:"wait_time"` // milliseconds
	IncludeTags     []string          `json:"include_tags,omitempty"`
	ExcludeTags     []string          `json:"exclude_tags,omitempty"`
	OnlyMainContent bool              `json:"only_main_content"`
	Format          transform.Format  `json:"format"`
	Viewport        *Viewport         `json:"viewport,omitempty"`
	UserAgent       string            `json:"user_agent,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`

	// SanitizeHTML runs the serialized HTML output through a UGC
	// sanitation policy. Off by default: sanitation rewrites markup and
	// the pipeline's HTML output is otherwise byte-stable.
	SanitizeHTML bool `json:"sanitize_html,omitempty"`
}

// DefaultOptions returns the defaults: 15s timeout, 3s wait, markdown.
func DefaultOptions() Options {
	return Options{
		Timeout:  DefaultTimeoutMS,
		WaitTime: DefaultWaitTimeMS,
		Format:   transform.FormatMarkdown,
	}
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeoutMS
	}
	if o.WaitTime <= 0 {
		o.WaitTime = DefaultWaitTimeMS
	}
	if o.Format == "" {
		o.Format = transform.FormatMarkdown
	}
}

// Validate rejects options that exceed the allowed budgets.
func (o *Options) Validate() error {
	if o.Timeout > MaxTimeoutMS {
		return ErrInvalidTimeout
	}
	if o.WaitTime > MaxWaitTimeMS {
		return ErrInvalidWaitTime
	}
	return nil
}

func (o *Options) timeout() time.Duration {
	return time.Duration(o.Timeout) * time.Millisecond
}
