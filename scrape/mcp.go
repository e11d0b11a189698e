package scrape

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/glane/kit"
	"github.com/hazyhaar/glane/transform"
)

// RegisterMCP registers glane tools on an MCP server.
func (c *Client) RegisterMCP(srv *mcp.Server) {
	c.registerScrapeTool(srv)
	c.registerMapTool(srv)
	c.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- scrape ---

type scrapeToolReq struct {
	URL     string   `json:"url"`
	Options *Options `json:"options,omitempty"`
}

func (c *Client) registerScrapeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glane_scrape",
		Description: "Scrape a web page and return its content as markdown or cleaned HTML, with page metadata.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to scrape"},
			"options": map[string]any{
				"type":        "object",
				"description": "Scrape options: format (markdown|html), only_main_content, include_tags, exclude_tags, timeout (ms)",
			},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*scrapeToolReq)
		return c.Scrape(ctx, r.URL, r.Options)
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r scrapeToolReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- map ---

type mapToolReq struct {
	URL     string      `json:"url"`
	Options *MapOptions `json:"options,omitempty"`
}

func (c *Client) registerMapTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glane_map",
		Description: "Discover and classify the links declared by a single web page.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to map"},
			"options": map[string]any{
				"type":        "object",
				"description": "Map options: link_types (internal|external|anchor), base_url, filter_extensions",
			},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*mapToolReq)
		return c.Map(ctx, r.URL, r.Options)
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r mapToolReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- formats ---

func (c *Client) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glane_formats",
		Description: "List the output formats supported by the scrape tool.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"formats": []string{
			string(transform.FormatMarkdown),
			string(transform.FormatHTML),
		}}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) {
		return nil, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
