package frontend

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterAggregatedCatalog lists every Ready upstream's tools and
// registers each under its qualified name, routed back through the
// dispatcher so responses go through the interceptor.
func (d *Dispatcher) RegisterAggregatedCatalog(mcpServer *server.MCPServer) int {
	descs := d.pool.ListTools()
	for _, desc := range descs {
		qualified := desc.QualifiedName
		tool := mcp.Tool{
			Name:        qualified,
			Description: desc.Tool.Description,
			InputSchema: desc.Tool.InputSchema,
		}
		mcpServer.AddTool(tool, d.toolHandler(qualified))
	}
	return len(descs)
}

// RegisterProxyTools registers proxy_filter, proxy_search, and
// proxy_explore: the fixed, always-present tool surface for drilling into
// cached responses.
func (d *Dispatcher) RegisterProxyTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(filterTool(), d.toolHandler(ProxyUpstreamName+"_filter"))
	mcpServer.AddTool(searchTool(), d.toolHandler(ProxyUpstreamName+"_search"))
	mcpServer.AddTool(exploreTool(), d.toolHandler(ProxyUpstreamName+"_explore"))
}

func (d *Dispatcher) toolHandler(qualifiedName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := d.Call(ctx, qualifiedName, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result, nil
	}
}

func filterTool() mcp.Tool {
	return mcp.NewTool("proxy_filter",
		mcp.WithDescription("Project a cached or freshly-called tool response down to specific field paths."),
		mcp.WithString("cache_id", mcp.Description("Handle of a previously cached response, from a truncated tool result.")),
		mcp.WithString("tool", mcp.Description("Qualified tool name to call fresh instead of using cache_id.")),
		mcp.WithObject("arguments", mcp.Description("Arguments for the fresh tool call, when tool is given.")),
		mcp.WithArray("fields", mcp.Required(), mcp.Description("Field paths using dotted, [] array, *, or _keys grammar.")),
		mcp.WithString("mode", mcp.Description("include or exclude; defaults to include.")),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("proxy_search",
		mcp.WithDescription("Search a cached or freshly-called tool response with regex, bm25, fuzzy, or context mode."),
		mcp.WithString("cache_id", mcp.Description("Handle of a previously cached response, from a truncated tool result.")),
		mcp.WithString("tool", mcp.Description("Qualified tool name to call fresh instead of using cache_id.")),
		mcp.WithObject("arguments", mcp.Description("Arguments for the fresh tool call, when tool is given.")),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Search pattern or query terms, depending on mode.")),
		mcp.WithString("mode", mcp.Description("regex, bm25, fuzzy, or context; defaults to regex.")),
		mcp.WithBoolean("case_insensitive", mcp.Description("Case-insensitive matching for regex and context modes.")),
		mcp.WithBoolean("multiline", mcp.Description("Multiline matching for regex and context modes.")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of matches to return; defaults to 100.")),
		mcp.WithNumber("context_lines", mcp.Description("Lines of context around each regex match; ignored for bm25, fuzzy, and context.")),
		mcp.WithNumber("top_k", mcp.Description("Number of top-ranked chunks to return for bm25.")),
		mcp.WithNumber("fuzzy_threshold", mcp.Description("Minimum similarity in [0,1] for fuzzy matches; defaults to 0.7.")),
	)
}

func exploreTool() mcp.Tool {
	return mcp.NewTool("proxy_explore",
		mcp.WithDescription("Summarize the structure of a cached or freshly-called tool response without returning its full content."),
		mcp.WithString("cache_id", mcp.Description("Handle of a previously cached response, from a truncated tool result.")),
		mcp.WithString("tool", mcp.Description("Qualified tool name to call fresh instead of using cache_id.")),
		mcp.WithObject("arguments", mcp.Description("Arguments for the fresh tool call, when tool is given.")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum nesting depth to descend; defaults to 3.")),
		mcp.WithNumber("sample_size", mcp.Description("Maximum object keys or array elements described per level; defaults to 3.")),
	)
}
