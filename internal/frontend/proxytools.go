package frontend

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/pipeline"
)

// callProxyTool dispatches to one of the three drill-down tools by their
// native (unqualified) name.
func (d *Dispatcher) callProxyTool(ctx context.Context, native string, arguments map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = arguments

	switch native {
	case "filter":
		return d.proxyFilter(ctx, req)
	case "search":
		return d.proxySearch(ctx, req)
	case "explore":
		return d.proxyExplore(ctx, req)
	default:
		return mcp.NewToolResultError("unknown proxy tool: " + native), nil
	}
}

func (d *Dispatcher) proxyFilter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cacheID := stringArg(req, "cache_id", "")
	tool := stringArg(req, "tool", "")
	arguments := mapArg(req, "arguments")
	fields := stringSliceArg(req, "fields")
	mode := stringArg(req, "mode", "include")

	if len(fields) == 0 {
		return mcp.NewToolResultError("fields must contain at least one field path"), nil
	}
	if mode != "include" && mode != "exclude" {
		return badArguments("proxy_filter", fmt.Errorf("mode must be \"include\" or \"exclude\", got %q", mode))
	}

	raw, freshHandle, err := d.resolveSource(ctx, cacheID, tool, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	src := pipeline.NewSource(raw)
	var result pipeline.Result
	if !src.IsJSON {
		result = pipeline.PassthroughResult(raw, "content is not JSON; proxy_filter passed it through unchanged")
	} else {
		result, err = pipeline.Project(src.Parsed, fields, mode)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	logApplied("proxy_filter", raw, result)
	return valueToolResult(result, freshHandle)
}

func (d *Dispatcher) proxySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cacheID := stringArg(req, "cache_id", "")
	tool := stringArg(req, "tool", "")
	arguments := mapArg(req, "arguments")
	pattern := stringArg(req, "pattern", "")
	if pattern == "" {
		return mcp.NewToolResultError("pattern is required"), nil
	}

	mode := stringArg(req, "mode", "regex")
	switch mode {
	case "regex", "bm25", "fuzzy", "context":
	default:
		return badArguments("proxy_search", fmt.Errorf("mode must be one of regex|bm25|fuzzy|context, got %q", mode))
	}

	maxResults := intArg(req, "max_results", 100)
	contextLines := intArg(req, "context_lines", 0)
	topK := intArg(req, "top_k", 5)
	if maxResults < 0 {
		return badArguments("proxy_search", fmt.Errorf("max_results must not be negative"))
	}
	if contextLines < 0 {
		return badArguments("proxy_search", fmt.Errorf("context_lines must not be negative"))
	}
	if topK < 0 {
		return badArguments("proxy_search", fmt.Errorf("top_k must not be negative"))
	}

	raw, freshHandle, err := d.resolveSource(ctx, cacheID, tool, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := pipeline.SearchParams{
		Pattern:         pattern,
		Mode:            mode,
		CaseInsensitive: boolArg(req, "case_insensitive", false),
		Multiline:       boolArg(req, "multiline", false),
		MaxResults:      maxResults,
		ContextLines:    contextLines,
		TopK:            topK,
		FuzzyThreshold:  floatArg(req, "fuzzy_threshold", 0.7),
	}

	text := raw
	src := pipeline.NewSource(raw)
	if src.IsJSON {
		if encoded, err := jsonvalue.MarshalIndent(src.Parsed); err == nil {
			text = string(encoded)
		}
	}

	result, err := pipeline.Search(text, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textToolResult(result, freshHandle)
}

func (d *Dispatcher) proxyExplore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cacheID := stringArg(req, "cache_id", "")
	tool := stringArg(req, "tool", "")
	arguments := mapArg(req, "arguments")
	maxDepth := intArg(req, "max_depth", 3)
	sampleSize := intArg(req, "sample_size", 3)
	if maxDepth < 0 {
		return badArguments("proxy_explore", fmt.Errorf("max_depth must not be negative"))
	}
	if sampleSize < 0 {
		return badArguments("proxy_explore", fmt.Errorf("sample_size must not be negative"))
	}

	raw, freshHandle, err := d.resolveSource(ctx, cacheID, tool, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	src := pipeline.NewSource(raw)
	subject := src.Parsed
	if !src.IsJSON {
		// Structure exploration is defined over any content, not just
		// JSON: plain text is summarized the same way a JSON string
		// scalar would be (length + firstNChars).
		subject = jsonvalue.Str(raw)
	}

	result, err := pipeline.Explore(subject, maxDepth, sampleSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logApplied("proxy_explore", raw, result)
	return valueToolResult(result, freshHandle)
}

// badArguments renders a perr.BadArguments error the same way an upstream
// or cache error is rendered, so malformed proxy-tool arguments surface to
// the client as a tool result rather than a transport-level failure.
func badArguments(op string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(perr.New(perr.BadArguments, "frontend."+op, err).Error()), nil
}

// freshHandleTrailer appends a note surfacing the cache_id a fresh
// tool+arguments call was stored under, so the caller can reuse it in a
// follow-up proxy_filter/proxy_search/proxy_explore call without paying
// for another upstream round trip.
func freshHandleTrailer(freshHandle string) string {
	if freshHandle == "" {
		return ""
	}
	return fmt.Sprintf("\n\n[Fetched fresh and cached as cache_id=%q for follow-up proxy_filter/proxy_search/proxy_explore calls.]", freshHandle)
}

func valueToolResult(r pipeline.Result, freshHandle string) (*mcp.CallToolResult, error) {
	if r.IsText {
		return mcp.NewToolResultText(r.Text + freshHandleTrailer(freshHandle)), nil
	}
	encoded, err := jsonvalue.MarshalIndent(r.Value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(encoded) + freshHandleTrailer(freshHandle)), nil
}

func textToolResult(r pipeline.Result, freshHandle string) (*mcp.CallToolResult, error) {
	text := r.Summary
	if r.Text != "" {
		text = r.Text
	}
	return mcp.NewToolResultText(text + freshHandleTrailer(freshHandle)), nil
}

// logApplied records the pipeline contract's applied flag and the
// before/after content sizes for diagnostics, mirroring ProcessorResult's
// originalSize/processedSize without surfacing them to the client.
func logApplied(tool, raw string, r pipeline.Result) {
	processed := r.Text
	if !r.IsText {
		if encoded, err := jsonvalue.MarshalIndent(r.Value); err == nil {
			processed = string(encoded)
		}
	}
	logging.Debug("%s: applied=%v originalSize=%d processedSize=%d", tool, r.Applied, len(raw), len(processed))
}
