package frontend

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callProxyFilter(t *testing.T, d *Dispatcher, arguments map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = arguments
	result, err := d.proxyFilter(context.Background(), req)
	if err != nil {
		t.Fatalf("proxyFilter: %v", err)
	}
	return result
}

func TestProxyFilterRejectsUnknownMode(t *testing.T) {
	d := newTestDispatcher()
	entry, err := d.cache.Put("default", "tool", "{}", `{"a":1}`)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	result := callProxyFilter(t, d, map[string]any{
		"cache_id": entry.Handle(),
		"fields":   []any{"a"},
		"mode":     "sideways",
	})
	if !result.IsError {
		t.Fatalf("expected an error result for an unrecognized mode")
	}
	if !strings.Contains(resultText(result), "BadArguments") {
		t.Fatalf("expected a BadArguments error, got %q", resultText(result))
	}
}

func TestProxyFilterRejectsBothCacheIDAndTool(t *testing.T) {
	d := newTestDispatcher()
	entry, err := d.cache.Put("default", "tool", "{}", `{"a":1}`)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	result := callProxyFilter(t, d, map[string]any{
		"cache_id": entry.Handle(),
		"tool":     "some_tool",
		"fields":   []any{"a"},
	})
	if !result.IsError {
		t.Fatalf("expected an error result when both cache_id and tool are set")
	}
	if !strings.Contains(resultText(result), "BadArguments") {
		t.Fatalf("expected a BadArguments error, got %q", resultText(result))
	}
}

func TestProxyFilterNonJSONContentIsPassedThroughUnchanged(t *testing.T) {
	d := newTestDispatcher()
	entry, err := d.cache.Put("default", "tool", "{}", "plain text, not JSON")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	result := callProxyFilter(t, d, map[string]any{
		"cache_id": entry.Handle(),
		"fields":   []any{"a"},
	})
	if result.IsError {
		t.Fatalf("non-JSON content should pass through rather than error, got %q", resultText(result))
	}
	if resultText(result) != "plain text, not JSON" {
		t.Fatalf("expected the unmodified input back, got %q", resultText(result))
	}
}
