// Package frontend wires the session pool, response cache, and
// processor pipeline into the three moving parts the client actually
// talks to: a single aggregated tool catalog, a response interceptor
// that caches oversized results, and the proxy_filter / proxy_search /
// proxy_explore drill-down tools.
package frontend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/cache"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/session"
)

// ProxyUpstreamName is the synthetic upstream name the proxy's own tools
// live under in the qualified catalog.
const ProxyUpstreamName = "proxy"

// AgentIDFunc resolves the caller identity used to isolate cache entries.
// The default implementation treats every call on a single stdio
// connection as the same agent; a deployment fronting multiple logical
// callers over one proxy process can plug in a different, still
// deterministic, mapping.
type AgentIDFunc func(ctx context.Context) string

func defaultAgentID(context.Context) string { return "default" }

// Dispatcher routes qualified tool calls to either an upstream session or
// one of the proxy's own drill-down tools, and intercepts oversized
// upstream responses into the cache before they reach the client.
type Dispatcher struct {
	pool     *session.Pool
	cache    *cache.Store
	settings config.ProxySettings
	agentID  AgentIDFunc
}

func NewDispatcher(pool *session.Pool, store *cache.Store, settings config.ProxySettings) *Dispatcher {
	return &Dispatcher{pool: pool, cache: store, settings: settings, agentID: defaultAgentID}
}

// WithAgentIDFunc overrides how caller identity is derived from context.
func (d *Dispatcher) WithAgentIDFunc(fn AgentIDFunc) *Dispatcher {
	d.agentID = fn
	return d
}

// Call dispatches a qualified tool invocation. Proxy tools are handled
// directly; everything else is routed to the upstream session pool and
// passed through the response interceptor.
func (d *Dispatcher) Call(ctx context.Context, qualifiedName string, arguments map[string]any) (*mcp.CallToolResult, error) {
	callID := uuid.NewString()
	logging.Debug("call %s: dispatching %s", callID, qualifiedName)

	upstream, native, ok := splitQualified(qualifiedName)
	if ok && upstream == ProxyUpstreamName {
		return d.callProxyTool(ctx, native, arguments)
	}
	return d.callUpstream(ctx, qualifiedName, arguments)
}

func (d *Dispatcher) callUpstream(ctx context.Context, qualifiedName string, arguments map[string]any) (*mcp.CallToolResult, error) {
	result, upstream, err := d.pool.CallTool(ctx, qualifiedName, arguments)
	if err != nil {
		return nil, err
	}

	text := resultText(result)
	if text == "" {
		return result, nil
	}
	runes := []rune(text)
	if !d.settings.EnableAutoTruncation || len(runes) <= d.settings.MaxResponseSize {
		return result, nil
	}

	agentID := d.agentID(ctx)
	argJSON, _ := json.Marshal(arguments)
	entry, err := d.cache.Put(agentID, qualifiedName, string(argJSON), text)
	if err != nil {
		// Caching failure should not hide the real tool result from the
		// caller; fall back to returning it untruncated.
		return result, nil
	}

	logging.Debug("truncated %d-character response from %s.%s to %d characters, cached as %s", len(runes), upstream, qualifiedName, d.settings.MaxResponseSize, entry.Handle())
	truncated := string(runes[:d.settings.MaxResponseSize])
	trailer := fmt.Sprintf("\n\n[Response truncated. Full content cached. Use cache_id=\"%s\" with proxy_filter, proxy_search, or proxy_explore to access.]", entry.Handle())
	return mcp.NewToolResultText(truncated + trailer), nil
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var out string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func splitQualified(qualifiedName string) (upstream, native string, ok bool) {
	for i := 0; i < len(qualifiedName); i++ {
		if qualifiedName[i] == '_' {
			return qualifiedName[:i], qualifiedName[i+1:], true
		}
	}
	return "", "", false
}

// resolveSource fetches the JSON-or-text content a proxy tool should
// operate on: either a cached entry by cache_id, or a fresh upstream call
// identified by tool+arguments. In fresh mode, the full response is cached
// under the caller's agentId before processing, and its handle is returned
// as freshHandle so the caller can reuse it for follow-up drill-downs.
func (d *Dispatcher) resolveSource(ctx context.Context, cacheID, tool string, arguments map[string]any) (content, freshHandle string, err error) {
	const op = "frontend.resolveSource"

	if cacheID != "" && tool != "" {
		return "", "", perr.New(perr.BadArguments, op, fmt.Errorf("cache_id and tool are mutually exclusive; set exactly one"))
	}

	if cacheID != "" {
		entry, err := d.cache.Get(cacheID)
		if err != nil {
			return "", "", err
		}
		return entry.Content, "", nil
	}

	if tool == "" {
		return "", "", perr.New(perr.BadArguments, op, fmt.Errorf("one of cache_id or tool must be given"))
	}

	result, _, err := d.pool.CallTool(ctx, tool, arguments)
	if err != nil {
		return "", "", err
	}
	text := resultText(result)

	agentID := d.agentID(ctx)
	argJSON, _ := json.Marshal(arguments)
	entry, cacheErr := d.cache.Put(agentID, tool, string(argJSON), text)
	if cacheErr != nil {
		// Caching failure should not block processing of an otherwise
		// successful fresh call; the caller just won't get a cache_id to
		// reuse.
		logging.Debug("resolveSource: failed to cache fresh result from %s: %v", tool, cacheErr)
		return text, "", nil
	}
	return text, entry.Handle(), nil
}
