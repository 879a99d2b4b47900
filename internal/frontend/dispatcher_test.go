package frontend

import (
	"context"
	"testing"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/cache"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/session"
)

func newTestDispatcher() *Dispatcher {
	pool := session.NewPool()
	store := cache.New(cache.Config{MaxEntriesPerAgent: 10, MaxAgents: 5})
	return NewDispatcher(pool, store, config.DefaultProxySettings())
}

func TestResolveSourceRejectsBothCacheIDAndTool(t *testing.T) {
	d := newTestDispatcher()

	_, _, err := d.resolveSource(context.Background(), "default:abc123", "some_tool", map[string]any{})
	if perr.KindOf(err) != perr.BadArguments {
		t.Fatalf("expected BadArguments when both cache_id and tool are set, got %v", err)
	}
}

func TestResolveSourceRejectsNeitherCacheIDNorTool(t *testing.T) {
	d := newTestDispatcher()

	_, _, err := d.resolveSource(context.Background(), "", "", nil)
	if perr.KindOf(err) != perr.BadArguments {
		t.Fatalf("expected BadArguments when neither cache_id nor tool is set, got %v", err)
	}
}

func TestResolveSourceByCacheIDReturnsNoFreshHandle(t *testing.T) {
	d := newTestDispatcher()

	entry, err := d.cache.Put("default", "some_tool", "{}", "cached content")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	content, freshHandle, err := d.resolveSource(context.Background(), entry.Handle(), "", nil)
	if err != nil {
		t.Fatalf("resolveSource: %v", err)
	}
	if content != "cached content" {
		t.Fatalf("expected cached content, got %q", content)
	}
	if freshHandle != "" {
		t.Fatalf("a cache_id lookup should not mint a new handle, got %q", freshHandle)
	}
}

func TestResolveSourceFreshCallOnUnknownToolFails(t *testing.T) {
	d := newTestDispatcher()

	_, _, err := d.resolveSource(context.Background(), "", "nosuch_tool", map[string]any{})
	if perr.KindOf(err) != perr.UnknownTool {
		t.Fatalf("expected UnknownTool from a fresh call to a tool no upstream registers, got %v", err)
	}
}
