package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
)

// QualifiedSeparator joins an upstream's configured name with a tool's
// native name to build the catalog entry the client sees.
const QualifiedSeparator = "_"

// Pool owns the set of upstream sessions for the proxy's lifetime.
type Pool struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string // upstream names, in config order, for deterministic listing
}

func NewPool() *Pool {
	return &Pool{sessions: make(map[string]*Session)}
}

// StartAll spawns every upstream in specs concurrently and waits for each
// to reach Ready or Failed. A failed upstream does not prevent the others
// from starting; callers should inspect Health() per session afterward.
func (p *Pool) StartAll(ctx context.Context, specs []config.UpstreamSpec) {
	p.mu.Lock()
	for _, spec := range specs {
		s := newSession(spec)
		p.sessions[spec.Name] = s
		p.order = append(p.order, spec.Name)
	}
	p.mu.Unlock()

	var wg sync.WaitGroup
	for _, spec := range specs {
		s := p.sessions[spec.Name]
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			sess.start(ctx)
		}(s)
	}
	wg.Wait()

	for _, spec := range specs {
		s := p.sessions[spec.Name]
		if s.Health() == Failed {
			logging.Error("upstream %s failed to start: %v", spec.Name, s.StartErr())
		}
	}
}

// ToolDescriptor describes one catalog entry exposed to the client: a
// qualified name, the upstream and native names it resolves to, and the
// native tool's schema/description.
type ToolDescriptor struct {
	QualifiedName string
	Upstream      string
	NativeName    string
	Tool          mcp.Tool
}

// ListTools fans out to every Ready upstream in parallel and returns the
// aggregated, qualified-name catalog sorted by qualified name.
func (p *Pool) ListTools() []ToolDescriptor {
	p.mu.RLock()
	names := make([]string, len(p.order))
	copy(names, p.order)
	p.mu.RUnlock()

	var mu sync.Mutex
	var out []ToolDescriptor
	var wg sync.WaitGroup
	for _, name := range names {
		s := p.sessions[name]
		if s.Health() != Ready {
			continue
		}
		wg.Add(1)
		go func(upstream string, sess *Session) {
			defer wg.Done()
			tools := sess.Tools()
			sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
			descs := make([]ToolDescriptor, len(tools))
			for i, t := range tools {
				descs[i] = ToolDescriptor{
					QualifiedName: upstream + QualifiedSeparator + t.Name,
					Upstream:      upstream,
					NativeName:    t.Name,
					Tool:          t,
				}
			}
			mu.Lock()
			out = append(out, descs...)
			mu.Unlock()
		}(name, s)
	}
	wg.Wait()

	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName < out[j].QualifiedName })
	return out
}

// Resolve splits a qualified tool name into its upstream and native
// parts, matching against the longest registered upstream name that
// prefixes qualifiedName, since both upstream names and native tool
// names may themselves contain underscores.
func (p *Pool) Resolve(qualifiedName string) (upstream, native string, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bestLen := -1
	for name := range p.sessions {
		prefix := name + QualifiedSeparator
		if strings.HasPrefix(qualifiedName, prefix) && len(prefix) > bestLen {
			upstream = name
			native = qualifiedName[len(prefix):]
			bestLen = len(prefix)
			ok = true
		}
	}
	return upstream, native, ok
}

// CallTool resolves qualifiedName and invokes it on its upstream.
func (p *Pool) CallTool(ctx context.Context, qualifiedName string, arguments any) (*mcp.CallToolResult, string, error) {
	const op = "session.Pool.CallTool"

	upstream, native, ok := p.Resolve(qualifiedName)
	if !ok {
		return nil, "", perr.Newf(perr.UnknownTool, op, "no upstream registers tool %q", qualifiedName)
	}

	p.mu.RLock()
	s, exists := p.sessions[upstream]
	p.mu.RUnlock()
	if !exists {
		return nil, "", perr.Newf(perr.UnknownTool, op, "unknown upstream %q", upstream)
	}

	result, err := s.callTool(ctx, native, arguments)
	return result, upstream, err
}

// ShutdownAll closes every session in parallel, bounded by ctx.
func (p *Pool) ShutdownAll(ctx context.Context) {
	p.mu.RLock()
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			sess.close()
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logging.Warning("shutdown grace period elapsed before all upstreams closed")
	}
}

// Sessions returns a snapshot of every session's name and health, for
// diagnostics.
func (p *Pool) Sessions() map[string]Health {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Health, len(p.sessions))
	for name, s := range p.sessions {
		out[name] = s.Health()
	}
	return out
}
