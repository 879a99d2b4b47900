// Package session manages the pool of upstream MCP child processes the
// proxy multiplexes: spawning them, tracking each one's health, and
// routing tool calls and tool listings to the right client.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
)

// Health is the upstream session lifecycle: Starting -> Ready is the
// happy path; Starting -> Failed is a startup error; Ready -> Closing ->
// Closed is an orderly shutdown; Ready -> Failed is a crash. Failed is
// terminal — v1 does not retry a failed upstream automatically.
type Health int

const (
	Starting Health = iota
	Ready
	Failed
	Closing
	Closed
)

func (h Health) String() string {
	switch h {
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one running upstream MCP server.
type Session struct {
	Spec config.UpstreamSpec

	mu        sync.RWMutex
	health    Health
	startErr  error
	client    *client.Client
	tools     []mcp.Tool
}

func newSession(spec config.UpstreamSpec) *Session {
	return &Session{Spec: spec, health: Starting}
}

func (s *Session) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

func (s *Session) setHealth(h Health) {
	s.mu.Lock()
	s.health = h
	s.mu.Unlock()
}

// StartErr returns the error that moved this session to Failed during
// startup, if any.
func (s *Session) StartErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startErr
}

func (s *Session) setStartErr(err error) {
	s.mu.Lock()
	s.startErr = err
	s.health = Failed
	s.mu.Unlock()
}

// Tools returns the most recently discovered native tool set for this
// upstream.
func (s *Session) Tools() []mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mcp.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

func (s *Session) setTools(tools []mcp.Tool) {
	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()
}

// start spawns the upstream process and brings it to Ready or Failed. It
// never returns an error itself — failure is recorded on the session so a
// parallel startAll can proceed without one bad upstream blocking the
// others.
func (s *Session) start(ctx context.Context) {
	timeout := time.Duration(s.Spec.StartupTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var envSlice []string
	for k, v := range s.Spec.Env {
		envSlice = append(envSlice, fmt.Sprintf("%s=%s", k, v))
	}
	transportLayer := transport.NewStdio(s.Spec.Command, envSlice, s.Spec.Args...)
	c := client.NewClient(transportLayer)

	if err := c.Start(startCtx); err != nil {
		s.setStartErr(fmt.Errorf("starting %s: %w", s.Spec.Name, err))
		return
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "mcp-aggregating-proxy",
		Version: "1.0.0",
	}
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := c.Initialize(startCtx, initRequest); err != nil {
		c.Close()
		s.setStartErr(fmt.Errorf("initializing %s: %w", s.Spec.Name, err))
		return
	}

	listResult, err := c.ListTools(startCtx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		s.setStartErr(fmt.Errorf("listing tools from %s: %w", s.Spec.Name, err))
		return
	}

	s.mu.Lock()
	s.client = c
	s.tools = listResult.Tools
	s.health = Ready
	s.mu.Unlock()

	logging.Info("upstream %s ready with %d tool(s)", s.Spec.Name, len(listResult.Tools))
}

// callTool invokes a native tool on this upstream. It fails fast with
// UpstreamUnavailable if the session isn't Ready, and classifies an error
// seen after ctx is done as UpstreamTimeout. Any other error from the
// client marks the session Failed and is reported as UpstreamCrashed; the
// error itself is not inspected further.
func (s *Session) callTool(ctx context.Context, toolName string, arguments any) (*mcp.CallToolResult, error) {
	const op = "session.callTool"

	s.mu.RLock()
	h := s.health
	c := s.client
	s.mu.RUnlock()

	if h != Ready {
		return nil, perr.Newf(perr.UpstreamUnavailable, op, "upstream %s is %s", s.Spec.Name, h)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = arguments

	result, err := c.CallTool(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, perr.Newf(perr.UpstreamTimeout, op, "call to %s.%s timed out: %v", s.Spec.Name, toolName, err)
		}
		s.setHealth(Failed)
		return nil, perr.Newf(perr.UpstreamCrashed, op, "call to %s.%s failed: %v", s.Spec.Name, toolName, err)
	}
	return result, nil
}

// close shuts the session down, moving it through Closing to Closed.
func (s *Session) close() {
	s.mu.Lock()
	c := s.client
	if s.health == Ready {
		s.health = Closing
	}
	s.mu.Unlock()

	if c != nil {
		if err := c.Close(); err != nil {
			logging.Warning("error closing upstream %s: %v", s.Spec.Name, err)
		}
	}

	s.setHealth(Closed)
}
