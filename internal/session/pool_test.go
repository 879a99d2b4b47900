package session

import (
	"testing"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
)

func newTestPool(names ...string) *Pool {
	p := NewPool()
	for _, name := range names {
		p.sessions[name] = newSession(config.UpstreamSpec{Name: name})
		p.order = append(p.order, name)
	}
	return p
}

func TestResolveLongestUpstreamPrefix(t *testing.T) {
	p := newTestPool("github", "github_actions")

	upstream, native, ok := p.Resolve("github_actions_list_runs")
	if !ok {
		t.Fatalf("expected a match")
	}
	if upstream != "github_actions" || native != "list_runs" {
		t.Fatalf("expected the longer upstream name github_actions to win, got upstream=%q native=%q", upstream, native)
	}
}

func TestResolveUnknownQualifiedName(t *testing.T) {
	p := newTestPool("github")

	_, _, ok := p.Resolve("gitlab_list_repos")
	if ok {
		t.Fatalf("expected no match for an unregistered upstream")
	}
}

func TestHealthStateMachineStringer(t *testing.T) {
	cases := map[Health]string{
		Starting: "starting",
		Ready:    "ready",
		Failed:   "failed",
		Closing:  "closing",
		Closed:   "closed",
	}
	for h, want := range cases {
		if h.String() != want {
			t.Errorf("Health(%d).String() = %q, want %q", h, h.String(), want)
		}
	}
}
