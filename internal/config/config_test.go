package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsLenient(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("expected a missing config file to be lenient, got error: %v", err)
	}
	if len(cfg.Upstreams) != 0 {
		t.Fatalf("expected no upstreams from a missing config file")
	}
	if cfg.Settings.MaxResponseSize != 8000 {
		t.Fatalf("expected default settings, got %+v", cfg.Settings)
	}
}

func TestLoadMissingMCPServersKeyIsHardError(t *testing.T) {
	path := writeTempConfig(t, `{"proxySettings": {"maxResponseSize": 1000}}`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected a hard error when mcpServers is missing")
	}
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"mcpServers": {
			"filesystem": {"command": "npx", "args": ["-y", "server-filesystem"]}
		},
		"proxySettings": {"maxResponseSize": 5000}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Upstreams) != 1 || cfg.Upstreams[0].Name != "filesystem" {
		t.Fatalf("expected one upstream named filesystem, got %+v", cfg.Upstreams)
	}
	if cfg.Settings.MaxResponseSize != 5000 {
		t.Fatalf("expected overridden maxResponseSize, got %d", cfg.Settings.MaxResponseSize)
	}
}

func TestLoadRejectsInvalidName(t *testing.T) {
	path := writeTempConfig(t, `{
		"mcpServers": {
			"bad name!": {"command": "npx"}
		}
	}`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected an invalid server name to be rejected")
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcp.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
