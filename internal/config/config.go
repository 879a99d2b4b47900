// Package config loads and validates the proxy's mcp.json configuration:
// the set of upstream servers to spawn and the proxy's own runtime
// settings (response-truncation threshold, cache limits).
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// UpstreamSpec is the declarative, immutable-after-load description of one
// upstream MCP server.
type UpstreamSpec struct {
	Name             string            `mapstructure:"name"`
	Command          string            `mapstructure:"command"`
	Args             []string          `mapstructure:"args"`
	Env              map[string]string `mapstructure:"env"`
	StartupTimeoutMs int               `mapstructure:"startupTimeoutMs"`
}

// ProxySettings are the proxy's own runtime knobs, loaded from the optional
// "proxySettings" key of mcp.json.
type ProxySettings struct {
	MaxResponseSize      int  `mapstructure:"maxResponseSize"`
	CacheMaxEntries      int  `mapstructure:"cacheMaxEntries"`
	CacheTTLSeconds      int  `mapstructure:"cacheTTLSeconds"`
	EnableAutoTruncation bool `mapstructure:"enableAutoTruncation"`
}

// DefaultProxySettings mirrors the example config in the external
// interfaces section: maxResponseSize=8000, cacheMaxEntries=50,
// cacheTTLSeconds=300, enableAutoTruncation=true.
func DefaultProxySettings() ProxySettings {
	return ProxySettings{
		MaxResponseSize:      8000,
		CacheMaxEntries:      50,
		CacheTTLSeconds:      300,
		EnableAutoTruncation: true,
	}
}

// ProxyConfig is the fully validated, immutable root configuration.
type ProxyConfig struct {
	Upstreams []UpstreamSpec
	Settings  ProxySettings
}

type rawFile struct {
	MCPServers    map[string]rawServer `mapstructure:"mcpServers"`
	ProxySettings map[string]any       `mapstructure:"proxySettings"`
}

type rawServer struct {
	Command string            `mapstructure:"command"`
	Args    []string          `mapstructure:"args"`
	Env     map[string]string `mapstructure:"env"`
	Timeout int               `mapstructure:"startupTimeoutMs"`
}

// Load reads and validates configuration from path. A missing file is
// lenient: it logs a warning and returns an empty upstream set with
// default settings, since the proxy can still boot with zero upstreams. A
// present file that lacks the required "mcpServers" key, or whose value is
// not a mapping, is a hard ConfigInvalid error.
func Load(path string) (*ProxyConfig, error) {
	const op = "config.Load"

	if path == "" {
		path = "mcp.json"
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logging.Warning("configuration file %s not found; using empty configuration", path)
			return &ProxyConfig{Settings: DefaultProxySettings()}, nil
		}
		return nil, perr.New(perr.ConfigInvalid, op, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, perr.Newf(perr.ConfigInvalid, op, "failed to read %s: %v", path, err)
	}

	var raw rawFile
	if err := v.Unmarshal(&raw); err != nil {
		return nil, perr.Newf(perr.ConfigInvalid, op, "failed to parse %s: %v", path, err)
	}

	if !v.IsSet("mcpServers") {
		return nil, perr.Newf(perr.ConfigInvalid, op,
			`missing "mcpServers" key in %s; expected {"mcpServers": {"name": {...}}}`, path)
	}

	settings := DefaultProxySettings()
	if raw.ProxySettings != nil {
		if err := mergeSettings(&settings, raw.ProxySettings); err != nil {
			return nil, perr.Newf(perr.ConfigInvalid, op, "invalid proxySettings in %s: %v", path, err)
		}
	}

	upstreams := make([]UpstreamSpec, 0, len(raw.MCPServers))
	seen := make(map[string]bool, len(raw.MCPServers))
	for name, srv := range raw.MCPServers {
		if seen[name] {
			return nil, perr.Newf(perr.ConfigInvalid, op, "duplicate server name %q", name)
		}
		seen[name] = true

		spec := UpstreamSpec{
			Name:             name,
			Command:          srv.Command,
			Args:             srv.Args,
			Env:              srv.Env,
			StartupTimeoutMs: srv.Timeout,
		}
		if err := validateSpec(spec); err != nil {
			return nil, perr.Newf(perr.ConfigInvalid, op, "invalid server %q: %v", name, err)
		}
		upstreams = append(upstreams, spec)
	}

	logging.Info("loaded %d upstream server(s) from %s", len(upstreams), path)
	return &ProxyConfig{Upstreams: upstreams, Settings: settings}, nil
}

func validateSpec(s UpstreamSpec) error {
	if !namePattern.MatchString(s.Name) {
		return fmt.Errorf("name must match %s", namePattern.String())
	}
	if s.Command == "" {
		return fmt.Errorf("command must not be empty")
	}
	return nil
}

func mergeSettings(s *ProxySettings, raw map[string]any) error {
	// viper folds every key to lower case, so settings are looked up by
	// their lower-cased names.
	lower := make(map[string]any, len(raw))
	for k, v := range raw {
		lower[strings.ToLower(k)] = v
	}
	raw = lower
	if v, ok := raw["maxresponsesize"]; ok {
		n, err := positiveInt(v)
		if err != nil {
			return fmt.Errorf("maxResponseSize: %w", err)
		}
		s.MaxResponseSize = n
	}
	if v, ok := raw["cachemaxentries"]; ok {
		n, err := positiveInt(v)
		if err != nil {
			return fmt.Errorf("cacheMaxEntries: %w", err)
		}
		s.CacheMaxEntries = n
	}
	if v, ok := raw["cachettlseconds"]; ok {
		n, err := positiveInt(v)
		if err != nil {
			return fmt.Errorf("cacheTTLSeconds: %w", err)
		}
		s.CacheTTLSeconds = n
	}
	if v, ok := raw["enableautotruncation"]; ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("enableAutoTruncation: must be a boolean")
		}
		s.EnableAutoTruncation = b
	}
	return nil
}

func positiveInt(v any) (int, error) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	default:
		return 0, fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be > 0")
	}
	return int(n), nil
}
