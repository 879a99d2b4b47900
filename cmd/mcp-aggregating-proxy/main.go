// Command mcp-aggregating-proxy starts the proxy: it loads the mcp.json
// configuration, spawns every configured upstream MCP server, and serves
// the aggregated tool catalog plus the proxy_filter / proxy_search /
// proxy_explore drill-down tools over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/cache"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/config"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/frontend"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/logging"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-aggregating-proxy",
	Short: "Aggregates many upstream MCP servers behind one tool catalog",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to mcp.json (default CONFIG_FILE env or ./mcp.json)")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARNING, ERROR, or CRITICAL (default LOG_LEVEL env or INFO)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindEnv("config", "CONFIG_FILE")
	viper.BindEnv("log-level", "LOG_LEVEL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch perr.KindOf(err) {
		case perr.ConfigInvalid:
			os.Exit(1)
		case perr.UpstreamUnavailable:
			os.Exit(2)
		default:
			os.Exit(1)
		}
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Initialize(logging.ParseLevel(viper.GetString("log-level")))

	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}

	pool := session.NewPool()
	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()
	pool.StartAll(startCtx, cfg.Upstreams)

	if len(cfg.Upstreams) > 0 && !anyReady(pool.Sessions()) {
		return perr.Newf(perr.UpstreamUnavailable, "main.run",
			"none of the %d configured upstream(s) could start", len(cfg.Upstreams))
	}

	store := cache.New(cache.Config{
		MaxEntriesPerAgent: cfg.Settings.CacheMaxEntries,
		TTLSeconds:         cfg.Settings.CacheTTLSeconds,
	})

	dispatcher := frontend.NewDispatcher(pool, store, cfg.Settings)

	mcpServer := server.NewMCPServer(
		"mcp-aggregating-proxy",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	registered := dispatcher.RegisterAggregatedCatalog(mcpServer)
	dispatcher.RegisterProxyTools(mcpServer)
	logging.Info("serving %d aggregated tool(s) plus proxy_filter/proxy_search/proxy_explore", registered)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(mcpServer)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp stdio server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.ShutdownAll(shutdownCtx)
		return nil
	}
}

func anyReady(sessions map[string]session.Health) bool {
	for _, h := range sessions {
		if h == session.Ready {
			return true
		}
	}
	return false
}
