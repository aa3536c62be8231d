// cmd/catalogctl/root.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ammerola/storefront-catalog/internal/bootstrap"
	"github.com/ammerola/storefront-catalog/internal/pkg/config"
	"github.com/ammerola/storefront-catalog/internal/pkg/logger"
)

// globalFlags holds the persistent flags shared by every command.
var globalFlags struct {
	Format   string
	LogLevel string
	NoCache  bool
	Timeout  time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Browse storefront catalogs from the command line",
	Long: `catalogctl loads the configured storefront catalogs with the same loader,
cache and query pipeline as the API and prints the results as tables.

Examples:
  catalogctl domains --status
  catalogctl browse books --search dragon --sort price-low --page 2
  catalogctl browse toys --filter manufacturer=LEGO --filter price=1000+
  catalogctl options kids
  catalogctl cart add books bk-004 --shopper alice --qty 2`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.Format, "format", formatTable, "output format: table or json")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&globalFlags.NoCache, "no-cache", false, "skip the Redis payload cache")
	pf.DurationVar(&globalFlags.Timeout, "timeout", 30*time.Second, "overall command timeout")

	rootCmd.AddCommand(domainsCmd, browseCmd, optionsCmd, cartCmd)
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the catalog stack a command runs against.
type app struct {
	cfg      *config.Config
	catalogs *bootstrap.Catalogs
	redis    *redis.Client
	logger   *slog.Logger
	out      io.Writer
}

// openApp loads configuration and opens the catalog stack. Redis is optional:
// when it cannot be reached the command runs without the payload cache.
func openApp(ctx context.Context, cmd *cobra.Command, shelf bool) (*app, error) {
	if globalFlags.Format != formatTable && globalFlags.Format != formatJSON {
		return nil, fmt.Errorf("unknown format %q", globalFlags.Format)
	}

	l := logger.NewLogger(&logger.LogConfig{
		Level:  globalFlags.LogLevel,
		Format: "text",
		Output: "stderr",
	}).Logger

	cfg, err := config.Load(l)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: l, out: cmd.OutOrStdout()}

	if !globalFlags.NoCache {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		client, err := bootstrap.NewRedisClient(pingCtx, cfg)
		cancel()
		if err != nil {
			l.Warn("running without payload cache", slog.String("error", err.Error()))
		} else {
			a.redis = client
		}
	}

	catalogs, err := bootstrap.OpenCatalogs(ctx, cfg, bootstrap.Options{Redis: a.redis, Shelf: shelf}, l)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalogs = catalogs
	return a, nil
}

func (a *app) Close() {
	if a.catalogs != nil {
		a.catalogs.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// run opens the app, applies the timeout and calls fn.
func run(cmd *cobra.Command, shelf bool, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), globalFlags.Timeout)
	defer cancel()

	a, err := openApp(ctx, cmd, shelf)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
