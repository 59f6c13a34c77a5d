package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/config"
	"github.com/entrhq/bua/pkg/logging"
	"github.com/entrhq/bua/pkg/tools/computeruse"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("cli")
	if err != nil {
		debugLog.Warnf("Failed to initialize cli logger, using stderr fallback: %v", err)
	}
}

// session is an open browser the commands drive.
type session interface {
	computeruse.Target
	Close() error
}

// sessionOpener opens a session for cfg. Tests replace it.
type sessionOpener func(ctx context.Context, cfg *config.Config) (session, error)

func openSession(ctx context.Context, cfg *config.Config) (session, error) {
	backend, err := cfg.NewBackend()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	c, err := browser.Open(ctx, backend, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath  string
	backend     string
	startURL    string
	headless    bool
	verbosity   string
	metricsAddr string

	open sessionOpener
}

func newRootCmd(open sessionOpener) *cobra.Command {
	o := &rootOptions{open: open}

	rootCmd := &cobra.Command{
		Use:   "bua",
		Short: "Drive local and hosted browsers through one action vocabulary",
		Long: `bua opens a browser session on a local Chromium or a hosted provider
(browserbase, lumiteh) and exposes screenshots, the DOM tree and typed actions.

Credentials are read from the environment or a .env file:
  BROWSERBASE_API_KEY, BROWSERBASE_PROJECT_ID, LUMITEH_API_KEY

Example:
  bua --backend local --url https://example.com dom
  echo '[{"tool":"click","args":{"x":10,"y":20}}]' | bua run -`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&o.backend, "backend", "", "Backend: local, browserbase, lumiteh (overrides config)")
	flags.StringVar(&o.startURL, "url", "", "Start URL (overrides config)")
	flags.BoolVar(&o.headless, "headless", false, "Run the local browser headless")
	flags.StringVar(&o.verbosity, "verbosity", "", "Log verbosity: quiet, normal, verbose, debug")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address while running")

	rootCmd.AddCommand(
		newScreenshotCmd(o),
		newDOMCmd(o),
		newURLCmd(o),
		newRunCmd(o),
		newToolsCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("url") {
		cfg.StartURL = o.startURL
	}
	if flags.Changed("headless") {
		cfg.Local.Headless = o.headless
	}
	if flags.Changed("verbosity") {
		cfg.Logging.Verbosity = o.verbosity
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logging.SetVerbosity(cfg.Logging.Verbosity)
	return cfg, nil
}

// withSession loads the config, opens a session, runs fn and closes the
// session. The metrics server, when enabled, lives for the same span.
func (o *rootOptions) withSession(cmd *cobra.Command, fn func(s session) error) (err error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	if o.metricsAddr != "" {
		srv, serveErr := startMetricsServer(o.metricsAddr)
		if serveErr != nil {
			return serveErr
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
				debugLog.Warnf("metrics server shutdown: %v", shutdownErr)
			}
		}()
	}

	debugLog.Infof("Opening %s session", cfg.Backend)
	s, err := o.open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			debugLog.Warnf("session close: %v", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	return fn(s)
}
