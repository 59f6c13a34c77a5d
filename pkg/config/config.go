// Package config loads the YAML file that selects a backend and tunes the
// browser session. Credentials never live in the file; backends read them
// from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/bua/pkg/actions"
	"github.com/entrhq/bua/pkg/backends/browserbase"
	"github.com/entrhq/bua/pkg/backends/local"
	"github.com/entrhq/bua/pkg/backends/lumiteh"
	"github.com/entrhq/bua/pkg/blocklist"
	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/dom"
)

// Environment variables that override file values.
const (
	BackendEnv  = "BUA_BACKEND"
	StartURLEnv = "BUA_START_URL"
	HeadlessEnv = "BUA_HEADLESS"
)

// legacyLocalName is the registry key older configurations use for the
// local backend.
const legacyLocalName = "local-playwright"

// Config represents a complete bua configuration
type Config struct {
	// Backend selects the session provider: local, browserbase or lumiteh
	Backend string `yaml:"backend" json:"backend"`

	// Viewport size; zero means the backend's own default
	Viewport ViewportConfig `yaml:"viewport" json:"viewport"`

	// StartURL is loaded right after the session opens. Empty skips it.
	StartURL string `yaml:"start_url" json:"start_url"`

	// Blocklist replaces the default blocked hosts. An explicit empty list
	// disables blocking.
	Blocklist []string `yaml:"blocklist" json:"blocklist"`

	// SettleDelay is slept after every executed action
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`

	DOM         DOMConfig         `yaml:"dom" json:"dom"`
	Local       LocalConfig       `yaml:"local" json:"local"`
	Browserbase BrowserbaseConfig `yaml:"browserbase" json:"browserbase"`
	Lumiteh     LumitehConfig     `yaml:"lumiteh" json:"lumiteh"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// ViewportConfig is the browser viewport in pixels
type ViewportConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DOMConfig tunes DOM extraction
type DOMConfig struct {
	// ScriptPath replaces the embedded extraction script
	ScriptPath        string `yaml:"script_path" json:"script_path"`
	ViewportExpansion int    `yaml:"viewport_expansion" json:"viewport_expansion"`
}

// LocalConfig configures the locally launched browser
type LocalConfig struct {
	Headless bool     `yaml:"headless" json:"headless"`
	Args     []string `yaml:"args" json:"args"`
}

// BrowserbaseConfig configures browserbase sessions
type BrowserbaseConfig struct {
	Region       string `yaml:"region" json:"region"`
	Proxy        bool   `yaml:"proxy" json:"proxy"`
	VirtualMouse bool   `yaml:"virtual_mouse" json:"virtual_mouse"`
	AdBlocker    bool   `yaml:"ad_blocker" json:"ad_blocker"`
	APIURL       string `yaml:"api_url" json:"api_url"`
}

// LumitehConfig configures lumiteh sessions
type LumitehConfig struct {
	Proxy  bool   `yaml:"proxy" json:"proxy"`
	APIURL string `yaml:"api_url" json:"api_url"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Backend:     local.Name,
		StartURL:    browser.DefaultStartURL,
		Blocklist:   append([]string(nil), blocklist.DefaultHosts...),
		SettleDelay: actions.DefaultSettleDelay,
		DOM: DOMConfig{
			ViewportExpansion: dom.DefaultViewportExpansion,
		},
		Browserbase: BrowserbaseConfig{
			Region:       browserbase.DefaultRegion,
			VirtualMouse: true,
			APIURL:       browserbase.DefaultAPIURL,
		},
		Lumiteh: LumitehConfig{
			APIURL: lumiteh.DefaultAPIURL,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// ApplyEnv overrides file values with the BUA_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(BackendEnv); v != "" {
		c.Backend = v
	}
	if v, ok := os.LookupEnv(StartURLEnv); ok {
		c.StartURL = v
	}
	if v := os.Getenv(HeadlessEnv); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", HeadlessEnv, err)
		}
		c.Local.Headless = headless
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == legacyLocalName {
		c.Backend = local.Name
	}
	switch c.Backend {
	case local.Name, browserbase.Name, lumiteh.Name:
	case "":
		return fmt.Errorf("backend is required")
	default:
		return fmt.Errorf("invalid backend: %s (must be '%s', '%s', or '%s')", c.Backend, local.Name, browserbase.Name, lumiteh.Name)
	}

	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}

	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay cannot be negative")
	}

	if c.DOM.ViewportExpansion < -1 {
		return fmt.Errorf("dom.viewport_expansion must be -1 or greater")
	}

	if c.StartURL != "" {
		u, err := url.Parse(c.StartURL)
		if err != nil {
			return fmt.Errorf("invalid start_url: %w", err)
		}
		if u.Scheme == "" {
			return fmt.Errorf("invalid start_url: %s (missing scheme)", c.StartURL)
		}
	}

	if _, err := blocklist.New(c.Blocklist); err != nil {
		return err
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}
