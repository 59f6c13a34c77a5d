package config

import (
	"fmt"

	"github.com/entrhq/bua/pkg/backends/browserbase"
	"github.com/entrhq/bua/pkg/backends/local"
	"github.com/entrhq/bua/pkg/backends/lumiteh"
	"github.com/entrhq/bua/pkg/blocklist"
	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/dom"
)

// NewBackend builds the configured backend. Remote backends read their
// credentials from the environment.
func (c *Config) NewBackend() (browser.Backend, error) {
	switch c.Backend {
	case local.Name, legacyLocalName:
		return local.New(local.Options{
			Width:    c.Viewport.Width,
			Height:   c.Viewport.Height,
			Headless: c.Local.Headless,
			Args:     c.Local.Args,
		}), nil
	case browserbase.Name:
		return browserbase.NewFromEnv(browserbase.Options{
			Width:        c.Viewport.Width,
			Height:       c.Viewport.Height,
			Region:       c.Browserbase.Region,
			Proxy:        c.Browserbase.Proxy,
			VirtualMouse: c.Browserbase.VirtualMouse,
			AdBlocker:    c.Browserbase.AdBlocker,
		}, c.Browserbase.APIURL)
	case lumiteh.Name:
		return lumiteh.NewFromEnv(lumiteh.Options{
			Width:  c.Viewport.Width,
			Height: c.Viewport.Height,
			Proxy:  c.Lumiteh.Proxy,
		}, c.Lumiteh.APIURL)
	default:
		return nil, fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

// SessionOptions translates the session settings into browser options.
func (c *Config) SessionOptions() ([]browser.Option, error) {
	list, err := blocklist.New(c.Blocklist)
	if err != nil {
		return nil, err
	}

	opts := []browser.Option{
		browser.WithStartURL(c.StartURL),
		browser.WithBlocklist(list),
		browser.WithSettleDelay(c.SettleDelay),
		browser.WithViewportExpansion(c.DOM.ViewportExpansion),
	}

	if c.DOM.ScriptPath != "" {
		extractor, err := dom.NewExtractorFromFile(c.DOM.ScriptPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, browser.WithExtractor(extractor))
	}

	return opts, nil
}
