// Package local launches Chromium on this machine.
package local

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/browser"
)

// Name identifies this backend.
const Name = "local"

// Options configures the launched browser.
type Options struct {
	Width    int
	Height   int
	Headless bool
	// Args are appended to the default launch flags.
	Args []string
}

// Backend launches a fresh browser per session.
type Backend struct {
	opts Options
}

var _ browser.Backend = (*Backend)(nil)

// New returns a local backend. Zero dimensions fall back to the browser
// package defaults.
func New(opts Options) *Backend {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = browser.DefaultWidth, browser.DefaultHeight
	}
	return &Backend{opts: opts}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Dimensions() (int, int) { return b.opts.Width, b.opts.Height }

// LaunchArgs are the flags passed to Chromium.
func (b *Backend) LaunchArgs() []string {
	args := []string{
		fmt.Sprintf("--window-size=%d,%d", b.opts.Width, b.opts.Height),
		"--disable-extensions",
		"--disable-file-system",
	}
	return append(args, b.opts.Args...)
}

// Connect launches Chromium and opens a page in a new context sized to the
// configured viewport.
func (b *Backend) Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error) {
	br, err := chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.opts.Headless),
		Args:     b.LaunchArgs(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := br.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  b.opts.Width,
			Height: b.opts.Height,
		},
	})
	if err != nil {
		_ = br.Close()
		return nil, nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = br.Close()
		return nil, nil, fmt.Errorf("failed to create page: %w", err)
	}
	return br, page, nil
}

// Disconnect is a no-op; closing the browser ends a local session.
func (b *Backend) Disconnect() error { return nil }
