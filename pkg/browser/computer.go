// Package browser drives one browser session for an agent. A Computer owns
// the automation engine, the connection produced by a Backend and the page
// that primitives act on, and tears all of them down on Close.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/actions"
	"github.com/entrhq/bua/pkg/blocklist"
	"github.com/entrhq/bua/pkg/computer"
	"github.com/entrhq/bua/pkg/dom"
	"github.com/entrhq/bua/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("browser")
	if err != nil {
		debugLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}

const (
	// DefaultWidth and DefaultHeight apply when a backend reports no viewport.
	DefaultWidth  = 1280
	DefaultHeight = 1080

	// DefaultStartURL is visited once interception is in place.
	DefaultStartURL = "https://bing.com"

	// DefaultWaitMS is used by Wait for non-positive durations.
	DefaultWaitMS = 1000
)

var (
	_ computer.Computer = (*Computer)(nil)
	_ computer.Browser  = (*Computer)(nil)
)

// Computer is one live browser session.
type Computer struct {
	id      string
	backend Backend
	engine  Engine
	browser playwright.Browser
	context playwright.BrowserContext
	pages   *pageTracker

	blocklist         *blocklist.Blocklist
	extractor         *dom.Extractor
	viewportExpansion int
	settle            time.Duration
	sleep             func(time.Duration)

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

type options struct {
	startEngine       EngineStarter
	startURL          string
	blocklist         *blocklist.Blocklist
	extractor         *dom.Extractor
	viewportExpansion int
	settle            time.Duration
	sleep             func(time.Duration)
}

// Option configures Open.
type Option func(*options)

// WithEngineStarter replaces the driver launcher.
func WithEngineStarter(start EngineStarter) Option {
	return func(o *options) { o.startEngine = start }
}

// WithStartURL sets the first page visited. An empty url skips it.
func WithStartURL(url string) Option {
	return func(o *options) { o.startURL = url }
}

// WithBlocklist sets the host policy used to abort requests.
func WithBlocklist(b *blocklist.Blocklist) Option {
	return func(o *options) { o.blocklist = b }
}

// WithExtractor sets the DOM extractor.
func WithExtractor(e *dom.Extractor) Option {
	return func(o *options) { o.extractor = e }
}

// WithViewportExpansion sets the off-screen margin used by DOM.
func WithViewportExpansion(px int) Option {
	return func(o *options) { o.viewportExpansion = px }
}

// WithSettleDelay sets the pause after each executed action.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) { o.settle = d }
}

// WithSleep replaces time.Sleep for Wait.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *options) { o.sleep = sleep }
}

func defaultOptions() options {
	return options{
		startEngine:       func() (Engine, error) { return StartPlaywright(nil) },
		startURL:          DefaultStartURL,
		blocklist:         blocklist.Default(),
		extractor:         dom.NewExtractor(),
		viewportExpansion: dom.DefaultViewportExpansion,
		settle:            actions.DefaultSettleDelay,
		sleep:             time.Sleep,
	}
}

// Open starts the engine, connects through backend and prepares the session:
// lifecycle handlers, request interception, then the start URL. Any failure
// before the session is usable releases what was acquired and returns a
// *BootstrapError.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Computer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Computer{
		id:                uuid.New().String(),
		backend:           backend,
		blocklist:         o.blocklist,
		extractor:         o.extractor,
		viewportExpansion: o.viewportExpansion,
		settle:            o.settle,
		sleep:             o.sleep,
	}

	if err := c.bootstrap(ctx, o.startEngine); err != nil {
		recordBootstrapFailure(backend.Name())
		return nil, &BootstrapError{Backend: backend.Name(), Err: err}
	}
	recordSessionOpened(backend.Name())
	debugLog.Infof("session %s opened on %s", c.id, backend.Name())

	if o.startURL != "" {
		c.Goto(o.startURL)
	}
	return c, nil
}

func (c *Computer) bootstrap(ctx context.Context, startEngine EngineStarter) error {
	engine, err := startEngine()
	if err != nil {
		return err
	}
	c.engine = engine

	browser, page, err := c.backend.Connect(ctx, engine.Chromium())
	if err != nil {
		// A remote adapter may have created a provider session before failing.
		if discErr := c.backend.Disconnect(); discErr != nil {
			debugLog.Warnf("failed to disconnect backend after connect error: %v", discErr)
		}
		if stopErr := engine.Stop(); stopErr != nil {
			debugLog.Warnf("failed to stop engine after connect error: %v", stopErr)
		}
		return err
	}
	if page == nil {
		return c.abortBootstrap(browser, errors.New("backend returned no page"))
	}
	c.browser = browser
	c.context = page.Context()
	c.pages = newPageTracker(page)

	c.context.OnPage(c.handleNewPage)
	page.OnClose(c.handlePageClose)

	if err := c.context.Route("**/*", c.handleRoute); err != nil {
		return c.abortBootstrap(browser, fmt.Errorf("failed to install request interception: %w", err))
	}
	return nil
}

func (c *Computer) abortBootstrap(browser playwright.Browser, cause error) error {
	var errs []error
	errs = append(errs, cause)
	if browser != nil {
		if err := browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if err := c.backend.Disconnect(); err != nil {
		errs = append(errs, fmt.Errorf("disconnect backend: %w", err))
	}
	if err := c.engine.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop engine: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Computer) handleNewPage(page playwright.Page) {
	debugLog.Debugf("new page created: %s", page.URL())
	c.pages.opened(page)
	page.OnClose(c.handlePageClose)
}

func (c *Computer) handlePageClose(page playwright.Page) {
	debugLog.Debugf("page closed")
	if c.pages.closed(page, c.context.Pages()) {
		debugLog.Warnf("All pages have been closed.")
	}
}

func (c *Computer) handleRoute(route playwright.Route) {
	url := route.Request().URL()
	if c.blocklist.IsBlocked(url) {
		debugLog.Infof("Flagging blocked domain: %s", url)
		recordRequestBlocked(c.backend.Name())
		if err := route.Abort(); err != nil {
			debugLog.Warnf("failed to abort blocked request %s: %v", url, err)
		}
		return
	}
	if err := route.Continue(); err != nil {
		debugLog.Debugf("failed to continue request %s: %v", url, err)
	}
}

// ID is the session's unique identifier.
func (c *Computer) ID() string { return c.id }

// Backend names the backend the session runs on.
func (c *Computer) Backend() string { return c.backend.Name() }

// Environment implements computer.Computer.
func (c *Computer) Environment() computer.Environment {
	return computer.EnvironmentBrowser
}

// Dimensions implements computer.Computer.
func (c *Computer) Dimensions() (int, int) {
	w, h := c.backend.Dimensions()
	if w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// Pages lists the open pages of the tracked context.
func (c *Computer) Pages() []playwright.Page {
	var open []playwright.Page
	for _, p := range c.context.Pages() {
		if !p.IsClosed() {
			open = append(open, p)
		}
	}
	return open
}

// page returns the current page or ErrNoPage.
func (c *Computer) page() (playwright.Page, error) {
	if c.closed.Load() {
		return nil, ErrSessionClosed
	}
	if page := c.pages.get(); page != nil {
		return page, nil
	}
	return nil, ErrNoPage
}

// Close tears the session down: open pages, then the browser connection,
// then the backend session, then the engine. Every step runs even when an
// earlier one fails; the failures are joined. Close is idempotent.
func (c *Computer) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.teardown()
		recordSessionClosed(c.backend.Name())
		debugLog.Infof("session %s closed", c.id)
	})
	return c.closeErr
}

func (c *Computer) teardown() error {
	var errs []error

	for _, page := range c.Pages() {
		if err := page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if err := c.backend.Disconnect(); err != nil {
		errs = append(errs, fmt.Errorf("disconnect backend: %w", err))
	}
	if c.engine != nil {
		if err := c.engine.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop engine: %w", err))
		}
	}

	for _, err := range errs {
		debugLog.Warnf("teardown: %v", err)
	}
	return errors.Join(errs...)
}
