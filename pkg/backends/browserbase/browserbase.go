// Package browserbase runs sessions on the Browserbase remote browser service
// and attaches to them over CDP.
package browserbase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("browserbase")
	if err != nil {
		debugLog.Warnf("Failed to initialize browserbase logger, using stderr fallback: %v", err)
	}
}

const (
	// Name identifies this backend.
	Name = "browserbase"

	APIKeyEnv    = "BROWSERBASE_API_KEY"
	ProjectIDEnv = "BROWSERBASE_PROJECT_ID"

	DefaultWidth  = 1024
	DefaultHeight = 768
	DefaultRegion = "us-west-2"

	connectTimeoutMS = 60000
)

// Options configures the remote session.
type Options struct {
	ProjectID    string
	Width        int
	Height       int
	Region       string
	Proxy        bool
	VirtualMouse bool
	AdBlocker    bool
}

// DefaultOptions has the virtual mouse on and everything else off.
func DefaultOptions() Options {
	return Options{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Region:       DefaultRegion,
		VirtualMouse: true,
	}
}

// Backend creates one remote session per Connect.
type Backend struct {
	api     API
	opts    Options
	session *Session
}

var (
	_ browser.Backend            = (*Backend)(nil)
	_ browser.ScreenshotCapturer = (*Backend)(nil)
)

// New returns a backend using api.
func New(api API, opts Options) *Backend {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	return &Backend{api: api, opts: opts}
}

// NewFromEnv reads credentials from the environment. opts.ProjectID, when
// set, wins over the environment.
func NewFromEnv(opts Options, apiURL string) (*Backend, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", APIKeyEnv)
	}
	if opts.ProjectID == "" {
		opts.ProjectID = os.Getenv(ProjectIDEnv)
	}
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("%s is not set", ProjectIDEnv)
	}
	return New(NewClient(apiKey, apiURL), opts), nil
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Dimensions() (int, int) { return b.opts.Width, b.opts.Height }

// SessionID is the provider session id, empty before Connect.
func (b *Backend) SessionID() string {
	if b.session == nil {
		return ""
	}
	return b.session.ID
}

// Connect creates a session, attaches over CDP and returns the session's
// first page.
func (b *Backend) Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error) {
	session, err := b.api.CreateSession(ctx, CreateSessionParams{
		ProjectID: b.opts.ProjectID,
		BrowserSettings: BrowserSettings{
			Viewport: Viewport{Width: b.opts.Width, Height: b.opts.Height},
			BlockAds: b.opts.AdBlocker,
		},
		Region:  b.opts.Region,
		Proxies: b.opts.Proxy,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	b.session = session
	debugLog.Infof("Watch and control this browser live at https://www.browserbase.com/sessions/%s", session.ID)

	br, err := chromium.ConnectOverCDP(session.ConnectURL, playwright.BrowserTypeConnectOverCDPOptions{
		Timeout: playwright.Float(connectTimeoutMS),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect over cdp: %w", err)
	}

	page, err := b.firstPage(br)
	if err != nil {
		_ = br.Close()
		return nil, nil, err
	}
	return br, page, nil
}

func (b *Backend) firstPage(br playwright.Browser) (playwright.Page, error) {
	contexts := br.Contexts()
	if len(contexts) == 0 {
		return nil, errors.New("remote browser has no context")
	}
	bctx := contexts[0]

	if b.opts.VirtualMouse {
		if err := browser.InstallVirtualMouse(bctx); err != nil {
			return nil, err
		}
	}

	if pages := bctx.Pages(); len(pages) > 0 {
		return pages[0], nil
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// CaptureScreenshot captures through CDP.
func (b *Backend) CaptureScreenshot(page playwright.Page) (string, error) {
	return browser.CaptureViewportCDP(page)
}

// Disconnect logs where the finished session can be replayed.
func (b *Backend) Disconnect() error {
	if b.session != nil {
		debugLog.Infof("Session completed. View replay at https://browserbase.com/sessions/%s", b.session.ID)
		b.session = nil
	}
	return nil
}
