// Package lumiteh runs sessions on the LumiTeh remote browser platform and
// attaches to them over CDP.
package lumiteh

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
	debugLog, err = logging.NewLogger("lumiteh")
	if err != nil {
		debugLog.Warnf("Failed to initialize lumiteh logger, using stderr fallback: %v", err)
	}
}

const (
	// Name identifies this backend.
	Name = "lumiteh"

	APIKeyEnv = "LUMITEH_API_KEY"

	DefaultWidth  = 1024
	DefaultHeight = 768

	connectTimeoutMS = 60000
)

// Options configures the remote session.
type Options struct {
	Width  int
	Height int
	Proxy  bool
}

// Backend starts one remote session per Connect.
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
	return &Backend{api: api, opts: opts}
}

// NewFromEnv reads the API key from the environment.
func NewFromEnv(opts Options, apiURL string) (*Backend, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", APIKeyEnv)
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
	return b.session.SessionID
}

// Connect starts a session, resolves its websocket endpoint, attaches over
// CDP and returns the first page of the first context.
func (b *Backend) Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error) {
	session, err := b.api.StartSession(ctx, StartSessionParams{Proxies: b.opts.Proxy})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start session: %w", err)
	}
	b.session = session

	info, err := b.api.DebugInfo(ctx, session.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get debug info for session %s: %w", session.SessionID, err)
	}
	debugLog.Infof("session %s started", session.SessionID)
	if info.DebugURL != "" {
		debugLog.Infof("Watch this browser live at %s", info.DebugURL)
	}

	br, err := chromium.ConnectOverCDP(info.WSURL, playwright.BrowserTypeConnectOverCDPOptions{
		Timeout: playwright.Float(connectTimeoutMS),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect over cdp: %w", err)
	}

	contexts := br.Contexts()
	if len(contexts) == 0 {
		_ = br.Close()
		return nil, nil, errors.New("remote browser has no context")
	}
	if pages := contexts[0].Pages(); len(pages) > 0 {
		return br, pages[0], nil
	}
	page, err := contexts[0].NewPage()
	if err != nil {
		_ = br.Close()
		return nil, nil, fmt.Errorf("failed to create page: %w", err)
	}
	return br, page, nil
}

// CaptureScreenshot captures through CDP.
func (b *Backend) CaptureScreenshot(page playwright.Page) (string, error) {
	return browser.CaptureViewportCDP(page)
}

// Disconnect logs where the finished session can be replayed.
func (b *Backend) Disconnect() error {
	if b.session != nil {
		debugLog.Infof("Session completed. View replay at https://lumiteh.com/sessions/%s", b.session.SessionID)
		b.session = nil
	}
	return nil
}
