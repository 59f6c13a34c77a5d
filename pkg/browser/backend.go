package browser

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// Backend produces a connected browser and its first page. Local backends
// launch a browser; remote backends create a provider session and attach
// over CDP.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Dimensions is the viewport the backend configured. Zero means unknown.
	Dimensions() (width, height int)
	// Connect returns the browser and the page the session starts on. The
	// page's context is the one the session tracks.
	Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error)
	// Disconnect releases provider-side resources after the browser is closed.
	Disconnect() error
}

// ScreenshotCapturer is implemented by backends with a preferred capture
// path. A failure falls back to the engine's own screenshot.
type ScreenshotCapturer interface {
	CaptureScreenshot(page playwright.Page) (string, error)
}
