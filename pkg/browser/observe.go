package browser

import (
	"encoding/base64"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/dom"
)

// Screenshot returns the viewport as base64 PNG. Backends with their own
// capture path are tried first; if that fails the engine's screenshot is
// used and only its failure is returned.
func (c *Computer) Screenshot() (string, error) {
	page, err := c.page()
	if err != nil {
		return "", err
	}

	if capturer, ok := c.backend.(ScreenshotCapturer); ok {
		data, err := capturer.CaptureScreenshot(page)
		if err == nil {
			return data, nil
		}
		debugLog.Warnf("%s screenshot failed, falling back to default screenshot: %v", c.backend.Name(), err)
		recordCaptureFallback(c.backend.Name())
	}

	png, err := page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(false)})
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// CurrentURL returns the current page's URL.
func (c *Computer) CurrentURL() (string, error) {
	page, err := c.page()
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// DOM extracts the structured tree of the current page with highlighting on
// and no focused element.
func (c *Computer) DOM() (*dom.DomTreeNode, error) {
	page, err := c.page()
	if err != nil {
		return nil, err
	}
	cfg := dom.DefaultParseConfig()
	cfg.ViewportExpansion = c.viewportExpansion
	return c.extractor.Extract(page, cfg)
}
