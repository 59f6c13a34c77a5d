package browser

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// CaptureViewportCDP grabs the viewport through a CDP session attached to
// page. Remote providers render faster this way than through the engine's
// screenshot path.
func CaptureViewportCDP(page playwright.Page) (string, error) {
	session, err := page.Context().NewCDPSession(page)
	if err != nil {
		return "", fmt.Errorf("failed to open cdp session: %w", err)
	}
	defer func() {
		if err := session.Detach(); err != nil {
			debugLog.Debugf("cdp detach failed: %v", err)
		}
	}()

	result, err := session.Send("Page.captureScreenshot", map[string]interface{}{
		"format":      "png",
		"fromSurface": true,
	})
	if err != nil {
		return "", fmt.Errorf("cdp screenshot failed: %w", err)
	}

	fields, ok := result.(map[string]interface{})
	if !ok {
		return "", errors.New("cdp screenshot returned no payload")
	}
	data, ok := fields["data"].(string)
	if !ok || data == "" {
		return "", errors.New("cdp screenshot returned no data")
	}
	return data, nil
}

//go:embed cursor.js
var virtualMouseScript string

// InstallVirtualMouse adds an init script that draws a cursor following
// mouse moves, so live viewers of a remote session can see the pointer.
func InstallVirtualMouse(ctx playwright.BrowserContext) error {
	if err := ctx.AddInitScript(playwright.Script{Content: playwright.String(virtualMouseScript)}); err != nil {
		return fmt.Errorf("failed to install virtual mouse: %w", err)
	}
	return nil
}
