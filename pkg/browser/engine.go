package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Engine is a running automation driver.
type Engine interface {
	Chromium() playwright.BrowserType
	Stop() error
}

// EngineStarter starts a driver for one session.
type EngineStarter func() (Engine, error)

// StartPlaywright installs the driver if needed and runs it. Driver output is
// discarded unless out is non-nil.
func StartPlaywright(out io.Writer) (Engine, error) {
	if out == nil {
		out = io.Discard
	}
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  out,
		Stderr:  out,
	}

	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &playwrightEngine{pw: pw}, nil
}

type playwrightEngine struct {
	pw *playwright.Playwright
}

func (e *playwrightEngine) Chromium() playwright.BrowserType {
	return e.pw.Chromium
}

func (e *playwrightEngine) Stop() error {
	return e.pw.Stop()
}
