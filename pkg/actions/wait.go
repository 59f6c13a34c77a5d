package actions

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("actions")
	if err != nil {
		debugLog.Warnf("Failed to initialize actions logger, using stderr fallback: %v", err)
	}
}

const (
	// DefaultSettleDelay is how long ShortWait sleeps after the load check.
	DefaultSettleDelay = 500 * time.Millisecond

	loadStateTimeoutMS = 3000
)

// ShortWait gives the page a moment to react to an action: it waits briefly
// for DOMContentLoaded and then sleeps for settle. A load-state timeout is
// not an error; pages that never finish loading are still usable.
func ShortWait(page playwright.Page, settle time.Duration) {
	if page == nil {
		return
	}
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(loadStateTimeoutMS),
	})
	if err != nil {
		debugLog.Debugf("load state wait ended early: %v", err)
	}
	if settle > 0 {
		time.Sleep(settle)
	}
}
