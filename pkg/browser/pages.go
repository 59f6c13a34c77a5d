package browser

import (
	"sync"

	"github.com/playwright-community/playwright-go"
)

// pageTracker holds the page primitives act on. It is written from the
// engine's event goroutine (new page, page closed) and read by every
// primitive, so all access goes through the mutex.
type pageTracker struct {
	mu      sync.Mutex
	current playwright.Page
}

func newPageTracker(page playwright.Page) *pageTracker {
	return &pageTracker{current: page}
}

func (t *pageTracker) get() playwright.Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// opened makes a newly created page current.
func (t *pageTracker) opened(page playwright.Page) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = page
}

// closed reassigns the current page when it is the one that closed. The
// replacement is the last still-open page in remaining, or none. It reports
// whether the tracker is now without a page because of this close.
func (t *pageTracker) closed(page playwright.Page, remaining []playwright.Page) (exhausted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != page {
		return false
	}
	t.current = nil
	for i := len(remaining) - 1; i >= 0; i-- {
		p := remaining[i]
		if p == page || p.IsClosed() {
			continue
		}
		t.current = p
		return false
	}
	return true
}
