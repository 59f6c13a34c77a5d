package actions

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Locate resolves selectors against page in order and returns the first
// element of the first selector that matches anything. There are no retries:
// a selector that matches nothing right now is skipped.
func Locate(page playwright.Page, selectors []Selector) (playwright.Locator, error) {
	if len(selectors) == 0 {
		return nil, ErrNoSelectors
	}

	var errs []error
	for _, s := range selectors {
		loc, err := s.Locator(page)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		count, err := loc.Count()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
			continue
		}
		if count > 0 {
			debugLog.Debugf("resolved %s (%d matches)", s, count)
			return loc.First(), nil
		}
		debugLog.Debugf("selector %s matched nothing", s)
	}
	return nil, &ResolutionError{Selectors: selectors, Err: errors.Join(errs...)}
}
