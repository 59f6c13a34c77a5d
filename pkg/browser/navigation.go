package browser

// Goto navigates the current page. Navigation failures are logged, not
// returned: a page that errors while loading is still a page the agent can
// look at.
func (c *Computer) Goto(url string) {
	page, err := c.page()
	if err != nil {
		debugLog.Warnf("Error navigating to %s: %v", url, err)
		return
	}
	if _, err := page.Goto(url); err != nil {
		debugLog.Warnf("Error navigating to %s: %v", url, err)
	}
}

// Back goes back in the current page's history.
func (c *Computer) Back() error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if _, err := page.GoBack(); err != nil {
		return &NavigationError{Verb: "back", Err: err}
	}
	return nil
}

// Forward goes forward in the current page's history.
func (c *Computer) Forward() error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if _, err := page.GoForward(); err != nil {
		return &NavigationError{Verb: "forward", Err: err}
	}
	return nil
}
