package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPage is returned by primitives when every page has been closed.
	ErrNoPage = errors.New("no current page")
	// ErrInvalidAction is returned by ExecuteAction for values it cannot dispatch.
	ErrInvalidAction = errors.New("invalid action")
	// ErrSessionClosed is returned after Close.
	ErrSessionClosed = errors.New("browser session closed")
)

// BootstrapError reports that a backend could not produce a usable session.
type BootstrapError struct {
	Backend string
	Err     error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("failed to start %s session: %v", e.Backend, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// NavigationError wraps a failed back, forward, reload or goto action.
type NavigationError struct {
	Verb string
	URL  string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("navigation %s to %s failed: %v", e.Verb, e.URL, e.Err)
	}
	return fmt.Sprintf("navigation %s failed: %v", e.Verb, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
