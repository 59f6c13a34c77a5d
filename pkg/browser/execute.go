package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/actions"
	"github.com/entrhq/bua/pkg/computer"
)

// ExecuteAction runs a typed action against the current page. Interaction
// actions resolve their selectors now, against the live DOM. After a
// successful action the page is given a short time to settle.
func (c *Computer) ExecuteAction(action actions.Action) error {
	page, err := c.page()
	if err != nil {
		return err
	}

	var kind string
	switch a := action.(type) {
	case actions.BrowserAction:
		kind = string(actions.KindBrowser)
		err = c.runBrowserAction(page, a)
	case actions.InteractionAction:
		kind = string(actions.KindInteraction)
		err = c.runInteraction(page, a)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidAction, action)
	}
	recordAction(c.backend.Name(), kind, err)
	if err != nil {
		return err
	}

	actions.ShortWait(c.pages.get(), c.settle)
	return nil
}

func (c *Computer) runBrowserAction(page playwright.Page, a actions.BrowserAction) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	switch a.Verb {
	case actions.VerbGoto:
		if _, err := page.Goto(a.Params.URL); err != nil {
			return &NavigationError{Verb: string(a.Verb), URL: a.Params.URL, Err: err}
		}
	case actions.VerbBack:
		if _, err := page.GoBack(); err != nil {
			return &NavigationError{Verb: string(a.Verb), Err: err}
		}
	case actions.VerbForward:
		if _, err := page.GoForward(); err != nil {
			return &NavigationError{Verb: string(a.Verb), Err: err}
		}
	case actions.VerbReload:
		if _, err := page.Reload(); err != nil {
			return &NavigationError{Verb: string(a.Verb), Err: err}
		}
	case actions.VerbNewTab:
		tab, err := page.Context().NewPage()
		if err != nil {
			return fmt.Errorf("failed to open tab: %w", err)
		}
		c.pages.opened(tab)
		if a.Params.URL != "" {
			if _, err := tab.Goto(a.Params.URL); err != nil {
				return &NavigationError{Verb: string(a.Verb), URL: a.Params.URL, Err: err}
			}
		}
	case actions.VerbCloseTab:
		if err := page.Close(); err != nil {
			return fmt.Errorf("failed to close tab: %w", err)
		}
	}
	return nil
}

func (c *Computer) runInteraction(page playwright.Page, a actions.InteractionAction) error {
	if len(a.Selectors) == 0 {
		return actions.ErrNoSelectors
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	loc, err := actions.Locate(page, a.Selectors)
	if err != nil {
		return err
	}
	if err := perform(loc, a); err != nil {
		return fmt.Errorf("%s failed: %w", a.Verb, err)
	}
	return nil
}

func perform(loc playwright.Locator, a actions.InteractionAction) error {
	p := a.Params
	switch a.Verb {
	case actions.VerbClick:
		opts := playwright.LocatorClickOptions{}
		switch p.Button {
		case "right":
			opts.Button = playwright.MouseButtonRight
		case "middle":
			opts.Button = playwright.MouseButtonMiddle
		}
		if p.ClickCount > 0 {
			opts.ClickCount = playwright.Int(p.ClickCount)
		}
		return loc.Click(opts)
	case actions.VerbDoubleClick:
		return loc.Dblclick()
	case actions.VerbFill:
		return loc.Fill(p.Value)
	case actions.VerbType:
		opts := playwright.LocatorPressSequentiallyOptions{}
		if p.DelayMS > 0 {
			opts.Delay = playwright.Float(float64(p.DelayMS))
		}
		return loc.PressSequentially(p.Text, opts)
	case actions.VerbPress:
		return loc.Press(computer.MapKey(p.Key))
	case actions.VerbSelect:
		values := p.Values
		_, err := loc.SelectOption(playwright.SelectOptionValues{Values: &values})
		return err
	case actions.VerbCheck:
		return loc.Check()
	case actions.VerbUncheck:
		return loc.Uncheck()
	case actions.VerbHover:
		return loc.Hover()
	case actions.VerbFocus:
		return loc.Focus()
	case actions.VerbClear:
		return loc.Clear()
	case actions.VerbScrollIntoView:
		return loc.ScrollIntoViewIfNeeded()
	default:
		return fmt.Errorf("%w: %q", actions.ErrUnknownVerb, a.Verb)
	}
}
