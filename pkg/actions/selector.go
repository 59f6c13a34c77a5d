package actions

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Strategy names how a selector value is interpreted.
type Strategy string

const (
	StrategyCSS         Strategy = "css"
	StrategyXPath       Strategy = "xpath"
	StrategyText        Strategy = "text"
	StrategyRole        Strategy = "role"
	StrategyTestID      Strategy = "test_id"
	StrategyPlaceholder Strategy = "placeholder"
	StrategyLabel       Strategy = "label"
)

// Selector describes one way of finding an element. An empty Strategy is CSS.
type Selector struct {
	Strategy Strategy `json:"strategy,omitempty"`
	Value    string   `json:"value"`
	// Name is the accessible name for role selectors.
	Name  string `json:"name,omitempty"`
	Exact bool   `json:"exact,omitempty"`
}

// CSS returns a CSS selector descriptor.
func CSS(value string) Selector { return Selector{Strategy: StrategyCSS, Value: value} }

// XPath returns an XPath selector descriptor.
func XPath(value string) Selector { return Selector{Strategy: StrategyXPath, Value: value} }

// Text returns a text selector descriptor.
func Text(value string, exact bool) Selector {
	return Selector{Strategy: StrategyText, Value: value, Exact: exact}
}

// Role returns an ARIA role selector; name may be empty.
func Role(role, name string) Selector {
	return Selector{Strategy: StrategyRole, Value: role, Name: name}
}

func (s Selector) strategy() Strategy {
	if s.Strategy == "" {
		return StrategyCSS
	}
	return s.Strategy
}

// Validate rejects empty values and unknown strategies.
func (s Selector) Validate() error {
	if s.Value == "" {
		return fmt.Errorf("%w: empty value", ErrInvalidSelector)
	}
	switch s.strategy() {
	case StrategyCSS, StrategyXPath, StrategyText, StrategyRole,
		StrategyTestID, StrategyPlaceholder, StrategyLabel:
		return nil
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidSelector, s.Strategy)
	}
}

func (s Selector) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s=%s[name=%q]", s.strategy(), s.Value, s.Name)
	}
	return fmt.Sprintf("%s=%s", s.strategy(), s.Value)
}

// Locator builds the engine locator for s on page. It does not touch the DOM.
func (s Selector) Locator(page playwright.Page) (playwright.Locator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	exact := playwright.Bool(s.Exact)
	switch s.strategy() {
	case StrategyXPath:
		return page.Locator("xpath=" + s.Value), nil
	case StrategyText:
		return page.GetByText(s.Value, playwright.PageGetByTextOptions{Exact: exact}), nil
	case StrategyRole:
		opts := playwright.PageGetByRoleOptions{Exact: exact}
		if s.Name != "" {
			opts.Name = s.Name
		}
		return page.GetByRole(playwright.AriaRole(s.Value), opts), nil
	case StrategyTestID:
		return page.GetByTestId(s.Value), nil
	case StrategyPlaceholder:
		return page.GetByPlaceholder(s.Value, playwright.PageGetByPlaceholderOptions{Exact: exact}), nil
	case StrategyLabel:
		return page.GetByLabel(s.Value, playwright.PageGetByLabelOptions{Exact: exact}), nil
	default:
		return page.Locator(s.Value), nil
	}
}
