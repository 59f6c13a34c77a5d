package actions

import (
	"errors"

	"github.com/playwright-community/playwright-go"
)

// pwLocator lets fakeLocator embed the interface without its field name
// shadowing the Locator method.
type pwLocator = playwright.Locator

var _ playwright.Locator = (*fakeLocator)(nil)

// fakeLocator records which lookup produced it and how many elements it matches.
type fakeLocator struct {
	pwLocator
	query    string
	count    int
	countErr error
	first    *fakeLocator
}

func (l *fakeLocator) Count() (int, error) { return l.count, l.countErr }

func (l *fakeLocator) First() playwright.Locator {
	if l.first == nil {
		l.first = &fakeLocator{query: l.query + ">>first", count: 1}
	}
	return l.first
}

// fakePage answers locator lookups from a table keyed by "method:value".
type fakePage struct {
	playwright.Page
	matches map[string]int
	errs    map[string]error
	queries []string

	roleOpts playwright.PageGetByRoleOptions
	waitErr  error
	waited   int
}

func (p *fakePage) lookup(key string) playwright.Locator {
	p.queries = append(p.queries, key)
	return &fakeLocator{query: key, count: p.matches[key], countErr: p.errs[key]}
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return p.lookup("locator:" + selector)
}

func (p *fakePage) GetByText(text interface{}, options ...playwright.PageGetByTextOptions) playwright.Locator {
	return p.lookup("text:" + text.(string))
}

func (p *fakePage) GetByRole(role playwright.AriaRole, options ...playwright.PageGetByRoleOptions) playwright.Locator {
	if len(options) > 0 {
		p.roleOpts = options[0]
	}
	return p.lookup("role:" + string(role))
}

func (p *fakePage) GetByTestId(testID interface{}) playwright.Locator {
	return p.lookup("test_id:" + testID.(string))
}

func (p *fakePage) GetByPlaceholder(text interface{}, options ...playwright.PageGetByPlaceholderOptions) playwright.Locator {
	return p.lookup("placeholder:" + text.(string))
}

func (p *fakePage) GetByLabel(text interface{}, options ...playwright.PageGetByLabelOptions) playwright.Locator {
	return p.lookup("label:" + text.(string))
}

func (p *fakePage) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	p.waited++
	return p.waitErr
}

var errTargetClosed = errors.New("target closed")
