package browser

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// recorder collects the engine calls made by the code under test, in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

type fakeMouse struct {
	playwright.Mouse
	rec     *recorder
	moveErr error
}

func (m *fakeMouse) Move(x, y float64, options ...playwright.MouseMoveOptions) error {
	m.rec.add("mouse.move %v %v", x, y)
	return m.moveErr
}

func (m *fakeMouse) Click(x, y float64, options ...playwright.MouseClickOptions) error {
	button := "left"
	if len(options) > 0 && options[0].Button != nil {
		button = string(*options[0].Button)
	}
	m.rec.add("mouse.click %v %v %s", x, y, button)
	return nil
}

func (m *fakeMouse) Dblclick(x, y float64, options ...playwright.MouseDblclickOptions) error {
	m.rec.add("mouse.dblclick %v %v", x, y)
	return nil
}

func (m *fakeMouse) Down(options ...playwright.MouseDownOptions) error {
	m.rec.add("mouse.down")
	return nil
}

func (m *fakeMouse) Up(options ...playwright.MouseUpOptions) error {
	m.rec.add("mouse.up")
	return nil
}

func (m *fakeMouse) Wheel(deltaX, deltaY float64) error {
	m.rec.add("mouse.wheel %v %v", deltaX, deltaY)
	return nil
}

type fakeKeyboard struct {
	playwright.Keyboard
	rec     *recorder
	downErr map[string]error
}

func (k *fakeKeyboard) Down(key string) error {
	k.rec.add("key.down %s", key)
	return k.downErr[key]
}

func (k *fakeKeyboard) Up(key string) error {
	k.rec.add("key.up %s", key)
	return nil
}

func (k *fakeKeyboard) Type(text string, options ...playwright.KeyboardTypeOptions) error {
	k.rec.add("key.type %s", text)
	return nil
}

// pwLocator lets fakeLocator embed the interface without its field name
// shadowing the Locator method.
type pwLocator = playwright.Locator

var _ playwright.Locator = (*fakeLocator)(nil)

type fakeLocator struct {
	pwLocator
	rec   *recorder
	query string
	count int
}

func (l *fakeLocator) Count() (int, error) { return l.count, nil }

func (l *fakeLocator) First() playwright.Locator { return l }

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	button := "left"
	if len(options) > 0 && options[0].Button != nil {
		button = string(*options[0].Button)
	}
	l.rec.add("locator.click %s %s", l.query, button)
	return nil
}

func (l *fakeLocator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.rec.add("locator.fill %s %s", l.query, value)
	return nil
}

func (l *fakeLocator) Press(key string, options ...playwright.LocatorPressOptions) error {
	l.rec.add("locator.press %s %s", l.query, key)
	return nil
}

func (l *fakeLocator) SelectOption(values playwright.SelectOptionValues, options ...playwright.LocatorSelectOptionOptions) ([]string, error) {
	l.rec.add("locator.select %s %v", l.query, *values.Values)
	return *values.Values, nil
}

type fakePage struct {
	playwright.Page
	rec      *recorder
	ctx      *fakeContext
	mouse    *fakeMouse
	keyboard *fakeKeyboard

	url      string
	closed   bool
	closeErr error
	onClose  []func(playwright.Page)

	screenshot    []byte
	screenshotErr error
	evalResult    interface{}
	evalErr       error
	gotoErr       error
	backErr       error
	matches       map[string]int
}

func (p *fakePage) Mouse() playwright.Mouse       { return p.mouse }
func (p *fakePage) Keyboard() playwright.Keyboard { return p.keyboard }
func (p *fakePage) URL() string                   { return p.url }
func (p *fakePage) IsClosed() bool                { return p.closed }

func (p *fakePage) Context() playwright.BrowserContext { return p.ctx }

func (p *fakePage) OnClose(fn func(playwright.Page)) {
	p.onClose = append(p.onClose, fn)
}

// Close marks the page closed and fires close handlers the way the engine
// does, while the context still lists the page.
func (p *fakePage) Close(options ...playwright.PageCloseOptions) error {
	p.rec.add("page.close %s", p.url)
	if p.closeErr != nil {
		return p.closeErr
	}
	p.closed = true
	for _, fn := range p.onClose {
		fn(p)
	}
	return nil
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.rec.add("page.screenshot")
	return p.screenshot, p.screenshotErr
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if len(expression) > 40 {
		expression = expression[:40]
	}
	p.rec.add("page.evaluate %s", expression)
	return p.evalResult, p.evalErr
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.rec.add("page.goto %s", url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) GoBack(options ...playwright.PageGoBackOptions) (playwright.Response, error) {
	p.rec.add("page.back")
	return nil, p.backErr
}

func (p *fakePage) GoForward(options ...playwright.PageGoForwardOptions) (playwright.Response, error) {
	p.rec.add("page.forward")
	return nil, nil
}

func (p *fakePage) Reload(options ...playwright.PageReloadOptions) (playwright.Response, error) {
	p.rec.add("page.reload")
	return nil, nil
}

func (p *fakePage) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	return nil
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{rec: p.rec, query: selector, count: p.matches[selector]}
}

type fakeContext struct {
	playwright.BrowserContext
	rec      *recorder
	pages    []*fakePage
	onPage   []func(playwright.Page)
	route    func(playwright.Route)
	routeErr error
	cdp      *fakeCDPSession
}

func (c *fakeContext) Pages() []playwright.Page {
	out := make([]playwright.Page, len(c.pages))
	for i, p := range c.pages {
		out[i] = p
	}
	return out
}

func (c *fakeContext) OnPage(fn func(playwright.Page)) {
	c.onPage = append(c.onPage, fn)
}

func (c *fakeContext) Route(url interface{}, handler func(playwright.Route), times ...int) error {
	c.rec.add("context.route %v", url)
	if c.routeErr != nil {
		return c.routeErr
	}
	c.route = handler
	return nil
}

func (c *fakeContext) NewPage() (playwright.Page, error) {
	p := c.addPage("about:blank")
	c.rec.add("context.new_page")
	for _, fn := range c.onPage {
		fn(p)
	}
	return p, nil
}

func (c *fakeContext) NewCDPSession(page interface{}) (playwright.CDPSession, error) {
	if c.cdp == nil {
		return nil, fmt.Errorf("cdp unavailable")
	}
	return c.cdp, nil
}

func (c *fakeContext) AddInitScript(script playwright.Script) error {
	c.rec.add("context.init_script")
	return nil
}

// addPage creates a page in this context without firing page events.
func (c *fakeContext) addPage(url string) *fakePage {
	p := &fakePage{
		rec:      c.rec,
		ctx:      c,
		url:      url,
		mouse:    &fakeMouse{rec: c.rec},
		keyboard: &fakeKeyboard{rec: c.rec},
	}
	c.pages = append(c.pages, p)
	return p
}

// openPopup simulates the page opening a new tab on its own.
func (c *fakeContext) openPopup(url string) *fakePage {
	p := c.addPage(url)
	for _, fn := range c.onPage {
		fn(p)
	}
	return p
}

type fakeCDPSession struct {
	playwright.CDPSession
	result   interface{}
	err      error
	method   string
	detached bool
}

func (s *fakeCDPSession) Send(method string, params map[string]interface{}) (interface{}, error) {
	s.method = method
	return s.result, s.err
}

func (s *fakeCDPSession) Detach() error {
	s.detached = true
	return nil
}

type fakeBrowser struct {
	playwright.Browser
	rec      *recorder
	closeErr error
}

func (b *fakeBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.rec.add("browser.close")
	return b.closeErr
}

type fakeEngine struct {
	rec     *recorder
	stopErr error
}

func (e *fakeEngine) Chromium() playwright.BrowserType { return nil }

func (e *fakeEngine) Stop() error {
	e.rec.add("engine.stop")
	return e.stopErr
}

type fakeBackend struct {
	rec           *recorder
	name          string
	width, height int
	browser       *fakeBrowser
	page          *fakePage
	connectErr    error
	disconnectErr error

	// When release is set, Connect signals connecting and waits on release.
	connecting chan struct{}
	release    chan struct{}
}

func (b *fakeBackend) Name() string           { return b.name }
func (b *fakeBackend) Dimensions() (int, int) { return b.width, b.height }

func (b *fakeBackend) Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error) {
	b.rec.add("backend.connect")
	if b.release != nil {
		close(b.connecting)
		<-b.release
	}
	if b.connectErr != nil {
		return nil, nil, b.connectErr
	}
	return b.browser, b.page, nil
}

func (b *fakeBackend) Disconnect() error {
	b.rec.add("backend.disconnect")
	return b.disconnectErr
}

// capturingBackend adds a preferred screenshot path.
type capturingBackend struct {
	*fakeBackend
	data string
	err  error
}

func (b *capturingBackend) CaptureScreenshot(page playwright.Page) (string, error) {
	b.rec.add("backend.capture")
	return b.data, b.err
}

type fakeRequest struct {
	playwright.Request
	url string
}

func (r *fakeRequest) URL() string { return r.url }

type fakeRoute struct {
	playwright.Route
	req       *fakeRequest
	aborted   bool
	continued bool
}

func (r *fakeRoute) Request() playwright.Request { return r.req }

func (r *fakeRoute) Abort(errorCode ...string) error {
	r.aborted = true
	return nil
}

func (r *fakeRoute) Continue(options ...playwright.RouteContinueOptions) error {
	r.continued = true
	return nil
}

// harness wires a fake backend with one page into an opened Computer.
type harness struct {
	rec     *recorder
	engine  *fakeEngine
	backend *fakeBackend
	ctx     *fakeContext
	page    *fakePage
	browser *fakeBrowser
	slept   []int
}

func newHarness() *harness {
	rec := &recorder{}
	ctx := &fakeContext{rec: rec}
	page := ctx.addPage("about:blank")
	browser := &fakeBrowser{rec: rec}
	return &harness{
		rec:     rec,
		engine:  &fakeEngine{rec: rec},
		backend: &fakeBackend{rec: rec, name: "fake", width: 1024, height: 768, browser: browser, page: page},
		ctx:     ctx,
		page:    page,
		browser: browser,
	}
}

// blockConnect makes the next Connect wait until the returned func is called.
func (h *harness) blockConnect() (connecting <-chan struct{}, release func()) {
	h.backend.connecting = make(chan struct{})
	h.backend.release = make(chan struct{})
	return h.backend.connecting, func() { close(h.backend.release) }
}

func (h *harness) options(extra ...Option) []Option {
	opts := []Option{
		WithEngineStarter(func() (Engine, error) { return h.engine, nil }),
		WithStartURL(""),
		WithSettleDelay(0),
		WithSleep(func(d time.Duration) { h.slept = append(h.slept, int(d.Milliseconds())) }),
	}
	return append(opts, extra...)
}

func (h *harness) open(t *testing.T, backend Backend, extra ...Option) *Computer {
	t.Helper()
	if backend == nil {
		backend = h.backend
	}
	c, err := Open(context.Background(), backend, h.options(extra...)...)
	require.NoError(t, err)
	h.rec.reset()
	return c
}
