package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/bua/pkg/blocklist"
	"github.com/entrhq/bua/pkg/computer"
	"github.com/entrhq/bua/pkg/dom"
)

func TestOpenInstallsInterceptionBeforeStartURL(t *testing.T) {
	h := newHarness()
	opts := h.options(WithStartURL("https://bing.com"))

	c, err := Open(context.Background(), h.backend, opts...)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"backend.connect",
		"context.route **/*",
		"page.goto https://bing.com",
	}, h.rec.all())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "fake", c.Backend())
	assert.Equal(t, computer.EnvironmentBrowser, c.Environment())
}

func TestOpenStartURLFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	h.page.gotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	_, err := Open(context.Background(), h.backend, h.options(WithStartURL("https://bing.com"))...)
	assert.NoError(t, err)
}

func TestOpenBootstrapFailures(t *testing.T) {
	t.Run("engine", func(t *testing.T) {
		h := newHarness()
		cause := errors.New("driver missing")
		opts := append(h.options(), WithEngineStarter(func() (Engine, error) { return nil, cause }))

		c, err := Open(context.Background(), h.backend, opts...)
		assert.Nil(t, c)
		var bootErr *BootstrapError
		require.True(t, errors.As(err, &bootErr))
		assert.Equal(t, "fake", bootErr.Backend)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("connect", func(t *testing.T) {
		h := newHarness()
		h.backend.connectErr = errors.New("401 unauthorized")
		before := testutil.ToFloat64(metricBootstrapFailures.WithLabelValues("fake"))

		_, err := Open(context.Background(), h.backend, h.options()...)
		var bootErr *BootstrapError
		require.True(t, errors.As(err, &bootErr))
		assert.ErrorIs(t, err, h.backend.connectErr)
		assert.Equal(t, []string{"backend.connect", "backend.disconnect", "engine.stop"}, h.rec.all())
		assert.Equal(t, before+1, testutil.ToFloat64(metricBootstrapFailures.WithLabelValues("fake")))
	})

	t.Run("interception", func(t *testing.T) {
		h := newHarness()
		h.ctx.routeErr = errors.New("context closed")

		_, err := Open(context.Background(), h.backend, h.options()...)
		assert.ErrorIs(t, err, h.ctx.routeErr)
		assert.Equal(t, []string{
			"backend.connect",
			"context.route **/*",
			"browser.close",
			"backend.disconnect",
			"engine.stop",
		}, h.rec.all())
	})
}

func TestRequestInterception(t *testing.T) {
	h := newHarness()
	bl, err := blocklist.New([]string{"ads.example.com"})
	require.NoError(t, err)
	h.open(t, nil, WithBlocklist(bl))
	require.NotNil(t, h.ctx.route)

	before := testutil.ToFloat64(metricRequestsBlocked.WithLabelValues("fake"))

	blocked := &fakeRoute{req: &fakeRequest{url: "https://ads.example.com/x.js"}}
	h.ctx.route(blocked)
	assert.True(t, blocked.aborted)
	assert.False(t, blocked.continued)

	allowed := &fakeRoute{req: &fakeRequest{url: "https://cdn.example.com/y.js"}}
	h.ctx.route(allowed)
	assert.False(t, allowed.aborted)
	assert.True(t, allowed.continued)

	assert.Equal(t, before+1, testutil.ToFloat64(metricRequestsBlocked.WithLabelValues("fake")))
}

func TestDimensions(t *testing.T) {
	h := newHarness()
	c := h.open(t, nil)
	w, hgt := c.Dimensions()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, hgt)

	h2 := newHarness()
	h2.backend.width, h2.backend.height = 0, 0
	c2 := h2.open(t, nil)
	w, hgt = c2.Dimensions()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, hgt)
}

func TestClick(t *testing.T) {
	tests := []struct {
		button string
		want   []string
	}{
		{"left", []string{"mouse.click 10 20 left"}},
		{"right", []string{"mouse.click 10 20 right"}},
		{"middle", []string{"mouse.click 10 20 left"}},
		{"", []string{"mouse.click 10 20 left"}},
		{"wheel", []string{"mouse.move 10 20", "mouse.wheel 10 20"}},
		{"back", []string{"page.back"}},
		{"forward", []string{"page.forward"}},
	}
	for _, tt := range tests {
		t.Run(tt.button, func(t *testing.T) {
			h := newHarness()
			c := h.open(t, nil)

			require.NoError(t, c.Click(10, 20, tt.button))
			assert.Equal(t, tt.want, h.rec.all())
		})
	}
}

func TestBackNavigationError(t *testing.T) {
	h := newHarness()
	h.page.backErr = errors.New("no history")
	c := h.open(t, nil)

	err := c.Back()
	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, "back", navErr.Verb)
	assert.ErrorIs(t, err, h.page.backErr)

	assert.ErrorAs(t, c.Click(0, 0, "back"), &navErr)
}

func TestGotoSwallowsErrors(t *testing.T) {
	h := newHarness()
	h.page.gotoErr = errors.New("timeout")
	c := h.open(t, nil)

	c.Goto("https://example.com")
	assert.Equal(t, []string{"page.goto https://example.com"}, h.rec.all())
}

func TestPointerPrimitives(t *testing.T) {
	h := newHarness()
	c := h.open(t, nil)

	require.NoError(t, c.DoubleClick(1, 2))
	require.NoError(t, c.Move(3, 4))
	require.NoError(t, c.Scroll(5, 6, 0, 300))
	require.NoError(t, c.Type("hello"))

	assert.Equal(t, []string{
		"mouse.dblclick 1 2",
		"mouse.move 3 4",
		"mouse.move 5 6",
		"page.evaluate window.scrollBy(0, 300)",
		"key.type hello",
	}, h.rec.all())
}

func TestWait(t *testing.T) {
	h := newHarness()
	c := h.open(t, nil)

	require.NoError(t, c.Wait(250))
	require.NoError(t, c.Wait(0))
	require.NoError(t, c.Wait(-5))
	assert.Equal(t, []int{250, 1000, 1000}, h.slept)
}

func TestKeypressChord(t *testing.T) {
	h := newHarness()
	c := h.open(t, nil)

	require.NoError(t, c.Keypress([]string{"ctrl", "SHIFT", "t", "ctrl"}))
	assert.Equal(t, []string{
		"key.down Control",
		"key.down Shift",
		"key.down t",
		"key.down Control",
		"key.up Control",
		"key.up t",
		"key.up Shift",
		"key.up Control",
	}, h.rec.all())
}

func TestKeypressReleasesHeldKeysOnFailure(t *testing.T) {
	h := newHarness()
	h.page.keyboard.downErr = map[string]error{"x": errors.New("unknown key")}
	c := h.open(t, nil)

	err := c.Keypress([]string{"ctrl", "alt", "x"})
	require.Error(t, err)
	assert.Equal(t, []string{
		"key.down Control",
		"key.down Alt",
		"key.down x",
		"key.up Alt",
		"key.up Control",
	}, h.rec.all())
}

func TestDrag(t *testing.T) {
	h := newHarness()
	c := h.open(t, nil)

	require.NoError(t, c.Drag(nil))
	assert.Empty(t, h.rec.all())

	require.NoError(t, c.Drag([]computer.Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 9, Y: 9}}))
	assert.Equal(t, []string{
		"mouse.move 1 1",
		"mouse.down",
		"mouse.move 5 5",
		"mouse.move 9 9",
		"mouse.up",
	}, h.rec.all())
}

func TestScreenshot(t *testing.T) {
	h := newHarness()
	h.page.screenshot = []byte("png-bytes")
	c := h.open(t, nil)

	data, err := c.Screenshot()
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), data)
}

func TestScreenshotPrefersBackendCapture(t *testing.T) {
	h := newHarness()
	backend := &capturingBackend{fakeBackend: h.backend, data: "cdp-data"}
	c := h.open(t, backend)

	data, err := c.Screenshot()
	require.NoError(t, err)
	assert.Equal(t, "cdp-data", data)
	assert.Equal(t, []string{"backend.capture"}, h.rec.all())
}

func TestScreenshotCaptureFallback(t *testing.T) {
	h := newHarness()
	h.page.screenshot = []byte("fallback")
	backend := &capturingBackend{fakeBackend: h.backend, err: errors.New("cdp detached")}
	c := h.open(t, backend)
	before := testutil.ToFloat64(metricCaptureFallbacks.WithLabelValues("fake"))

	data, err := c.Screenshot()
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fallback")), data)
	assert.Equal(t, []string{"backend.capture", "page.screenshot"}, h.rec.all())
	assert.Equal(t, before+1, testutil.ToFloat64(metricCaptureFallbacks.WithLabelValues("fake")))

	h.page.screenshotErr = errors.New("page crashed")
	_, err = c.Screenshot()
	assert.ErrorIs(t, err, h.page.screenshotErr)
}

func TestCloseHandlerReassignsCurrentPage(t *testing.T) {
	h := newHarness()
	h.page.url = "https://first.example"
	c := h.open(t, nil)

	second := h.ctx.openPopup("https://second.example")
	url, err := c.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "https://second.example", url)

	// Closing a page that is not current leaves the current page alone.
	require.NoError(t, h.page.Close())
	url, err = c.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "https://second.example", url)

	third := h.ctx.openPopup("https://third.example")
	require.NoError(t, third.Close())
	url, err = c.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "https://second.example", url)

	require.NoError(t, second.Close())
	_, err = c.CurrentURL()
	assert.ErrorIs(t, err, ErrNoPage)
	_, err = c.Screenshot()
	assert.ErrorIs(t, err, ErrNoPage)
	assert.ErrorIs(t, c.Click(1, 1, "left"), ErrNoPage)
	assert.Empty(t, c.Pages())
}

func TestDOM(t *testing.T) {
	h := newHarness()
	h.page.evalResult = map[string]interface{}{"type": "element", "tagName": "body"}
	c := h.open(t, nil)

	root, err := c.DOM()
	require.NoError(t, err)
	require.NotNil(t, root.TagName)
	assert.Equal(t, "body", *root.TagName)

	h.page.evalResult = nil
	_, err = c.DOM()
	assert.ErrorIs(t, err, dom.ErrExtraction)
}

func TestCloseContinuesAfterPageCloseFailure(t *testing.T) {
	h := newHarness()
	h.page.closeErr = errors.New("page already detached")
	c := h.open(t, nil)
	before := testutil.ToFloat64(metricSessionsClosed.WithLabelValues("fake"))

	err := c.Close()
	assert.ErrorIs(t, err, h.page.closeErr)
	assert.Equal(t, []string{
		"page.close about:blank",
		"browser.close",
		"backend.disconnect",
		"engine.stop",
	}, h.rec.all())

	h.rec.reset()
	assert.Equal(t, err, c.Close())
	assert.Empty(t, h.rec.all())
	assert.Equal(t, before+1, testutil.ToFloat64(metricSessionsClosed.WithLabelValues("fake")))

	_, err = c.CurrentURL()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestCloseJoinsEveryFailure(t *testing.T) {
	h := newHarness()
	h.browser.closeErr = errors.New("browser gone")
	h.backend.disconnectErr = errors.New("provider 500")
	h.engine.stopErr = errors.New("driver hung")
	c := h.open(t, nil)

	err := c.Close()
	assert.ErrorIs(t, err, h.browser.closeErr)
	assert.ErrorIs(t, err, h.backend.disconnectErr)
	assert.ErrorIs(t, err, h.engine.stopErr)
}
