package lumiteh

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) StartSession(ctx context.Context, params StartSessionParams) (*Session, error) {
	args := m.Called(ctx, params)
	session, _ := args.Get(0).(*Session)
	return session, args.Error(1)
}

func (m *mockAPI) DebugInfo(ctx context.Context, sessionID string) (*DebugInfo, error) {
	args := m.Called(ctx, sessionID)
	info, _ := args.Get(0).(*DebugInfo)
	return info, args.Error(1)
}

type fakeChromium struct {
	playwright.BrowserType
	endpoint string
	timeout  float64
	browser  *fakeBrowser
}

func (c *fakeChromium) ConnectOverCDP(endpointURL string, options ...playwright.BrowserTypeConnectOverCDPOptions) (playwright.Browser, error) {
	c.endpoint = endpointURL
	if len(options) > 0 && options[0].Timeout != nil {
		c.timeout = *options[0].Timeout
	}
	return c.browser, nil
}

type fakeBrowser struct {
	playwright.Browser
	contexts []playwright.BrowserContext
	closed   bool
}

func (b *fakeBrowser) Contexts() []playwright.BrowserContext { return b.contexts }

func (b *fakeBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.closed = true
	return nil
}

type fakeContext struct {
	playwright.BrowserContext
	pages []playwright.Page
}

func (c *fakeContext) Pages() []playwright.Page { return c.pages }

type fakePage struct {
	playwright.Page
	name string
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer lt-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/sessions/start":
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["proxies"])
			_, _ = w.Write([]byte(`{"session_id":"lt-1","status":"active"}`))
		case "/sessions/lt-1/debug":
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write([]byte(`{"debug_url":"https://view/lt-1","ws_url":"wss://cdp/lt-1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient("lt-key", srv.URL)
	session, err := c.StartSession(context.Background(), StartSessionParams{Proxies: true})
	require.NoError(t, err)
	assert.Equal(t, "lt-1", session.SessionID)

	info, err := c.DebugInfo(context.Background(), "lt-1")
	require.NoError(t, err)
	assert.Equal(t, "wss://cdp/lt-1", info.WSURL)

	_, err = c.DebugInfo(context.Background(), "missing")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	api := &mockAPI{}
	api.On("StartSession", mock.Anything, StartSessionParams{Proxies: false}).Return(&Session{SessionID: "lt-1"}, nil)
	api.On("DebugInfo", mock.Anything, "lt-1").Return(&DebugInfo{WSURL: "wss://cdp/lt-1"}, nil)

	first := &fakePage{name: "first"}
	chromium := &fakeChromium{browser: &fakeBrowser{contexts: []playwright.BrowserContext{
		&fakeContext{pages: []playwright.Page{first}},
	}}}

	b := New(api, Options{})
	br, page, err := b.Connect(context.Background(), chromium)
	require.NoError(t, err)
	api.AssertExpectations(t)

	assert.Same(t, chromium.browser, br)
	assert.Same(t, first, page)
	assert.Equal(t, "wss://cdp/lt-1", chromium.endpoint)
	assert.Equal(t, float64(60000), chromium.timeout)
	assert.Equal(t, "lt-1", b.SessionID())

	w, h := b.Dimensions()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	require.NoError(t, b.Disconnect())
	assert.Empty(t, b.SessionID())
}

func TestConnectDebugInfoFailure(t *testing.T) {
	api := &mockAPI{}
	cause := errors.New("session not ready")
	api.On("StartSession", mock.Anything, mock.Anything).Return(&Session{SessionID: "lt-2"}, nil)
	api.On("DebugInfo", mock.Anything, "lt-2").Return(nil, cause)

	chromium := &fakeChromium{}
	_, _, err := New(api, Options{}).Connect(context.Background(), chromium)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, chromium.endpoint)
}

func TestConnectNoContext(t *testing.T) {
	api := &mockAPI{}
	api.On("StartSession", mock.Anything, mock.Anything).Return(&Session{SessionID: "lt-3"}, nil)
	api.On("DebugInfo", mock.Anything, "lt-3").Return(&DebugInfo{WSURL: "wss://cdp/lt-3"}, nil)

	br := &fakeBrowser{}
	_, _, err := New(api, Options{}).Connect(context.Background(), &fakeChromium{browser: br})
	assert.Error(t, err)
	assert.True(t, br.closed)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	_, err := NewFromEnv(Options{}, "")
	assert.ErrorContains(t, err, APIKeyEnv)

	t.Setenv(APIKeyEnv, "key")
	b, err := NewFromEnv(Options{Proxy: true}, "")
	require.NoError(t, err)
	assert.True(t, b.opts.Proxy)
}
