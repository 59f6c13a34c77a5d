package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/tools"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Open(ctx context.Context, name string, backend browser.Backend, opts ...browser.Option) (*browser.Computer, error) {
	args := m.Called(name, backend.Name(), len(opts))
	return nil, args.Error(0)
}

func (m *mockSessions) List() []browser.SessionInfo {
	return m.Called().Get(0).([]browser.SessionInfo)
}

func (m *mockSessions) Close(name string) error {
	return m.Called(name).Error(0)
}

func (m *mockSessions) CloseIdle(timeout time.Duration) ([]string, error) {
	args := m.Called(timeout)
	return args.Get(0).([]string), args.Error(1)
}

type stubBackend struct{ name string }

func (b stubBackend) Name() string           { return b.name }
func (b stubBackend) Dimensions() (int, int) { return 1024, 768 }
func (b stubBackend) Disconnect() error      { return nil }

func (b stubBackend) Connect(ctx context.Context, chromium playwright.BrowserType) (playwright.Browser, playwright.Page, error) {
	return nil, nil, errors.New("not connectable")
}

func factory(name string) (browser.Backend, error) {
	switch name {
	case "":
		return stubBackend{name: "local"}, nil
	case "local", "browserbase":
		return stubBackend{name: name}, nil
	}
	return nil, errors.New("unknown backend: " + name)
}

func registry(m *mockSessions) *tools.Registry {
	r := tools.NewRegistry(Tools(m, factory)...)
	return r
}

func exec(t *testing.T, m *mockSessions, name, args string) (string, map[string]interface{}, error) {
	t.Helper()
	return registry(m).Execute(context.Background(), name, json.RawMessage(args))
}

func TestStartSession(t *testing.T) {
	m := &mockSessions{}
	m.On("Open", "research", "browserbase", 1).Return(nil).Once()

	out, meta, err := exec(t, m, "start_browser_session", `{"name":"research","backend":"browserbase","url":"https://example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "Started browserbase session 'research' (1024x768)", out)
	assert.Equal(t, "browserbase", meta["backend"])
	m.AssertExpectations(t)
}

func TestStartSessionDefaultsBackend(t *testing.T) {
	m := &mockSessions{}
	m.On("Open", "a", "local", 0).Return(nil).Once()

	_, _, err := exec(t, m, "start_browser_session", `{"name":"a"}`)
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestStartSessionErrors(t *testing.T) {
	m := &mockSessions{}

	_, _, err := exec(t, m, "start_browser_session", `{"name":"  "}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	_, _, err = exec(t, m, "start_browser_session", `{"name":"a","backend":"firefox"}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	m.On("Open", "a", "local", 0).Return(errors.New("limit reached")).Once()
	_, _, err = exec(t, m, "start_browser_session", `{"name":"a"}`)
	assert.ErrorContains(t, err, "failed to start session: limit reached")

	m.AssertExpectations(t)
}

func TestListSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &mockSessions{}
	m.On("List").Return([]browser.SessionInfo{
		{Name: "a", Backend: "local", CurrentURL: "https://a.example/", CreatedAt: now.Add(-90 * time.Minute), LastUsedAt: now.Add(-30 * time.Second)},
		{Name: "b", Backend: "lumiteh", CurrentURL: "https://b.example/", CreatedAt: now.Add(-5 * time.Minute), LastUsedAt: now.Add(-2 * time.Minute)},
	}).Once()

	tool := &ListSessionsTool{manager: m, now: func() time.Time { return now }}
	out, meta, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Open browser sessions: 2\n"+
		"1. a [local] https://a.example/ (age 1h 30m, idle 30s)\n"+
		"2. b [lumiteh] https://b.example/ (age 5m, idle 2m)\n", out)
	assert.Equal(t, 2, meta["count"])
}

func TestListSessionsEmpty(t *testing.T) {
	m := &mockSessions{}
	m.On("List").Return([]browser.SessionInfo{}).Once()

	out, _, err := exec(t, m, "list_browser_sessions", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "No open browser sessions.", out)
}

func TestCloseSession(t *testing.T) {
	m := &mockSessions{}
	m.On("Close", "a").Return(nil).Once()
	m.On("Close", "ghost").Return(errors.New("session not found")).Once()

	out, _, err := exec(t, m, "close_browser_session", `{"session":"a"}`)
	require.NoError(t, err)
	assert.Equal(t, "Closed session 'a'", out)

	_, _, err = exec(t, m, "close_browser_session", `{"session":"ghost"}`)
	assert.ErrorContains(t, err, "session not found")

	_, _, err = exec(t, m, "close_browser_session", `{}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	m.AssertExpectations(t)
}

func TestCloseIdleSessions(t *testing.T) {
	m := &mockSessions{}
	m.On("CloseIdle", 5*time.Minute).Return([]string{"a", "b"}, nil).Once()
	m.On("CloseIdle", time.Duration(0)).Return([]string{}, nil).Once()

	out, meta, err := exec(t, m, "close_idle_browser_sessions", `{"idle_seconds":300}`)
	require.NoError(t, err)
	assert.Equal(t, "Closed 2 idle session(s): a, b", out)
	assert.Equal(t, []string{"a", "b"}, meta["closed"])

	out, _, err = exec(t, m, "close_idle_browser_sessions", `{"idle_seconds":0}`)
	require.NoError(t, err)
	assert.Equal(t, "No idle sessions.", out)

	_, _, err = exec(t, m, "close_idle_browser_sessions", `{}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	_, _, err = exec(t, m, "close_idle_browser_sessions", `{"idle_seconds":-1}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	m.AssertExpectations(t)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "3m", formatDuration(3*time.Minute+10*time.Second))
	assert.Equal(t, "2h 5m", formatDuration(2*time.Hour+5*time.Minute))
}
