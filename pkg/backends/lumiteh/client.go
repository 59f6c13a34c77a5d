package lumiteh

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/entrhq/bua/pkg/backends/internal/restclient"
)

// DefaultAPIURL is the provider's public API.
const DefaultAPIURL = "https://api.lumiteh.com"

// StartSessionParams is the body of a session start call.
type StartSessionParams struct {
	Proxies bool `json:"proxies"`
}

// Session is a started remote session.
type Session struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"`
}

// DebugInfo carries the endpoints for attaching to a session.
type DebugInfo struct {
	DebugURL string `json:"debug_url,omitempty"`
	WSURL    string `json:"ws_url"`
}

// API starts sessions and looks up their CDP endpoints.
type API interface {
	StartSession(ctx context.Context, params StartSessionParams) (*Session, error)
	DebugInfo(ctx context.Context, sessionID string) (*DebugInfo, error)
}

// Client talks to the session API.
type Client struct {
	rest *restclient.Client
}

var _ API = (*Client)(nil)

// NewClient returns a client authenticated with apiKey. An empty baseURL
// selects DefaultAPIURL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+apiKey)
	return &Client{rest: restclient.New(baseURL, header)}
}

// StartSession starts a remote browser.
func (c *Client) StartSession(ctx context.Context, params StartSessionParams) (*Session, error) {
	var session Session
	if err := c.rest.Do(ctx, http.MethodPost, "/sessions/start", params, &session); err != nil {
		return nil, err
	}
	if session.SessionID == "" {
		return nil, errors.New("session response is missing session_id")
	}
	return &session, nil
}

// DebugInfo fetches the CDP websocket URL of a running session.
func (c *Client) DebugInfo(ctx context.Context, sessionID string) (*DebugInfo, error) {
	var info DebugInfo
	path := "/sessions/" + url.PathEscape(sessionID) + "/debug"
	if err := c.rest.Do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	if info.WSURL == "" {
		return nil, errors.New("debug info is missing ws_url")
	}
	return &info, nil
}
