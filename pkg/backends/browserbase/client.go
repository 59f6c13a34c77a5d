package browserbase

import (
	"context"
	"errors"
	"net/http"

	"github.com/entrhq/bua/pkg/backends/internal/restclient"
)

// DefaultAPIURL is the provider's public API.
const DefaultAPIURL = "https://api.browserbase.com"

// Viewport is the session's browser window size.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BrowserSettings configures the remote browser.
type BrowserSettings struct {
	Viewport Viewport `json:"viewport"`
	BlockAds bool     `json:"blockAds"`
}

// CreateSessionParams is the body of a session create call.
type CreateSessionParams struct {
	ProjectID       string          `json:"projectId"`
	BrowserSettings BrowserSettings `json:"browserSettings"`
	Region          string          `json:"region,omitempty"`
	Proxies         bool            `json:"proxies"`
}

// Session is a created remote session.
type Session struct {
	ID         string `json:"id"`
	ConnectURL string `json:"connectUrl"`
	Status     string `json:"status,omitempty"`
	Region     string `json:"region,omitempty"`
}

// API creates sessions. Client implements it against the real service.
type API interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
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
	header.Set("X-BB-API-Key", apiKey)
	return &Client{rest: restclient.New(baseURL, header)}
}

// CreateSession starts a new remote browser.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	var session Session
	if err := c.rest.Do(ctx, http.MethodPost, "/v1/sessions", params, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.ConnectURL == "" {
		return nil, errors.New("session response is missing id or connectUrl")
	}
	return &session, nil
}
