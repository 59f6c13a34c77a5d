// Package sessions exposes browser session lifecycle as agent tools so one
// agent can keep several named sessions open at once.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/bua/pkg/browser"
	"github.com/entrhq/bua/pkg/tools"
)

// Sessions is the part of browser.Manager the tools use.
type Sessions interface {
	Open(ctx context.Context, name string, backend browser.Backend, opts ...browser.Option) (*browser.Computer, error)
	List() []browser.SessionInfo
	Close(name string) error
	CloseIdle(timeout time.Duration) ([]string, error)
}

var _ Sessions = (*browser.Manager)(nil)

// BackendFactory builds a backend by name. An empty name selects the
// configured default.
type BackendFactory func(name string) (browser.Backend, error)

// Tools returns the session lifecycle tools.
func Tools(manager Sessions, backends BackendFactory) []tools.Tool {
	return []tools.Tool{
		&StartSessionTool{manager: manager, backends: backends, now: time.Now},
		&ListSessionsTool{manager: manager, now: time.Now},
		&CloseSessionTool{manager: manager},
		&CloseIdleSessionsTool{manager: manager},
	}
}

// StartSessionTool opens a named session.
type StartSessionTool struct {
	manager  Sessions
	backends BackendFactory
	now      func() time.Time
}

func (t *StartSessionTool) Name() string { return "start_browser_session" }

func (t *StartSessionTool) Description() string {
	return "Open a named browser session. Sessions stay open across tool calls until closed."
}

func (t *StartSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Unique name for the session (e.g. 'research', 'checkout')",
		},
		"backend": map[string]interface{}{
			"type":        "string",
			"description": "local, browserbase or lumiteh. Defaults to the configured backend.",
		},
		"url": map[string]interface{}{
			"type":        "string",
			"description": "Page to open first. Defaults to the configured start URL.",
		},
	}, []string{"name"})
}

func (t *StartSessionTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Name    string  `json:"name"`
		Backend string  `json:"backend"`
		URL     *string `json:"url"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return "", nil, tools.Missing("name")
	}

	backend, err := t.backends(input.Backend)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", tools.ErrInvalidArguments, err)
	}

	var opts []browser.Option
	if input.URL != nil {
		opts = append(opts, browser.WithStartURL(*input.URL))
	}

	if _, err := t.manager.Open(ctx, input.Name, backend, opts...); err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	width, height := backend.Dimensions()
	return fmt.Sprintf("Started %s session '%s' (%dx%d)", backend.Name(), input.Name, width, height),
		map[string]interface{}{"session": input.Name, "backend": backend.Name()}, nil
}

// ListSessionsTool lists the open sessions.
type ListSessionsTool struct {
	manager Sessions
	now     func() time.Time
}

func (t *ListSessionsTool) Name() string { return "list_browser_sessions" }

func (t *ListSessionsTool) Description() string {
	return "List the open browser sessions with their backend, URL and idle time."
}

func (t *ListSessionsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, []string{})
}

func (t *ListSessionsTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct{}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}

	sessions := t.manager.List()
	if len(sessions) == 0 {
		return "No open browser sessions.", map[string]interface{}{"count": 0}, nil
	}

	now := t.now()
	var b strings.Builder
	fmt.Fprintf(&b, "Open browser sessions: %d\n", len(sessions))
	for i, s := range sessions {
		fmt.Fprintf(&b, "%d. %s [%s] %s (age %s, idle %s)\n",
			i+1, s.Name, s.Backend, s.CurrentURL,
			formatDuration(now.Sub(s.CreatedAt)), formatDuration(now.Sub(s.LastUsedAt)))
	}
	return b.String(), map[string]interface{}{"count": len(sessions)}, nil
}

// CloseSessionTool closes one session.
type CloseSessionTool struct {
	manager Sessions
}

func (t *CloseSessionTool) Name() string { return "close_browser_session" }

func (t *CloseSessionTool) Description() string {
	return "Close a named browser session and release its browser."
}

func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"session": map[string]interface{}{
			"type":        "string",
			"description": "Name of the session to close",
		},
	}, []string{"session"})
}

func (t *CloseSessionTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Session string `json:"session"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Session == "" {
		return "", nil, tools.Missing("session")
	}
	if err := t.manager.Close(input.Session); err != nil {
		return "", nil, fmt.Errorf("failed to close session: %w", err)
	}
	return fmt.Sprintf("Closed session '%s'", input.Session), nil, nil
}

// CloseIdleSessionsTool closes sessions unused for longer than a timeout.
type CloseIdleSessionsTool struct {
	manager Sessions
}

func (t *CloseIdleSessionsTool) Name() string { return "close_idle_browser_sessions" }

func (t *CloseIdleSessionsTool) Description() string {
	return "Close every browser session that has not been used for the given number of seconds."
}

func (t *CloseIdleSessionsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"idle_seconds": map[string]interface{}{
			"type":        "integer",
			"description": "Idle time after which a session is closed",
		},
	}, []string{"idle_seconds"})
}

func (t *CloseIdleSessionsTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		IdleSeconds *int `json:"idle_seconds"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.IdleSeconds == nil {
		return "", nil, tools.Missing("idle_seconds")
	}
	if *input.IdleSeconds < 0 {
		return "", nil, fmt.Errorf("%w: idle_seconds cannot be negative", tools.ErrInvalidArguments)
	}

	closed, err := t.manager.CloseIdle(time.Duration(*input.IdleSeconds) * time.Second)
	meta := map[string]interface{}{"closed": closed}
	if err != nil {
		return "", meta, err
	}
	if len(closed) == 0 {
		return "No idle sessions.", meta, nil
	}
	return fmt.Sprintf("Closed %d idle session(s): %s", len(closed), strings.Join(closed, ", ")), meta, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
