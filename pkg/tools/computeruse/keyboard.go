package computeruse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/bua/pkg/tools"
)

// TypeTool types text into the focused element.
type TypeTool struct {
	target Target
}

func (t *TypeTool) Name() string        { return "type" }
func (t *TypeTool) Description() string { return "Type text into whatever currently has keyboard focus." }

func (t *TypeTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"text": stringProp("Text to type"),
	}, []string{"text"})
}

func (t *TypeTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Text *string `json:"text"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Text == nil {
		return "", nil, tools.Missing("text")
	}
	if err := t.target.Type(*input.Text); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Typed %d characters", len([]rune(*input.Text))), nil, nil
}

// KeypressTool presses a key chord.
type KeypressTool struct {
	target Target
}

func (t *KeypressTool) Name() string { return "keypress" }

func (t *KeypressTool) Description() string {
	return "Press a key combination. Keys go down in order and are released in reverse, e.g. [\"ctrl\", \"shift\", \"t\"]."
}

func (t *KeypressTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"keys": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Key names such as ctrl, enter, esc, arrowdown or single characters",
		},
	}, []string{"keys"})
}

func (t *KeypressTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Keys []string `json:"keys"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if len(input.Keys) == 0 {
		return "", nil, tools.Missing("keys")
	}
	if err := t.target.Keypress(input.Keys); err != nil {
		return "", nil, err
	}
	return "Pressed " + strings.Join(input.Keys, "+"), nil, nil
}

// WaitTool pauses the agent.
type WaitTool struct {
	target Target
}

func (t *WaitTool) Name() string { return "wait" }

func (t *WaitTool) Description() string {
	return "Wait for the page to change. ms defaults to 1000."
}

func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"ms": intProp("Milliseconds to wait"),
	}, nil)
}

func (t *WaitTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		MS int `json:"ms"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	start := time.Now()
	if err := t.target.Wait(input.MS); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Waited %s", time.Since(start).Round(time.Millisecond)), nil, nil
}
