package computeruse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/bua/pkg/actions"
	"github.com/entrhq/bua/pkg/tools"
)

// GotoTool navigates to a URL.
type GotoTool struct {
	target Target
}

func (t *GotoTool) Name() string { return "goto" }

func (t *GotoTool) Description() string {
	return "Navigate the current page to a URL. Load failures are not reported; check current_url or take a screenshot."
}

func (t *GotoTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"url": stringProp("Absolute URL to open"),
	}, []string{"url"})
}

func (t *GotoTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.URL == "" {
		return "", nil, tools.Missing("url")
	}
	t.target.Goto(input.URL)
	current, err := t.target.CurrentURL()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Navigated to %s (now at %s)", input.URL, current), nil, nil
}

// BackTool goes back in history.
type BackTool struct {
	target Target
}

func (t *BackTool) Name() string        { return "back" }
func (t *BackTool) Description() string { return "Go back one entry in the current page's history." }

func (t *BackTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *BackTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	if err := tools.DecodeArgs(args, &struct{}{}); err != nil {
		return "", nil, err
	}
	if err := t.target.Back(); err != nil {
		return "", nil, err
	}
	return navigatedTo(t.target)
}

// ForwardTool goes forward in history.
type ForwardTool struct {
	target Target
}

func (t *ForwardTool) Name() string        { return "forward" }
func (t *ForwardTool) Description() string { return "Go forward one entry in the current page's history." }

func (t *ForwardTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *ForwardTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	if err := tools.DecodeArgs(args, &struct{}{}); err != nil {
		return "", nil, err
	}
	if err := t.target.Forward(); err != nil {
		return "", nil, err
	}
	return navigatedTo(t.target)
}

func navigatedTo(target Target) (string, map[string]interface{}, error) {
	current, err := target.CurrentURL()
	if err != nil {
		return "", nil, err
	}
	return "Now at " + current, nil, nil
}

// ExecuteActionTool runs a typed action document.
type ExecuteActionTool struct {
	target Target
}

func (t *ExecuteActionTool) Name() string { return "execute_action" }

func (t *ExecuteActionTool) Description() string {
	return `Run a typed action. Browser actions: {"kind":"browser","verb":"goto|back|forward|reload|new_tab|close_tab","params":{"url":...}}. ` +
		`Interaction actions target an element: {"kind":"interaction","verb":"click|double_click|fill|type|press|select|check|uncheck|hover|focus|clear|scroll_into_view","params":{...},"selectors":[{"strategy":"css|xpath|text|role|test_id|placeholder|label","value":...,"name":...}]}. ` +
		`Selectors are tried in order and the first that matches is used.`
}

func (t *ExecuteActionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"kind": map[string]interface{}{
			"type": "string",
			"enum": []string{string(actions.KindBrowser), string(actions.KindInteraction)},
		},
		"verb":   stringProp("Action verb"),
		"params": map[string]interface{}{"type": "object", "description": "Verb arguments"},
		"selectors": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"strategy": stringProp("css (default), xpath, text, role, test_id, placeholder or label"),
					"value":    stringProp("Selector value, or ARIA role for role selectors"),
					"name":     stringProp("Accessible name for role selectors"),
					"exact":    map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"value"},
			},
		},
	}, []string{"kind", "verb"})
}

func (t *ExecuteActionTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	action, err := actions.Decode(args)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", tools.ErrInvalidArguments, err)
	}
	if err := t.target.ExecuteAction(action); err != nil {
		return "", nil, err
	}
	current, err := t.target.CurrentURL()
	if err != nil {
		// close_tab may leave no page behind.
		return fmt.Sprintf("Executed %s action", action.Kind()), nil, nil
	}
	return fmt.Sprintf("Executed %s action (now at %s)", action.Kind(), current), nil, nil
}
