package computeruse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/bua/pkg/computer"
	"github.com/entrhq/bua/pkg/tools"
)

// ClickTool clicks at a viewport coordinate.
type ClickTool struct {
	target Target
}

func (t *ClickTool) Name() string { return "click" }

func (t *ClickTool) Description() string {
	return "Click at a point in the viewport. button is left (default), right, wheel, back or forward; back and forward navigate history."
}

func (t *ClickTool) Schema() map[string]interface{} {
	props := pointProps()
	props["button"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{computer.ButtonLeft, computer.ButtonRight, computer.ButtonWheel, computer.ButtonBack, computer.ButtonForward},
		"description": "Mouse button",
	}
	return tools.BaseToolSchema(props, []string{"x", "y"})
}

func (t *ClickTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		X      *int   `json:"x"`
		Y      *int   `json:"y"`
		Button string `json:"button"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if err := requirePoint(input.X, input.Y); err != nil {
		return "", nil, err
	}
	button := input.Button
	if button == "" {
		button = computer.ButtonLeft
	}
	if err := t.target.Click(*input.X, *input.Y, button); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Clicked %s at (%d, %d)", button, *input.X, *input.Y), nil, nil
}

// DoubleClickTool double-clicks at a viewport coordinate.
type DoubleClickTool struct {
	target Target
}

func (t *DoubleClickTool) Name() string        { return "double_click" }
func (t *DoubleClickTool) Description() string { return "Double-click at a point in the viewport." }

func (t *DoubleClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(pointProps(), []string{"x", "y"})
}

func (t *DoubleClickTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if err := requirePoint(input.X, input.Y); err != nil {
		return "", nil, err
	}
	if err := t.target.DoubleClick(*input.X, *input.Y); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Double-clicked at (%d, %d)", *input.X, *input.Y), nil, nil
}

// ScrollTool scrolls the window with the pointer over a point.
type ScrollTool struct {
	target Target
}

func (t *ScrollTool) Name() string { return "scroll" }

func (t *ScrollTool) Description() string {
	return "Move the pointer to (x, y) and scroll the page by (scroll_x, scroll_y) pixels."
}

func (t *ScrollTool) Schema() map[string]interface{} {
	props := pointProps()
	props["scroll_x"] = intProp("Horizontal scroll distance in pixels")
	props["scroll_y"] = intProp("Vertical scroll distance in pixels; positive scrolls down")
	return tools.BaseToolSchema(props, []string{"x", "y", "scroll_x", "scroll_y"})
}

func (t *ScrollTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		X       *int `json:"x"`
		Y       *int `json:"y"`
		ScrollX *int `json:"scroll_x"`
		ScrollY *int `json:"scroll_y"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if err := requirePoint(input.X, input.Y); err != nil {
		return "", nil, err
	}
	if input.ScrollX == nil {
		return "", nil, tools.Missing("scroll_x")
	}
	if input.ScrollY == nil {
		return "", nil, tools.Missing("scroll_y")
	}
	if err := t.target.Scroll(*input.X, *input.Y, *input.ScrollX, *input.ScrollY); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Scrolled by (%d, %d)", *input.ScrollX, *input.ScrollY), nil, nil
}

// MoveTool moves the pointer.
type MoveTool struct {
	target Target
}

func (t *MoveTool) Name() string        { return "move" }
func (t *MoveTool) Description() string { return "Move the mouse pointer to a point in the viewport." }

func (t *MoveTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(pointProps(), []string{"x", "y"})
}

func (t *MoveTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if err := requirePoint(input.X, input.Y); err != nil {
		return "", nil, err
	}
	if err := t.target.Move(*input.X, *input.Y); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Moved pointer to (%d, %d)", *input.X, *input.Y), nil, nil
}

// DragTool drags along a path.
type DragTool struct {
	target Target
}

func (t *DragTool) Name() string { return "drag" }

func (t *DragTool) Description() string {
	return "Press the mouse at the first point of path, move through the remaining points and release."
}

func (t *DragTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "array",
			"description": "Points to drag through, in order",
			"items": map[string]interface{}{
				"type":       "object",
				"properties": pointProps(),
				"required":   []string{"x", "y"},
			},
		},
	}, []string{"path"})
}

func (t *DragTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Path []computer.Point `json:"path"`
	}
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Path == nil {
		return "", nil, tools.Missing("path")
	}
	if err := t.target.Drag(input.Path); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Dragged through %d points", len(input.Path)), nil, nil
}
