package computeruse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/bua/pkg/dom"
	"github.com/entrhq/bua/pkg/tools"
)

// ScreenshotTool captures the viewport.
type ScreenshotTool struct {
	target Target
}

func (t *ScreenshotTool) Name() string { return "screenshot" }

func (t *ScreenshotTool) Description() string {
	return "Capture the visible viewport as a PNG image."
}

func (t *ScreenshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *ScreenshotTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	if err := tools.DecodeArgs(args, &struct{}{}); err != nil {
		return "", nil, err
	}
	data, err := t.target.Screenshot()
	if err != nil {
		return "", nil, err
	}
	w, h := t.target.Dimensions()
	return fmt.Sprintf("Captured %dx%d viewport", w, h), map[string]interface{}{
		"media_type": "image/png",
		"data":       data,
	}, nil
}

// CurrentURLTool reports the current page URL.
type CurrentURLTool struct {
	target Target
}

func (t *CurrentURLTool) Name() string        { return "current_url" }
func (t *CurrentURLTool) Description() string { return "Return the URL of the current page." }

func (t *CurrentURLTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *CurrentURLTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	if err := tools.DecodeArgs(args, &struct{}{}); err != nil {
		return "", nil, err
	}
	url, err := t.target.CurrentURL()
	if err != nil {
		return "", nil, err
	}
	return url, nil, nil
}

// DOMTool lists the interactive elements of the current page.
type DOMTool struct {
	target Target
}

func (t *DOMTool) Name() string { return "dom" }

func (t *DOMTool) Description() string {
	return "List the interactive elements of the current page as [index]<tag attributes>text</tag> lines. Indexes are only valid until the page changes."
}

func (t *DOMTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *DOMTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	if err := tools.DecodeArgs(args, &struct{}{}); err != nil {
		return "", nil, err
	}
	root, err := t.target.DOM()
	if err != nil {
		return "", nil, err
	}
	listing := dom.Render(root)
	if listing == "" {
		listing = "No interactive elements found.\n"
	}
	return listing, map[string]interface{}{
		"interactive_count": len(root.Interactive()),
	}, nil
}
