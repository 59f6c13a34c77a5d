// Package computeruse maps computer-use tool calls onto a browser session.
package computeruse

import (
	"github.com/entrhq/bua/pkg/computer"
	"github.com/entrhq/bua/pkg/tools"
)

// Target is what the tools drive: the pointer/keyboard surface plus page
// navigation and structured observation.
type Target interface {
	computer.Computer
	computer.Browser
	Goto(url string)
	Back() error
	Forward() error
}

// Tools returns every computer-use tool bound to target.
func Tools(target Target) []tools.Tool {
	return []tools.Tool{
		&ClickTool{target: target},
		&DoubleClickTool{target: target},
		&ScrollTool{target: target},
		&TypeTool{target: target},
		&WaitTool{target: target},
		&MoveTool{target: target},
		&KeypressTool{target: target},
		&DragTool{target: target},
		&ScreenshotTool{target: target},
		&CurrentURLTool{target: target},
		&GotoTool{target: target},
		&BackTool{target: target},
		&ForwardTool{target: target},
		&DOMTool{target: target},
		&ExecuteActionTool{target: target},
	}
}

// NewRegistry returns a registry holding Tools(target).
func NewRegistry(target Target) *tools.Registry {
	return tools.NewRegistry(Tools(target)...)
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func pointProps() map[string]interface{} {
	return map[string]interface{}{
		"x": intProp("Horizontal viewport coordinate in pixels"),
		"y": intProp("Vertical viewport coordinate in pixels"),
	}
}

// requirePoint validates x and y were supplied.
func requirePoint(x, y *int) error {
	if x == nil {
		return tools.Missing("x")
	}
	if y == nil {
		return tools.Missing("y")
	}
	return nil
}
