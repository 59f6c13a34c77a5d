// Package computer defines the action and observation vocabulary an agent
// uses to drive a browser, independent of which backend hosts it.
package computer

import (
	"github.com/entrhq/bua/pkg/actions"
	"github.com/entrhq/bua/pkg/dom"
)

// Environment names the kind of surface a Computer controls.
type Environment string

// EnvironmentBrowser is the only environment implemented here.
const EnvironmentBrowser Environment = "browser"

// Mouse buttons understood by Computer.Click. Anything else is a left click.
const (
	ButtonLeft    = "left"
	ButtonRight   = "right"
	ButtonWheel   = "wheel"
	ButtonBack    = "back"
	ButtonForward = "forward"
)

// Point is a viewport coordinate in CSS pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Computer is the low-level pointer and keyboard surface.
type Computer interface {
	Environment() Environment
	Dimensions() (width, height int)
	Screenshot() (string, error)
	Click(x, y int, button string) error
	DoubleClick(x, y int) error
	Scroll(x, y, scrollX, scrollY int) error
	Type(text string) error
	Wait(ms int) error
	Move(x, y int) error
	Keypress(keys []string) error
	Drag(path []Point) error
	CurrentURL() (string, error)
}

// Browser is the page-aware surface: structured observation plus actions
// bound to elements rather than coordinates.
type Browser interface {
	Screenshot() (string, error)
	DOM() (*dom.DomTreeNode, error)
	CurrentURL() (string, error)
	ExecuteAction(action actions.Action) error
}
