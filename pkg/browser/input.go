package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/bua/pkg/computer"
)

// Click dispatches on button: "back" and "forward" navigate, "wheel" scrolls
// the wheel at the point, "right" right-clicks and anything else left-clicks.
func (c *Computer) Click(x, y int, button string) error {
	switch button {
	case computer.ButtonBack:
		return c.Back()
	case computer.ButtonForward:
		return c.Forward()
	}

	page, err := c.page()
	if err != nil {
		return err
	}
	mouse := page.Mouse()
	fx, fy := float64(x), float64(y)

	switch button {
	case computer.ButtonWheel:
		if err := mouse.Move(fx, fy); err != nil {
			return fmt.Errorf("failed to move pointer: %w", err)
		}
		// The coordinates double as wheel deltas.
		if err := mouse.Wheel(fx, fy); err != nil {
			return fmt.Errorf("failed to wheel: %w", err)
		}
		return nil
	case computer.ButtonRight:
		if err := mouse.Click(fx, fy, playwright.MouseClickOptions{Button: playwright.MouseButtonRight}); err != nil {
			return fmt.Errorf("failed to right click at (%d, %d): %w", x, y, err)
		}
		return nil
	default:
		if err := mouse.Click(fx, fy, playwright.MouseClickOptions{Button: playwright.MouseButtonLeft}); err != nil {
			return fmt.Errorf("failed to click at (%d, %d): %w", x, y, err)
		}
		return nil
	}
}

// DoubleClick double-clicks at the point.
func (c *Computer) DoubleClick(x, y int) error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if err := page.Mouse().Dblclick(float64(x), float64(y)); err != nil {
		return fmt.Errorf("failed to double click at (%d, %d): %w", x, y, err)
	}
	return nil
}

// Scroll moves the pointer to the point and scrolls the window by the deltas.
func (c *Computer) Scroll(x, y, scrollX, scrollY int) error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}
	if _, err := page.Evaluate(fmt.Sprintf("window.scrollBy(%d, %d)", scrollX, scrollY)); err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

// Type types text into whatever has focus.
func (c *Computer) Type(text string) error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if err := page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("failed to type: %w", err)
	}
	return nil
}

// Wait blocks the caller for ms milliseconds, or one second when ms <= 0.
func (c *Computer) Wait(ms int) error {
	if ms <= 0 {
		ms = DefaultWaitMS
	}
	c.sleep(time.Duration(ms) * time.Millisecond)
	return nil
}

// Move moves the pointer.
func (c *Computer) Move(x, y int) error {
	page, err := c.page()
	if err != nil {
		return err
	}
	if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}
	return nil
}

// Keypress presses a chord: every key goes down in order, then up in reverse.
// If a key fails to go down, keys already held are released before returning.
func (c *Computer) Keypress(keys []string) error {
	page, err := c.page()
	if err != nil {
		return err
	}
	keyboard := page.Keyboard()
	mapped := computer.MapKeys(keys)

	for i, key := range mapped {
		if err := keyboard.Down(key); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = keyboard.Up(mapped[j])
			}
			return fmt.Errorf("failed to press %q: %w", key, err)
		}
	}
	for i := len(mapped) - 1; i >= 0; i-- {
		if err := keyboard.Up(mapped[i]); err != nil {
			return fmt.Errorf("failed to release %q: %w", mapped[i], err)
		}
	}
	return nil
}

// Drag presses at the first point, moves through the rest and releases.
// An empty path does nothing.
func (c *Computer) Drag(path []computer.Point) error {
	if len(path) == 0 {
		return nil
	}
	page, err := c.page()
	if err != nil {
		return err
	}
	mouse := page.Mouse()

	if err := mouse.Move(float64(path[0].X), float64(path[0].Y)); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}
	if err := mouse.Down(); err != nil {
		return fmt.Errorf("failed to press mouse: %w", err)
	}
	for _, p := range path[1:] {
		if err := mouse.Move(float64(p.X), float64(p.Y)); err != nil {
			_ = mouse.Up()
			return fmt.Errorf("failed to move pointer: %w", err)
		}
	}
	if err := mouse.Up(); err != nil {
		return fmt.Errorf("failed to release mouse: %w", err)
	}
	return nil
}
