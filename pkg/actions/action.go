// Package actions models the typed actions an agent can ask a browser to
// perform. Browser actions act on the page or context as a whole.
// Interaction actions target an element that is resolved from an ordered
// list of selectors at execution time, never earlier, so a stale DOM
// snapshot cannot leak into execution.
package actions

import (
	"errors"
	"fmt"
)

// Kind discriminates the action variants.
type Kind string

const (
	KindBrowser     Kind = "browser"
	KindInteraction Kind = "interaction"
)

// Action is implemented by BrowserAction and InteractionAction. Executors
// dispatch on the concrete type and reject anything else.
type Action interface {
	Kind() Kind
	Validate() error
}

// BrowserVerb is a navigation or tab operation.
type BrowserVerb string

const (
	VerbGoto     BrowserVerb = "goto"
	VerbBack     BrowserVerb = "back"
	VerbForward  BrowserVerb = "forward"
	VerbReload   BrowserVerb = "reload"
	VerbNewTab   BrowserVerb = "new_tab"
	VerbCloseTab BrowserVerb = "close_tab"
)

var browserVerbs = map[BrowserVerb]bool{
	VerbGoto:     true,
	VerbBack:     true,
	VerbForward:  true,
	VerbReload:   true,
	VerbNewTab:   true,
	VerbCloseTab: true,
}

// BrowserParams holds the arguments of a browser verb.
type BrowserParams struct {
	URL string `json:"url,omitempty"`
}

// BrowserAction needs no element.
type BrowserAction struct {
	Verb   BrowserVerb
	Params BrowserParams
}

// Kind implements Action.
func (BrowserAction) Kind() Kind { return KindBrowser }

// Validate checks the verb is known and its required params are present.
func (a BrowserAction) Validate() error {
	if !browserVerbs[a.Verb] {
		return fmt.Errorf("%w: browser verb %q", ErrUnknownVerb, a.Verb)
	}
	if a.Verb == VerbGoto && a.Params.URL == "" {
		return fmt.Errorf("%w: goto requires url", ErrInvalidParams)
	}
	return nil
}

// Goto returns a navigation action.
func Goto(url string) BrowserAction {
	return BrowserAction{Verb: VerbGoto, Params: BrowserParams{URL: url}}
}

// InteractionVerb is an element-level operation.
type InteractionVerb string

const (
	VerbClick          InteractionVerb = "click"
	VerbDoubleClick    InteractionVerb = "double_click"
	VerbFill           InteractionVerb = "fill"
	VerbType           InteractionVerb = "type"
	VerbPress          InteractionVerb = "press"
	VerbSelect         InteractionVerb = "select"
	VerbCheck          InteractionVerb = "check"
	VerbUncheck        InteractionVerb = "uncheck"
	VerbHover          InteractionVerb = "hover"
	VerbFocus          InteractionVerb = "focus"
	VerbClear          InteractionVerb = "clear"
	VerbScrollIntoView InteractionVerb = "scroll_into_view"
)

var interactionVerbs = map[InteractionVerb]bool{
	VerbClick:          true,
	VerbDoubleClick:    true,
	VerbFill:           true,
	VerbType:           true,
	VerbPress:          true,
	VerbSelect:         true,
	VerbCheck:          true,
	VerbUncheck:        true,
	VerbHover:          true,
	VerbFocus:          true,
	VerbClear:          true,
	VerbScrollIntoView: true,
}

// InteractionParams holds the arguments of an interaction verb. Only the
// fields relevant to the verb are read.
type InteractionParams struct {
	Button     string   `json:"button,omitempty"`
	ClickCount int      `json:"click_count,omitempty"`
	Value      string   `json:"value,omitempty"`
	Text       string   `json:"text,omitempty"`
	DelayMS    int      `json:"delay_ms,omitempty"`
	Key        string   `json:"key,omitempty"`
	Values     []string `json:"values,omitempty"`
}

// InteractionAction targets the first element matched by Selectors.
type InteractionAction struct {
	Verb      InteractionVerb
	Params    InteractionParams
	Selectors []Selector
}

// Kind implements Action.
func (InteractionAction) Kind() Kind { return KindInteraction }

// Validate checks the verb, its params and that at least one selector is set.
func (a InteractionAction) Validate() error {
	if !interactionVerbs[a.Verb] {
		return fmt.Errorf("%w: interaction verb %q", ErrUnknownVerb, a.Verb)
	}
	if len(a.Selectors) == 0 {
		return ErrNoSelectors
	}
	// Invalid descriptors are skipped during resolution, so only an action
	// with no usable selector at all is rejected.
	var selErrs []error
	for i, s := range a.Selectors {
		if err := s.Validate(); err != nil {
			selErrs = append(selErrs, fmt.Errorf("selector %d: %w", i, err))
		}
	}
	if len(selErrs) == len(a.Selectors) {
		return errors.Join(selErrs...)
	}
	switch a.Verb {
	case VerbPress:
		if a.Params.Key == "" {
			return fmt.Errorf("%w: press requires key", ErrInvalidParams)
		}
	case VerbSelect:
		if len(a.Params.Values) == 0 {
			return fmt.Errorf("%w: select requires values", ErrInvalidParams)
		}
	case VerbClick:
		switch a.Params.Button {
		case "", "left", "right", "middle":
		default:
			return fmt.Errorf("%w: unknown button %q", ErrInvalidParams, a.Params.Button)
		}
	}
	return nil
}

// Click returns a left click on the first element matched by selectors.
func Click(selectors ...Selector) InteractionAction {
	return InteractionAction{Verb: VerbClick, Selectors: selectors}
}

// Fill returns an action replacing the value of an input.
func Fill(value string, selectors ...Selector) InteractionAction {
	return InteractionAction{Verb: VerbFill, Params: InteractionParams{Value: value}, Selectors: selectors}
}
